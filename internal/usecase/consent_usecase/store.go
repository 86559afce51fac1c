package consent

import (
	"time"

	"consentform/internal/repository"
)

// Store は保存先。未設定なら Unavailable（デモ用の擬似送信）
type Store struct {
	repo repository.ConsentRepository
}

func ConfiguredStore(repo repository.ConsentRepository) Store {
	return Store{repo: repo}
}

func UnavailableStore() Store {
	return Store{}
}

func (s Store) Available() bool {
	return s.repo != nil
}

// 擬似送信の待ち時間
const DefaultSimulatedDelay = time.Second

// 待機（テストで差し替える）
type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}
