package consent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Controller は1セッション分のフォーム状態を持ち、検証と1回の送信を行う。
// 状態の変更はすべて Snapshot として返し、購読者にも通知する。
type Controller struct {
	mu sync.Mutex

	store   Store
	sleeper Sleeper
	delay   time.Duration
	logger  *log.Logger

	draft         Draft
	errors        FieldErrors
	status        Status
	submitting    bool
	lookupVisible bool

	subscribers []subscriber
	nextSubID   int
}

type Option func(*Controller)

func WithSleeper(s Sleeper) Option {
	return func(c *Controller) { c.sleeper = s }
}

func WithSimulatedDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// DI
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		sleeper: realSleeper{},
		delay:   DefaultSimulatedDelay,
		logger:  log.New("consent"),
		status:  StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot は現在の状態を返す。
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe は状態が変わるたびに fn を呼ぶ。戻り値で解除する。
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// UpdateField はフィールドを更新し、そのフィールドのエラーだけ消す。
func (c *Controller) UpdateField(field Field, value string) (Snapshot, error) {
	c.mu.Lock()
	if c.status == StatusSuccess {
		return c.unlock(), ErrSessionClosed
	}

	switch field {
	case FieldName:
		c.draft.Name = value
		c.errors.Name = ""
	case FieldPhone:
		c.draft.Phone = value
		c.errors.Phone = ""
	case FieldDetailAddress:
		c.draft.DetailAddress = value
	default:
		return c.unlock(), fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return c.unlockAndPublish(), nil
}

// SetAgreed は同意チェックを切り替える。
func (c *Controller) SetAgreed(agreed bool) (Snapshot, error) {
	c.mu.Lock()
	if c.status == StatusSuccess {
		return c.unlock(), ErrSessionClosed
	}

	c.draft.Agreed = agreed
	c.errors.Agreed = ""
	return c.unlockAndPublish(), nil
}

// ToggleAgreed は同意チェックを反転する（読みと書きを同じロックで行う）。
func (c *Controller) ToggleAgreed() (Snapshot, error) {
	c.mu.Lock()
	if c.status == StatusSuccess {
		return c.unlock(), ErrSessionClosed
	}

	c.draft.Agreed = !c.draft.Agreed
	c.errors.Agreed = ""
	return c.unlockAndPublish(), nil
}

func (c *Controller) OpenAddressLookup() (Snapshot, error) {
	return c.setLookupVisible(true)
}

func (c *Controller) CloseAddressLookup() (Snapshot, error) {
	return c.setLookupVisible(false)
}

func (c *Controller) setLookupVisible(visible bool) (Snapshot, error) {
	c.mu.Lock()
	if c.status == StatusSuccess {
		return c.unlock(), ErrSessionClosed
	}

	c.lookupVisible = visible
	return c.unlockAndPublish(), nil
}

// ApplyAddressResult は住所検索の結果を反映してオーバーレイを閉じる。
func (c *Controller) ApplyAddressResult(result AddressResult) (Snapshot, error) {
	c.mu.Lock()
	if c.status == StatusSuccess {
		return c.unlock(), ErrSessionClosed
	}

	c.draft.PostalCode = result.Zonecode
	c.draft.Address = ComposeAddress(result)
	c.errors.Address = ""
	c.lookupVisible = false
	return c.unlockAndPublish(), nil
}

// Validate はエラーを全部置き換え、エラーがなければ true。
func (c *Controller) Validate() (Snapshot, bool) {
	c.mu.Lock()
	c.errors = validateDraft(c.draft)
	ok := c.errors.Empty()
	return c.unlockAndPublish(), ok
}

// Submit は検証して1回だけ送信する。
// 送信開始後はリクエストがキャンセルされても止めない。タイムアウトも付けない。
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.status == StatusSuccess {
		return c.unlock(), ErrSessionClosed
	}
	if c.submitting {
		return c.unlock(), ErrSubmitting
	}

	c.errors = validateDraft(c.draft)
	if !c.errors.Empty() {
		return c.unlockAndPublish(), ErrValidation
	}

	c.submitting = true
	c.status = StatusIdle
	draft := c.draft
	c.unlockAndPublish()

	err := c.send(context.WithoutCancel(ctx), draft)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.status = StatusError
	} else {
		c.status = StatusSuccess
	}
	snap := c.unlockAndPublish()

	if err != nil {
		return snap, fmt.Errorf("%w: %w", ErrTransmission, err)
	}
	return snap, nil
}

// Reset はページの再読み込みに相当する。送信中は不可
func (c *Controller) Reset() (Snapshot, error) {
	c.mu.Lock()
	if c.submitting {
		return c.unlock(), ErrSubmitting
	}

	c.draft = Draft{}
	c.errors = FieldErrors{}
	c.status = StatusIdle
	c.lookupVisible = false
	return c.unlockAndPublish(), nil
}

func (c *Controller) send(ctx context.Context, draft Draft) error {
	if !c.store.Available() {
		//保存先が未設定：デモ用に成功扱い
		c.logger.Warnj(log.JSON{
			"msg":   "record store not configured, simulating submission",
			"delay": c.delay.String(),
		})
		c.sleeper.Sleep(c.delay)
		return nil
	}

	if err := c.store.repo.Insert(ctx, draft.Record()); err != nil {
		c.logger.Errorj(log.JSON{
			"msg":   "consent submission failed",
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// ロック中に呼ぶ
func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Draft:         c.draft,
		Errors:        c.errors,
		Status:        c.status,
		Submitting:    c.submitting,
		LookupVisible: c.lookupVisible,
	}
	if c.status == StatusError {
		snap.Banner = MsgTransmissionFailed
	}
	return snap
}

// 変更なしでロックを外す
func (c *Controller) unlock() Snapshot {
	snap := c.snapshotLocked()
	c.mu.Unlock()
	return snap
}

// ロックを外してから購読者へ通知する
func (c *Controller) unlockAndPublish() Snapshot {
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subscribers))
	for _, s := range c.subscribers {
		subs = append(subs, s.fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap
}
