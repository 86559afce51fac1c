package repository

import (
	"consentform/internal/domain/model"
	"context"
	"errors"
)

// 保存先が失敗を返した（ネットワーク・サーバー・認証を区別しない）
var ErrInsertFailed = errors.New("consent insert failed")

// 同意レコードの保存先。読み取りは使わない
type ConsentRepository interface {
	//1件追加する。失敗時は ErrInsertFailed をラップして返す
	Insert(ctx context.Context, consent model.Consent) error
}
