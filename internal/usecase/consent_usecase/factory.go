package consent

import "context"

// Factory は同じ保存先・設定で Controller を作る。
type Factory struct {
	store Store
	opts  []Option
}

func NewFactory(store Store, opts ...Option) *Factory {
	return &Factory{store: store, opts: opts}
}

func (f *Factory) New() *Controller {
	return NewController(f.store, f.opts...)
}

func (f *Factory) StoreAvailable() bool {
	return f.store.Available()
}

// セッションを使わない一括送信の入力
type OneShotInput struct {
	Name          string
	Phone         string
	DetailAddress string
	Agreed        bool
	Lookup        *AddressResult
}

// SubmitOnce は新しい Controller に入力を流し込んで1回送信する。
func (f *Factory) SubmitOnce(ctx context.Context, in OneShotInput) (Snapshot, error) {
	c := f.New()

	//新しい Controller なので編集系はエラーにならない
	_, _ = c.UpdateField(FieldName, in.Name)
	_, _ = c.UpdateField(FieldPhone, in.Phone)
	_, _ = c.UpdateField(FieldDetailAddress, in.DetailAddress)
	_, _ = c.SetAgreed(in.Agreed)
	if in.Lookup != nil {
		_, _ = c.ApplyAddressResult(*in.Lookup)
	}

	return c.Submit(ctx)
}
