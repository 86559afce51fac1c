package model

// consentsテーブルへ送る1行（追記のみ）。
// id と created_at はDB側で採番されるのでここには持たない
type Consent struct {
	//氏名
	Name string `gorm:"column:name" json:"name"`

	//連絡先（形式チェックなし）
	Phone string `gorm:"column:phone" json:"phone"`

	//郵便番号（住所検索の結果のみ）
	Zonecode string `gorm:"column:zonecode" json:"zonecode"`

	//基本住所（住所検索の結果のみ）
	Address string `gorm:"column:address" json:"address"`

	//詳細住所（任意）
	DetailAddress string `gorm:"column:detail_address" json:"detail_address"`

	//同意フラグ
	Agreed bool `gorm:"column:agreed" json:"agreed"`
}

func (Consent) TableName() string {
	return "consents"
}
