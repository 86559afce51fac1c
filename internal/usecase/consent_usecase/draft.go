package consent

import (
	"errors"
	"strings"

	"consentform/internal/domain/model"
)

var (
	// 入力不足（フィールドごとのメッセージは Snapshot.Errors）
	ErrValidation = errors.New("validation error")
	// 送信中の再送信
	ErrSubmitting = errors.New("submission in progress")
	// 送信完了後の操作（リロード相当の Reset のみ可）
	ErrSessionClosed = errors.New("session closed")
	// 編集できないフィールド名
	ErrUnknownField = errors.New("unknown field")
	// 保存先への送信失敗
	ErrTransmission = errors.New("transmission error")
)

// 画面に出すメッセージ
const (
	MsgNameRequired    = "이름을 입력해주세요."
	MsgPhoneRequired   = "연락처를 입력해주세요."
	MsgAddressRequired = "주소를 검색해주세요."
	MsgAgreedRequired  = "개인정보 수집 및 이용에 동의해야 합니다."

	MsgTransmissionFailed = "오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// ユーザーが直接編集できるフィールド
type Field string

const (
	FieldName          Field = "name"
	FieldPhone         Field = "phone"
	FieldDetailAddress Field = "detailAddress"
)

// ParseField は外部から来たフィールド名を確認する。
// address / zonecode は住所検索の結果からしか入らないので対象外。
func ParseField(s string) (Field, error) {
	switch f := Field(strings.TrimSpace(s)); f {
	case FieldName, FieldPhone, FieldDetailAddress:
		return f, nil
	default:
		return "", ErrUnknownField
	}
}

// 送信前の入力内容
type Draft struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"zonecode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
	Agreed        bool   `json:"agreed"`
}

// Record は保存先の列名に合わせた1行を返す。
func (d Draft) Record() model.Consent {
	return model.Consent{
		Name:          d.Name,
		Phone:         d.Phone,
		Zonecode:      d.PostalCode,
		Address:       d.Address,
		DetailAddress: d.DetailAddress,
		Agreed:        d.Agreed,
	}
}

// 検証エラー。空文字はエラーなし
type FieldErrors struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Agreed  string `json:"agreed,omitempty"`
}

func (e FieldErrors) Empty() bool {
	return e == FieldErrors{}
}

// validateDraft は name, phone, address, agreed の順に確認する。
func validateDraft(d Draft) FieldErrors {
	var errs FieldErrors
	if strings.TrimSpace(d.Name) == "" {
		errs.Name = MsgNameRequired
	}
	if strings.TrimSpace(d.Phone) == "" {
		errs.Phone = MsgPhoneRequired
	}
	if strings.TrimSpace(d.Address) == "" {
		errs.Address = MsgAddressRequired
	}
	if !d.Agreed {
		errs.Agreed = MsgAgreedRequired
	}
	return errs
}

// 送信状態
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot は描画側に渡す不変の状態。
type Snapshot struct {
	Draft         Draft       `json:"draft"`
	Errors        FieldErrors `json:"errors"`
	Status        Status      `json:"status"`
	Submitting    bool        `json:"submitting"`
	LookupVisible bool        `json:"lookupVisible"`
	Banner        string      `json:"banner,omitempty"`
}

// Closed は送信完了でフォームが編集不可になったか。
func (s Snapshot) Closed() bool {
	return s.Status == StatusSuccess
}
