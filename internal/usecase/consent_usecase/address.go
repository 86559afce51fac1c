package consent

import "strings"

// addressType の値
const (
	AddressTypeRoad  = "R" // 도로명
	AddressTypeJibun = "J" // 지번
)

// 住所検索(우편번호 서비스)の完了イベント
type AddressResult struct {
	Address      string `json:"address"`
	AddressType  string `json:"addressType"`
	Bname        string `json:"bname"`
	BuildingName string `json:"buildingName"`
	Zonecode     string `json:"zonecode"`
}

// ComposeAddress は表示・保存用の住所を組み立てる。
// 道路名住所のときだけ「(洞名, 建物名)」を付ける。空の要素は省く。
func ComposeAddress(r AddressResult) string {
	full := r.Address
	if r.AddressType != AddressTypeRoad {
		return full
	}

	extra := make([]string, 0, 2)
	if r.Bname != "" {
		extra = append(extra, r.Bname)
	}
	if r.BuildingName != "" {
		extra = append(extra, r.BuildingName)
	}
	if len(extra) > 0 {
		full += " (" + strings.Join(extra, ", ") + ")"
	}
	return full
}
