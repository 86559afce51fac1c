package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeAddress(t *testing.T) {
	tests := []struct {
		name string
		in   AddressResult
		want string
	}{
		{
			name: "道路名: 洞名と建物名",
			in:   AddressResult{Address: "테헤란로 1", AddressType: AddressTypeRoad, Bname: "역삼동", BuildingName: "타워"},
			want: "테헤란로 1 (역삼동, 타워)",
		},
		{
			name: "道路名: 建物名のみ",
			in:   AddressResult{Address: "테헤란로 1", AddressType: AddressTypeRoad, BuildingName: "타워"},
			want: "테헤란로 1 (타워)",
		},
		{
			name: "道路名: 洞名のみ",
			in:   AddressResult{Address: "테헤란로 1", AddressType: AddressTypeRoad, Bname: "역삼동"},
			want: "테헤란로 1 (역삼동)",
		},
		{
			name: "道路名: 付加情報なし",
			in:   AddressResult{Address: "테헤란로 1", AddressType: AddressTypeRoad},
			want: "테헤란로 1",
		},
		{
			name: "地番住所は付けない",
			in:   AddressResult{Address: "역삼동 123-4", AddressType: AddressTypeJibun, Bname: "역삼동", BuildingName: "타워"},
			want: "역삼동 123-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeAddress(tt.in))
		})
	}
}
