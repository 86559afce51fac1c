package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

type requestValidator struct {
	v *playground.Validate
}

// echo の c.Validate に差し込む
func NewRequestValidator() echo.Validator {
	v := playground.New(playground.WithRequiredStructEnabled())

	//エラーのフィールド名は json タグに合わせる
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{v: v}
}

// リクエストDTOのタグを検証
func (rv *requestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		var verrs playground.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+":"+fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ","))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
