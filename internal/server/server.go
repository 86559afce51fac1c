package server

import (
	"context"
	"errors"
	"net/http"

	"consentform/internal/handler"
	consent "consentform/internal/usecase/consent_usecase"
	"consentform/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type Options struct {
	Logger      *log.Logger
	AllowOrigin string // 空ならCORSなし
}

// New はミドルウェアとルートを登録した echo を返す。
func New(h *handler.ConsentHandler, sessions *consent.SessionRegistry, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.Logger != nil {
		e.Logger = opts.Logger
	}
	e.Validator = validator.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.BodyLimit("64K"))
	if opts.AllowOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{opts.AllowOrigin},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		}))
	}

	RegisterRoutes(e, h, sessions)
	return e
}

// Start は ctx が終わるまで待ち受け、終わったら止める。
func Start(ctx context.Context, addr string, e *echo.Echo) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		//送信中のリクエストを待つ（時間制限なし）
		return e.Shutdown(context.WithoutCancel(ctx))
	}
}
