package middleware

import (
	"errors"
	"net/http"
	"strings"

	consent "consentform/internal/usecase/consent_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey = "session_id" // string
	CtxSessionKey   = "session"    // *consent.Controller
)

// :id のセッションを読み込んで context に入れる。
func LoadSession(sessions *consent.SessionRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Param("id"))
			if id == "" {
				return c.JSON(http.StatusBadRequest, errorJSON("validation error"))
			}

			ctrl, err := sessions.Get(id)
			if err != nil {
				if errors.Is(err, consent.ErrSessionNotFound) {
					return c.JSON(http.StatusNotFound, errorJSON("session not found"))
				}
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//contextへ保存
			c.Set(CtxSessionIDKey, id)
			c.Set(CtxSessionKey, ctrl)

			return next(c)
		}
	}
}

// SessionFrom は LoadSession が入れた Controller を取り出す。
func SessionFrom(c echo.Context) (*consent.Controller, bool) {
	ctrl, ok := c.Get(CtxSessionKey).(*consent.Controller)
	return ctrl, ok && ctrl != nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
