package server

import (
	"consentform/internal/handler"
	"consentform/internal/middleware"
	consent "consentform/internal/usecase/consent_usecase"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *handler.ConsentHandler, sessions *consent.SessionRegistry) {
	e.GET("/healthz", h.Health)
	e.POST("/consents", h.SubmitOnce)
	e.POST("/sessions", h.CreateSession)

	//セッション単位の操作
	g := e.Group("/sessions/:id", middleware.LoadSession(sessions))
	g.GET("", h.GetSession)
	g.DELETE("", h.DeleteSession)
	g.PATCH("/fields", h.UpdateField)
	g.PUT("/agreed", h.SetAgreed)
	g.POST("/lookup/open", h.OpenLookup)
	g.POST("/lookup/close", h.CloseLookup)
	g.POST("/address", h.ApplyAddress)
	g.POST("/submit", h.Submit)
	g.POST("/reset", h.Reset)
}
