package handler

import (
	"errors"
	"net/http"

	"consentform/internal/middleware"
	consent "consentform/internal/usecase/consent_usecase"

	"github.com/labstack/echo/v4"
)

type ConsentHandler struct {
	sessions  *consent.SessionRegistry
	factory   *consent.Factory
	storeMode string
}

// DIコンストラクタ
func NewConsentHandler(sessions *consent.SessionRegistry, factory *consent.Factory, storeMode string) *ConsentHandler {
	return &ConsentHandler{
		sessions:  sessions,
		factory:   factory,
		storeMode: storeMode,
	}
}

// ------- request / response -------

type updateFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"max=200"`
}

type agreedRequest struct {
	Agreed *bool `json:"agreed" validate:"required"`
}

// 住所検索の完了イベント
type addressResultRequest struct {
	Address      string `json:"address" validate:"max=300"`
	AddressType  string `json:"addressType" validate:"omitempty,oneof=R J"`
	Bname        string `json:"bname" validate:"max=100"`
	BuildingName string `json:"buildingName" validate:"max=100"`
	Zonecode     string `json:"zonecode" validate:"max=10"`
}

func (r addressResultRequest) toResult() consent.AddressResult {
	return consent.AddressResult{
		Address:      r.Address,
		AddressType:  r.AddressType,
		Bname:        r.Bname,
		BuildingName: r.BuildingName,
		Zonecode:     r.Zonecode,
	}
}

type submitOnceRequest struct {
	Name          string                `json:"name" validate:"max=100"`
	Phone         string                `json:"phone" validate:"max=30"`
	DetailAddress string                `json:"detailAddress" validate:"max=200"`
	Agreed        bool                  `json:"agreed"`
	Lookup        *addressResultRequest `json:"lookup"`
}

type sessionResponse struct {
	ID    string           `json:"id,omitempty"`
	State consent.Snapshot `json:"state"`
}

type stateErrorResponse struct {
	Error string           `json:"error"`
	State consent.Snapshot `json:"state"`
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// ------- handlers -------

// GET /healthz
func (h *ConsentHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Store: h.storeMode})
}

// POST /sessions
func (h *ConsentHandler) CreateSession(c echo.Context) error {
	id, ctrl := h.sessions.Create()
	return c.JSON(http.StatusCreated, sessionResponse{ID: id, State: ctrl.Snapshot()})
}

// GET /sessions/:id
func (h *ConsentHandler) GetSession(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sessionResponse{ID: c.Param("id"), State: ctrl.Snapshot()})
}

// DELETE /sessions/:id
func (h *ConsentHandler) DeleteSession(c echo.Context) error {
	h.sessions.Delete(c.Param("id"))
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

// PATCH /sessions/:id/fields
func (h *ConsentHandler) UpdateField(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}

	var req updateFieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	field, err := consent.ParseField(req.Field)
	if err != nil {
		return writeUsecaseError(c, ctrl.Snapshot(), err)
	}

	snap, err := ctrl.UpdateField(field, req.Value)
	return writeState(c, snap, err)
}

// PUT /sessions/:id/agreed
func (h *ConsentHandler) SetAgreed(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}

	var req agreedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	snap, err := ctrl.SetAgreed(*req.Agreed)
	return writeState(c, snap, err)
}

// POST /sessions/:id/lookup/open
func (h *ConsentHandler) OpenLookup(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}
	snap, err := ctrl.OpenAddressLookup()
	return writeState(c, snap, err)
}

// POST /sessions/:id/lookup/close
func (h *ConsentHandler) CloseLookup(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}
	snap, err := ctrl.CloseAddressLookup()
	return writeState(c, snap, err)
}

// POST /sessions/:id/address
func (h *ConsentHandler) ApplyAddress(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}

	var req addressResultRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	snap, err := ctrl.ApplyAddressResult(req.toResult())
	return writeState(c, snap, err)
}

// POST /sessions/:id/submit
func (h *ConsentHandler) Submit(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}

	snap, err := ctrl.Submit(c.Request().Context())
	return writeState(c, snap, err)
}

// POST /sessions/:id/reset
func (h *ConsentHandler) Reset(c echo.Context) error {
	ctrl, ok := middleware.SessionFrom(c)
	if !ok {
		return writeError(c, http.StatusNotFound, "session not found")
	}

	snap, err := ctrl.Reset()
	return writeState(c, snap, err)
}

// POST /consents（セッションなしで1回送信）
func (h *ConsentHandler) SubmitOnce(c echo.Context) error {
	var req submitOnceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "validation error")
	}

	in := consent.OneShotInput{
		Name:          req.Name,
		Phone:         req.Phone,
		DetailAddress: req.DetailAddress,
		Agreed:        req.Agreed,
	}
	if req.Lookup != nil {
		r := req.Lookup.toResult()
		in.Lookup = &r
	}

	snap, err := h.factory.SubmitOnce(c.Request().Context(), in)
	if err != nil {
		return writeUsecaseError(c, snap, err)
	}
	return c.JSON(http.StatusCreated, sessionResponse{State: snap})
}

// ------- ConsentHandler専用 helper -------

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func writeError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func writeState(c echo.Context, snap consent.Snapshot, err error) error {
	if err != nil {
		return writeUsecaseError(c, snap, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{State: snap})
}

// usecaseのエラーをHTTPに変換（状態も一緒に返す）
func writeUsecaseError(c echo.Context, snap consent.Snapshot, err error) error {
	switch {
	case errors.Is(err, consent.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, stateErrorResponse{Error: "validation error", State: snap})
	case errors.Is(err, consent.ErrTransmission):
		return c.JSON(http.StatusBadGateway, stateErrorResponse{Error: consent.MsgTransmissionFailed, State: snap})
	case errors.Is(err, consent.ErrSubmitting):
		return c.JSON(http.StatusConflict, stateErrorResponse{Error: "submission in progress", State: snap})
	case errors.Is(err, consent.ErrSessionClosed):
		return c.JSON(http.StatusConflict, stateErrorResponse{Error: "session closed", State: snap})
	case errors.Is(err, consent.ErrUnknownField):
		return c.JSON(http.StatusBadRequest, stateErrorResponse{Error: "unknown field", State: snap})
	default:
		return writeError(c, http.StatusInternalServerError, "internal error")
	}
}
