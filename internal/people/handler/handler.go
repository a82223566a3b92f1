package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"registry_backend/internal/people/service"
	"registry_backend/internal/people/transport"
	"registry_backend/platform/httpkit"
	"registry_backend/platform/validator"
)

// Handler handles HTTP requests for people.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid person ID"

	msgCreated     = "person registered successfully"
	msgUpdated     = "person updated successfully"
	msgUnactivated = "person unactivated successfully"
	msgExportStart = "roster export started"
)

// New creates a new people handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create registers a new person.
// POST /api/v1/people
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.MutationResponse{Data: result, Message: msgCreated})
}

// List retrieves a page of people.
// GET /api/v1/people?page=1&pageSize=10&column=id&sort=asc
func (h *Handler) List(c *gin.Context) {
	var req transport.ListPeopleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	order := transport.Order{Column: req.Column, Sort: req.Sort}
	if order.Column == "" {
		order.Column = "id"
	}
	if order.Sort == "" {
		order.Sort = "asc"
	}

	result, err := h.svc.List(c.Request.Context(), req.Page, req.PageSize, order)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a person by ID.
// GET /api/v1/people/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update overwrites an existing person.
// PUT /api/v1/people/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MutationResponse{Data: result, Message: msgUpdated})
}

// Unactivate soft-deletes a person. The data field carries the resulting
// active state (false), not a success flag.
// PATCH /api/v1/people/:id/unactivate
func (h *Handler) Unactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	active, err := h.svc.Unactivate(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MutationResponse{Data: active, Message: msgUnactivated})
}

// ExportPDF triggers the roster export pipeline. Responds as soon as
// generation and dispatch have been initiated; delivery happens out of band.
// POST /api/v1/people/export
func (h *Handler) ExportPDF(c *gin.Context) {
	var req transport.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	started, err := h.svc.ExportPDF(c.Request.Context(), req.UserID, req.Order)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, transport.MutationResponse{Data: started, Message: msgExportStart})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}
