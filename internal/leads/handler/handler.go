package handler

import (
	"net/http"
	"strconv"

	"crm_backend/internal/leads/service"
	"crm_backend/internal/leads/transport"
	"crm_backend/internal/pipeline"
	"crm_backend/platform/apperr"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgInvalidID        = "invalid id"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/board", h.Board)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/stage", h.UpdateStage)
	rg.PUT("/:id/areas", h.ReconcileAreas)
	rg.POST("/:id/convert", h.Convert)
	rg.GET("/:id/history", h.History)
}

// List serves the flat table view. A store failure never blanks the page: the
// response degrades to an empty list with an error banner.
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.Pipeline().List(c.Request.Context())
	if err != nil {
		httpkit.OK(c, transport.ListResponse{Items: []pipeline.RecordView{}, Error: banner(err)})
		return
	}
	httpkit.OK(c, transport.ListResponse{Items: items})
}

// Board serves the kanban view, degrading the same way as List.
func (h *Handler) Board(c *gin.Context) {
	columns, err := h.svc.Pipeline().Board(c.Request.Context())
	if err != nil {
		httpkit.OK(c, transport.BoardResponse{Columns: []pipeline.BoardColumn{}, Error: banner(err)})
		return
	}
	httpkit.OK(c, transport.BoardResponse{Columns: columns})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	view, err := h.svc.Pipeline().Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Pipeline().UpdateStage(c.Request.Context(), id, req.Etapa); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"id": id, "etapa": req.Etapa})
}

func (h *Handler) ReconcileAreas(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	var req transport.ReconcileAreasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Pipeline().ReconcileAreas(c.Request.Context(), id, req.AreaIDs); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	view, err := h.svc.Pipeline().Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) Convert(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Convert(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) History(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	items, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

func banner(err error) string {
	if appErr, ok := err.(*apperr.Error); ok {
		return appErr.Message
	}
	return "data store unavailable"
}
