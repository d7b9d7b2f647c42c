package handler

import (
	"net/http"
	"strconv"

	"crm_backend/internal/pipeline"
	"crm_backend/internal/postsale/transport"
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

// Handler serves the post-sale pipeline. Records enter this pipeline only
// through lead conversion, so there is no create endpoint here.
type Handler struct {
	pipe *pipeline.Service
	val  *validator.Validator
}

func New(pipe *pipeline.Service, val *validator.Validator) *Handler {
	return &Handler{pipe: pipe, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/board", h.Board)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id/stage", h.UpdateStage)
	rg.PUT("/:id/areas", h.ReconcileAreas)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.pipe.List(c.Request.Context())
	if err != nil {
		httpkit.OK(c, transport.ListResponse{Items: []pipeline.RecordView{}, Error: banner(err)})
		return
	}
	httpkit.OK(c, transport.ListResponse{Items: items})
}

func (h *Handler) Board(c *gin.Context) {
	columns, err := h.pipe.Board(c.Request.Context())
	if err != nil {
		httpkit.OK(c, transport.BoardResponse{Columns: []pipeline.BoardColumn{}, Error: banner(err)})
		return
	}
	httpkit.OK(c, transport.BoardResponse{Columns: columns})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	view, err := h.pipe.Get(c.Request.Context(), id)
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

	if err := h.pipe.UpdateStage(c.Request.Context(), id, req.Etapa); err != nil {
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

	if err := h.pipe.ReconcileAreas(c.Request.Context(), id, req.AreaIDs); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	view, err := h.pipe.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, view)
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
