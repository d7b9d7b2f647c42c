package handler

import (
	"crm_backend/internal/pipeline"
	"crm_backend/platform/apperr"
	"crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ListResponse is the table view payload. Error carries the banner shown
// when the store could not be reached and the list degraded to empty.
type ListResponse struct {
	Items []pipeline.RecordView `json:"items"`
	Error string                `json:"error,omitempty"`
}

type Handler struct {
	pipe *pipeline.Service
}

func New(pipe *pipeline.Service) *Handler {
	return &Handler{pipe: pipe}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}

// List serves every client row, archived ones included, flattened for the
// table: area names collapsed to a list, responsible resolved to a name.
func (h *Handler) List(c *gin.Context) {
	items, err := h.pipe.List(c.Request.Context())
	if err != nil {
		httpkit.OK(c, ListResponse{Items: []pipeline.RecordView{}, Error: banner(err)})
		return
	}
	httpkit.OK(c, ListResponse{Items: items})
}

func banner(err error) string {
	if appErr, ok := err.(*apperr.Error); ok {
		return appErr.Message
	}
	return "data store unavailable"
}
