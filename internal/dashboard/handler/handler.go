package handler

import (
	"crm_backend/internal/dashboard/service"
	"crm_backend/platform/apperr"
	"crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Response wraps the summary with a degrade banner: a store failure renders
// an empty dashboard instead of an error page.
type Response struct {
	service.Summary
	Error string `json:"error,omitempty"`
}

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Summary)
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summarize(c.Request.Context())
	if err != nil {
		empty := service.Summary{
			Leads:    service.PipelineSummary{Counts: map[string]int{}},
			PostSale: service.PipelineSummary{Counts: map[string]int{}},
		}
		httpkit.OK(c, Response{Summary: empty, Error: banner(err)})
		return
	}
	httpkit.OK(c, Response{Summary: summary})
}

func banner(err error) string {
	if appErr, ok := err.(*apperr.Error); ok {
		return appErr.Message
	}
	return "data store unavailable"
}
