package handler

import (
	"crm_backend/internal/employees/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}

func (h *Handler) List(c *gin.Context) {
	employees, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.log.StoreError("employees.list", "funcionarios", err)
		httpkit.HandleError(c, apperr.Unavailable("data store unavailable"))
		return
	}

	httpkit.OK(c, gin.H{"items": employees})
}
