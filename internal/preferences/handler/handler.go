package handler

import (
	"net/http"
	"time"

	"crm_backend/internal/preferences/service"
	"crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cookieName = "crm_session"

type layoutRequest struct {
	Layout string `json:"layout"`
}

type Handler struct {
	svc       *service.Service
	cookieTTL time.Duration
}

func New(svc *service.Service, cookieTTL time.Duration) *Handler {
	return &Handler{svc: svc, cookieTTL: cookieTTL}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/layout", h.GetLayout)
	rg.PUT("/layout", h.SetLayout)
}

func (h *Handler) GetLayout(c *gin.Context) {
	sid := h.sessionID(c)
	httpkit.OK(c, gin.H{"layout": h.svc.Layout(c.Request.Context(), sid)})
}

func (h *Handler) SetLayout(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	sid := h.sessionID(c)
	if err := h.svc.SetLayout(c.Request.Context(), sid, req.Layout); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"layout": req.Layout})
}

// sessionID returns the caller's session id, minting a cookie on first use.
func (h *Handler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(cookieName); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(cookieName, sid, int(h.cookieTTL.Seconds()), "/", "", false, true)
	return sid
}
