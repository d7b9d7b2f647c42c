// Package preferences provides the per-session UI preference module. The
// only preference today is the navigation layout.
package preferences

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/preferences/handler"
	"crm_backend/internal/preferences/service"
	"crm_backend/internal/preferences/session"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module is the preferences bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the preferences module. With no Redis
// configured it falls back to an in-process store.
func NewModule(cfg config.SessionConfig, redisClient *redis.Client, log *logger.Logger) *Module {
	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient, cfg.GetSessionTTL())
	} else {
		store = session.NewMemoryStore()
	}

	return &Module{
		handler: handler.New(service.New(store, log), cfg.GetSessionTTL()),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "preferences"
}

// RegisterRoutes mounts preference routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/preferences"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
