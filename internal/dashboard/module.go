// Package dashboard provides the aggregate counts module backing the home
// screen: records per stage and totals for both pipelines.
package dashboard

import (
	"crm_backend/internal/dashboard/handler"
	"crm_backend/internal/dashboard/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
)

// Module is the dashboard bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the dashboard module with all its dependencies.
func NewModule(client *store.Client, log *logger.Logger) *Module {
	return &Module{handler: handler.New(service.New(client, log))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/dashboard"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
