// Package areas provides the area vocabulary bounded context module.
package areas

import (
	"crm_backend/internal/areas/handler"
	"crm_backend/internal/areas/repository"
	"crm_backend/internal/areas/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/validator"
)

// Module is the areas bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the areas module with all its dependencies.
func NewModule(client *store.Client, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(client)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "areas"
}

// Service returns the area service for cross-module use (name resolution).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts areas routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/areas"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
