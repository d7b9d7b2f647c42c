// Package employees provides the responsible-employee reference data module.
package employees

import (
	"context"

	"crm_backend/internal/employees/handler"
	"crm_backend/internal/employees/repository"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
)

// Module is the employees bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	log     *logger.Logger
}

// NewModule creates and initializes the employees module.
func NewModule(client *store.Client, log *logger.Logger) *Module {
	repo := repository.New(client)

	return &Module{
		handler: handler.New(repo, log),
		repo:    repo,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "employees"
}

// Map returns an employee id→name map rebuilt from the store. A store failure
// degrades to an empty map so callers can still render their page.
func (m *Module) Map(ctx context.Context) map[int64]string {
	employees, err := m.repo.List(ctx)
	if err != nil {
		m.log.StoreError("employees.map", "funcionarios", err)
		return map[int64]string{}
	}

	names := make(map[int64]string, len(employees))
	for _, employee := range employees {
		names[employee.ID] = employee.Nome
	}
	return names
}

// RegisterRoutes mounts employee routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/employees"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
