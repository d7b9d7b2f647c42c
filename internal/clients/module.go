// Package clients provides the read-only client table module. It renders the
// same records the lead pipeline writes, shaped for tabular browsing.
package clients

import (
	"crm_backend/internal/clients/handler"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/pipeline"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
)

// Module is the clients bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the clients module with all its dependencies.
func NewModule(client *store.Client, directory pipeline.EmployeeDirectory, bus events.Bus, log *logger.Logger) *Module {
	tables := pipeline.Tables{Records: "clientes", Joins: "cliente_areas", JoinFK: "cliente_id"}
	pipe := pipeline.NewService(
		pipeline.NewRepository(client, tables),
		directory,
		bus,
		log,
		"clients",
		pipeline.LeadStages,
	)

	return &Module{handler: handler.New(pipe)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// RegisterRoutes mounts client routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/clients"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
