// Package leads provides the lead pipeline bounded context module: the
// kanban funnel new business moves through before conversion.
package leads

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/leads/handler"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/service"
	"crm_backend/internal/pipeline"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(
	client *store.Client,
	directory pipeline.EmployeeDirectory,
	areas service.AreaResolver,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	tables := pipeline.Tables{Records: "clientes", Joins: "cliente_areas", JoinFK: "cliente_id"}
	pipe := pipeline.NewService(
		pipeline.NewRepository(client, tables),
		directory,
		bus,
		log,
		"lead",
		pipeline.LeadStages,
	)
	svc := service.New(pipe, repository.New(client), areas, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
