// Package postsale provides the post-sale pipeline bounded context module:
// the funnel a converted lead moves through after the sale closes.
package postsale

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/pipeline"
	"crm_backend/internal/postsale/handler"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/validator"
)

// Module is the post-sale bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the post-sale module with all its dependencies.
func NewModule(
	client *store.Client,
	directory pipeline.EmployeeDirectory,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	tables := pipeline.Tables{Records: "pos_venda", Joins: "pos_venda_areas", JoinFK: "pos_venda_id"}
	pipe := pipeline.NewService(
		pipeline.NewRepository(client, tables),
		directory,
		bus,
		log,
		"postsale",
		pipeline.PostSaleStages,
	)

	return &Module{handler: handler.New(pipe, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "postsale"
}

// RegisterRoutes mounts post-sale routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/postsale"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
