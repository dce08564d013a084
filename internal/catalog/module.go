// Package catalog provides the price-list domain module: loading the
// catalog file, matching products and the inspection endpoints.
package catalog

import (
	"orcamento_backend/internal/catalog/handler"
	"orcamento_backend/internal/catalog/repository"
	catalogsvc "orcamento_backend/internal/catalog/service"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/internal/intent"
	"orcamento_backend/platform/validator"
)

// Module wires the catalog inspection endpoints.
type Module struct {
	handler *handler.Handler
}

func NewModule(repo *repository.Repository, snapshot *repository.Snapshot, matcher *catalogsvc.Matcher, resolver *intent.Resolver, val *validator.Validator) *Module {
	return &Module{
		handler: handler.New(repo, snapshot, matcher, resolver, val),
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "catalog"
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
