// Package chat provides the conversational quoting domain module.
package chat

import (
	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/chat/handler"
	"orcamento_backend/internal/chat/service"
	"orcamento_backend/internal/chat/session"
	apphttp "orcamento_backend/internal/http"
	"orcamento_backend/internal/intent"
	"orcamento_backend/internal/pdf"
	"orcamento_backend/platform/config"
	"orcamento_backend/platform/events"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

// Module wires the conversation engine and its HTTP surface.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the chat module with all dependencies wired.
func NewModule(
	cfg config.SessionConfig,
	matcher *catalogsvc.Matcher,
	resolver *intent.Resolver,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	sessions := session.NewStore(cfg.GetSessionMaxEntries(), cfg.GetSessionTTL())
	docs := pdf.NewStore()

	svc := service.NewService(sessions, resolver, matcher, pdf.NewRenderer(), docs, bus, log)
	h := handler.New(svc, docs, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "chat"
}

// Service returns the conversation engine for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
