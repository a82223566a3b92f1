// Package people provides the person registry bounded context module:
// CRUD over registrants plus the asynchronous roster PDF export pipeline.
package people

import (
	apphttp "registry_backend/internal/http"
	"registry_backend/internal/people/handler"
	"registry_backend/internal/people/repository"
	"registry_backend/internal/people/service"
	"registry_backend/platform/logger"
	"registry_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the people bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// Deps holds the external collaborators of the people service. Archive and
// Recorder may be nil when the corresponding infrastructure is not configured.
type Deps struct {
	Lookup      service.UserLookup
	Renderer    service.Renderer
	Notifier    service.Notifier
	Archive     service.Archiver
	Recorder    service.Recorder
	PhoneRegion string
}

// NewModule creates and initializes the people module with all its dependencies.
func NewModule(pool *pgxpool.Pool, deps Deps, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, deps.Lookup, deps.Renderer, deps.Notifier, deps.Archive, deps.Recorder, deps.PhoneRegion, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "people"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts people routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/people")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.PATCH("/:id/unactivate", m.handler.Unactivate)

	// Export generation is expensive; rate limit per client IP.
	group.POST("/export", ctx.ExportRateLimiter.RateLimit(), m.handler.ExportPDF)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
