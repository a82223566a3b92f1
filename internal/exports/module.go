package exports

import (
	apphttp "registry_backend/internal/http"
	"registry_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the export audit bounded context implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the exports module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, log)

	return &Module{
		handler: handler,
		repo:    repo,
	}
}

// Repo exposes the repository for wiring into other modules.
func (m *Module) Repo() *Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export audit routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/exports")
	group.GET("", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
