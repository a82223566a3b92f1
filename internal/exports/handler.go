package exports

import (
	"strconv"

	"registry_backend/platform/httpkit"
	"registry_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler serves the export audit endpoints.
type Handler struct {
	repo *Repository
	log  *logger.Logger
}

func NewHandler(repo *Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// List returns recent export audit records.
func (h *Handler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	items, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to list export logs", "error", err)
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"data": items, "count": len(items)})
}
