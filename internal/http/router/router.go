// Package router assembles the gin engine from the registered modules.
package router

import (
	"net/http"
	"strings"
	"time"

	apphttp "registry_backend/internal/http"
	"registry_backend/platform/config"
	"registry_backend/platform/httpkit"
	"registry_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New builds the gin engine with shared middleware, the health endpoint,
// and every module's routes mounted under /api/v1.
func New(cfg config.HTTPConfig, env string, pool *pgxpool.Pool, log *logger.Logger, modules []apphttp.Module) *gin.Engine {
	if !strings.EqualFold(env, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(cfg))

	engine.GET("/api/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctx := &apphttp.RouterContext{
		Engine:            engine,
		V1:                engine.Group("/api/v1"),
		ExportRateLimiter: httpkit.NewExportRateLimiter(log),
	}

	for _, module := range modules {
		module.RegisterRoutes(ctx)
		log.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if cfg.GetCORSAllowAll() {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.GetCORSOrigins()
	}

	return cors.New(corsConfig)
}
