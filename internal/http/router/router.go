// Package router assembles the Gin engine: shared middleware, CORS, the
// health endpoint, and module route registration.
package router

import (
	"net/http"
	"time"

	apphttp "tripgateway/internal/http"
	"tripgateway/platform/config"
	"tripgateway/platform/httpkit"
	"tripgateway/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the HTTP engine and registers every module's routes.
func New(cfg config.HTTPConfig, log *logger.Logger, modules []apphttp.Module) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}
	for _, m := range modules {
		m.RegisterRoutes(ctx)
		log.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg config.HTTPConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		// The CORS spec forbids credentials with a wildcard origin.
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}
