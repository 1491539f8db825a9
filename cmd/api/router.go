package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"events-backend/internal/shared/actor"
	"events-backend/internal/shared/middleware"
	"events-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires all routes. When the schema migration failed at startup
// only the health endpoint and the privileged schema notice are mounted, so
// the failure is visible without serving queries against a broken schema.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")

	v1.GET("/health", healthCheckHandler(c))

	if c.SchemaErr != nil {
		v1.GET("/admin/schema-notice",
			middleware.AuthMiddleware(c.JWTManager),
			middleware.RequireCapability(actor.CapManageOptions),
			schemaNoticeHandler(c),
		)
		return router
	}

	setupEventRoutes(v1, c)
	setupTranslationRoutes(v1, c)

	return router
}

func setupEventRoutes(v1 *gin.RouterGroup, c *container.Container) {
	events := v1.Group("/events")
	events.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		events.GET("", c.EventHandler.ListEvents)
		events.GET("/:id", c.EventHandler.GetEvent)

		publish := events.Group("")
		publish.Use(middleware.RequireCapability(actor.CapPublishEvents))
		{
			publish.POST("", c.EventHandler.CreateEvent)
			publish.DELETE("/:id", c.EventHandler.DeleteEvent)
			publish.POST("/:id/translations", c.TranslationHandler.AddTranslation)
		}
	}

	actions := v1.Group("/actions")
	actions.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireCapability(actor.CapPublishEvents),
	)
	{
		actions.GET("/token", c.EventHandler.IssueToken)
	}
}

func setupTranslationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	languages := v1.Group("/languages")
	languages.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		languages.GET("", c.TranslationHandler.ListLanguages)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		schemaStatus := "ok"
		if appCtx.SchemaErr != nil {
			schemaStatus = "migration failed"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"schema":   schemaStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" || schemaStatus != "ok" {
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

// schemaNoticeHandler surfaces the migration failure to administrators. The
// rest of the admin surface stays down until the schema problem is fixed.
func schemaNoticeHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"notice": "The events table could not be created. The events admin screen is unavailable.",
			"error":  appCtx.SchemaErr.Error(),
		})
	}
}
