package router

import (
	"net/http"
	"time"

	"ticketdesk_backend/internal/access"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the Gin engine: shared middleware, health endpoint, and the
// route groups handed to each module.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(20), 40, app.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	v1.Use(access.ResolveActor(app.Resolver))

	protected := v1.Group("")
	protected.Use(access.RequireAuthenticated())

	admin := v1.Group("/admin")
	admin.Use(access.RequireAdminArea())

	superAdmin := v1.Group("/admin")
	superAdmin.Use(access.RequireSuperAdmin())

	manager := v1.Group("/manager")
	manager.Use(access.RequireCustomerManager(app.Managers, app.Logger))

	ctx := &apphttp.RouterContext{
		Engine:          engine,
		V1:              v1,
		Protected:       protected,
		Admin:           admin,
		SuperAdmin:      superAdmin,
		Manager:         manager,
		AuthRateLimiter: httpkit.NewAuthRateLimiter(app.Logger),
	}

	for _, module := range app.Modules {
		app.Logger.Info("registering module routes", "module", module.Name())
		module.RegisterRoutes(ctx)
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", access.SessionHeaderName},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: app.Config.GetCORSAllowCreds(),
	}

	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = app.Config.GetCORSOrigins()
	}

	return cors.New(cfg)
}
