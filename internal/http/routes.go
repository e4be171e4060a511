package http

import (
	"time"

	"tasktracker/internal/http/handlers"
	"tasktracker/internal/http/middleware"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries the knobs RegisterRoutes needs from config.Config.
type RouteConfig struct {
	CORSOrigins    []string
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Handler  *handlers.Handler
	Health   *handlers.HealthHandler
	Sessions *service.SessionVerifier
}

func RegisterRoutes(r *gin.Engine, d Deps, cfg RouteConfig) {
	r.SetHTMLTemplate(handlers.Templates())

	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health checks (no rate limiting, no session lookup)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("")
	app.Use(middleware.Session(d.Sessions))

	app.GET("/", d.Handler.Home)

	authRL := middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	auth := app.Group("/auth")
	{
		auth.POST("/signup", authRL, d.Handler.SignUp)
		auth.POST("/signin", authRL, d.Handler.SignIn)
		auth.POST("/signout", d.Handler.SignOut)
		auth.GET("/callback", d.Handler.ConfirmEmail)
		auth.GET("/session", d.Handler.CurrentUser)
	}

	tasks := app.Group("/api/tasks")
	tasks.Use(middleware.RateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow))
	tasks.Use(middleware.RequireSession())
	{
		tasks.GET("", d.Handler.ListTasks)
		tasks.POST("", d.Handler.CreateTask)
		tasks.GET("/:id", d.Handler.GetTask)
		tasks.PATCH("/:id", d.Handler.UpdateTask)
		tasks.DELETE("/:id", d.Handler.DeleteTask)
	}
}
