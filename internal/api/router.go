package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/infrastructure/http/handlers"
	"github.com/inkpost/blog-api/pkg/logger"

	_ "github.com/inkpost/blog-api/docs"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	AuthService ports.AuthService
	BlogService ports.BlogService

	// Logger defaults to the process-wide logger from pkg/logger when nil.
	Logger *zerolog.Logger

	// HealthChecks back /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Check

	// MediaDir, when set, is served under MediaPrefix for locally stored uploads.
	MediaDir    string
	MediaPrefix string

	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	var log zerolog.Logger
	if deps.Logger != nil {
		log = *deps.Logger
	} else {
		log = logger.Get()
	}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	blogHandler := handler.NewBlogHandler(deps.BlogService)
	requireUser := middleware.Auth(deps.AuthService)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)
	auth.GET("/me", authHandler.Me, requireUser)
	auth.POST("/token/refresh", authHandler.Refresh)
	auth.POST("/change-password", authHandler.ChangePassword, requireUser)
	auth.POST("/email-verify", authHandler.VerifyEmail)
	auth.POST("/resend-email", authHandler.ResendEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Blog routes ---
	blogs := e.Group("/blogs")
	blogs.GET("", blogHandler.List)
	blogs.POST("", blogHandler.Create, requireUser)
	blogs.GET("/my-blogs", blogHandler.ListMine, requireUser)
	blogs.GET("/:id", blogHandler.Get)
	blogs.PATCH("/:id", blogHandler.Update, requireUser)
	blogs.DELETE("/:id", blogHandler.Delete, requireUser)

	if deps.MediaDir != "" {
		e.Static(deps.MediaPrefix, deps.MediaDir)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
