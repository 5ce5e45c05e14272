package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/PillagovulaMahesh/Travel-Diary-Platform/docs"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/api/handler"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/api/middleware"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
)

// Deps is everything the router needs. Services are built by the caller.
type Deps struct {
	AuthService   ports.AuthService
	DiaryService  ports.DiaryService
	TokenVerifier ports.TokenVerifier
	Logger        zerolog.Logger

	// RequireAuth puts the bearer-token middleware in front of /api/diary.
	RequireAuth  bool
	HealthChecks []handler.HealthCheck

	// Registerer and Gatherer back the HTTP metrics. Nil means the
	// prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "diary",
		Subsystem:  "http",
		Registerer: registerer,
	}))
	e.Use(requestLogger(deps.Logger))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	diaryHandler := handler.NewDiaryHandler(deps.DiaryService)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks...)

	// --- Auth routes ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)

	// --- Diary routes ---
	var diaryMiddleware []echo.MiddlewareFunc
	if deps.RequireAuth {
		diaryMiddleware = append(diaryMiddleware, middleware.Auth(deps.TokenVerifier))
	}
	diary := e.Group("/api/diary", diaryMiddleware...)
	diary.POST("", diaryHandler.Create)
	diary.GET("", diaryHandler.List)
	diary.GET("/:id", diaryHandler.Get)
	diary.PUT("/:id", diaryHandler.Update)
	diary.DELETE("/:id", diaryHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger renders errors through the HTTP error handler before logging
// so the logged status is the one the client receives.
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
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
