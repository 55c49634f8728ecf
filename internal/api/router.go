package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/votehub/voting-api/docs"
	"github.com/votehub/voting-api/internal/api/handler"
	"github.com/votehub/voting-api/internal/api/middleware"
	"github.com/votehub/voting-api/internal/core/ports"
	"github.com/votehub/voting-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers. Services are built
// by the caller so the router holds no store handles.
type Deps struct {
	Candidates     ports.CandidateService
	CandidateTypes ports.CandidateTypeService
	Votes          ports.VoteService
	Users          ports.UserService
	Profile        ports.ProfileService

	Verifier     *middleware.Verifier
	Dependencies []handlers.Dependency
	CORSOrigins  []string
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "voting_http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	auth := middleware.Auth(d.Verifier)

	candidates := handler.NewCandidateHandler(d.Candidates)
	candidateTypes := handler.NewCandidateTypeHandler(d.CandidateTypes)
	votes := handler.NewVoteHandler(d.Votes)
	users := handler.NewUserHandler(d.Users, d.Profile)

	// --- System routes (no auth required) ---
	e.GET("/ping", handler.Ping)
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Dependencies...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Candidates ---
	e.GET("/candidates", candidates.List)
	e.GET("/candidates/:id", candidates.Get)
	e.POST("/candidates", candidates.Create, auth)
	e.PUT("/candidates/:id", candidates.Update, auth)
	e.DELETE("/candidates/:id", candidates.Delete, auth)

	e.GET("/candidate-types", candidateTypes.List)
	e.POST("/candidate-types", candidateTypes.Create, auth)

	// --- Votes ---
	e.GET("/votes", votes.List)
	e.POST("/votes", votes.Cast, auth)
	e.GET("/votes/:id", votes.Get, auth)
	e.DELETE("/votes/:id", votes.Delete, auth)
	e.GET("/my-votes", votes.Mine, auth)
	e.GET("/my-votes/count", votes.CountMine, auth)
	e.GET("/top-voted-candidates", votes.Top, auth)

	// --- Users ---
	e.GET("/profile", users.Profile, auth)
	e.GET("/me", users.Me, auth)
	e.PUT("/update-user", users.Update, auth)
	e.POST("/verify-user", users.Verify, auth)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
