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

	_ "github.com/sundevs/user-access-api/docs"
	"github.com/sundevs/user-access-api/internal/api/handler"
	"github.com/sundevs/user-access-api/internal/api/middleware"
	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
)

// Dependencies holds everything the router wires into handlers and guards.
type Dependencies struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Tokens      ports.TokenIssuer
	Health      map[string]handler.HealthCheck
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	Logger      zerolog.Logger
	// Metrics receives the HTTP request metrics and backs GET /metrics.
	// Nil means the default Prometheus registry.
	Metrics *prometheus.Registry
}

// Operation declares one endpoint: its route, the guards evaluated in order
// before the handler, and the handler itself.
type Operation struct {
	Method      string
	Path        string
	Guards      []middleware.Guard
	Handler     echo.HandlerFunc
	RateLimited bool
}

// maxBodySize bounds every request body, including the copy the escalation
// guards read before the handler binds.
const maxBodySize = "64K"

// userRoles may call the user management endpoints. Guests may not.
var userRoles = []domain.Role{domain.RoleAdmin, domain.RoleAgent, domain.RoleCustomer}

// Operations returns the guarded API surface.
func Operations(d Dependencies) []Operation {
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)

	return []Operation{
		{
			Method:      http.MethodPost,
			Path:        "/api/auth/register",
			Guards:      []middleware.Guard{middleware.RegistrationRole()},
			Handler:     authHandler.Register,
			RateLimited: true,
		},
		{
			Method:      http.MethodPost,
			Path:        "/api/auth/login",
			Handler:     authHandler.Login,
			RateLimited: true,
		},
		{
			Method: http.MethodPost,
			Path:   "/api/users/assign-role/:id",
			Guards: []middleware.Guard{
				middleware.Authenticate(d.Tokens),
				middleware.AdminRoleAssignment(),
				middleware.RequireRoles(userRoles...),
			},
			Handler: userHandler.AssignRole,
		},
		{
			Method: http.MethodGet,
			Path:   "/api/users",
			Guards: []middleware.Guard{
				middleware.Authenticate(d.Tokens),
				middleware.RequireRoles(userRoles...),
			},
			Handler: userHandler.List,
		},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Metrics != nil {
		registerer, gatherer = d.Metrics, d.Metrics
	}

	// --- Global middleware ---
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "user_access_http",
		Registerer: registerer,
	}))
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(maxBodySize))

	for _, op := range Operations(d) {
		var mws []echo.MiddlewareFunc
		if op.RateLimited && d.RateLimiter != nil {
			mws = append(mws, d.RateLimiter.Middleware())
		}
		mws = append(mws, middleware.Chain(op.Guards...))
		e.Add(op.Method, op.Path, op.Handler, mws...)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
