package rest

import (
	"context"
	"net/http"
	"time"

	"cosmic-backend/application/commands/bus"
	querybus "cosmic-backend/application/queries/bus"
	"cosmic-backend/interfaces/http/rest/handlers"
	"cosmic-backend/interfaces/http/rest/middleware"
	"cosmic-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// readinessTimeout bounds the store ping behind /ready
const readinessTimeout = 3 * time.Second

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options selects the optional parts of the router
type Options struct {
	ViewsDir   string
	PublicDir  string
	EnableCORS bool
	// Metrics enables request metrics and /metrics when set
	Metrics *observability.Collector
	// Tracer wraps the whole router in an X-Ray segment when set
	Tracer *observability.Tracer
	// SubmitLimiter throttles the POST routes per client when set
	SubmitLimiter middleware.ClientLimiter
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP; only safe behind a proxy that overwrites them
	TrustProxyHeaders bool
}

// page maps a GET path to the view it renders
type page struct {
	path string
	view string
}

var pages = []page{
	{"/", "index"},
	{"/contact", "contact"},
	{"/about", "About"},
	{"/portfolio", "portfolio"},
	{"/dashboard", "dashboard"},
	{"/celebration", "celebration"},
	{"/ceremonie", "ceremonie"},
	{"/reception", "reception"},
	{"/mitzvhans", "mitzvhans"},
	{"/corporate1", "corporate1"},
	{"/services", "services"},
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	store      Pinger
	options    Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	store Pinger,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		store:      store,
		options:    options,
		logger:     logger,
	}
}

// Setup configures all routes and middleware, wrapped in tracing when enabled
func (rt *Router) Setup() http.Handler {
	router := rt.Mux()
	if rt.options.Tracer != nil {
		return rt.options.Tracer.Middleware(router)
	}
	return router
}

// Mux builds the chi router without the tracing wrapper
func (rt *Router) Mux() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	if rt.options.TrustProxyHeaders {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.options.Metrics != nil {
		router.Use(rt.options.Metrics.HTTPMiddleware)
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"X-Request-ID"},
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.Metrics != nil {
		router.Handle("/metrics", rt.options.Metrics.Handler())
	}

	pageHandler := handlers.NewPageHandler(rt.options.ViewsDir, rt.logger)
	for _, p := range pages {
		router.Get(p.path, pageHandler.Render(p.view))
	}

	submissionHandler := handlers.NewSubmissionHandler(rt.commandBus, rt.logger)
	router.Group(func(r chi.Router) {
		if rt.options.SubmitLimiter != nil {
			r.Use(middleware.RateLimit(rt.options.SubmitLimiter, rt.logger))
		}
		r.Post("/contactone", submissionHandler.SubmitContact)
		r.Post("/formdata", submissionHandler.SubmitEvent)
		r.Post("/dashboard-submit", submissionHandler.SubmitDashboard)
	})

	eventHandler := handlers.NewEventHandler(rt.queryBus, rt.logger)
	router.Get("/events", eventHandler.FindEvents)

	if rt.options.PublicDir != "" {
		static := handlers.StaticHandler(rt.options.PublicDir)
		router.Get("/*", static.ServeHTTP)
		router.Head("/*", static.ServeHTTP)
	}

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready only while the event store answers a ping
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := rt.store.Ping(ctx); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
