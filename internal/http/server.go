package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"financebot/internal/dates"
	"financebot/internal/intent"
	"financebot/internal/ledger"
	applog "financebot/internal/log"
)

const (
	maxBodyBytes    = 64 << 10
	requestsPerMin  = 120
	shutdownTimeout = 10 * time.Second
	handlerTimeout  = 60 * time.Second
)

// Config holds server dependencies.
type Config struct {
	Addr     string
	Store    ledger.Store
	Executor *intent.Executor
	Dates    *dates.Resolver
	Sessions *SessionRegistry
	Logger   *applog.Logger
	// AllowedOrigins defaults to any origin.
	AllowedOrigins []string
}

type Server struct {
	router   *chi.Mux
	server   *http.Server
	store    ledger.Store
	executor *intent.Executor
	dates    *dates.Resolver
	sessions *SessionRegistry
	limiter  *rateLimiter
	log      *applog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		router:   chi.NewRouter(),
		store:    cfg.Store,
		executor: cfg.Executor,
		dates:    cfg.Dates,
		sessions: cfg.Sessions,
		limiter:  newRateLimiter(requestsPerMin),
		log:      logger,
	}

	s.setupMiddleware(cfg.AllowedOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(securityHeaders)
	s.router.Use(applog.Middleware(s.log, func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(handlerTimeout))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.middleware)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleEndSession)
			r.Post("/intents", s.handleIntent)
		})

		r.Get("/resolve/date", s.handleResolveDate)
		r.Get("/resolve/period", s.handleResolvePeriod)
		r.Get("/summary", s.handleSummary)
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// RateLimiter is registered with the cache janitor so idle clients are pruned.
func (s *Server) RateLimiter() interface{ CleanExpired() int } {
	return s.limiter
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.InfoContext(gctx, "Starting HTTP server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		applog.LogRequest(r.Context(), r, status, time.Since(start), extractClientIP(r))
	})
}
