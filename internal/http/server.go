// Package http exposes the ledger services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/cache"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Deps are the services the handlers call.
type Deps struct {
	Store        ledger.Store
	Notifier     *services.Notifier
	Dashboard    *services.DashboardService
	Goals        *services.GoalService
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Profiles     *services.ProfileService
	Backups      *services.BackupService
	Logger       *applog.Logger
}

type Options struct {
	Addr              string
	SnapshotCacheSize int
	SnapshotCacheTTL  time.Duration
	RequestsPerMinute int
}

type Server struct {
	http.Server
	deps     Deps
	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	now      func() time.Time

	// dashboards holds computed dashboards per user. Every ledger change
	// invalidates the user's entry.
	dashboards *cache.Guarded[aggregate.Dashboard]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, deps Deps) *Server {
	if opts.SnapshotCacheSize <= 0 {
		opts.SnapshotCacheSize = 1000
	}
	if opts.SnapshotCacheTTL <= 0 {
		opts.SnapshotCacheTTL = 5 * time.Minute
	}
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		deps:       deps,
		logger:     logger,
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector:   security.NewDetector(),
		now:        time.Now,
		dashboards: cache.NewGuarded(cache.NewLRUCache[aggregate.Dashboard](opts.SnapshotCacheSize, opts.SnapshotCacheTTL)),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	deps.Notifier.OnChange(s.dashboards.Invalidate)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /api/dashboard", s.handleDashboard)
	api.HandleFunc("GET /api/insights", s.handleInsights)
	api.HandleFunc("GET /api/insights/latest", s.handleLatestInsights)
	api.HandleFunc("GET /api/income/weekly", s.handleWeeklyIncome)

	api.HandleFunc("GET /api/goals", s.handleListGoals)
	api.HandleFunc("POST /api/goals", s.handleCreateGoal)
	api.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	api.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	api.HandleFunc("POST /api/goals/{id}/add", s.handleAddToGoal)
	api.HandleFunc("POST /api/goals/{id}/achieve", s.handleAchieveGoal)
	api.HandleFunc("POST /api/goals/{id}/not-achieved", s.handleGoalNotAchieved)

	api.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	api.HandleFunc("GET /api/transactions/{kind}", s.handleTransactionsByCategory)
	api.HandleFunc("DELETE /api/transactions/{kind}/{id}", s.handleDeleteTransaction)
	api.HandleFunc("POST /api/reset", s.handleReset)

	api.HandleFunc("GET /api/categories", s.handleListCategories)
	api.HandleFunc("POST /api/categories", s.handleCreateCategory)
	api.HandleFunc("PATCH /api/categories/{id}", s.handleRenameCategory)
	api.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	api.HandleFunc("GET /api/profile", s.handleGetProfile)
	api.HandleFunc("PUT /api/profile", s.handleUpdateProfile)

	api.HandleFunc("GET /api/assistant/prompt", s.handleAssistantPrompt)

	api.HandleFunc("GET /api/backup", s.handleExportBackup)
	api.HandleFunc("POST /api/backup/restore", s.handleRestoreBackup)
	api.HandleFunc("GET /api/backups", s.handleListBackups)
	api.HandleFunc("POST /api/backups", s.handleSaveBackup)
	api.HandleFunc("POST /api/backups/{id}/restore", s.handleRestoreSavedBackup)
	api.HandleFunc("DELETE /api/backups/{id}", s.handleDeleteBackup)

	limitWrites := s.limiter.Middleware(s.detector.ExtractClientIP, isSafeMethod,
		func(w http.ResponseWriter, _ *http.Request) {
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
		})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/api/", requireUser(limitWrites(api)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	return s.tracer.Middleware(headers.Middleware(s.detector.Middleware(mux)))
}

func isSafeMethod(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions
}

// Caches returns the caches a cache.Manager should clean periodically.
func (s *Server) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.dashboards}
}

// Shutdown stops the rate limiter and gracefully shuts down the listener.
// Only the first call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.deps.Store.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
		ErrorResponse(http.StatusServiceUnavailable, "store unavailable").Write(w)
		return
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w)
}
