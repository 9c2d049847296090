// Package http exposes the dashboard as a JSON API for the SPA client.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgeteer/internal/cache"
	applog "budgeteer/internal/log"
	"budgeteer/internal/metrics"
	"budgeteer/internal/services"
)

type Server struct {
	http.Server
	service     *services.DashboardService
	rateLimiter *rateLimiter

	// LRU cache for computed summaries, keyed by period. Purged whenever a
	// budget or asset edit changes the underlying state.
	summaryCache *cache.LRUCache[metrics.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, service *services.DashboardService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		service:      service,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[metrics.Summary](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/overview", s.withMiddleware(s.handleOverview))
	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("PUT /api/budgets/{category}", s.withMiddleware(s.handleSetBudget))
	mux.HandleFunc("GET /api/networth", s.withMiddleware(s.handleNetWorth))
	mux.HandleFunc("POST /api/assets", s.withMiddleware(s.handleAddAsset))
	mux.HandleFunc("DELETE /api/assets", s.withMiddleware(s.handleRemoveAsset))
	mux.HandleFunc("GET /api/goal", s.withMiddleware(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goal", s.withMiddleware(s.handleSetGoal))
	mux.HandleFunc("POST /api/chat", s.withMiddleware(s.handleChat))
	mux.HandleFunc("GET /api/chat", s.withMiddleware(s.handleChatHistory))
	mux.HandleFunc("POST /api/explain", s.withMiddleware(s.handleExplain))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := uuid.NewString()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		logger := httpLogger.With(
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
		)
		logger.InfoContext(ctx, "Request started")

		// Mutating requests are rate limited per client.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

var httpLogger = applog.New(applog.Config{Component: applog.ComponentHTTP})

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
