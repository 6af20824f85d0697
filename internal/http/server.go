// Package http serves the JSON API over the ledger: transaction and budget
// writes go through the ledger service, derived views are computed by the
// engine and memoized until the next mutation.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finviz/internal/cache"
	applog "finviz/internal/log"
	"finviz/internal/services"
)

type Server struct {
	http.Server

	ledger      *services.LedgerService
	rateLimiter *rateLimiter

	// Memoized derived views, flushed whole on any mutation
	viewCache *cache.LRUCache[any]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures all routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.LedgerService, logger *applog.Logger, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		rateLimiter:  newRateLimiter(),
		viewCache:    cache.NewLRUCache[any](cacheSize, cacheTTL),
		cacheManager: cache.NewManager(logger.Logger),
	}

	s.cacheManager.Register(s.viewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withCommon(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budgets", s.withCommon(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.withCommon(s.handleCreateBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.withCommon(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withCommon(s.handleDeleteBudget))
	mux.HandleFunc("GET /api/budgets/months", s.withCommon(s.handleBudgetMonths))

	mux.HandleFunc("GET /api/alerts", s.withCommon(s.handleListAlerts))
	mux.HandleFunc("POST /api/alerts/{id}/dismiss", s.withCommon(s.handleDismissAlert))
	mux.HandleFunc("GET /api/insights", s.withCommon(s.handleListInsights))
	mux.HandleFunc("GET /api/summary", s.withCommon(s.handleSummary))

	mux.HandleFunc("GET /api/charts/monthly", s.withCommon(s.handleChartMonthly))
	mux.HandleFunc("GET /api/charts/categories", s.withCommon(s.handleChartCategories))
	mux.HandleFunc("GET /api/charts/budget-comparison", s.withCommon(s.handleChartComparison))

	return s
}

// withCommon adds security headers, rate limiting, and request logging.
func (s *Server) withCommon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		// Apply rate limiting to mutating requests
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		logRequest(ctx, requestID, r, rw.statusCode, clientIP, duration)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// flushViews drops every memoized view. Called after any mutation so reads
// always reflect the stored ledger.
func (s *Server) flushViews() {
	s.viewCache.Flush()
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
