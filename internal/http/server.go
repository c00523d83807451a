package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"jizhang/internal/log"
	"jizhang/internal/middleware/ratelimit"
	"jizhang/internal/middleware/security"
	"jizhang/internal/middleware/trace"
	"jizhang/internal/services"
)

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server. Zero values pick defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	Logger             *log.Logger
	Pinger             Pinger
}

type Server struct {
	http.Server
	records *services.RecordService
	reports *services.ReportService
	logger  *log.Logger
	pinger  Pinger

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware
	detector        *security.Detector
	started         time.Time

	shutdownOnce sync.Once
}

// NewServer wires the JSON API. Requests pass through tracing, suspicious
// request detection, security headers and per-user rate limiting, in that
// order.
func NewServer(recordSvc *services.RecordService, reportSvc *services.ReportService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector(opts.Logger)
	s := &Server{
		records:         recordSvc,
		reports:         reportSvc,
		logger:          logger,
		pinger:          opts.Pinger,
		detector:        detector,
		traceMiddleware: trace.NewMiddleware(opts.Logger, detector.ClientIP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/keypad/append", s.handleKeypadAppend)
	mux.HandleFunc("POST /api/keypad/backspace", s.handleKeypadBackspace)
	mux.HandleFunc("POST /api/keypad/evaluate", s.handleKeypadEvaluate)

	mux.HandleFunc("GET /api/periods", s.handlePeriods)
	mux.HandleFunc("GET /api/summary", s.withUser(s.handleSummary))
	mux.HandleFunc("GET /api/ranking", s.withUser(s.handleRanking))
	mux.HandleFunc("GET /api/chart", s.withUser(s.handleChart))
	mux.HandleFunc("GET /api/reports/monthly", s.withUser(s.handleMonthlyReport))
	mux.HandleFunc("GET /api/reports/yearly", s.withUser(s.handleYearlyReport))
	mux.HandleFunc("GET /api/overview", s.withUser(s.handleOverview))

	mux.HandleFunc("POST /api/records", s.withUser(s.handleCreateRecord))
	mux.HandleFunc("GET /api/records/{id}", s.withUser(s.handleGetRecord))
	mux.HandleFunc("PUT /api/records/{id}", s.withUser(s.handleUpdateRecord))
	mux.HandleFunc("DELETE /api/records/{id}", s.withUser(s.handleDeleteRecord))

	mux.HandleFunc("GET /api/categories", s.withUser(s.handleCategories))
	mux.HandleFunc("PUT /api/categories/order", s.withUser(s.handleSetCategoryOrder))

	limited := s.rateLimiter.Middleware(s.rateLimitKey, s.handleRateLimited)(mux)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)
	handler := s.traceMiddleware.Middleware(detector.Middleware(headers))

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops accepting requests, drains in-flight ones and stops the
// rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

type userHandler func(w http.ResponseWriter, r *http.Request, user string)

// withUser rejects requests without a usable user id.
func (s *Server) withUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := UserID(r)
		if err != nil {
			writeError(w, r, log.OpValidate, err)
			return
		}
		ctx := log.WithLogger(r.Context(), log.FromContext(r.Context()).With(log.FieldUserID, user))
		h(w, r.WithContext(ctx), user)
	}
}

// rateLimitKey limits signed-in users individually and anonymous callers
// by address.
func (s *Server) rateLimitKey(r *http.Request) string {
	if user, err := UserID(r); err == nil {
		return "user:" + user
	}
	return "ip:" + s.detector.ClientIP(r)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").
		WithRequestID(trace.GetRequestID(r.Context())).
		Write(w)
}
