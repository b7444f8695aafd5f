package http

import (
	"context"
	"net/http"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/doc-forge-buddy/docforge/pkg/utils/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ScanUseCase runs the notification scan
type ScanUseCase interface {
	Scan(ctx context.Context) (*model.ScanResult, error)
}

// NotificationUseCase serves the notification inbox
type NotificationUseCase interface {
	List(ctx context.Context, userID model.UserID, unreadOnly bool) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID model.UserID, id model.NotificationID) error
}

// AssistUseCase answers text requests through the response cache
type AssistUseCase interface {
	Complete(ctx context.Context, input string, mode types.CacheMode) (*usecase.AssistResult, error)
	CacheStats() *model.CacheStats
	ClearCache(ctx context.Context)
}

type Server struct {
	router         *chi.Mux
	scanUC         ScanUseCase
	notificationUC NotificationUseCase
	assistUC       AssistUseCase
	enableMetrics  bool
	now            func() time.Time
}

type Options func(*Server)

func WithScanUseCase(uc ScanUseCase) Options {
	return func(s *Server) {
		s.scanUC = uc
	}
}

func WithNotificationUseCase(uc NotificationUseCase) Options {
	return func(s *Server) {
		s.notificationUC = uc
	}
}

func WithAssistUseCase(uc AssistUseCase) Options {
	return func(s *Server) {
		s.assistUC = uc
	}
}

// WithMetrics exposes Prometheus metrics on /metrics
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func WithClock(now func() time.Time) Options {
	return func(s *Server) {
		s.now = now
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Scheduler trigger, callable from browsers and cron services
	r.Route("/api/check-notifications", func(r chi.Router) {
		r.Use(permissiveCORS)
		r.Options("/", preflightHandler)
		r.Get("/", checkNotificationsHandler(s.scanUC, s.now))
		r.Post("/", checkNotificationsHandler(s.scanUC, s.now))
	})

	if s.notificationUC != nil {
		r.Route("/api/users/{userID}/notifications", func(r chi.Router) {
			r.Get("/", listNotificationsHandler(s.notificationUC))
			r.Post("/{notificationID}/read", markReadHandler(s.notificationUC))
		})
	}

	if s.assistUC != nil {
		r.Route("/api/assist", func(r chi.Router) {
			r.Post("/", assistHandler(s.assistUC))
			r.Get("/cache/stats", cacheStatsHandler(s.assistUC))
			r.Delete("/cache", clearCacheHandler(s.assistUC))
		})
	}

	if s.enableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
