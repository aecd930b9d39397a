package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/httpx"
	"github.com/diewo77/offermaster/internal/guard"
	"github.com/diewo77/offermaster/internal/handlers"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/mailer"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/middleware"
	"github.com/diewo77/offermaster/internal/policy"
	"github.com/diewo77/offermaster/internal/services"
	"github.com/diewo77/offermaster/internal/storage"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Metrics     *metrics.Registry
	Tokens      *auth.Tokens
	Store       storage.Store
	Mail        mailer.Sender
	Guard       guard.Locker
	FrontendURL string
	ResetTTL    time.Duration
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewRegistry()
	}
	if d.Guard == nil {
		d.Guard = guard.NewKeyed()
	}
	mux := http.NewServeMux()
	g := policy.NewAuthGate()

	userSvc := services.NewUserService(d.DB, d.Tokens, d.Mail, d.FrontendURL, d.ResetTTL)
	// RequireAuth also checks that the token's user still exists.
	auth.SetUserVerifier(userSvc.Exists)

	protect := func(h http.HandlerFunc) http.Handler {
		return d.Tokens.Middleware(auth.RequireAuth(h))
	}

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := Ping(r.Context(), d.DB); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", d.Metrics.Handler())

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(userSvc, d.Metrics)
	authHandler.Register(mux)
	uh := handlers.NewUserHandler(userSvc)
	mux.Handle("GET /api/users/me", protect(uh.Me))
	mux.Handle("PUT /api/users/me", protect(uh.UpdateMe))

	// Catalog
	ah := handlers.NewArticleHandler(services.NewArticleService(d.DB))
	mux.Handle("GET /articles", protect(ah.List))
	mux.Handle("POST /articles", protect(ah.Create))
	mux.Handle("PUT /articles/{id}", protect(ah.Update))
	mux.Handle("DELETE /articles/{id}", protect(ah.Delete))

	// Quotes
	qh := handlers.NewQuoteHandler(services.NewQuoteService(d.DB, d.Store, d.Mail, g), d.Guard, d.Metrics)
	mux.Handle("GET /api/quotes", protect(qh.List))
	mux.Handle("POST /api/quotes", protect(qh.Create))
	mux.Handle("GET /api/quotes/export.xlsx", protect(qh.Export))
	mux.Handle("GET /api/quotes/{id}", protect(qh.Get))
	mux.Handle("GET /api/quotes/{id}/pdf", protect(qh.PDF))
	mux.Handle("POST /api/quotes/{id}/email", protect(qh.Email))

	// Projects
	ph := handlers.NewProjectHandler(services.NewProjectService(d.DB, d.Store, g), d.Metrics)
	mux.Handle("GET /api/projects", protect(ph.List))
	mux.Handle("POST /api/projects", protect(ph.Create))
	mux.Handle("GET /api/projects/{id}", protect(ph.Get))
	mux.Handle("PUT /api/projects/{id}", protect(ph.Update))
	mux.Handle("DELETE /api/projects/{id}", protect(ph.Delete))

	// Calendar
	ch := handlers.NewCalendarHandler(services.NewEventService(d.DB, g), d.Metrics)
	mux.Handle("GET /api/calendar-events", protect(ch.List))
	mux.Handle("POST /api/calendar-events", protect(ch.Create))
	mux.Handle("DELETE /api/calendar-events/{id}", protect(ch.Delete))
	mux.Handle("GET /api/calendar", protect(ch.Grid))

	return middleware.Prefs(middleware.RequestID(d.Log)(withRecover(withLogging(d.Metrics, mux))))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// withLogging logs every request and records it under its route pattern.
func withLogging(m *metrics.Registry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		// r.Pattern is filled in by the mux on this same request.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.HTTPLatencySec.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		logger.FromContext(r.Context()).Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("panic recovered", zap.Any("panic", rec), zap.Stack("stack"))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Ping reports whether the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec("SELECT 1").Error
}
