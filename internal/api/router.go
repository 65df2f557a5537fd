package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/pkg/clientip"
	"github.com/dmitrymomot/wagate/pkg/httpserver"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/ratelimiter"
	"github.com/dmitrymomot/wagate/pkg/requestid"
	"github.com/dmitrymomot/wagate/pkg/webhook"
)

var (
	ErrNilSessionManager = errors.New("session manager is nil")
	ErrNilStore          = errors.New("session store is nil")
)

type options struct {
	log       *slog.Logger
	rateStore ratelimiter.Store
	checks    []httpserver.CheckFunc
}

// Option configures NewRouter.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRateLimitStore sets the token bucket backend. The default is an
// in-memory store.
func WithRateLimitStore(s ratelimiter.Store) Option {
	return func(o *options) { o.rateStore = s }
}

// WithReadinessChecks adds dependency checks to GET /ready.
func WithReadinessChecks(checks ...httpserver.CheckFunc) Option {
	return func(o *options) { o.checks = append(o.checks, checks...) }
}

// NewRouter builds the gateway HTTP API.
func NewRouter(cfg Config, sessions SessionManager, st store.Store, opts ...Option) (http.Handler, error) {
	if sessions == nil {
		return nil, ErrNilSessionManager
	}
	if st == nil {
		return nil, ErrNilStore
	}

	o := &options{log: logger.Noop()}
	for _, opt := range opts {
		opt(o)
	}
	log := o.log.With(logger.Component("api"))

	h := &handlers{
		sessions:      sessions,
		store:         st,
		log:           log,
		signingSecret: cfg.WebhookSigningSecret,
		signatureAge:  cfg.WebhookMaxAge,
	}

	allowedHeaders := []string{
		"Accept", "Authorization", "Content-Type", cfg.APIKeyHeader, cfg.WebhookAuthHeader, requestid.Header,
		webhook.HeaderSignature, webhook.HeaderTimestamp, webhook.HeaderID,
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(clientip.NewResolver(cfg.TrustedIPHeaders...)),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   allowedHeaders,
			ExposedHeaders:   []string{requestid.Header, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.Recoverer,
		limitBody(cfg.MaxBodyBytes),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		renderError(log, w, req, ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		renderError(log, w, req, ErrMethodNotAllowed)
	})

	r.Get("/health", httpserver.LivenessHandler())
	r.Get("/ready", httpserver.ReadinessHandler(log, o.checks...))

	limit, err := rateLimit(cfg, o.rateStore, log)
	if err != nil {
		return nil, err
	}

	r.With(limit("webhook"), requireToken(log, cfg.WebhookAuthHeader, cfg.WebhookAuthToken, false)).
		Post("/webhook", h.wrap(h.webhookEcho))

	r.Group(func(r chi.Router) {
		r.Use(limit("api"), requireToken(log, cfg.APIKeyHeader, cfg.APIKey, true))

		r.Get("/create-session", h.wrap(h.createSession))
		r.Get("/session-status", h.wrap(h.sessionStatus))
		r.Get("/sessions", h.wrap(h.listSessions))
		r.Post("/logout", h.wrap(h.logout))
		r.Post("/send", h.wrap(h.send))
	})

	return r, nil
}

// rateLimit returns a constructor of token bucket middleware for one route
// group. Buckets are keyed by group and client IP. A zero capacity yields
// pass-through middleware.
func rateLimit(cfg Config, st ratelimiter.Store, log *slog.Logger) (func(scope string) func(http.Handler) http.Handler, error) {
	if cfg.RateLimitCapacity <= 0 {
		return func(string) func(http.Handler) http.Handler {
			return func(next http.Handler) http.Handler { return next }
		}, nil
	}
	if st == nil {
		st = ratelimiter.NewMemoryStore()
	}

	bucket, err := ratelimiter.NewBucket(st, ratelimiter.Config{
		Capacity:       cfg.RateLimitCapacity,
		RefillRate:     cfg.RateLimitRefill,
		RefillInterval: cfg.RateLimitInterval,
	})
	if err != nil {
		return nil, err
	}

	denied := ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
		renderError(log, w, r, ErrTooManyRequests)
	})
	failed := ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
		renderError(log, w, r, errors.Join(ErrRateLimiterDown, err))
	})
	return func(scope string) func(http.Handler) http.Handler {
		return ratelimiter.Middleware(bucket, scopedIPKey(scope), denied, failed)
	}, nil
}

// scopedIPKey prefixes the client IP with scope. Requests without a resolved
// IP get an empty key and are not limited.
func scopedIPKey(scope string) ratelimiter.KeyFunc {
	key := ratelimiter.Composite(func(*http.Request) string { return scope }, clientip.FromRequest)
	return func(r *http.Request) string {
		if clientip.FromRequest(r) == "" {
			return ""
		}
		return key(r)
	}
}
