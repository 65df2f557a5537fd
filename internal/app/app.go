package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/wagate/internal/api"
	"github.com/dmitrymomot/wagate/internal/forwarder"
	"github.com/dmitrymomot/wagate/internal/gateway"
	"github.com/dmitrymomot/wagate/internal/media"
	"github.com/dmitrymomot/wagate/internal/store"
	"github.com/dmitrymomot/wagate/internal/transport"
	"github.com/dmitrymomot/wagate/internal/transport/whatsapp"
	"github.com/dmitrymomot/wagate/pkg/httpserver"
	"github.com/dmitrymomot/wagate/pkg/logger"
	"github.com/dmitrymomot/wagate/pkg/mongo"
	"github.com/dmitrymomot/wagate/pkg/ratelimiter"
	"github.com/dmitrymomot/wagate/pkg/redis"
)

// ErrStartup marks failures that happen before the server accepts requests.
var ErrStartup = errors.New("startup failed")

type runOptions struct {
	factory transport.ClientFactory
}

// RunOption overrides a default dependency of Run.
type RunOption func(*runOptions)

// WithClientFactory replaces the WhatsApp transport.
func WithClientFactory(f transport.ClientFactory) RunOption {
	return func(o *runOptions) { o.factory = f }
}

// Run connects to storage, wires the gateway and serves HTTP until ctx is
// canceled or a termination signal arrives. A storage connection failure
// is returned wrapped in ErrStartup.
func Run(ctx context.Context, cfg Config, log *slog.Logger, opts ...RunOption) error {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.factory == nil {
		o.factory = whatsapp.NewFactory(
			whatsapp.WithLogger(log),
			whatsapp.WithDeviceName(cfg.DeviceName),
		)
	}

	mongoClient, db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return errors.Join(ErrStartup, err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.Error("failed to disconnect mongo", logger.Error(err))
		}
	}()

	sessions, err := store.NewMongoStore(db, cfg.SessionCollection)
	if err != nil {
		return errors.Join(ErrStartup, err)
	}
	if err := sessions.EnsureIndexes(ctx); err != nil {
		return errors.Join(ErrStartup, err)
	}

	checks := []httpserver.CheckFunc{mongo.Healthcheck(mongoClient)}

	var limiterStore ratelimiter.Store
	if cfg.Redis.Enabled() {
		redisClient, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return errors.Join(ErrStartup, err)
		}
		defer func() { _ = redisClient.Close() }()

		limiterStore = ratelimiter.NewRedisStore(redisClient, cfg.ServiceName+":ratelimit:")
		checks = append(checks, redis.Healthcheck(redisClient))
	} else {
		memStore := ratelimiter.NewMemoryStore()
		defer memStore.Close()
		limiterStore = memStore
	}

	fwd := forwarder.New(cfg.Webhook, forwarder.WithLogger(log))
	if !cfg.Webhook.Enabled() {
		log.Info("webhook forwarding disabled", logger.Component("forwarder"))
	}

	manager, err := gateway.NewManager(sessions, o.factory,
		gateway.WithLogger(log),
		gateway.WithSessionDir(cfg.SessionDir),
		gateway.WithStoreWriteTimeout(cfg.StoreWriteTimeout),
		gateway.WithQRSize(cfg.QRSize),
		gateway.WithMediaFetcher(media.New(cfg.Media, media.WithLogger(log))),
		gateway.WithForwarder(fwd),
	)
	if err != nil {
		return errors.Join(ErrStartup, err)
	}

	router, err := api.NewRouter(cfg.API, manager, sessions,
		api.WithLogger(log),
		api.WithRateLimitStore(limiterStore),
		api.WithReadinessChecks(checks...),
	)
	if err != nil {
		return errors.Join(ErrStartup, err)
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr string, log *slog.Logger) {
			log.Info("gateway listening", slog.String("addr", addr))
		}),
		httpserver.WithStopHook(func(ctx context.Context, log *slog.Logger) {
			if err := manager.Shutdown(ctx); err != nil {
				log.Error("session manager shutdown incomplete", logger.Error(err))
			}
			if err := waitDeliveries(ctx, fwd); err != nil {
				log.Warn("pending webhook deliveries abandoned", logger.Error(err))
			}
		}),
	)
	return srv.Run(ctx, router)
}

func waitDeliveries(ctx context.Context, fwd *forwarder.Forwarder) error {
	done := make(chan struct{})
	go func() {
		fwd.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
