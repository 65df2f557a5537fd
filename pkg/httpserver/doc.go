// Package httpserver wraps net/http with graceful shutdown and probe handlers.
//
// Run blocks until the context is canceled, SIGINT/SIGTERM arrives or
// Shutdown is called, then drains in-flight requests within the shutdown
// timeout and runs stop hooks with the remaining deadline. The gateway uses a
// stop hook to disconnect every live session after HTTP traffic has stopped.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(ctx context.Context, _ *slog.Logger) {
//			manager.Shutdown(ctx)
//		}),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler serve /health and /ready.
package httpserver
