package whatsapp

import (
	"context"
	"fmt"
	"log/slog"

	waLog "go.mau.fi/whatsmeow/util/log"
)

// slogLogger adapts slog to the whatsmeow logger interface.
type slogLogger struct {
	log *slog.Logger
}

func newLogger(l *slog.Logger, module string) waLog.Logger {
	return slogLogger{log: l.With(slog.String("module", module))}
}

func (s slogLogger) logf(level slog.Level, msg string, args ...any) {
	if !s.log.Enabled(context.Background(), level) {
		return
	}
	s.log.Log(context.Background(), level, fmt.Sprintf(msg, args...))
}

func (s slogLogger) Debugf(msg string, args ...any) { s.logf(slog.LevelDebug, msg, args...) }
func (s slogLogger) Infof(msg string, args ...any)  { s.logf(slog.LevelInfo, msg, args...) }
func (s slogLogger) Warnf(msg string, args ...any)  { s.logf(slog.LevelWarn, msg, args...) }
func (s slogLogger) Errorf(msg string, args ...any) { s.logf(slog.LevelError, msg, args...) }

func (s slogLogger) Sub(module string) waLog.Logger {
	return slogLogger{log: s.log.With(slog.String("submodule", module))}
}
