package observability

import (
	"log/slog"
)

// WSLogger emits structured log records for websocket hub activity. It
// wraps the application logger with a fixed hub attribute so lines from
// different hubs stay distinguishable.
type WSLogger struct {
	logger *slog.Logger
}

// NewWSLogger returns a WSLogger scoped to the named hub.
func NewWSLogger(hub string, logger *slog.Logger) *WSLogger {
	return &WSLogger{logger: logger.With(slog.String("hub", hub))}
}

// LogConnect records an accepted websocket connection.
func (l *WSLogger) LogConnect(userID uint) {
	l.logger.Info("websocket connected", slog.Uint64("user_id", uint64(userID)))
}

// LogDisconnect records a closed websocket connection.
func (l *WSLogger) LogDisconnect(userID uint, reason string) {
	l.logger.Info("websocket disconnected",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason))
}

// LogError records a websocket failure during the named stage.
func (l *WSLogger) LogError(userID uint, stage string, err error) {
	l.logger.Error("websocket error",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("stage", stage),
		slog.String("error", err.Error()))
}

// LogDropped records an outbound message discarded under backpressure.
func (l *WSLogger) LogDropped(userID uint, reason string) {
	l.logger.Warn("websocket message dropped",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason))
}

// LogLifecycle records a hub-level event such as shutdown or an
// unrecognized subscription channel.
func (l *WSLogger) LogLifecycle(event string, attrs ...any) {
	l.logger.Info("websocket lifecycle",
		append([]any{slog.String("event", event)}, attrs...)...)
}
