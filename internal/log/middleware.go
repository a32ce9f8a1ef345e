package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type ctxKey struct{}

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or one over slog.Default when the
// request never went through Middleware.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: "unknown"}
}

// Middleware puts logger in every request context, tagged with the id that
// requestID extracts. A nil requestID or an empty id leaves it untagged.
func Middleware(logger *Logger, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger
			if requestID != nil {
				if id := requestID(r); id != "" {
					l = l.With(FieldRequestID, id)
				}
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), l)))
		})
	}
}

// LogRequest logs a finished request: warn for 4xx, error for 5xx.
func LogRequest(ctx context.Context, r *http.Request, status int, elapsed time.Duration, clientIP string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	args := []any{
		FieldMethod, r.Method,
		FieldPath, r.URL.Path,
		FieldStatusCode, status,
		FieldDuration, elapsed.Milliseconds(),
		FieldClientIP, clientIP,
	}
	if r.URL.RawQuery != "" {
		args = append(args, FieldQuery, r.URL.RawQuery)
	}
	if ua := r.UserAgent(); ua != "" {
		args = append(args, FieldUserAgent, ua)
	}

	l := FromContext(ctx)
	l.Logger.Log(ctx, level, "HTTP request completed", l.attrs(args)...)
}

// LogIntent records one executed intent under the intent component.
func LogIntent(ctx context.Context, sessionID, action, status string, elapsed time.Duration) {
	FromContext(ctx).WithComponent(ComponentIntent).InfoContext(ctx, "Intent executed",
		FieldOperation, OpExecute,
		FieldSessionID, sessionID,
		FieldAction, action,
		FieldStatus, status,
		FieldDuration, elapsed.Milliseconds(),
	)
}
