// Per-request log context. Each request gets an explicit key-value bag
// carried in its context.Context for the request's lifetime and emitted as
// a single structured log record at completion. Handlers annotate it via
// logKV; nothing here is global or shared across requests.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type reqCtxKey struct{}

// reqCtx is the request-scoped key-value bag.
type reqCtx struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

func (c *reqCtx) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs = append(c.attrs, slog.Any(key, value))
}

func (c *reqCtx) snapshot() []slog.Attr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]slog.Attr(nil), c.attrs...)
}

// logKV records a key-value pair on the current request's log context.
// No-op when the request carries no bag (e.g. in handler unit tests).
func logKV(ctx context.Context, key string, value any) {
	if c, ok := ctx.Value(reqCtxKey{}).(*reqCtx); ok {
		c.set(key, value)
	}
}

// statusRecorder captures the response status for the completion record.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogger attaches the key-value bag and emits one log record per
// request at completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bag := &reqCtx{}
		ctx := context.WithValue(r.Context(), reqCtxKey{}, bag)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)),
		}
		attrs = append(attrs, bag.snapshot()...)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
	})
}
