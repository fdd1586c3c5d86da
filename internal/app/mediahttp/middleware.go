package mediahttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logging пишет одну запись на запрос со статусом, размером и длительностью.
func Logging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			mw := &metaWriter{ResponseWriter: w}

			next.ServeHTTP(mw, r)

			l.LogAttrs(r.Context(), slog.LevelInfo, "request",
				slog.String("req_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", mw.Status()),
				slog.Int64("bytes", mw.size),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

// metaWriter запоминает статус и количество записанных байт тела.
type metaWriter struct {
	http.ResponseWriter
	status int
	size   int64
}

func (m *metaWriter) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *metaWriter) Write(b []byte) (int, error) {
	if m.status == 0 {
		m.status = http.StatusOK
	}
	n, err := m.ResponseWriter.Write(b)
	m.size += int64(n)
	return n, err
}

// Status возвращает отправленный код ответа; 200, если обработчик ничего не записал.
func (m *metaWriter) Status() int {
	if m.status == 0 {
		return http.StatusOK
	}
	return m.status
}

// Unwrap нужен http.ResponseController.
func (m *metaWriter) Unwrap() http.ResponseWriter {
	return m.ResponseWriter
}
