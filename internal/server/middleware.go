package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// RecordedRequest is a snapshot of an incoming request taken by [Recorder].
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// statusWriter remembers the status code written by the wrapped handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs every request at debug level, and at warn level when the response is not 2xx.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			kv := []any{"method", r.Method, "path", r.URL.Path, "status", sw.status, "duration", time.Since(start)}
			if sw.status >= 200 && sw.status < 300 {
				logger.Debug("request", kv...)
			} else {
				logger.Warn("request", kv...)
			}
		})
	}
}

// Recorder passes a copy of every request to record before calling the next handler.
//
// The body is restored so handlers can read it again.
func Recorder(record func(RecordedRequest)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body.Close()
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			record(RecordedRequest{
				Method:      r.Method,
				Path:        r.URL.Path,
				ContentType: r.Header.Get("Content-Type"),
				Body:        body,
			})
			next.ServeHTTP(w, r)
		})
	}
}
