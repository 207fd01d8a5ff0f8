package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"oed-api/internal/handler/http/respond"
)

// errRequestTimeout is the body of 504 responses.
var errRequestTimeout = errors.New("request timeout")

// Timeout returns middleware that enforces request timeouts.
// The request context is canceled after duration, which aborts in-flight database
// queries. If the handler has not started its response by then the client gets
// 504 Gateway Timeout; a response already being streamed is cut short instead.
//
// Unlike http.TimeoutHandler the response is not buffered, so large CSV exports
// stream straight to the client. A non-positive duration disables the middleware.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if duration <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			done := make(chan struct{})
			panicChan := make(chan any, 1)
			tw := &timeoutResponseWriter{
				ResponseWriter: w,
				header:         make(http.Header),
			}

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicChan:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.written {
					// handler returned without writing anything
					tw.flushHeader(http.StatusOK)
				}
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.written {
					respond.Error(w, http.StatusGatewayTimeout, errRequestTimeout)
				}
			}
		})
	}
}

// timeoutResponseWriter keeps handler headers private until the response starts, so a
// handler still running after the timeout cannot race with the 504 response.
type timeoutResponseWriter struct {
	http.ResponseWriter
	header http.Header

	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (w *timeoutResponseWriter) Header() http.Header {
	return w.header
}

// flushHeader copies handler headers and sends the status. Callers hold mu.
func (w *timeoutResponseWriter) flushHeader(statusCode int) {
	dst := w.ResponseWriter.Header()
	for k, v := range w.header {
		dst[k] = v
	}
	w.written = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// WriteHeader writes the status code if timeout hasn't occurred
func (w *timeoutResponseWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.timedOut && !w.written {
		w.flushHeader(statusCode)
	}
}

// Write writes data if timeout hasn't occurred
func (w *timeoutResponseWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !w.written {
		w.flushHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

// Flush forwards to the underlying writer while the request is still live.
func (w *timeoutResponseWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timedOut {
		return
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
