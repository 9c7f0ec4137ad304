package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bento-navi/internal/handler/http/respond"
	"bento-navi/internal/observability/logging"
)

// Timeout returns middleware that bounds the whole request.
// If a request takes longer than the specified duration, it returns 504 Gateway Timeout.
// The request context is canceled, so an in-flight OGP resolution stops its
// current proxy attempt and a pending spreadsheet retry is aborted.
//
// The handler writes into a buffer that is copied to the client only when it
// finishes in time, so the handler goroutine never touches the real writer.
// A panic in the handler is re-raised on the serving goroutine for Recover.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			bw := &bufferedWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(bw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				bw.flushTo(w)
			case <-ctx.Done():
				bw.expire()
				if errors.Is(ctx.Err(), context.Canceled) {
					// クライアント切断: 応答不要
					return
				}
				logging.FromContext(ctx).Warn("request timed out",
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", duration))
				respond.JSON(w, http.StatusGatewayTimeout, map[string]string{"error": "request timeout"})
			}
		})
	}
}

// bufferedWriter collects a handler's response until Timeout decides
// whether it is sent.
type bufferedWriter struct {
	mu      sync.Mutex
	header  http.Header
	body    bytes.Buffer
	status  int
	expired bool
}

func (w *bufferedWriter) Header() http.Header { return w.header }

func (w *bufferedWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.expired || w.status != 0 {
		return
	}
	if statusCode < 100 || statusCode > 999 {
		panic(fmt.Sprintf("invalid WriteHeader code %v", statusCode))
	}
	w.status = statusCode
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.expired {
		return 0, http.ErrHandlerTimeout
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(data)
}

func (w *bufferedWriter) expire() {
	w.mu.Lock()
	w.expired = true
	w.mu.Unlock()
}

func (w *bufferedWriter) flushTo(dst http.ResponseWriter) {
	w.mu.Lock()
	defer w.mu.Unlock()

	h := dst.Header()
	for k, v := range w.header {
		h[k] = v
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	dst.WriteHeader(w.status)
	_, _ = dst.Write(w.body.Bytes())
}
