package api

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"visit-scheduler-service/internal/platform/obs"
)

// responseRecorder captures the final HTTP status code and number of bytes
// written, to distinguish "handler returned 200" from "client received a
// response".
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *responseRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

var requestCounter atomic.Uint64

// loggingMiddleware assigns each request an id, propagates it through the
// context for timed operations, and logs end-to-end duration and response
// size.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := fmt.Sprintf("%06d", requestCounter.Add(1))
		ctx := obs.WithRequestID(r.Context(), reqID)

		rec := &responseRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r.WithContext(ctx))

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), rec.status, rec.bytes,
			time.Since(start).Milliseconds(),
		)
	})
}
