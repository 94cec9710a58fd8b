package httpx

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder remembers what was sent downstream so the access log and
// the panic handler can see it after the handler returns.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status != 0 {
		return
	}
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.written += int64(n)
	return n, err
}

// committed reports whether a status line has already gone out.
func (sr *statusRecorder) committed() bool {
	return sr.status != 0
}

// AccessLogMiddleware writes one key=value line per request once the handler
// has finished. Requests that never wrote anything are logged as 200.
func AccessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(sr, r)

		status := sr.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("access request_id=%s client=%s method=%s path=%s query=%q status=%d bytes=%d duration_ms=%d",
			RequestIDFrom(r),
			clientKey(r),
			r.Method,
			r.URL.Path,
			r.URL.RawQuery,
			status,
			sr.written,
			time.Since(start).Milliseconds(),
		)
	})
}
