package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
)

const msgInternalError = "Internal server error."

// RecoveryMiddleware turns a handler panic into a JSON 500. When the handler
// already committed a status the response is left as is and only logged.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			sr, ok := w.(*statusRecorder)
			committed := ok && sr.committed()
			log.Printf("panic request_id=%s method=%s path=%s committed=%t error=%v\n%s",
				RequestIDFrom(r), r.Method, r.URL.Path, committed, rec, debug.Stack())
			if !committed {
				JSONError(w, http.StatusInternalServerError, msgInternalError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
