package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// responseTap captures what went back to the client so the access log and the
// metrics collector can read it after the handler returns.
type responseTap struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *responseTap) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *responseTap) Write(p []byte) (int, error) {
	n, err := t.ResponseWriter.Write(p)
	t.bytes += n
	return n, err
}

// Logger emits one JSON line per request on the standard logger.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		tap := &responseTap{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(tap, r)

		line, _ := json.Marshal(struct {
			Timestamp string `json:"ts"`
			RequestID string `json:"requestId"`
			Method    string `json:"method"`
			Path      string `json:"path"`
			Status    int    `json:"status"`
			Bytes     int    `json:"bytes"`
			Duration  int64  `json:"durationMs"`
		}{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: GetRequestID(r.Context()),
			Method:    r.Method,
			Path:      r.URL.Path,
			Status:    tap.status,
			Bytes:     tap.bytes,
			Duration:  time.Since(start).Milliseconds(),
		})
		log.Println(string(line))
	})
}
