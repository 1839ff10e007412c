package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/diewo77/marketplace/view"
)

// CachePage serves anonymous storefront GETs from the rendered-page cache.
// Authenticated requests bypass the cache entirely: their pages carry
// session-specific header state. Only 200 responses are stored.
func CachePage(c *view.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := FromRequest(r)
			// JSON reads are cheap and session-shaped responses vary; only
			// anonymous HTML GETs are cacheable.
			if r.Method != http.MethodGet || rc.HasSession ||
				strings.Contains(r.Header.Get("Accept"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if body, ok := c.Get(rc.FullPath); ok {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write(body)
				return
			}
			rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.status == http.StatusOK && rec.buf.Len() > 0 {
				c.Put(rc.FullPath, rec.buf.Bytes())
			}
		})
	}
}

// captureWriter tees the response body so it can be cached after writing.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (cw *captureWriter) WriteHeader(status int) {
	cw.status = status
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.status == http.StatusOK {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}
