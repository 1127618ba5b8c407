package security

import (
	"net/http"

	"github.com/noah-isme/backend-b2b/internal/common"
)

// BodyLimit caps the request payload size.
type BodyLimit struct {
	Max int64
}

// Middleware rejects declared oversized bodies up front and wraps the rest in
// http.MaxBytesReader so decoders fail with *http.MaxBytesError once the
// limit is crossed.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > b.Max {
			common.Fail(w, http.StatusRequestEntityTooLarge, "request entity too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, b.Max)
		next.ServeHTTP(w, r)
	})
}
