package middleware

import "net/http"

// MaxBodySize limits the request body to the given number of bytes.
// Every route here takes JSON; the cap mostly matters for transcript
// uploads and translate calls carrying whole transcripts.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
