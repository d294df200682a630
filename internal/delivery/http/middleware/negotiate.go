package middleware

import (
	"net/http"

	"github.com/munnerz/goautoneg"
)

const jsonContentType = "application/json"

// NegotiateJSON answers 406 with an empty body when the Accept header rules
// out a JSON representation. A missing Accept header accepts anything.
func NegotiateJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		if accept != "" && goautoneg.Negotiate(accept, []string{jsonContentType}) == "" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}

		next.ServeHTTP(w, r)
	})
}
