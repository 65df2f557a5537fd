package clientip

import "net/http"

// Middleware stores the resolved client IP in the request context.
func Middleware(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetIPToContext(r.Context(), res.IP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromRequest returns the IP stored by Middleware. It suits ratelimiter.KeyFunc.
func FromRequest(r *http.Request) string {
	return GetIPFromContext(r.Context())
}
