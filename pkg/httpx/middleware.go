package httpx

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to a handler in the order given: the first
// middleware listed is the outermost, so
//
//	Chain(h, AuthnMiddleware(v), RequireAnyScope("admin:read"))
//
// authenticates before checking scopes.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
