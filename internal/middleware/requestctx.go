// Package middleware wires locale resolution, session resolution and the
// route authorization gate into the HTTP stack. Handlers receive one
// immutable request-scoped value bundling the resolved locale and session
// instead of re-deriving either from ambient state.
package middleware

import (
	"context"
	"net/http"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/i18n"
)

// RequestContext is the per-request resolved state. Built once by
// RequestScope; read-only afterwards.
type RequestContext struct {
	Locale i18n.Locale
	// Path is the logical (locale-stripped) request path the router sees.
	Path string
	// FullPath is the original path including the locale prefix, used as
	// the page-cache key and for locale switching.
	FullPath   string
	Session    auth.Session
	HasSession bool
}

type ctxKey struct{}

// FromRequest returns the RequestContext attached by RequestScope.
// The zero value (default locale, no session) is returned when the
// middleware did not run, so callers never nil-check.
func FromRequest(r *http.Request) RequestContext {
	if rc, ok := r.Context().Value(ctxKey{}).(RequestContext); ok {
		return rc
	}
	return RequestContext{Locale: i18n.Default(), Path: r.URL.Path, FullPath: r.URL.Path}
}

// RequestScope resolves the locale from the path prefix and the session from
// the token carrier, rewrites the URL to its logical path for routing, and
// attaches the bundle to the request context.
func RequestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc, logical := i18n.FromPath(r.URL.Path)
		sess, hasSession := auth.CurrentSession(r)

		rc := RequestContext{
			Locale:     loc,
			Path:       logical,
			FullPath:   r.URL.Path,
			Session:    sess,
			HasSession: hasSession,
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, rc)
		if hasSession {
			ctx = auth.WithSession(ctx, sess)
		}

		r2 := r.Clone(ctx)
		r2.URL.Path = logical
		next.ServeHTTP(w, r2)
	})
}
