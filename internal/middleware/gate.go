package middleware

import (
	"net/http"

	"github.com/diewo77/marketplace/gate"
)

// Gate enforces the route policy table. Unauthorized access never produces
// an error page: the user is redirected to the localized login path (no
// session) or to their role's landing path (wrong role), and only a neutral
// placeholder body is ever written before the decision is known.
func Gate(g *gate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := FromRequest(r)
			d := g.Evaluate(true, rc.Session, rc.HasSession, rc.Locale, rc.Path)
			switch d.State {
			case gate.StateAuthorized:
				next.ServeHTTP(w, r)
			case gate.StateRedirecting:
				http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
			default:
				// Identity resolution pending: nothing observable.
				w.WriteHeader(http.StatusNoContent)
			}
		})
	}
}
