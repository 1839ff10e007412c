// Package gate provides declarative, role-based route authorization.
// A single policy table maps route subtrees to allowed role sets; one
// evaluation function replaces per-route ad hoc role checks. The package
// has no HTTP dependencies beyond the session type and can be exercised
// directly from tests.
package gate

import (
	"sort"
	"strings"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/i18n"
)

// State is the authorization state machine for a protected view.
// A request starts Unknown until identity resolution has completed; it then
// settles as Authorized or Redirecting. Callers must render a neutral
// placeholder while Unknown so protected content never flashes before the
// check, and no redirect fires before resolution either.
type State int

const (
	StateUnknown State = iota
	StateAuthorized
	StateRedirecting
)

// Decision is the outcome of evaluating a route policy for a request.
// RedirectTo is a localized path, set only when State is StateRedirecting.
type Decision struct {
	State      State
	RedirectTo string
}

// Gate holds the route policy table and the logical login path.
type Gate struct {
	policies  []Policy
	loginPath string
}

// New builds a gate from a policy table. Policies are matched by longest
// prefix, so "/admin/settings" can carry a stricter rule than "/admin".
func New(policies ...Policy) *Gate {
	sorted := make([]Policy, len(policies))
	copy(sorted, policies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Gate{policies: sorted, loginPath: "/login"}
}

// SetLoginPath overrides the logical login path used for redirects.
func (g *Gate) SetLoginPath(p string) {
	if p != "" {
		g.loginPath = p
	}
}

// Lookup returns the policy governing a logical (locale-stripped) path.
// A route with no policy is implicitly public.
func (g *Gate) Lookup(logicalPath string) *Policy {
	for i := range g.policies {
		if matchPrefix(logicalPath, g.policies[i].Prefix) {
			return &g.policies[i]
		}
	}
	return nil
}

// Evaluate runs the ordered authorization algorithm.
//
//  1. Identity resolution still pending: Unknown — render nothing observable.
//  2. No session on a protected route: redirect to the localized login path.
//  3. Session present but role not in the allow-list: redirect to the
//     role's default landing path.
//  4. Otherwise: authorized.
//
// Authorization failure is never a hard error; unauthorized access becomes
// "send the user where they belong".
func (g *Gate) Evaluate(resolved bool, sess auth.Session, hasSession bool, loc i18n.Locale, logicalPath string) Decision {
	if !resolved {
		return Decision{State: StateUnknown}
	}
	pol := g.Lookup(logicalPath)
	if pol == nil {
		return Decision{State: StateAuthorized}
	}
	if !hasSession {
		return Decision{State: StateRedirecting, RedirectTo: i18n.Localize(g.loginPath, loc)}
	}
	if !pol.Allows(sess.Role) {
		return Decision{State: StateRedirecting, RedirectTo: i18n.Localize(LandingPath(sess.Role), loc)}
	}
	return Decision{State: StateAuthorized}
}

// LandingPath is the default logical home for a role, used when a session
// holds a role the route does not allow.
func LandingPath(role string) string {
	switch role {
	case auth.RoleSuperadmin:
		return "/admin"
	case auth.RoleVendorAdmin, auth.RoleVendor:
		return "/vendor"
	default:
		return "/"
	}
}

// matchPrefix reports whether path falls under prefix on segment boundaries,
// so "/admin" governs "/admin" and "/admin/banners" but not "/administrators".
func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
