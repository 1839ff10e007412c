package gate

import (
	"github.com/diewo77/marketplace/auth"
)

// Policy is the allow-list of roles permitted under a route subtree.
// An empty Roles slice means "any authenticated role".
type Policy struct {
	Prefix string
	Roles  []string
}

// Allows reports whether the role is a member of the allow-list.
func (p *Policy) Allows(role string) bool {
	if len(p.Roles) == 0 {
		return role != ""
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Allow is the re-check used by state-mutating action handlers: they must
// not rely on the route-level gate alone, since an action can be invoked
// directly. Returns ErrUnauthorized when there is no session or the role is
// not in the allow-list; an empty allow-list admits any authenticated role.
func Allow(sess auth.Session, hasSession bool, roles ...string) error {
	if !hasSession || sess.Role == "" {
		return ErrUnauthorized
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if r == sess.Role {
			return nil
		}
	}
	return ErrUnauthorized
}
