package gate_test

import (
	"testing"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/gate"
	"github.com/diewo77/marketplace/i18n"
)

func testGate() *gate.Gate {
	return gate.New(
		gate.Policy{Prefix: "/admin", Roles: []string{auth.RoleSuperadmin}},
		gate.Policy{Prefix: "/vendor", Roles: []string{auth.RoleVendorAdmin, auth.RoleVendor}},
		gate.Policy{Prefix: "/account"}, // any authenticated role
	)
}

func TestGate_PublicRoute(t *testing.T) {
	g := testGate()
	d := g.Evaluate(true, auth.Session{}, false, i18n.Default(), "/category/shoes")
	if d.State != gate.StateAuthorized {
		t.Fatalf("expected public route to be authorized, got %v", d)
	}
}

func TestGate_Unknown_BeforeResolution(t *testing.T) {
	g := testGate()
	d := g.Evaluate(false, auth.Session{}, false, i18n.Default(), "/admin")
	if d.State != gate.StateUnknown {
		t.Fatalf("expected Unknown before identity resolution, got %v", d.State)
	}
	if d.RedirectTo != "" {
		t.Fatalf("no redirect may fire before resolution completes, got %q", d.RedirectTo)
	}
}

func TestGate_NoSession_RedirectsToLocalizedLogin(t *testing.T) {
	g := testGate()
	en, _ := i18n.ByCode("en")
	for _, path := range []string{"/admin", "/vendor/products", "/account"} {
		d := g.Evaluate(true, auth.Session{}, false, en, path)
		if d.State != gate.StateRedirecting {
			t.Fatalf("path %s: expected redirect, got %v", path, d.State)
		}
		if d.RedirectTo != "/en/login" {
			t.Fatalf("path %s: expected /en/login, got %q", path, d.RedirectTo)
		}
	}
}

func TestGate_WrongRole_RedirectsToRoleLanding(t *testing.T) {
	g := testGate()
	km := i18n.Default()

	// A vendor_admin session denied by a superadmin-only route lands on the
	// vendor home, silently.
	d := g.Evaluate(true, auth.Session{UserID: 1, Role: auth.RoleVendorAdmin, VendorID: 2}, true, km, "/admin/banners")
	if d.State != gate.StateRedirecting {
		t.Fatalf("expected redirect, got %v", d.State)
	}
	if d.RedirectTo != "/km/vendor" {
		t.Fatalf("expected /km/vendor, got %q", d.RedirectTo)
	}

	// Superadmin denied by a vendor route lands on admin home.
	d = g.Evaluate(true, auth.Session{UserID: 2, Role: auth.RoleSuperadmin}, true, km, "/vendor")
	if d.RedirectTo != "/km/admin" {
		t.Fatalf("expected /km/admin, got %q", d.RedirectTo)
	}

	// Customers land on the storefront home.
	d = g.Evaluate(true, auth.Session{UserID: 3, Role: auth.RoleCustomer}, true, km, "/vendor")
	if d.RedirectTo != "/km" {
		t.Fatalf("expected /km, got %q", d.RedirectTo)
	}
}

func TestGate_EmptyAllowList_AnyAuthenticated(t *testing.T) {
	g := testGate()
	for _, role := range []string{auth.RoleCustomer, auth.RoleVendor, auth.RoleSuperadmin} {
		d := g.Evaluate(true, auth.Session{UserID: 1, Role: role}, true, i18n.Default(), "/account")
		if d.State != gate.StateAuthorized {
			t.Fatalf("role %s: expected authorized on /account, got %v", role, d.State)
		}
	}
}

func TestGate_Authorized(t *testing.T) {
	g := testGate()
	d := g.Evaluate(true, auth.Session{UserID: 1, Role: auth.RoleSuperadmin}, true, i18n.Default(), "/admin/settings")
	if d.State != gate.StateAuthorized {
		t.Fatalf("expected authorized, got %v", d)
	}
}

func TestGate_PrefixMatchesOnSegmentBoundary(t *testing.T) {
	g := testGate()
	// "/administrators" is not governed by the "/admin" policy.
	d := g.Evaluate(true, auth.Session{}, false, i18n.Default(), "/administrators")
	if d.State != gate.StateAuthorized {
		t.Fatalf("expected /administrators to be public, got %v", d.State)
	}
}

func TestAllow(t *testing.T) {
	admin := auth.Session{UserID: 1, Role: auth.RoleSuperadmin}

	if err := gate.Allow(admin, true, auth.RoleSuperadmin); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := gate.Allow(admin, true); err != nil {
		t.Fatalf("empty allow-list admits any authenticated role, got %v", err)
	}
	if err := gate.Allow(auth.Session{}, false, auth.RoleSuperadmin); err != gate.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized without session, got %v", err)
	}
	vendor := auth.Session{UserID: 2, Role: auth.RoleVendor}
	if err := gate.Allow(vendor, true, auth.RoleSuperadmin); err != gate.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for wrong role, got %v", err)
	}
}
