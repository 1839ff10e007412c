package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/internal/config"
	"github.com/diewo77/marketplace/internal/db"
	"github.com/diewo77/marketplace/internal/models"
	"github.com/diewo77/marketplace/view"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) http.Handler {
	t.Helper()
	view.ResetForTests()
	view.SetBaseDir("../../templates")
	dbi, err := gorm.Open(sqlite.Open("file:app_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, title := range []string{auth.RoleSuperadmin, auth.RoleVendorAdmin, auth.RoleVendor, auth.RoleCustomer} {
		if err := dbi.Create(&models.Role{Title: title}).Error; err != nil {
			t.Fatalf("seed role: %v", err)
		}
	}
	cfg := config.Config{Env: "test", UploadsDir: t.TempDir(), PageCacheTTL: time.Minute}
	return New(dbi, cfg)
}

func withRole(t *testing.T, req *http.Request, role string, vendorID uint) {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := auth.IssueSession(rec, auth.Session{UserID: 1, Role: role, VendorID: vendorID}); err != nil {
		t.Fatalf("issue session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.TokenCookieName {
			req.AddCookie(c)
		}
	}
}

func TestPublicHomeRenders(t *testing.T) {
	app := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/en", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Categories") {
		t.Fatalf("home page missing translated nav: %s", rr.Body.String())
	}
}

func TestAnonymousAdminRedirectsToLocalizedLogin(t *testing.T) {
	app := setupApp(t)
	for path, want := range map[string]string{
		"/km/admin":   "/km/login",
		"/en/admin":   "/en/login",
		"/zh/vendor":  "/zh/login",
		"/admin":      "/km/login", // no prefix implies the default locale
		"/en/account": "/en/login",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected 303 got %d", path, rr.Code)
		}
		if got := rr.Header().Get("Location"); got != want {
			t.Fatalf("%s: expected redirect to %s got %s", path, want, got)
		}
	}
}

func TestWrongRoleRedirectsToOwnLanding(t *testing.T) {
	app := setupApp(t)

	// vendor_admin hitting the superadmin area lands on the vendor dashboard.
	req := httptest.NewRequest(http.MethodGet, "/en/admin", nil)
	withRole(t, req, auth.RoleVendorAdmin, 3)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/en/vendor" {
		t.Fatalf("expected /en/vendor got %s", got)
	}

	// superadmin hitting the vendor area lands on the admin dashboard.
	req = httptest.NewRequest(http.MethodGet, "/km/vendor/products", nil)
	withRole(t, req, auth.RoleSuperadmin, 0)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if got := rr.Header().Get("Location"); got != "/km/admin" {
		t.Fatalf("expected /km/admin got %s", got)
	}

	// customer hitting either protected area goes home.
	req = httptest.NewRequest(http.MethodGet, "/zh/admin", nil)
	withRole(t, req, auth.RoleCustomer, 0)
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if got := rr.Header().Get("Location"); got != "/zh" {
		t.Fatalf("expected /zh got %s", got)
	}
}

func TestAuthorizedRoleReachesDashboard(t *testing.T) {
	app := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/en/admin", nil)
	withRole(t, req, auth.RoleSuperadmin, 0)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSegmentBoundaryNotGated(t *testing.T) {
	app := setupApp(t)
	// Not under /admin; falls through to the 404 handler, not the gate.
	req := httptest.NewRequest(http.MethodGet, "/en/administrators", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	app := setupApp(t)
	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		app.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rr.Code)
		}
	}
}

func TestAnonymousPageCaching(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/en/vendors", nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	first := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	// Second hit must serve the identical cached body.
	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/en/vendors", nil))
	if rr.Body.String() != first {
		t.Fatalf("cached response differs from the first render")
	}
}
