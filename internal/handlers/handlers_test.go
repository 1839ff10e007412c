package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/internal/db"
	"github.com/diewo77/marketplace/internal/middleware"
	"github.com/diewo77/marketplace/internal/models"
	"github.com/diewo77/marketplace/view"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, title := range []string{auth.RoleSuperadmin, auth.RoleVendorAdmin, auth.RoleVendor, auth.RoleCustomer} {
		if err := dbi.Create(&models.Role{Title: title}).Error; err != nil {
			t.Fatalf("seed role %s: %v", title, err)
		}
	}
	return dbi
}

func testCache() *view.Cache { return view.NewCache(time.Minute) }

// sessionCookie issues a real signed token for the given session so tests
// exercise the same verification path production requests go through.
func sessionCookie(t *testing.T, sess auth.Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := auth.IssueSession(rec, sess); err != nil {
		t.Fatalf("issue session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.TokenCookieName {
			return c
		}
	}
	t.Fatalf("no token cookie issued")
	return nil
}

// serve runs a handler behind the request-scope middleware, the way the
// real router mounts it.
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.RequestScope(h).ServeHTTP(rr, req)
	return rr
}
