package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/internal/models"
)

func seedCatalog(t *testing.T, h *ProductHandler) (models.Vendor, models.Vendor, models.Category) {
	t.Helper()
	v1 := models.Vendor{Name: "Shoe Hut", Slug: "shoe-hut"}
	v2 := models.Vendor{Name: "Bag World", Slug: "bag-world"}
	cat := models.Category{Name: "Shoes", Slug: "shoes"}
	for _, m := range []any{&v1, &v2, &cat} {
		if err := h.DB.Create(m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return v1, v2, cat
}

func TestProductCreateScopedToVendor(t *testing.T) {
	dbi := setupTestDB(t)
	h := NewProductHandler(dbi, testCache())
	v1, _, cat := seedCatalog(t, h)

	req := httptest.NewRequest(http.MethodPost, "/vendor/products/create",
		strings.NewReader(`{"name":"Runner","price":49.9,"category_id":`+itoa(cat.ID)+`}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, auth.Session{UserID: 10, Role: auth.RoleVendor, VendorID: v1.ID}))
	rr := serve(h.Create, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", rr.Code, rr.Body.String())
	}

	var p models.Product
	if err := dbi.First(&p).Error; err != nil {
		t.Fatalf("product not persisted: %v", err)
	}
	if p.VendorID != v1.ID {
		t.Fatalf("product must belong to the session vendor, got %d", p.VendorID)
	}
}

func TestProductCrossVendorLooksLikeNotFound(t *testing.T) {
	dbi := setupTestDB(t)
	h := NewProductHandler(dbi, testCache())
	v1, v2, cat := seedCatalog(t, h)

	p := models.Product{Name: "Runner", Slug: "runner-1", Price: 49.9, CategoryID: cat.ID, VendorID: v1.ID}
	if err := dbi.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	// Another vendor tries to update it.
	req := httptest.NewRequest(http.MethodPost, "/vendor/products/update?id="+itoa(p.ID),
		strings.NewReader(`{"price":1.0}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, auth.Session{UserID: 11, Role: auth.RoleVendorAdmin, VendorID: v2.ID}))
	rr := serve(h.Update, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("cross-vendor update: expected 404 got %d", rr.Code)
	}

	var reloaded models.Product
	if err := dbi.First(&reloaded, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Price != 49.9 {
		t.Fatalf("cross-vendor update must not change anything, price=%v", reloaded.Price)
	}
}

func TestProductRequiresVendorAffiliation(t *testing.T) {
	dbi := setupTestDB(t)
	h := NewProductHandler(dbi, testCache())

	// vendor role but no vendor affiliation
	req := httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(sessionCookie(t, auth.Session{UserID: 12, Role: auth.RoleVendor}))
	rr := serve(h.List, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	// customer role
	req = httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(sessionCookie(t, auth.Session{UserID: 13, Role: auth.RoleCustomer}))
	rr = serve(h.List, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }
