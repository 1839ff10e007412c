package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/gate"
	"github.com/diewo77/marketplace/httpx"
	"github.com/diewo77/marketplace/internal/middleware"
	"github.com/diewo77/marketplace/internal/models"
	"github.com/diewo77/marketplace/validation"
	"github.com/diewo77/marketplace/view"
	"gorm.io/gorm"
)

// ProductHandler manages a vendor's own catalog from the vendor dashboard.
// All operations are scoped to the session's vendor affiliation; a vendor
// role without an affiliation is rejected.
type ProductHandler struct {
	DB    *gorm.DB
	Cache *view.Cache
}

func NewProductHandler(db *gorm.DB, cache *view.Cache) *ProductHandler {
	return &ProductHandler{DB: db, Cache: cache}
}

// vendorScope re-checks role and returns the vendor the session may manage.
func vendorScope(r *http.Request) (uint, error) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleVendorAdmin, auth.RoleVendor); err != nil {
		return 0, err
	}
	if rc.Session.VendorID == 0 {
		return 0, gate.ErrUnauthorized
	}
	return rc.Session.VendorID, nil
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorScope(r)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	// Pagination params
	pageSize := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			pageSize = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * pageSize
		}
	}
	dbq := h.DB.Where("vendor_id = ?", vendorID)
	var total int64
	dbq.Model(&models.Product{}).Count(&total)
	var products []models.Product
	if err := dbq.Preload("Category").Order("id desc").Limit(pageSize).Offset(offset).Find(&products).Error; err != nil {
		log.Printf("product list failed: %v", err)
		products = []models.Product{}
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": total, "limit": pageSize, "offset": offset})
		return
	}
	renderTemplate(w, r, "vendor/products", map[string]any{"Products": products, "Total": total})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorScope(r)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var input struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
		CategoryID  uint    `json:"category_id"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		input.Name = strings.TrimSpace(r.FormValue("name"))
		input.Description = r.FormValue("description")
		input.Price, _ = strconv.ParseFloat(r.FormValue("price"), 64)
		input.Image = strings.TrimSpace(r.FormValue("image"))
		if n, err := strconv.Atoi(r.FormValue("category_id")); err == nil {
			input.CategoryID = uint(n)
		}
	}

	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	if input.Price <= 0 {
		v["price"] = "must_be_positive"
	}
	if input.CategoryID == 0 {
		v["category_id"] = "required"
	}
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	slug := Slugify(input.Name) + "-" + strconv.FormatUint(uint64(vendorID), 10)
	product := models.Product{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		CategoryID:  input.CategoryID,
		VendorID:    vendorID,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		log.Printf("product create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	h.invalidate(product)
	if wantsJSON(r) {
		httpx.OK(w, http.StatusCreated, product)
		return
	}
	http.Redirect(w, r, "/vendor/products", http.StatusSeeOther)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorScope(r)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.Where("vendor_id = ?", vendorID).First(&product, id).Error; err != nil {
		// Cross-vendor access looks identical to a missing product.
		httpx.Fail(w, http.StatusNotFound, "not_found", nil)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			Price       *float64 `json:"price"`
			Image       *string  `json:"image"`
			CategoryID  *uint    `json:"category_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if body.Name != nil {
			product.Name = *body.Name
		}
		if body.Description != nil {
			product.Description = *body.Description
		}
		if body.Price != nil {
			product.Price = *body.Price
		}
		if body.Image != nil {
			product.Image = *body.Image
		}
		if body.CategoryID != nil {
			product.CategoryID = *body.CategoryID
		}
	} else {
		if v := r.FormValue("name"); v != "" {
			product.Name = v
		}
		if v := r.FormValue("description"); v != "" {
			product.Description = v
		}
		if v := r.FormValue("price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				product.Price = f
			}
		}
		if v := r.FormValue("image"); v != "" {
			product.Image = v
		}
		if v := r.FormValue("category_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				product.CategoryID = uint(n)
			}
		}
	}

	if product.Price <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "validation_failed", validation.Violations{"price": "must_be_positive"})
		return
	}
	if err := h.DB.Save(&product).Error; err != nil {
		log.Printf("product update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "product_update_failed", nil)
		return
	}
	h.invalidate(product)
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, product)
		return
	}
	http.Redirect(w, r, "/vendor/products", http.StatusSeeOther)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorScope(r)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.Where("vendor_id = ?", vendorID).First(&product, id).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.DB.Delete(&product).Error; err != nil {
		log.Printf("product delete failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "product_delete_failed", nil)
		return
	}
	h.invalidate(product)
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/vendor/products", http.StatusSeeOther)
}

// invalidate drops cached renderings of every page that displays the product:
// home, all category listings, the product page itself and the vendor page.
func (h *ProductHandler) invalidate(p models.Product) {
	h.Cache.Invalidate("/", "/category", "/product/"+p.Slug, "/vendor")
}
