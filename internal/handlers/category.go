package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
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

// CategoryHandler manages storefront categories from the superadmin
// dashboard.
type CategoryHandler struct {
	DB    *gorm.DB
	Cache *view.Cache
}

func NewCategoryHandler(db *gorm.DB, cache *view.Cache) *CategoryHandler {
	return &CategoryHandler{DB: db, Cache: cache}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := h.DB.Order("name asc").Find(&categories).Error; err != nil {
		log.Printf("category list failed: %v", err)
		categories = []models.Category{}
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, categories)
		return
	}
	renderTemplate(w, r, "admin/categories", map[string]any{"Categories": categories})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var input struct {
		Name  string `json:"name"`
		Image string `json:"image"`
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
		input.Image = strings.TrimSpace(r.FormValue("image"))
	}

	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	category := models.Category{Name: input.Name, Slug: Slugify(input.Name), Image: input.Image}
	if err := h.DB.Create(&category).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") || strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.Fail(w, http.StatusConflict, "category_already_exists", nil)
			return
		}
		log.Printf("category create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "category_create_failed", nil)
		return
	}
	// Categories render on the home page and the category listings.
	h.Cache.Invalidate("/", "/category")
	if wantsJSON(r) {
		httpx.OK(w, http.StatusCreated, category)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "not_found", nil)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Name  *string `json:"name"`
			Image *string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if body.Name != nil {
			category.Name = *body.Name
			category.Slug = Slugify(*body.Name)
		}
		if body.Image != nil {
			category.Image = *body.Image
		}
	} else {
		if v := r.FormValue("name"); v != "" {
			category.Name = v
			category.Slug = Slugify(v)
		}
		if v := r.FormValue("image"); v != "" {
			category.Image = v
		}
	}

	if err := h.DB.Save(&category).Error; err != nil {
		log.Printf("category update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "category_update_failed", nil)
		return
	}
	h.Cache.Invalidate("/", "/category")
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, category)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id := idParam(r)
	if id == 0 {
		httpx.Fail(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		log.Printf("category delete failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "category_delete_failed", nil)
		return
	}
	h.Cache.Invalidate("/", "/category")
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}
