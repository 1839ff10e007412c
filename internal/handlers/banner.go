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

// BannerHandler manages home-page banners from the superadmin dashboard.
// Every mutation re-checks the session and role before touching state: the
// route-level gate alone is not trusted, since actions can be invoked
// directly.
type BannerHandler struct {
	DB    *gorm.DB
	Cache *view.Cache
}

func NewBannerHandler(db *gorm.DB, cache *view.Cache) *BannerHandler {
	return &BannerHandler{DB: db, Cache: cache}
}

func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	var banners []models.Banner
	if err := h.DB.Order("position asc, id asc").Find(&banners).Error; err != nil {
		log.Printf("banner list failed: %v", err)
		banners = []models.Banner{}
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, banners)
		return
	}
	renderTemplate(w, r, "admin/banners", map[string]any{"Banners": banners})
}

func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var input struct {
		Title    string `json:"title"`
		Image    string `json:"image"`
		Link     string `json:"link"`
		Position int    `json:"position"`
		Active   *bool  `json:"active"`
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
		input.Title = strings.TrimSpace(r.FormValue("title"))
		input.Image = strings.TrimSpace(r.FormValue("image"))
		input.Link = strings.TrimSpace(r.FormValue("link"))
		input.Position, _ = strconv.Atoi(r.FormValue("position"))
	}

	v := validation.Violations{}
	validation.Required("image", input.Image, v)
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	banner := models.Banner{Title: input.Title, Image: input.Image, Link: input.Link, Position: input.Position, Active: active}
	if err := h.DB.Create(&banner).Error; err != nil {
		log.Printf("banner create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "banner_create_failed", nil)
		return
	}
	// Banners render on the home page; drop its cached variants.
	h.Cache.Invalidate("/")
	if wantsJSON(r) {
		httpx.OK(w, http.StatusCreated, banner)
		return
	}
	http.Redirect(w, r, "/admin/banners", http.StatusSeeOther)
}

func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var banner models.Banner
	if err := h.DB.First(&banner, id).Error; err != nil {
		httpx.Fail(w, http.StatusNotFound, "not_found", nil)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Title    *string `json:"title"`
			Image    *string `json:"image"`
			Link     *string `json:"link"`
			Position *int    `json:"position"`
			Active   *bool   `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if body.Title != nil {
			banner.Title = *body.Title
		}
		if body.Image != nil {
			banner.Image = *body.Image
		}
		if body.Link != nil {
			banner.Link = *body.Link
		}
		if body.Position != nil {
			banner.Position = *body.Position
		}
		if body.Active != nil {
			banner.Active = *body.Active
		}
	} else {
		if v := r.FormValue("title"); v != "" {
			banner.Title = v
		}
		if v := r.FormValue("image"); v != "" {
			banner.Image = v
		}
		if v := r.FormValue("link"); v != "" {
			banner.Link = v
		}
		if v := r.FormValue("position"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				banner.Position = n
			}
		}
		if v := r.FormValue("active"); v != "" {
			banner.Active = v == "1" || v == "true" || v == "on"
		}
	}

	if err := h.DB.Save(&banner).Error; err != nil {
		log.Printf("banner update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "banner_update_failed", nil)
		return
	}
	h.Cache.Invalidate("/")
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, banner)
		return
	}
	http.Redirect(w, r, "/admin/banners", http.StatusSeeOther)
}

func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.DB.Delete(&models.Banner{}, id).Error; err != nil {
		log.Printf("banner delete failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "banner_delete_failed", nil)
		return
	}
	h.Cache.Invalidate("/")
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}
	http.Redirect(w, r, "/admin/banners", http.StatusSeeOther)
}

// idParam reads an id from query or form.
func idParam(r *http.Request) uint {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		idStr = r.FormValue("id")
	}
	id, _ := strconv.Atoi(idStr)
	if id <= 0 {
		return 0
	}
	return uint(id)
}
