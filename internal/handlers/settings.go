package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
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

// SettingsHandler edits the single-row site settings. Changes invalidate
// the whole page cache: the site name and contact details render on every
// page.
type SettingsHandler struct {
	DB    *gorm.DB
	Cache *view.Cache
}

func NewSettingsHandler(db *gorm.DB, cache *view.Cache) *SettingsHandler {
	return &SettingsHandler{DB: db, Cache: cache}
}

func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	settings, err := h.load()
	if err != nil {
		log.Printf("settings load failed: %v", err)
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, settings)
		return
	}
	renderTemplate(w, r, "admin/settings", map[string]any{"Settings": settings})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	settings, err := h.load()
	if err != nil {
		log.Printf("settings load failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "settings_update_failed", nil)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			SiteName     *string `json:"site_name"`
			Logo         *string `json:"logo"`
			ContactEmail *string `json:"contact_email"`
			ContactPhone *string `json:"contact_phone"`
			Address      *string `json:"address"`
			Facebook     *string `json:"facebook"`
			Telegram     *string `json:"telegram"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if body.SiteName != nil {
			settings.SiteName = *body.SiteName
		}
		if body.Logo != nil {
			settings.Logo = *body.Logo
		}
		if body.ContactEmail != nil {
			settings.ContactEmail = *body.ContactEmail
		}
		if body.ContactPhone != nil {
			settings.ContactPhone = *body.ContactPhone
		}
		if body.Address != nil {
			settings.Address = *body.Address
		}
		if body.Facebook != nil {
			settings.Facebook = *body.Facebook
		}
		if body.Telegram != nil {
			settings.Telegram = *body.Telegram
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		if v := r.FormValue("site_name"); v != "" {
			settings.SiteName = strings.TrimSpace(v)
		}
		if v := r.FormValue("logo"); v != "" {
			settings.Logo = v
		}
		if v := r.FormValue("contact_email"); v != "" {
			settings.ContactEmail = strings.TrimSpace(v)
		}
		if v := r.FormValue("contact_phone"); v != "" {
			settings.ContactPhone = strings.TrimSpace(v)
		}
		if v := r.FormValue("address"); v != "" {
			settings.Address = v
		}
		if v := r.FormValue("facebook"); v != "" {
			settings.Facebook = v
		}
		if v := r.FormValue("telegram"); v != "" {
			settings.Telegram = v
		}
	}

	v := validation.Violations{}
	validation.Required("site_name", settings.SiteName, v)
	validation.Email("contact_email", settings.ContactEmail, v)
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		log.Printf("settings update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "settings_update_failed", nil)
		return
	}
	h.Cache.InvalidateAll()
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, settings)
		return
	}
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

// load returns the settings row, creating the default when missing.
func (h *SettingsHandler) load() (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := h.DB.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.SiteSettings{SiteName: "Marketplace"}
		err = h.DB.Create(&settings).Error
	}
	return settings, err
}
