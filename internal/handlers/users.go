package handlers

import (
	"log"
	"net/http"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/gate"
	"github.com/diewo77/marketplace/httpx"
	"github.com/diewo77/marketplace/internal/middleware"
	"github.com/diewo77/marketplace/internal/models"
	"gorm.io/gorm"
)

// UserAdminHandler is the superadmin users view: list accounts and change
// role assignments. A role change takes effect at the target user's next
// login; issued sessions keep their role until then.
type UserAdminHandler struct{ DB *gorm.DB }

func NewUserAdminHandler(db *gorm.DB) *UserAdminHandler { return &UserAdminHandler{DB: db} }

func (h *UserAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Preload("Role").Preload("Vendor").Order("id asc").Find(&users).Error; err != nil {
		log.Printf("user list failed: %v", err)
		users = []models.User{}
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, users)
		return
	}
	renderTemplate(w, r, "admin/users", map[string]any{"Users": users})
}

func (h *UserAdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	userID := idParam(r)
	roleTitle := r.FormValue("role")
	if userID == 0 || roleTitle == "" {
		httpx.Fail(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	var role models.Role
	if err := h.DB.Where("title = ?", roleTitle).First(&role).Error; err != nil {
		httpx.Fail(w, http.StatusBadRequest, "unknown_role", nil)
		return
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", userID).Update("role_id", role.ID).Error; err != nil {
		log.Printf("assign role failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "assign_role_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, map[string]any{"user_id": userID, "role": roleTitle})
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
