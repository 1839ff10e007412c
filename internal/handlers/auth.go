package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/gate"
	"github.com/diewo77/marketplace/httpx"
	"github.com/diewo77/marketplace/i18n"
	"github.com/diewo77/marketplace/internal/middleware"
	"github.com/diewo77/marketplace/internal/models"
	"github.com/diewo77/marketplace/validation"
	"github.com/diewo77/marketplace/view"
	"gorm.io/gorm"
)

// AuthHandler serves login, registration and logout, in both HTML form and
// JSON flavors.
type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/register", h.register)
	mux.HandleFunc("/logout", h.logout)
}

// IdentityFinder resolves an email to the stored identity, preloading the
// role record so the issued session carries the authoritative role title.
// Wire it via auth.SetIdentityFinder at bootstrap.
func (h *AuthHandler) IdentityFinder() auth.IdentityFinder {
	return func(ctx context.Context, email string) (auth.Identity, error) {
		var user models.User
		if err := h.DB.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
			return auth.Identity{}, err
		}
		var vendorID uint
		if user.VendorID != nil {
			vendorID = *user.VendorID
		}
		return auth.Identity{
			UserID:       user.ID,
			PasswordHash: user.Password,
			Role:         user.Role.Title,
			VendorID:     vendorID,
			DisplayName:  user.FullName,
			AvatarRef:    user.Avatar,
		}, nil
	}
}

func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if r.Method == http.MethodGet {
		if rc.HasSession {
			http.Redirect(w, r, i18n.Localize(gate.LandingPath(rc.Session.Role), rc.Locale), http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var email, password string
	if wantsJSON(r) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		email, password = body.Email, body.Password
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		email = strings.TrimSpace(r.FormValue("email"))
		password = r.FormValue("password")
	}

	sess, ok := auth.VerifyCredentials(r.Context(), email, password)
	if !ok {
		// Uniform failure: no hint whether the email or password was wrong.
		if wantsJSON(r) {
			httpx.Fail(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		renderTemplate(w, r, "login", map[string]any{"Error": i18n.T(rc.Locale.Code, "invalid_credentials")})
		return
	}
	token, err := auth.IssueSession(w, sess)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "login_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, map[string]any{"token": token, "user": sess})
		return
	}
	http.Redirect(w, r, i18n.Localize(gate.LandingPath(sess.Role), rc.Locale), http.StatusSeeOther)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "register", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var email, password, fullName string
	if wantsJSON(r) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			FullName string `json:"full_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		email, password, fullName = body.Email, body.Password, body.FullName
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		email = strings.TrimSpace(r.FormValue("email"))
		password = r.FormValue("password")
		fullName = strings.TrimSpace(r.FormValue("full_name"))
	}

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	validation.Required("password", password, v)
	validation.MinLen("password", password, 6, v)
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.Fail(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "register", map[string]any{"Errors": v})
		return
	}

	role, err := h.customerRole()
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "registration_failed", nil)
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "registration_failed", nil)
		return
	}
	user := models.User{Email: email, Password: hash, FullName: fullName, RoleID: role.ID}
	if err := h.DB.Create(&user).Error; err != nil {
		if wantsJSON(r) {
			httpx.Fail(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		renderTemplate(w, r, "register", map[string]any{"Error": "email already exists"})
		return
	}

	sess := auth.Session{UserID: user.ID, Role: role.Title, DisplayName: user.FullName}
	token, err := auth.IssueSession(w, sess)
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "registration_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.OK(w, http.StatusCreated, map[string]any{"token": token, "user": sess})
		return
	}
	http.Redirect(w, r, i18n.Localize("/", rc.Locale), http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	auth.RevokeSession(w)
	if wantsJSON(r) {
		httpx.OK(w, http.StatusOK, nil)
		return
	}
	http.Redirect(w, r, i18n.Localize("/", rc.Locale), http.StatusSeeOther)
}

// customerRole fetches or creates the default registration role.
func (h *AuthHandler) customerRole() (*models.Role, error) {
	var role models.Role
	err := h.DB.Where("title = ?", auth.RoleCustomer).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	role = models.Role{Title: auth.RoleCustomer}
	if err := h.DB.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
