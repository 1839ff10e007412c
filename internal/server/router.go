// Package server builds the root http.Handler: route table, policy table
// and the middleware chain (request scope -> gate -> page cache -> mux).
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/gate"
	"github.com/diewo77/marketplace/httpx"
	"github.com/diewo77/marketplace/i18n"
	"github.com/diewo77/marketplace/internal/config"
	"github.com/diewo77/marketplace/internal/handlers"
	"github.com/diewo77/marketplace/internal/middleware"
	"github.com/diewo77/marketplace/view"
	"gorm.io/gorm"
)

// Policies is the single declarative route-policy table. Routes absent from
// the table are public; an empty role list means any authenticated role.
func Policies() []gate.Policy {
	return []gate.Policy{
		{Prefix: "/admin", Roles: []string{auth.RoleSuperadmin}},
		{Prefix: "/vendor", Roles: []string{auth.RoleVendorAdmin, auth.RoleVendor}},
		{Prefix: "/account"},
		{Prefix: "/api/upload"},
	}
}

// New constructs the root handler with all routes and middleware applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	pageCache := view.NewCache(cfg.PageCacheTTL)

	// RequestScope rewrites the URL to its logical path, so templates must
	// read the locale from the request context, not the URL.
	view.SetLocaleResolver(func(r *http.Request) i18n.Locale {
		return middleware.FromRequest(r).Locale
	})

	// Auth endpoints + identity lookup wiring.
	authHandler := handlers.NewAuthHandler(db)
	auth.SetIdentityFinder(authHandler.IdentityFinder())
	authHandler.Register(mux)

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Storefront (public) ---
	storefront := handlers.NewStorefrontHandler(db)
	mux.HandleFunc("/category/", storefront.Category)
	mux.HandleFunc("/product/", storefront.Product)
	mux.HandleFunc("/vendor-store/", storefront.Vendor)
	mux.HandleFunc("/vendors", storefront.Vendors)

	// --- Superadmin dashboard ---
	banners := handlers.NewBannerHandler(db, pageCache)
	mux.HandleFunc("/admin/banners", banners.List)
	mux.HandleFunc("/admin/banners/create", banners.Create)
	mux.HandleFunc("/admin/banners/update", banners.Update)
	mux.HandleFunc("/admin/banners/delete", banners.Delete)

	categories := handlers.NewCategoryHandler(db, pageCache)
	mux.HandleFunc("/admin/categories", categories.List)
	mux.HandleFunc("/admin/categories/create", categories.Create)
	mux.HandleFunc("/admin/categories/update", categories.Update)
	mux.HandleFunc("/admin/categories/delete", categories.Delete)

	settings := handlers.NewSettingsHandler(db, pageCache)
	mux.HandleFunc("/admin/settings", settings.Show)
	mux.HandleFunc("/admin/settings/update", settings.Update)

	users := handlers.NewUserAdminHandler(db)
	mux.HandleFunc("/admin/users", users.List)
	mux.HandleFunc("/admin/users/assign-role", users.AssignRole)

	mux.HandleFunc("/admin", func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, "admin/index")
	})

	// --- Vendor dashboard ---
	products := handlers.NewProductHandler(db, pageCache)
	mux.HandleFunc("/vendor/products", products.List)
	mux.HandleFunc("/vendor/products/create", products.Create)
	mux.HandleFunc("/vendor/products/update", products.Update)
	mux.HandleFunc("/vendor/products/delete", products.Delete)
	mux.HandleFunc("/vendor", func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, "vendor/index")
	})

	// --- Uploads ---
	uploads := handlers.NewUploadHandler(cfg.UploadsDir)
	mux.HandleFunc("/api/upload", uploads.Upload)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// --- Static assets ---
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Home, and 404 for everything else at the root.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		storefront.Home(w, r)
	})

	g := gate.New(Policies()...)
	chain := middleware.RequestScope(
		middleware.Gate(g)(
			middleware.CachePage(pageCache)(mux)))
	return withRecover(withLogging(chain))
}

func renderPage(w http.ResponseWriter, r *http.Request, name string) {
	if err := view.Render(w, r, name+".html", nil); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.Fail(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
