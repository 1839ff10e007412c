package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/diewo77/marketplace/httpx"
	"github.com/diewo77/marketplace/internal/models"
	"gorm.io/gorm"
)

// StorefrontHandler serves the public, locale-prefixed pages. Reads never
// hard-fail: a data-layer error renders the page with empty collections
// (and logs the cause) rather than surfacing an error to the visitor.
type StorefrontHandler struct{ DB *gorm.DB }

func NewStorefrontHandler(db *gorm.DB) *StorefrontHandler {
	return &StorefrontHandler{DB: db}
}

func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	var banners []models.Banner
	if err := h.DB.Where("active = ?", true).Order("position asc").Find(&banners).Error; err != nil {
		log.Printf("home banners failed: %v", err)
	}
	var categories []models.Category
	if err := h.DB.Order("name asc").Find(&categories).Error; err != nil {
		log.Printf("home categories failed: %v", err)
	}
	var latest []models.Product
	if err := h.DB.Preload("Vendor").Order("id desc").Limit(12).Find(&latest).Error; err != nil {
		log.Printf("home products failed: %v", err)
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"banners": banners, "categories": categories, "products": latest})
		return
	}
	renderTemplate(w, r, "home", map[string]any{
		"Banners":    banners,
		"Categories": categories,
		"Products":   latest,
	})
}

func (h *StorefrontHandler) Category(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/category/")
	var category models.Category
	products := []models.Product{}
	if err := h.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		log.Printf("category %q lookup failed: %v", slug, err)
	} else if err := h.DB.Preload("Vendor").Where("category_id = ?", category.ID).Order("id desc").Find(&products).Error; err != nil {
		log.Printf("category %q products failed: %v", slug, err)
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"category": category, "products": products})
		return
	}
	renderTemplate(w, r, "category", map[string]any{"Category": category, "Products": products})
}

func (h *StorefrontHandler) Product(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/product/")
	var product models.Product
	if err := h.DB.Preload("Category").Preload("Vendor").Where("slug = ?", slug).First(&product).Error; err != nil {
		log.Printf("product %q lookup failed: %v", slug, err)
		if wantsJSON(r) {
			httpx.JSON(w, http.StatusOK, map[string]any{})
			return
		}
		renderTemplate(w, r, "product", map[string]any{"NotFound": true})
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, product)
		return
	}
	renderTemplate(w, r, "product", map[string]any{"Product": product})
}

func (h *StorefrontHandler) Vendor(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/vendor-store/")
	var vendor models.Vendor
	products := []models.Product{}
	if err := h.DB.Where("slug = ?", slug).First(&vendor).Error; err != nil {
		log.Printf("vendor %q lookup failed: %v", slug, err)
	} else if err := h.DB.Where("vendor_id = ?", vendor.ID).Order("id desc").Find(&products).Error; err != nil {
		log.Printf("vendor %q products failed: %v", slug, err)
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"vendor": vendor, "products": products})
		return
	}
	renderTemplate(w, r, "vendor", map[string]any{"Vendor": vendor, "Products": products})
}

func (h *StorefrontHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	var vendors []models.Vendor
	if err := h.DB.Order("name asc").Find(&vendors).Error; err != nil {
		log.Printf("vendors list failed: %v", err)
		vendors = []models.Vendor{}
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, vendors)
		return
	}
	renderTemplate(w, r, "vendors", map[string]any{"Vendors": vendors})
}
