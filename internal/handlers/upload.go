package handlers

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/gate"
	"github.com/diewo77/marketplace/httpx"
	"github.com/diewo77/marketplace/internal/middleware"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20 // 5 MiB

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// UploadHandler stores dashboard image uploads (banners, category images,
// product photos) under the uploads dir with uuid-derived names so vendor
// uploads can never collide or overwrite each other.
type UploadHandler struct {
	Dir string
}

func NewUploadHandler(dir string) *UploadHandler { return &UploadHandler{Dir: dir} }

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromRequest(r)
	if err := gate.Allow(rc.Session, rc.HasSession, auth.RoleSuperadmin, auth.RoleVendorAdmin, auth.RoleVendor); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "missing_image", nil)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		httpx.Fail(w, http.StatusBadRequest, "unsupported_image_type", nil)
		return
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		log.Printf("upload dir create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.Dir, name))
	if err != nil {
		log.Printf("upload create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("upload write failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}

	httpx.OK(w, http.StatusCreated, map[string]string{"path": "/uploads/" + name})
}
