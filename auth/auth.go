// Package auth issues and verifies the signed session token carried by the
// "token" cookie. Tokens are self-contained (user id, role title, vendor
// affiliation), so requests can resolve identity without a store round trip.
// The package stays free of database imports; the host app wires a lookup
// via SetIdentityFinder during bootstrap.
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenCookieName is the HTTP credential carrier. Browser-readable so
	// client-side logic can mirror it into local storage.
	TokenCookieName = "token"

	tokenTTL = 7 * 24 * time.Hour
)

// Role titles as stored in the external role table.
const (
	RoleSuperadmin  = "superadmin"
	RoleVendorAdmin = "vendor_admin"
	RoleVendor      = "vendor"
	RoleCustomer    = "customer"
)

// Session is a verified identity for the duration of a browser session.
// Role and VendorID are authoritative as of issuance; they are not
// re-validated against the user store until the next login.
type Session struct {
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	VendorID    uint   `json:"vendor_id,omitempty"` // 0 when not vendor-affiliated
	DisplayName string `json:"display_name,omitempty"`
	AvatarRef   string `json:"avatar,omitempty"`
}

type sessionClaims struct {
	Role        string `json:"role"`
	VendorID    uint   `json:"vid,omitempty"`
	DisplayName string `json:"name,omitempty"`
	AvatarRef   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the stored record an IdentityFinder resolves an email to.
type Identity struct {
	UserID       uint
	PasswordHash string
	Role         string
	VendorID     uint
	DisplayName  string
	AvatarRef    string
}

// IdentityFinder looks up the stored identity for an email.
// Set it during app bootstrap via SetIdentityFinder.
type IdentityFinder func(ctx context.Context, email string) (Identity, error)

var findIdentity IdentityFinder

// SetIdentityFinder configures the lookup used by VerifyCredentials.
func SetIdentityFinder(f IdentityFinder) { findIdentity = f }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

// dummyHash keeps the bcrypt cost constant when the email is unknown, so
// callers cannot distinguish the failure cases by timing or return shape.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("insecure-placeholder"), bcrypt.DefaultCost)

// VerifyCredentials checks email+password against the stored hash and, on
// match, returns a Session populated from the identity's role record.
// The failure signal is uniform: unknown email and wrong password both
// return (Session{}, false); the distinction is only logged.
func VerifyCredentials(ctx context.Context, email, password string) (Session, bool) {
	if findIdentity == nil {
		log.Println("auth: no identity finder configured")
		return Session{}, false
	}
	id, err := findIdentity(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		log.Printf("auth: login failed (unknown email)")
		return Session{}, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)); err != nil {
		log.Printf("auth: login failed (hash mismatch) uid=%d", id.UserID)
		return Session{}, false
	}
	return Session{
		UserID:      id.UserID,
		Role:        id.Role,
		VendorID:    id.VendorID,
		DisplayName: id.DisplayName,
		AvatarRef:   id.AvatarRef,
	}, true
}

// IssueSession signs the session payload and sets it as the token cookie
// (7 days, path /). Returns the token so JSON clients can mirror it into
// durable client-side storage.
func IssueSession(w http.ResponseWriter, s Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:        s.Role,
		VendorID:    s.VendorID,
		DisplayName: s.DisplayName,
		AvatarRef:   s.AvatarRef,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(s.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret()))
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(tokenTTL),
	})
	return token, nil
}

// RevokeSession clears the token cookie. Idempotent: clearing an absent
// cookie is a no-op.
func RevokeSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteLaxMode,
	})
}

// ParseToken verifies a raw token and reconstructs the Session.
// Fails on invalid signature, expiry or malformed payload.
func ParseToken(token string) (Session, bool) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(Secret()), nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, false
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 || claims.Role == "" {
		return Session{}, false
	}
	return Session{
		UserID:      uint(uid),
		Role:        claims.Role,
		VendorID:    claims.VendorID,
		DisplayName: claims.DisplayName,
		AvatarRef:   claims.AvatarRef,
	}, true
}

// CurrentSession reads the token from the cookie or a bearer header and
// reconstructs the Session. Missing token, bad signature, expiry and
// malformed payloads all yield (Session{}, false).
func CurrentSession(r *http.Request) (Session, bool) {
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		if s, ok := ParseToken(c.Value); ok {
			return s, true
		}
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return ParseToken(strings.TrimPrefix(h, "Bearer "))
	}
	return Session{}, false
}

type ctxKey struct{}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext extracts the session attached by Middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// Middleware attaches the resolved session to the request context if a
// valid token is present. Resolution happens once per request; everything
// downstream reads the context instead of re-verifying the token.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := CurrentSession(r); ok {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// HashPassword wraps bcrypt generation so handlers do not import the
// crypto package directly.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}
