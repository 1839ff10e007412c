package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/en/category/shoes", []byte("<html>shoes</html>"))

	body, ok := c.Get("/en/category/shoes")
	assert.True(t, ok)
	assert.Equal(t, "<html>shoes</html>", string(body))

	_, ok = c.Get("/km/category/shoes")
	assert.False(t, ok, "locale variants are distinct keys")
}

func TestCacheInvalidateDropsAllLocaleVariants(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/en/category/shoes", []byte("en"))
	c.Put("/km/category/shoes", []byte("km"))
	c.Put("/zh/category/shoes", []byte("zh"))
	c.Put("/en/vendor/1", []byte("vendor"))

	c.Invalidate("/category")

	for _, p := range []string{"/en/category/shoes", "/km/category/shoes", "/zh/category/shoes"} {
		_, ok := c.Get(p)
		assert.False(t, ok, "expected %s invalidated", p)
	}
	_, ok := c.Get("/en/vendor/1")
	assert.True(t, ok, "unrelated page survives")
}

func TestCacheInvalidatePrefixBoundary(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/en/category/shoes", []byte("a"))
	c.Put("/en/categories-faq", []byte("b"))

	c.Invalidate("/category")

	_, ok := c.Get("/en/categories-faq")
	assert.True(t, ok, "prefix must match on segment boundary")
}

func TestCacheInvalidateHomeOnly(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/en", []byte("en home"))
	c.Put("/km", []byte("km home"))
	c.Put("/en/category/shoes", []byte("shoes"))

	c.Invalidate("/")

	_, ok := c.Get("/en")
	assert.False(t, ok)
	_, ok = c.Get("/km")
	assert.False(t, ok)
	_, ok = c.Get("/en/category/shoes")
	assert.True(t, ok, "home invalidation leaves deeper pages alone")
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(time.Millisecond)
	c.Put("/en", []byte("home"))
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("/en")
	assert.False(t, ok)
}

func TestCacheInvalidateAll(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/en", []byte("home"))
	c.Put("/km/vendor/2", []byte("vendor"))
	c.InvalidateAll()
	_, ok := c.Get("/en")
	assert.False(t, ok)
	_, ok = c.Get("/km/vendor/2")
	assert.False(t, ok)
}
