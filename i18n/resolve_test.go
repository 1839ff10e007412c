package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrecedence(t *testing.T) {
	assert.Equal(t, "en", Resolve("en", "zh").Code, "explicit wins over route param")
	assert.Equal(t, "zh", Resolve("", "zh").Code)
	assert.Equal(t, "km", Resolve("", "").Code, "default when nothing matches")
	assert.Equal(t, "km", Resolve("fr", "de").Code, "unregistered codes fall back")
}

func TestLocalize(t *testing.T) {
	en, _ := ByCode("en")
	km, _ := ByCode("km")

	assert.Equal(t, "/en/category/shoes", Localize("/category/shoes", en))
	assert.Equal(t, "/km/category/shoes", Localize("/en/category/shoes", km), "existing prefix is replaced")

	// Root special case: no trailing content.
	for _, l := range Locales {
		assert.Equal(t, "/"+l.Code, Localize("/", l))
		assert.Equal(t, "/"+l.Code, Localize("", l))
		assert.Equal(t, "/"+l.Code, Localize("/en", l))
	}
}

func TestLocalizeIdempotent(t *testing.T) {
	paths := []string{"/", "", "/category/shoes", "/en/category/shoes", "/vendor/7", "/km", "login"}
	for _, l := range Locales {
		for _, p := range paths {
			once := Localize(p, l)
			assert.Equal(t, once, Localize(once, l), "localize(localize(%q)) under %s", p, l.Code)
		}
	}
}

func TestFromPathRoundTrip(t *testing.T) {
	paths := []string{"/", "/category/shoes", "/vendor/7/products"}
	for _, l := range Locales {
		for _, p := range paths {
			got, _ := FromPath(Localize(p, l))
			assert.Equal(t, l.Code, got.Code, "resolve(localize(%q, %s))", p, l.Code)
		}
	}

	// No recognized prefix -> default locale, path untouched.
	l, rest := FromPath("/category/shoes")
	assert.Equal(t, Default().Code, l.Code)
	assert.Equal(t, "/category/shoes", rest)

	// Prefix is stripped from the remainder.
	l, rest = FromPath("/zh/category/shoes")
	assert.Equal(t, "zh", l.Code)
	assert.Equal(t, "/category/shoes", rest)

	l, rest = FromPath("/en")
	assert.Equal(t, "en", l.Code)
	assert.Equal(t, "/", rest)
}

func TestSwitchLocale(t *testing.T) {
	assert.Equal(t, "/km/category/shoes", SwitchLocale("/en/category/shoes", "km"))
	assert.Equal(t, "/zh/category/shoes", SwitchLocale("/category/shoes", "zh"), "inserts when no prefix present")
	assert.Equal(t, "/en", SwitchLocale("/km", "en"))
	assert.Equal(t, "/km/login", SwitchLocale("/en/login", "xx"), "unregistered code falls back to default")
}
