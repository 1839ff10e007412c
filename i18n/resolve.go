package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Resolve picks the active locale for a request. An explicit code (decided
// by a server-rendered ancestor, e.g. the layout) wins over the route
// parameter; anything unregistered falls back to the default. Never fails.
func Resolve(explicitCode, routeParamCode string) Locale {
	if l, ok := ByCode(explicitCode); ok {
		return l
	}
	if l, ok := ByCode(routeParamCode); ok {
		return l
	}
	return Default()
}

// FromPath extracts the locale prefix from a request path and returns the
// remainder with its leading slash intact. Absence of a recognized prefix
// implies the default locale and leaves the path untouched.
func FromPath(p string) (Locale, string) {
	seg, rest := splitFirst(p)
	if l, ok := ByCode(seg); ok {
		return l, rest
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return Default(), p
}

// Localize prefixes a logical path with the locale code, stripping any
// recognized locale prefix first so the operation is idempotent.
// The root path yields just "/{code}".
func Localize(p string, l Locale) string {
	seg, rest := splitFirst(p)
	if _, ok := ByCode(seg); !ok {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		rest = p
	}
	if rest == "/" {
		return "/" + l.Code
	}
	return "/" + l.Code + rest
}

// SwitchLocale re-derives the current page path under another locale,
// preserving everything after the locale segment. Unregistered codes fall
// back to the default locale.
func SwitchLocale(p, code string) string {
	return Localize(p, Resolve(code, ""))
}

// splitFirst returns the first path segment and the remainder ("/..." or "/").
func splitFirst(p string) (string, string) {
	trimmed := strings.TrimPrefix(p, "/")
	seg, rest, found := strings.Cut(trimmed, "/")
	if !found || rest == "" {
		return seg, "/"
	}
	return seg, "/" + rest
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Locales))
	for i, l := range Locales {
		tags[i] = language.Make(l.Code)
	}
	return language.NewMatcher(tags)
}()

// DetectLanguage maps an Accept-Language header to a registered locale code.
// Unparseable or unmatched values yield the default.
func DetectLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default().Code
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default().Code
	}
	return Locales[idx].Code
}
