// Package view renders HTML templates with shared helpers for translation,
// locale-aware links and session display data. Templates live under a
// detected templates/ base dir; pages are wrapped in layout.html unless they
// are full documents.
package view

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/diewo77/marketplace/auth"
	"github.com/diewo77/marketplace/i18n"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	localeResolver = func(r *http.Request) i18n.Locale {
		l, _ := i18n.FromPath(r.URL.Path)
		return l
	}
)

// SetLocaleResolver allows the host app to provide a custom locale resolver
// (e.g. reading a value the router already attached to context).
func SetLocaleResolver(f func(*http.Request) i18n.Locale) {
	if f != nil {
		localeResolver = f
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides the template base directory (useful for tests).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

// Funcs returns the standard func map: translation, locale metadata and
// locale-prefixed link helpers.
func Funcs(r *http.Request) template.FuncMap {
	loc := localeResolver(r)
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(loc.Code, code) },
		"lang": func() string { return loc.Code },
		"locales": func() []i18n.Locale {
			return i18n.Locales
		},
		// localize prefixes a logical path with the active locale.
		"localize": func(p string) string { return i18n.Localize(p, loc) },
		// switchLocale rebuilds the current page path under another locale,
		// for the language picker.
		"switchLocale": func(code string) string { return i18n.SwitchLocale(r.URL.Path, code) },
		"year":         func() int { return time.Now().Year() },
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// Render parses and executes a template file with shared funcs.
// name should be the filename (e.g. "home.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	// Inject common defaults so templates never dereference missing keys.
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["Session"]; !exists {
		sess, loggedIn := auth.SessionFromContext(r.Context())
		data["Session"] = sess
		data["IsLoggedIn"] = loggedIn
	}
	key := name
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[key]
		tplCache.RUnlock()
		if ok && t != nil {
			return t.Execute(w, data)
		}
	}

	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return err
	}
	funcMap := Funcs(r)
	contentBytes, _ := os.ReadFile(mainPath)
	useLayout := !bytes.Contains(bytes.ToLower(contentBytes), []byte("<!doctype"))

	var t *template.Template
	layoutPath := filepath.Join(baseDir, "layout.html")
	if useLayout {
		if fi, err := os.Stat(layoutPath); err == nil && !fi.IsDir() {
			parsed, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, mainPath)
			if err != nil {
				return err
			}
			t = parsed
		} else {
			useLayout = false
		}
	}
	if !useLayout {
		parsed, err := template.New(name).Funcs(funcMap).ParseFiles(mainPath)
		if err != nil {
			return err
		}
		t = parsed
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[key] = t
		tplCache.Unlock()
	}
	if t == nil {
		return errors.New("template not cached")
	}
	return t.Execute(w, data)
}
