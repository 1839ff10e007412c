package i18n

// Locale describes a supported display language.
type Locale struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Flag       string `json:"flag"`
}

// Locales is the fixed ordered set of supported locales.
// The first entry is the process-wide default. The slice is written once at
// init and never mutated, so it is safe to share across requests.
var Locales = []Locale{
	{Code: "km", Name: "Khmer", NativeName: "ខ្មែរ", Flag: "🇰🇭"},
	{Code: "en", Name: "English", NativeName: "English", Flag: "🇬🇧"},
	{Code: "zh", Name: "Chinese", NativeName: "中文", Flag: "🇨🇳"},
}

// Default returns the default locale.
func Default() Locale { return Locales[0] }

// ByCode looks up a registered locale by its code.
func ByCode(code string) (Locale, bool) {
	for _, l := range Locales {
		if l.Code == code {
			return l, true
		}
	}
	return Locale{}, false
}
