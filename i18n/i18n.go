// Package i18n centralizes locale resolution, locale-prefixed path handling
// and UI string translation. Keeping this in one place gives the router, the
// authorization gate and every link-rendering template a single source of
// truth for "what language is this request in".
package i18n

// translations maps locale code -> message code -> text.
// Loaded at init; read-only afterwards.
var translations = map[string]map[string]string{
	"km": {
		"home":                "ទំព័រដើម",
		"categories":          "ប្រភេទ",
		"products":            "ផលិតផល",
		"vendors":             "អ្នកលក់",
		"login":               "ចូល",
		"logout":              "ចាកចេញ",
		"register":            "ចុះឈ្មោះ",
		"email":               "អ៊ីមែល",
		"password":            "ពាក្យសម្ងាត់",
		"full_name":           "ឈ្មោះពេញ",
		"dashboard":           "ផ្ទាំងគ្រប់គ្រង",
		"banners":             "បដា",
		"settings":            "ការកំណត់",
		"users":               "អ្នកប្រើប្រាស់",
		"save":                "រក្សាទុក",
		"create":              "បង្កើត",
		"delete":              "លុប",
		"edit":                "កែប្រែ",
		"required":            "ចាំបាច់",
		"invalid_credentials": "អ៊ីមែល ឬពាក្យសម្ងាត់មិនត្រឹមត្រូវ",
	},
	"en": {
		"home":                "Home",
		"categories":          "Categories",
		"products":            "Products",
		"vendors":             "Vendors",
		"login":               "Log in",
		"logout":              "Log out",
		"register":            "Register",
		"email":               "Email",
		"password":            "Password",
		"full_name":           "Full name",
		"dashboard":           "Dashboard",
		"banners":             "Banners",
		"settings":            "Settings",
		"users":               "Users",
		"save":                "Save",
		"create":              "Create",
		"delete":              "Delete",
		"edit":                "Edit",
		"required":            "Required",
		"invalid_credentials": "Invalid email or password",
	},
	"zh": {
		"home":                "首页",
		"categories":          "分类",
		"products":            "产品",
		"vendors":             "商家",
		"login":               "登录",
		"logout":              "退出",
		"register":            "注册",
		"email":               "邮箱",
		"password":            "密码",
		"full_name":           "姓名",
		"dashboard":           "控制台",
		"banners":             "横幅",
		"settings":            "设置",
		"users":               "用户",
		"save":                "保存",
		"create":              "创建",
		"delete":              "删除",
		"edit":                "编辑",
		"required":            "必填",
		"invalid_credentials": "邮箱或密码错误",
	},
}

// T translates a message code for the given locale code.
// Unknown locales fall back to the default locale; unknown codes fall back
// to the code itself so missing keys stay visible instead of blank.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if lang != Default().Code {
		if s, ok := translations[Default().Code][code]; ok {
			return s
		}
	}
	return code
}
