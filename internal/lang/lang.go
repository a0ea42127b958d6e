package lang

// Default is the code assumed when detection fails or a request omits a
// language.
const Default = "en"

// names maps supported language codes to their display names, including the
// native script. Defined once; never mutated at runtime.
var names = map[string]string{
	"en": "English",
	"hi": "Hindi (हिंदी)",
	"ta": "Tamil (தமிழ்)",
	"te": "Telugu (తెలుగు)",
	"bn": "Bengali (বাংলা)",
	"gu": "Gujarati (ગુજરાતી)",
	"mr": "Marathi (मराठी)",
	"kn": "Kannada (ಕನ್ನಡ)",
	"ml": "Malayalam (മലയാളം)",
	"or": "Odia (ଓଡ଼ିଆ)",
	"pa": "Punjabi (ਪੰਜਾਬੀ)",
	"as": "Assamese (অসমীয়া)",
	"ur": "Urdu (اردو)",
}

// IsSupported reports whether code is a known language code.
func IsSupported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name returns the display name for code, or fallbackName when the code is
// unknown.
func Name(code, fallbackName string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return fallbackName
}
