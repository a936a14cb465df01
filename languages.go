package lightermeet

import (
	"sort"
	"strings"
)

// DefaultLanguage is the fallback when detection fails or returns a code
// outside the supported set.
const DefaultLanguage = "en"

// LanguageNames maps supported 2-letter language codes to display names.
var LanguageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"pl": "Polish",
	"ru": "Russian",
	"ar": "Arabic",
	"hi": "Hindi",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"vi": "Vietnamese",
	"th": "Thai",
	"tr": "Turkish",
}

// rtlLanguages contains base language codes written right to left.
var rtlLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
}

// IsSupported reports whether the language code is in the supported set.
func IsSupported(code string) bool {
	_, ok := LanguageNames[code]
	return ok
}

// LanguageName returns the display name for a language code.
// Falls back to the code itself if not found.
func LanguageName(code string) string {
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	return code
}

// SupportedLanguages returns all supported language codes in sorted order.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Direction returns "rtl" for right-to-left languages, "ltr" otherwise.
func Direction(code string) string {
	base := strings.Split(code, "-")[0]
	base = strings.ToLower(base)

	if rtlLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code string) bool {
	return Direction(code) == "rtl"
}
