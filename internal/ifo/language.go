package ifo

import (
	"strings"
)

var languageNames = map[string]string{
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"nl": "Dutch",
	"pt": "Portuguese",
}

// languageCode turns the two raw bytes of an attribute entry into a
// lowercase ISO 639-1 code, or "" when unset.
func languageCode(raw []byte) string {
	code := strings.TrimSpace(strings.TrimRight(string(raw), "\x00"))
	if len(code) != 2 {
		return ""
	}
	code = strings.ToLower(code)
	for i := 0; i < len(code); i++ {
		if code[i] < 'a' || code[i] > 'z' {
			return ""
		}
	}
	return code
}

// LanguageName returns the English name of a language code, or the code itself.
func LanguageName(code string) string {
	if name := languageNames[code]; name != "" {
		return name
	}
	return code
}
