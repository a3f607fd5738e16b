// Package language holds the set of languages a video can be dubbed into.
package language

import "sort"

const (
	DefaultSource = "en"
	DefaultTarget = "hi"
)

var supported = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"hi":    "Hindi",
	"ta":    "Tamil",
	"ar":    "Arabic",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh-cn": "Chinese (Simplified)",
	"pt":    "Portuguese",
	"it":    "Italian",
	"ru":    "Russian",
	"nl":    "Dutch",
	"tr":    "Turkish",
	"pl":    "Polish",
}

// Valid reports whether code is a supported language code.
func Valid(code string) bool {
	_, ok := supported[code]
	return ok
}

// Name returns the display name for code, or code itself if unknown.
func Name(code string) string {
	if name, ok := supported[code]; ok {
		return name
	}
	return code
}

// Codes returns all supported codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
