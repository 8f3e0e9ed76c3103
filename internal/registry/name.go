package registry

import (
	"strings"
	"unicode"
)

// AssetName derives the generated identifier for a relative path: each path
// segment is title-cased, the segments are joined, and everything that is not
// a letter or digit is dropped.
//
// Examples:
//   - "images/hero.png" -> "ImagesHeroPng"
//   - "ui/btn_2x.PNG"   -> "UiBtn2XPng"
//
// A result starting with a digit is prefixed with "Asset". Collisions are not
// detected.
func AssetName(relativePath string) string {
	name := identifier(relativePath)
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "Asset" + name
	}

	return name
}

// RootName derives the generated identifier for a root id, e.g.
// "base" -> "AssetRootBase".
func RootName(id string) string {
	return "AssetRoot" + identifier(id)
}

func identifier(p string) string {
	var b strings.Builder

	for _, seg := range strings.Split(p, "/") {
		for _, r := range titleCase(seg) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
	}

	return b.String()
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases every letter that follows a letter.
func titleCase(s string) string {
	var b strings.Builder

	prevLetter := false

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}

		prevLetter = unicode.IsLetter(r)
	}

	return b.String()
}
