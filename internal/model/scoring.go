package model

import (
	"strings"
	"unicode"
)

// Fake-account labels, one per combination of the three signals.
const (
	FakeNone          = "None"
	FakeImage         = "Default image"
	FakeBio           = "No biography"
	FakeDigits        = "Last 4 numbers screen_name"
	FakeImageBio      = "Default image and no biography"
	FakeImageDigits   = "Default image and last 4 numbers screen_name"
	FakeBioDigits     = "No biography and last 4 numbers screen_name"
	FakeAll           = "All signs of fake account"
	ProbablyFakeLimit = 2001
)

// ScreenNameBot reports whether a handle longer than four characters ends in
// four digits.
func ScreenNameBot(handle string) bool {
	r := []rune(handle)
	if len(r) <= 4 {
		return false
	}
	for _, c := range r[len(r)-4:] {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// EmptyBio reports whether a profile description carries no text.
func EmptyBio(description string) bool {
	return strings.TrimSpace(description) == ""
}

// FakeType picks exactly one label from the three fake-account bits.
func FakeType(defaultImage, emptyBio, digits bool) string {
	switch {
	case defaultImage && emptyBio && digits:
		return FakeAll
	case defaultImage && emptyBio:
		return FakeImageBio
	case defaultImage && digits:
		return FakeImageDigits
	case emptyBio && digits:
		return FakeBioDigits
	case defaultImage:
		return FakeImage
	case emptyBio:
		return FakeBio
	case digits:
		return FakeDigits
	default:
		return FakeNone
	}
}

// B2I converts a flag to the 0/1 encoding used in feature rows.
func B2I(b bool) int {
	if b {
		return 1
	}
	return 0
}
