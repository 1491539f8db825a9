package model

import (
	"errors"
	"regexp"
)

// Language is one entry of the language registry.
type Language struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

var (
	// ErrInvalidLanguage is a malformed or wildcard language code.
	ErrInvalidLanguage = errors.New("invalid target language")

	// ErrDuplicateTranslation means the source's translation group already
	// holds a row in the target language.
	ErrDuplicateTranslation = errors.New("event already has a translation in this language")
)

// Wildcard matches every language and is never a valid assignment target.
const Wildcard = "all"

// codePattern is the accepted shape of a language code: lowercase letters,
// underscore, and hyphen only.
var codePattern = regexp.MustCompile(`^[a-z_-]+$`)

// ValidateCode checks a language code for use as an assignment target.
func ValidateCode(code string) error {
	if code == "" || code == Wildcard || !codePattern.MatchString(code) {
		return ErrInvalidLanguage
	}
	return nil
}
