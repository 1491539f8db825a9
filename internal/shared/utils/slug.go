package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL-safe slug from free text:
// "Conférence d'été" -> "conference-d-ete".
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(ascii)

	// Anything that can't appear in a slug becomes a hyphen first, so word
	// boundaries like apostrophes and spaces still separate words.
	hyphenated := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, lower)

	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "-")
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// RemoveDiacritics folds accented Latin characters to their ASCII base so
// titles in any of the supported languages produce stable slugs.
func RemoveDiacritics(input string) string {
	mappings := map[rune]rune{
		'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
		'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
		'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
		'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o', 'ø': 'o',
		'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
		'ý': 'y', 'ÿ': 'y',
		'ç': 'c', 'ñ': 'n',

		'Á': 'A', 'À': 'A', 'Â': 'A', 'Ä': 'A', 'Ã': 'A', 'Å': 'A',
		'É': 'E', 'È': 'E', 'Ê': 'E', 'Ë': 'E',
		'Í': 'I', 'Ì': 'I', 'Î': 'I', 'Ï': 'I',
		'Ó': 'O', 'Ò': 'O', 'Ô': 'O', 'Ö': 'O', 'Õ': 'O', 'Ø': 'O',
		'Ú': 'U', 'Ù': 'U', 'Û': 'U', 'Ü': 'U',
		'Ý': 'Y',
		'Ç': 'C', 'Ñ': 'N',
	}

	result := make([]rune, 0, len(input))
	for _, r := range input {
		if r == 'ß' {
			result = append(result, 's', 's')
			continue
		}
		if replacement, ok := mappings[r]; ok {
			result = append(result, replacement)
		} else {
			result = append(result, r)
		}
	}

	return string(result)
}
