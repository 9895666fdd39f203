// Package textfilter renders authored narrative for display: placeholder
// substitution and cleanup of player-typed text.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Substituter replaces {key} placeholders in narrative text. Matching is
// case-insensitive and the replacement follows the placeholder's case, so
// {NAME} yields an upper-case name and {Name} a title-cased one.
type Substituter struct {
	regexes map[string]*regexp.Regexp
}

// NewSubstituter compiles a pattern for each placeholder key.
func NewSubstituter(keys ...string) *Substituter {
	s := &Substituter{
		regexes: make(map[string]*regexp.Regexp, len(keys)),
	}
	for _, key := range keys {
		s.regexes[key] = regexp.MustCompile(`(?i)\{` + regexp.QuoteMeta(key) + `\}`)
	}
	return s
}

// Apply substitutes every known placeholder that has a value. Placeholders
// without a value are left as written.
func (s *Substituter) Apply(text string, values map[string]string) string {
	result := text
	for key, regex := range s.regexes {
		value, ok := values[key]
		if !ok {
			continue
		}
		result = regex.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(strings.Trim(match, "{}"), value)
		})
	}
	return result
}

// preserveCase applies the case pattern of the placeholder to the replacement.
// An all-lowercase placeholder inserts the value unchanged.
func preserveCase(original, replacement string) string {
	if len(original) == 0 {
		return replacement
	}

	if strings.ToLower(original) == original {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	return replacement
}

// CleanName strips control characters from player input and collapses runs
// of whitespace.
func CleanName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
