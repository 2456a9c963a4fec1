package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
)

// MaxQueryLength is the default limit on query length in code points.
// Longer queries are rejected before being fanned out to sources.
const MaxQueryLength = 256

// Normalise canonicalises raw user input for matching:
// control characters are stripped, whitespace runs collapse to a
// single space, the result is trimmed and lowercased with Unicode
// (locale-invariant) case mapping.
//
// Empty and oversized input fails with domain.ErrInvalidQuery.
// Normalise is pure and idempotent: Normalise(Normalise(x)) ==
// Normalise(x) for any accepted x.
func Normalise(raw string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = MaxQueryLength
	}

	if utf8.RuneCountInString(raw) > maxLength {
		return "", fmt.Errorf("query exceeds %d characters: %w", maxLength, domain.ErrInvalidQuery)
	}

	// Drop control characters before whitespace handling so stray
	// NULs or escape sequences cannot survive inside words.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	// Fields splits on any whitespace run, including tabs and
	// newlines, which collapses and trims in one pass.
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty query: %w", domain.ErrInvalidQuery)
	}

	return strings.ToLower(strings.Join(fields, " ")), nil
}
