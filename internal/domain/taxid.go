package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTaxID reports a tax id that fails format validation. It is the
// only error the pipeline surfaces to callers; every downstream failure
// degrades to a synthetic fallback instead.
var ErrInvalidTaxID = errors.New("invalid tax id")

// Formatting punctuation tolerated in tax id input.
const taxIDPunct = " .-/"

// NormalizeTaxID strips formatting punctuation from s and validates the
// remainder as a Vietnamese enterprise tax id: 10 to 13 digits, nothing
// else. Returns the cleaned digit string.
func NormalizeTaxID(s string) (string, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(taxIDPunct, r):
			// formatting only, dropped
		default:
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidTaxID, r)
		}
	}

	clean := b.String()
	if len(clean) < 10 || len(clean) > 13 {
		return "", fmt.Errorf("%w: expected 10-13 digits, got %d", ErrInvalidTaxID, len(clean))
	}
	return clean, nil
}
