// SPDX-License-Identifier: Apache-2.0

// Package normalize prepares field values for comparison.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/scholarcheck/scholarcheck-mcp/internal/table"
)

// Mode selects how much a value is folded before comparison.
type Mode string

const (
	// ModeLowercase lowercases and collapses whitespace.
	ModeLowercase Mode = "lowercase"
	// ModeFoldAccents additionally strips combining marks (Élodie -> elodie).
	ModeFoldAccents Mode = "fold_accents"
)

// ParseMode validates a configured mode name. Empty selects ModeLowercase.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeLowercase:
		return ModeLowercase, nil
	case ModeFoldAccents:
		return ModeFoldAccents, nil
	}
	return "", fmt.Errorf("unknown normalize mode %q (want %q or %q)", s, ModeLowercase, ModeFoldAccents)
}

// Normalizer is a stateless value normalizer; the zero value uses ModeLowercase.
type Normalizer struct {
	fold bool
}

// New returns a Normalizer for mode.
func New(mode Mode) Normalizer {
	return Normalizer{fold: mode == ModeFoldAccents}
}

// Default is the ModeLowercase normalizer.
var Default = Normalizer{}

func (n Normalizer) Mode() Mode {
	if n.fold {
		return ModeFoldAccents
	}
	return ModeLowercase
}

// String lowercases s, trims it and collapses internal whitespace runs to one space.
func (n Normalizer) String(s string) string {
	s = strings.ToLower(s)
	if n.fold {
		// Chains carry buffers, so each call builds its own.
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(t, s); err == nil {
			s = folded
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// Values normalizes a column element-wise. Purely numeric columns are returned
// unchanged; anything else is coerced to text, with nulls becoming "".
func (n Normalizer) Values(values []table.Value) []table.Value {
	if isNumeric(values) {
		return values
	}
	out := make([]table.Value, len(values))
	for i, v := range values {
		out[i] = table.String(n.String(v.String()))
	}
	return out
}

// String normalizes s with Default.
func String(s string) string {
	return Default.String(s)
}

// Values normalizes values with Default.
func Values(values []table.Value) []table.Value {
	return Default.Values(values)
}

// isNumeric reports whether every non-null value is a number and at least one is.
func isNumeric(values []table.Value) bool {
	numbers := 0
	for _, v := range values {
		switch v.Kind() {
		case table.KindNumber:
			numbers++
		case table.KindString:
			return false
		}
	}
	return numbers > 0
}
