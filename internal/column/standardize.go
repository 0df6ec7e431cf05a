// SPDX-License-Identifier: Apache-2.0

package column

import (
	"fmt"
	"strings"
	"unicode"
)

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '-'
}

// CleanLabel lowercases a label, drops leading and trailing separators and
// collapses every inner run of Unicode whitespace, underscores and hyphens
// into a single space.
func CleanLabel(label string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(label), isSeparator), " ")
}

// Canonical returns the canonical field for label and whether a rule matched.
func (r *RuleSet) Canonical(label string) (string, bool) {
	cleaned := CleanLabel(label)
	for _, cr := range r.rules {
		if _, ok := cr.variants[cleaned]; ok {
			return cr.field, true
		}
	}
	return "", false
}

// Standardize returns the canonical field name for label, or label itself,
// unmodified, when no rule matches.
//
// Mapped labels therefore compare by canonical name while unmapped labels
// compare by their original text, not their cleaned form. Column resolution
// depends on that exact behavior.
func (r *RuleSet) Standardize(label string) string {
	if field, ok := r.Canonical(label); ok {
		return field
	}
	return label
}

// StandardizeAny coerces a non-string header to text before standardizing it.
func (r *RuleSet) StandardizeAny(label any) string {
	if s, ok := label.(string); ok {
		return r.Standardize(s)
	}
	return r.Standardize(fmt.Sprint(label))
}
