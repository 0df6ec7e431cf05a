// SPDX-License-Identifier: Apache-2.0

// Package column standardizes column labels and aligns identity columns
// across independently authored rosters.
package column

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRules is returned for malformed or contradictory mapping rules.
var ErrInvalidRules = errors.New("invalid mapping rules")

// Rule maps a set of known header variants to a canonical identity field.
type Rule struct {
	Field    string   `yaml:"field" json:"field"`
	Variants []string `yaml:"variants" json:"variants"`
}

// DefaultRules is the built-in synonym table. Rules are evaluated in order;
// the first rule whose variants contain the cleaned label wins.
var DefaultRules = []Rule{
	{Field: "name", Variants: []string{"name", "student name", "applicant name", "name / father's name", "name of student", "candidate name", "student_name", "applicant_name"}},
	{Field: "roll_number", Variants: []string{"roll no", "roll number", "application no", "application id", "registration no", "roll_no", "roll_number", "application_no", "application_id", "registration_no", "student id", "admission no", "scholar no", "student_id", "admission_no", "scholar_no"}},
	{Field: "mobile_number", Variants: []string{"mobile", "mobile no", "mobile number", "phone", "phone no", "phone number", "contact no", "contact number", "mobile_no", "mobile_number", "phone_no", "phone_number"}},
	{Field: "email", Variants: []string{"email", "email id", "email address", "email_id", "email_address"}},
	{Field: "father_name", Variants: []string{"father name", "father's name", "fathers name", "father_name"}},
	{Field: "dob", Variants: []string{"dob", "date of birth", "birth date", "date_of_birth"}},
}

type compiledRule struct {
	field    string
	variants map[string]struct{}
}

// RuleSet is an immutable, ordered mapping rule set. It is safe for
// concurrent use.
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet compiles rules. Variants are stored in cleaned form and every
// canonical field is a variant of itself, so standardizing a canonical name
// returns it unchanged.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	seen := make(map[string]bool, len(rules))

	for i, r := range rules {
		field := strings.TrimSpace(r.Field)
		if field == "" {
			return nil, fmt.Errorf("%w: rule %d has no field", ErrInvalidRules, i)
		}
		if seen[field] {
			return nil, fmt.Errorf("%w: field %q defined twice", ErrInvalidRules, field)
		}
		seen[field] = true

		cr := compiledRule{field: field, variants: make(map[string]struct{}, len(r.Variants)+1)}
		for _, v := range r.Variants {
			if cleaned := CleanLabel(v); cleaned != "" {
				cr.variants[cleaned] = struct{}{}
			}
		}
		cr.variants[CleanLabel(field)] = struct{}{}
		rs.rules = append(rs.rules, cr)
	}

	// An earlier rule claiming a later field's own name would make
	// standardization non-idempotent.
	for _, cr := range rs.rules {
		if got, _ := rs.Canonical(cr.field); got != cr.field {
			return nil, fmt.Errorf("%w: field %q is shadowed by rule %q", ErrInvalidRules, cr.field, got)
		}
	}
	return rs, nil
}

// MustRuleSet is NewRuleSet for static tables; it panics on error.
func MustRuleSet(rules []Rule) *RuleSet {
	rs, err := NewRuleSet(rules)
	if err != nil {
		panic(err)
	}
	return rs
}

var defaultRuleSet = MustRuleSet(DefaultRules)

// Default returns the rule set compiled from DefaultRules.
func Default() *RuleSet {
	return defaultRuleSet
}

// Fields returns the canonical field names in rule order.
func (r *RuleSet) Fields() []string {
	fields := make([]string, len(r.rules))
	for i, cr := range r.rules {
		fields[i] = cr.field
	}
	return fields
}
