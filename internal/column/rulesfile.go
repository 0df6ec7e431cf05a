// SPDX-License-Identifier: Apache-2.0

package column

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/goccy/go-yaml"
)

// rulesSchema constrains rule files before they are decoded.
const rulesSchema = `
#Rule: {
	field!:    =~"^[a-z][a-z0-9_]*$"
	variants!: [string & !="", ...string & !=""]
}

#RulesFile: {
	rules!: [#Rule, ...#Rule]
}
`

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML (or JSON) rules file and compiles it.
//
//	rules:
//	  - field: roll_number
//	    variants: [roll no, enrolment no]
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(filepath.Base(path), data)
}

// ParseRules validates data against the rules schema and compiles it.
// filename is only used in error messages.
func ParseRules(filename string, data []byte) (*RuleSet, error) {
	if err := validateRules(filename, data); err != nil {
		return nil, err
	}

	var doc rulesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRules, filename, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("%w: %s: no rules", ErrInvalidRules, filename)
	}
	return NewRuleSet(doc.Rules)
}

func validateRules(filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(rulesSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("failed to compile rules schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRules, filename, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRules, filename, err)
	}

	def := schema.LookupPath(cue.ParsePath("#RulesFile"))
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRules, filename, err)
	}
	return nil
}
