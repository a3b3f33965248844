// Package advice maps an hour of the day to energy-saving tips.
package advice

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Recommender produces ordered tips for an hour of the day (0-23).
type Recommender interface {
	Generate(hour int) []string
}

// Rule attaches tips to an inclusive hour range.
type Rule struct {
	From int      `yaml:"from" validate:"min=0,max=23"`
	To   int      `yaml:"to" validate:"min=0,max=23,gtefield=From"`
	Tips []string `yaml:"tips" validate:"required,min=1,dive,required"`
}

// Covers reports whether hour falls inside the rule.
func (r Rule) Covers(hour int) bool {
	return hour >= r.From && hour <= r.To
}

// RuleSet is a static table of hour-bucket tips. The zero value returns nothing.
type RuleSet struct {
	Rules   []Rule   `yaml:"rules" validate:"required,dive"`
	General []string `yaml:"general" validate:"dive,required"`
}

var validate = validator.New()

// NewRuleSet validates rules and builds a RuleSet. General tips are used for
// hours no rule covers.
func NewRuleSet(rules []Rule, general []string) (*RuleSet, error) {
	rs := &RuleSet{Rules: rules, General: general}
	if err := validate.Struct(rs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return rs, nil
}

// Generate returns the tips of every rule covering hour, in rule order.
// Duplicates are kept.
func (rs *RuleSet) Generate(hour int) []string {
	var tips []string
	for _, r := range rs.Rules {
		if r.Covers(hour) {
			tips = append(tips, r.Tips...)
		}
	}
	if len(tips) == 0 {
		tips = append(tips, rs.General...)
	}
	return tips
}

// Parse decodes a YAML rules document.
func Parse(data []byte) (*RuleSet, error) {
	var doc RuleSet
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return NewRuleSet(doc.Rules, doc.General)
}

// LoadRules reads a YAML rules file. When the file does not exist and
// required is false the built-in rules are returned.
func LoadRules(path string, required bool) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, path)
		}
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}
