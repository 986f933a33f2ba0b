// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule is a single pattern rewrite
type Rule struct {
	// Name identifies the rule; unique within a table
	Name string

	// Pattern is matched against the whole file text
	Pattern *regexp.Regexp

	// Replacement is an expansion template; ${N} refers to capture group N
	Replacement string

	// Category is the statistics bucket for changes made by this rule
	Category Category

	// SkipLine, when set, leaves matches on lines it matches untouched
	SkipLine *regexp.Regexp
}

// 📝 Spec is the uncompiled, config-facing form of a Rule
type Spec struct {
	Name        string `json:"name" yaml:"name" hcl:"name,label" toml:"name"`
	Pattern     string `json:"pattern" yaml:"pattern" hcl:"pattern" toml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" hcl:"replacement" toml:"replacement"`
	Category    string `json:"category" yaml:"category" hcl:"category" toml:"category"`
	SkipLines   string `json:"skip_lines,omitempty" yaml:"skip_lines,omitempty" hcl:"skip_lines,optional" toml:"skip_lines,omitempty"`
}

// 🏭 Compile turns a Spec into a Rule
func Compile(s Spec) (Rule, error) {
	if s.Name == "" {
		return Rule{}, errors.New("rule name is required")
	}
	if s.Pattern == "" {
		return Rule{}, errors.Errorf("rule %q: pattern is required", s.Name)
	}

	pattern, err := regexp.Compile(s.Pattern)
	if err != nil {
		return Rule{}, errors.Errorf("rule %q: compiling pattern: %w", s.Name, err)
	}

	category, err := ParseCategory(s.Category)
	if err != nil {
		return Rule{}, errors.Errorf("rule %q: %w", s.Name, err)
	}

	rule := Rule{
		Name:        s.Name,
		Pattern:     pattern,
		Replacement: s.Replacement,
		Category:    category,
	}

	if s.SkipLines != "" {
		skip, err := regexp.Compile(s.SkipLines)
		if err != nil {
			return Rule{}, errors.Errorf("rule %q: compiling skip_lines: %w", s.Name, err)
		}
		rule.SkipLine = skip
	}

	return rule, nil
}
