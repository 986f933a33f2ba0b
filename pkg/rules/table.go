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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// word matches one identifier character, including non-ASCII letters
const word = `[\p{L}\p{N}_]`

// 📚 Table is an ordered, immutable rule list. Later rules see the output of
// earlier ones.
type Table struct {
	rules []Rule
}

// 🏭 NewTable builds a table, rejecting duplicate names and empty patterns
func NewTable(rules ...Rule) (*Table, error) {
	seen := make(map[string]struct{}, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, errors.Errorf("rule %d: name is required", i)
		}
		if r.Pattern == nil {
			return nil, errors.Errorf("rule %q: pattern is required", r.Name)
		}
		if _, ok := seen[r.Name]; ok {
			return nil, errors.Errorf("rule %q: duplicate name", r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Table{rules: out}, nil
}

// Rules returns a copy of the rules in application order
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules
func (t *Table) Len() int {
	return len(t.rules)
}

// Lookup finds a rule by name
func (t *Table) Lookup(name string) (Rule, bool) {
	for _, r := range t.rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// With returns a new table with extra rules appended after the existing ones
func (t *Table) With(extra ...Rule) (*Table, error) {
	all := append(t.Rules(), extra...)
	return NewTable(all...)
}

// Without returns a new table lacking the named rules. Naming a rule the
// table does not contain is an error.
func (t *Table) Without(names ...string) (*Table, error) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := t.Lookup(n); !ok {
			return nil, errors.Errorf("unknown rule %q", n)
		}
		drop[n] = struct{}{}
	}

	kept := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		if _, ok := drop[r.Name]; ok {
			continue
		}
		kept = append(kept, r)
	}
	return NewTable(kept...)
}

// pattern compiles expr with \w widened to Unicode letters and digits
func pattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(expr, `\w`, word))
}

// 🎯 Default returns the built-in legacy-to-modern rule table.
//
// Order matters: object properties are rewritten before bare interpolation
// markers, and the digit-only range arities run before the identifier ones.
func Default() *Table {
	t, err := NewTable(
		Rule{
			Name:        "catch Error as e",
			Pattern:     pattern(`catch\s+Error\s+as\s+(\w+)`),
			Replacement: "catch as ${1}",
			Category:    LegacyCatch,
		},
		Rule{
			Name:        "for i := start to end",
			Pattern:     pattern(`for\s+(\w+)\s*:=\s*(\d+)\s+to\s+(\d+)\s*\{`),
			Replacement: "Loop (${3} - ${2} + 1) {\n    ${1} := A_Index + ${2} - 1",
			Category:    LegacyForLoop,
		},
		Rule{
			Name:        "object.%key%",
			Pattern:     pattern(`(\w+)\.%(\w+)%`),
			Replacement: "${1}[${2}]",
			Category:    LegacyObjectProperty,
		},
		Rule{
			Name:        "%variable% removal",
			Pattern:     pattern(`%(\w+)%`),
			Replacement: "${1}",
			Category:    LegacyVariableInterpolation,
			SkipLine:    regexp.MustCompile(`FormatTime|RegEx|Format`),
		},
		Rule{
			Name:        "If IsObject() without parentheses",
			Pattern:     regexp.MustCompile(`If\s+(IsObject\((?:[^()\n]|\([^()\n]*\))*\))`),
			Replacement: "If (${1})",
			Category:    LegacyConditional,
		},
		Rule{
			Name:        "If without closing parenthesis",
			// ")" goes before trailing blanks and any stray "\r".
			Pattern:     regexp.MustCompile(`(?m)If\s+\(([^)\r\n]*[^)\s])([ \t]*)(\r?)$`),
			Replacement: "If (${1})${2}${3}",
			Category:    LegacyConditional,
		},
		Rule{
			Name:        "for i in Range(n)",
			Pattern:     pattern(`for\s+(\w+)\s+in\s+Range\((\d+)\)\s*\{`),
			Replacement: "Loop ${2} {\n    ${1} := A_Index",
			Category:    ModernRangeLoop,
		},
		Rule{
			Name:        "for i in Range(var)",
			Pattern:     pattern(`for\s+(\w+)\s+in\s+Range\((\w+)\)\s*\{`),
			Replacement: "Loop ${2} {\n    ${1} := A_Index",
			Category:    ModernRangeLoop,
		},
		Rule{
			Name:        "for i in Range(start, end)",
			Pattern:     pattern(`for\s+(\w+)\s+in\s+Range\((\d+),\s*(\d+)\)\s*\{`),
			Replacement: "Loop (${3} - ${2} + 1) {\n    ${1} := ${2} + A_Index - 1",
			Category:    ModernRangeLoop,
		},
		Rule{
			Name:        "for i in Range(var1, var2)",
			Pattern:     pattern(`for\s+(\w+)\s+in\s+Range\((\w+),\s*(\w+)\)\s*\{`),
			Replacement: "Loop (${3} - ${2} + 1) {\n    ${1} := ${2} + A_Index - 1",
			Category:    ModernRangeLoop,
		},
		Rule{
			Name:        "for i in Range(start, end, step)",
			Pattern:     pattern(`for\s+(\w+)\s+in\s+Range\((\d+),\s*(\d+),\s*(\d+)\)\s*\{`),
			Replacement: "Loop {\n    ${1} := ${2} + (A_Index - 1) * ${4}\n    if (${1} >= ${3})\n        break",
			Category:    ModernRangeLoop,
		},
	)
	if err != nil {
		panic(err)
	}
	return t
}
