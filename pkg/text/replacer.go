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

// Package text rewrites legacy-dialect source text. The rule engine applies an
// ordered rules.Table to a whole file; the repair pass then fixes the few
// structural problems substitution leaves behind, one line at a time.
package text

import (
	"context"
	"io"

	"github.com/walteh/ahkmigrate/pkg/rules"
)

// AppliedRule records a rule whose substitution changed the text
type AppliedRule struct {
	Name     string
	Category rules.Category
	Count    int
}

// ReplacementResult contains the results of running the rule engine
type ReplacementResult struct {
	// WasModified indicates if any rule changed the text
	WasModified bool

	// ReplacementCount is the number of substitutions that changed the text
	ReplacementCount int

	// OriginalContent is the text before any rule ran
	OriginalContent string

	// ModifiedContent is the text after every rule ran
	ModifiedContent string

	// MatchesPerRule counts matches found per rule name, including rules
	// whose substitution turned out to be a no-op
	MatchesPerRule map[string]int

	// CategoryCounts only counts rules that altered the text
	CategoryCounts map[rules.Category]int

	// Applied lists the altering rules in application order
	Applied []AppliedRule
}

// TextReplacer defines the interface for rule-table rewriting
type TextReplacer interface {
	// ReplaceText applies the rule table to the content
	ReplaceText(ctx context.Context, content io.Reader) (*ReplacementResult, error)

	// Apply applies the rule table to an in-memory string
	Apply(text string) *ReplacementResult
}
