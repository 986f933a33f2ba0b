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

package text

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ahkmigrate/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

var _ TextReplacer = (*RuleEngine)(nil)

// ⚙️ RuleEngine implements TextReplacer over a rules.Table
type RuleEngine struct {
	table *rules.Table
}

// 🏭 NewRuleEngine creates an engine for the given table. A nil table means
// rules.Default().
func NewRuleEngine(table *rules.Table) *RuleEngine {
	if table == nil {
		table = rules.Default()
	}
	return &RuleEngine{table: table}
}

// Table returns the engine's rule table
func (e *RuleEngine) Table() *rules.Table {
	return e.table
}

// ReplaceText implements TextReplacer.ReplaceText
func (e *RuleEngine) ReplaceText(ctx context.Context, content io.Reader) (*ReplacementResult, error) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := e.Apply(string(raw))
	for _, a := range result.Applied {
		zerolog.Ctx(ctx).Debug().
			Str("rule", a.Name).
			Str("category", a.Category.String()).
			Int("count", a.Count).
			Msg("rule applied")
	}
	return result, nil
}

// Apply runs every rule in table order against the current text. Each rule
// sees the output of the rules before it.
func (e *RuleEngine) Apply(text string) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: text,
		MatchesPerRule:  make(map[string]int),
		CategoryCounts:  make(map[rules.Category]int),
	}

	current := text
	for _, rule := range e.table.Rules() {
		next, count := applyRule(rule, current)
		result.MatchesPerRule[rule.Name] = count
		if count == 0 || next == current {
			continue
		}

		result.WasModified = true
		result.ReplacementCount += count
		result.CategoryCounts[rule.Category] += count
		result.Applied = append(result.Applied, AppliedRule{
			Name:     rule.Name,
			Category: rule.Category,
			Count:    count,
		})
		current = next
	}

	result.ModifiedContent = current
	return result
}

// applyRule substitutes every non-overlapping match of the rule, leftmost
// first, and returns the new text with the number of substitutions made.
func applyRule(rule rules.Rule, text string) (string, int) {
	matches := rule.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))

	last, count := 0, 0
	for _, m := range matches {
		if rule.SkipLine != nil && rule.SkipLine.MatchString(lineAt(text, m[0])) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.Write(rule.Pattern.ExpandString(nil, rule.Replacement, text, m))
		last = m[1]
		count++
	}

	if count == 0 {
		return text, 0
	}

	b.WriteString(text[last:])
	return b.String(), count
}

// lineAt returns the full line containing byte offset pos
func lineAt(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : pos+end]
}
