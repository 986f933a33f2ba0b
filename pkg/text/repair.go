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
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// loopIndent is the indent forced onto a loop's synthetic first body line
const loopIndent = "    "

var (
	unclosedIf     = regexp.MustCompile(`^If\s*\([^)]*$`)
	bareAssignment = regexp.MustCompile(`^[\p{L}\p{N}_]+\s*:=`)
	loopOpener     = regexp.MustCompile(`^Loop.*\{`)
)

// 🔧 FixKind names a repair heuristic
type FixKind int

const (
	FixClosingParen FixKind = iota
	FixLoopIndent
)

func (k FixKind) String() string {
	switch k {
	case FixClosingParen:
		return "closing_paren"
	case FixLoopIndent:
		return "loop_indent"
	default:
		return "unknown"
	}
}

// Fix records a single line repair. Line is 1-based.
type Fix struct {
	Line   int
	Kind   FixKind
	Before string
	After  string
}

// Message renders the fix the way it appears in the run log
func (f Fix) Message(path string) string {
	switch f.Kind {
	case FixClosingParen:
		return fmt.Sprintf("Added missing closing parenthesis at line %d in %s", f.Line, path)
	case FixLoopIndent:
		return fmt.Sprintf("Fixed indentation at line %d in %s", f.Line, path)
	default:
		return fmt.Sprintf("Repaired line %d in %s", f.Line, path)
	}
}

// 🩹 Repair runs the line-level repair pass over engine output.
//
// Two narrow heuristics run per line:
//   - an "If (" line with no ")" gets one inserted after its last
//     non-space character
//   - a bare "name := expr" line directly under a "Loop ... {" line is
//     forced to a single indent level
//
// Neither tracks block depth. Only lines that actually change are reported.
func Repair(text string) (string, []Fix) {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	var fixes []Fix

	for i, line := range lines {
		current := line
		trimmed := strings.TrimSpace(line)

		if unclosedIf.MatchString(trimmed) {
			body := strings.TrimRightFunc(current, unicode.IsSpace)
			current = body + ")" + current[len(body):]
			fixes = append(fixes, Fix{Line: i + 1, Kind: FixClosingParen, Before: line, After: current})
		}

		if i > 0 && bareAssignment.MatchString(trimmed) && loopOpener.MatchString(strings.TrimSpace(lines[i-1])) {
			indented := loopIndent + strings.TrimLeftFunc(current, unicode.IsSpace)
			if indented != current {
				fixes = append(fixes, Fix{Line: i + 1, Kind: FixLoopIndent, Before: current, After: indented})
				current = indented
			}
		}

		out[i] = current
	}

	return strings.Join(out, "\n"), fixes
}
