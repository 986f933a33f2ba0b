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

// Package lint reports legacy-dialect constructs left in a source tree. It
// starts at an entry file and follows #Include directives depth first.
package lint

import (
	"fmt"
	"regexp"
	"strings"
)

// 📊 Severity of a finding. Only errors fail a lint.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is one problem on one line. Line is 1-based; zero means the
// finding concerns the whole file.
type Finding struct {
	Path     string
	Line     int
	Severity Severity
	Message  string
	Text     string
	Err      error
}

func (f Finding) String() string {
	switch {
	case f.Line == 0:
		return fmt.Sprintf("%s: %s", f.Path, f.Message)
	case f.Text == "":
		return fmt.Sprintf("%s: Line %d: %s", f.Path, f.Line, f.Message)
	default:
		return fmt.Sprintf("%s: Line %d: %s: %s", f.Path, f.Line, f.Message, f.Text)
	}
}

const word = `[\p{L}\p{N}_]`

type lineCheck struct {
	pattern  *regexp.Regexp
	severity Severity
	message  string
}

var lineChecks = []lineCheck{
	{
		pattern:  regexp.MustCompile(`catch\s+Error\s+as\s+` + word + `+`),
		severity: SeverityError,
		message:  "legacy catch syntax found",
	},
	{
		pattern:  regexp.MustCompile(`for\s+` + word + `+\s*:=\s*\d+\s+to\s+\d+`),
		severity: SeverityError,
		message:  "legacy for loop syntax found",
	},
	{
		pattern:  regexp.MustCompile(word + `+\.%` + word + `+%`),
		severity: SeverityError,
		message:  "legacy object property syntax found",
	},
	{
		pattern:  regexp.MustCompile(`for\s+` + word + `+\s+in\s+Range\(`),
		severity: SeverityError,
		message:  "range loop syntax found",
	},
}

var (
	variableMarker = regexp.MustCompile(`%` + word + `+%`)
	formatLine     = regexp.MustCompile(`FormatTime|RegEx|Format`)
)

// 🔍 CheckText runs the per-line checks over content. Include targets are
// not checked here; see Checker.
func CheckText(path, content string) []Finding {
	var findings []Finding

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		n := i + 1

		for _, c := range lineChecks {
			if c.pattern.MatchString(line) {
				findings = append(findings, Finding{Path: path, Line: n, Severity: c.severity, Message: c.message, Text: line})
			}
		}

		if strings.HasPrefix(line, "If") && strings.Contains(line, "(") && !strings.Contains(line, ")") {
			findings = append(findings, Finding{Path: path, Line: n, Severity: SeverityWarning, Message: "possible missing closing parenthesis", Text: line})
		}

		if variableMarker.MatchString(line) && !formatLine.MatchString(line) {
			findings = append(findings, Finding{Path: path, Line: n, Severity: SeverityWarning, Message: "possible legacy variable syntax", Text: line})
		}
	}

	return findings
}
