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

package lint

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultEntry is the conventional entry file
const DefaultEntry = "Main.ahk"

// 📋 Result is the outcome of linting an include tree
type Result struct {
	// Files are the checked files in visit order, relative to the root
	Files    []string
	Findings []Finding
}

// Errors returns the error findings
func (r *Result) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning findings
func (r *Result) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// OK reports whether no error finding was made
func (r *Result) OK() bool {
	return len(r.Errors()) == 0
}

func (r *Result) filter(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// Options configures a Linter
type Options struct {
	// Root is the directory paths are reported relative to
	Root string
	// Out receives the tree report; os.Stdout when nil
	Out io.Writer
	// Checker is shared between runs in watch mode; a fresh one when nil
	Checker *Checker
}

// 🌳 Linter walks an include tree from an entry file
type Linter struct {
	root    string
	out     io.Writer
	checker *Checker
}

// 🏭 New creates a linter
func New(opts Options) (*Linter, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	l := &Linter{root: abs, out: opts.Out, checker: opts.Checker}
	if l.out == nil {
		l.out = os.Stdout
	}
	if l.checker == nil {
		l.checker, err = NewChecker(DefaultCacheSize)
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Checker returns the linter's checker
func (l *Linter) Checker() *Checker {
	return l.checker
}

// Root returns the absolute root
func (l *Linter) Root() string {
	return l.root
}

func (l *Linter) rel(path string) string {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (l *Linter) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithWriter(l.out).WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style})
}

// 🔍 Lint checks entry and everything it includes, each file once, depth
// first in directive order. A missing entry is reported as an error finding.
func (l *Linter) Lint(ctx context.Context, entry string) (*Result, error) {
	if entry == "" {
		entry = DefaultEntry
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(l.root, entry)
	}

	res := &Result{}

	if _, err := os.Stat(entry); err != nil {
		res.Findings = append(res.Findings, Finding{
			Path:     l.rel(entry),
			Severity: SeverityError,
			Message:  "entry file not found",
			Err:      err,
		})
		l.printer(pterm.Error, "❌").Println(l.rel(entry) + " not found")
		return res, nil
	}

	visited := make(map[string]bool)
	if err := l.visit(ctx, filepath.Clean(entry), 0, visited, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (l *Linter) visit(ctx context.Context, path string, level int, visited map[string]bool, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if visited[path] {
		return nil
	}
	visited[path] = true

	rel := l.rel(path)
	indent := strings.Repeat("  ", level)
	res.Files = append(res.Files, rel)

	l.printer(pterm.Info, "🔍").Println(indent + "Checking: " + rel)

	report, err := l.checker.Check(ctx, path, rel)
	if err != nil {
		res.Findings = append(res.Findings, Finding{Path: rel, Severity: SeverityError, Message: "failed to read file", Err: err})
		l.printer(pterm.Error, "❌").Println(indent + "  failed to read file")
		return nil
	}
	res.Findings = append(res.Findings, report.Findings...)

	errs, warns := 0, 0
	for _, f := range report.Findings {
		if f.Severity == SeverityError {
			errs++
		} else {
			warns++
		}
	}

	if errs > 0 {
		l.printer(pterm.Error, "❌").Println(fmt.Sprintf("%s  %d errors found", indent, errs))
	}
	if warns > 0 {
		l.printer(pterm.Warning, "⚠️").Println(fmt.Sprintf("%s  %d warnings found", indent, warns))
	}
	if errs == 0 && warns == 0 {
		l.printer(pterm.Success, "✅").Println(indent + "  No issues found")
	}

	zerolog.Ctx(ctx).Debug().Str("path", rel).Int("errors", errs).Int("warnings", warns).Int("includes", len(report.Includes)).Msg("file checked")

	for _, inc := range report.Includes {
		if err := l.visit(ctx, inc, level+1, visited, res); err != nil {
			return err
		}
	}
	return nil
}

// 📊 PrintSummary writes the totals and every finding
func (l *Linter) PrintSummary(res *Result) {
	errs, warns := res.Errors(), res.Warnings()

	pterm.Fprintln(l.out)
	pterm.Fprintln(l.out, "=== Lint Results ===")
	pterm.Fprintln(l.out, fmt.Sprintf("Files checked: %d", len(res.Files)))
	pterm.Fprintln(l.out, fmt.Sprintf("Errors: %d", len(errs)))
	pterm.Fprintln(l.out, fmt.Sprintf("Warnings: %d", len(warns)))

	if len(errs) > 0 {
		pterm.Fprintln(l.out)
		l.printer(pterm.Error, "❌").Println("Error details:")
		for _, f := range errs {
			pterm.Fprintln(l.out, "  "+f.String())
		}
	}

	if len(warns) > 0 {
		pterm.Fprintln(l.out)
		l.printer(pterm.Warning, "⚠️").Println("Warning details:")
		for _, f := range warns {
			pterm.Fprintln(l.out, "  "+f.String())
		}
	}

	pterm.Fprintln(l.out)
	switch {
	case len(errs) == 0 && len(warns) == 0:
		l.printer(pterm.Success, "🎉").Println("No syntax problems found")
	case len(errs) == 0:
		l.printer(pterm.Success, "✅").Println("No errors found")
	default:
		l.printer(pterm.Warning, "⚠️").Println("Problems found; fix them before running under the new dialect")
	}
}
