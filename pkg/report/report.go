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

// Package report accumulates the log and statistics of a conversion run.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/walteh/ahkmigrate/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

const (
	// EntryTimeLayout is the timestamp format of a log line
	EntryTimeLayout = "2006-01-02 15:04:05"
	// FileTimeLayout is the timestamp embedded in the log file name
	FileTimeLayout = "20060102_150405"
)

// 📊 Level is the severity of a log entry
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// 📝 Entry is a single line of the run log
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

// String renders the entry as "[timestamp] LEVEL: message"
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.Time.Format(EntryTimeLayout), e.Level, e.Message)
}

// Sink receives every entry as it is recorded
type Sink interface {
	Emit(Entry)
}

// 🏃 Run is the explicit accumulator of a conversion run. It is not safe for
// concurrent use: parallel workers record into a Fragment each, and the
// fragments are merged back in a fixed order.
type Run struct {
	FilesProcessed int
	FilesConverted int
	FilesUnchanged int
	FilesExcluded  int
	Errors         int
	Warnings       int
	RepairFixes    int
	Categories     map[rules.Category]int
	Entries        []Entry
	Started        time.Time

	now  func() time.Time
	sink Sink
}

// Option configures a Run
type Option func(*Run)

// WithClock overrides the clock used for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Run) {
		r.now = now
	}
}

// WithSink echoes every recorded entry to s
func WithSink(s Sink) Option {
	return func(r *Run) {
		r.sink = s
	}
}

// 🏭 NewRun creates an empty run
func NewRun(opts ...Option) *Run {
	r := &Run{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	r.Reset()
	return r
}

// Reset zeroes every counter and drops all entries
func (r *Run) Reset() {
	r.FilesProcessed = 0
	r.FilesConverted = 0
	r.FilesUnchanged = 0
	r.FilesExcluded = 0
	r.Errors = 0
	r.Warnings = 0
	r.RepairFixes = 0
	r.Categories = make(map[rules.Category]int, len(rules.Categories))
	r.Entries = nil
	r.Started = r.now()
}

// Now returns the run clock's current time
func (r *Run) Now() time.Time {
	return r.now()
}

func (r *Run) record(level Level, msg string) {
	e := Entry{Time: r.now(), Level: level, Message: msg}
	switch level {
	case LevelWarning:
		r.Warnings++
	case LevelError:
		r.Errors++
	}
	r.Entries = append(r.Entries, e)
	if r.sink != nil {
		r.sink.Emit(e)
	}
}

// Infof records an informational entry
func (r *Run) Infof(format string, args ...any) {
	r.record(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf records a warning and counts it
func (r *Run) Warnf(format string, args ...any) {
	r.record(LevelWarning, fmt.Sprintf(format, args...))
}

// Errorf records an error and counts it
func (r *Run) Errorf(format string, args ...any) {
	r.record(LevelError, fmt.Sprintf(format, args...))
}

// AddCategoryCounts folds per-category rule counts into the run
func (r *Run) AddCategoryCounts(counts map[rules.Category]int) {
	for c, n := range counts {
		r.Categories[c] += n
	}
}

// TotalRuleApplications sums every category count
func (r *Run) TotalRuleApplications() int {
	total := 0
	for _, n := range r.Categories {
		total += n
	}
	return total
}

// OK reports whether the run recorded no errors. Warnings never matter.
func (r *Run) OK() bool {
	return r.Errors == 0
}

// Fragment returns an empty run sharing r's clock but not its sink, for a
// worker to record one file into before it is merged back.
func (r *Run) Fragment() *Run {
	return NewRun(WithClock(r.now))
}

// 🔀 Merge folds a fragment into r. Its entries are appended in order and
// echoed to r's sink.
func (r *Run) Merge(f *Run) {
	r.FilesProcessed += f.FilesProcessed
	r.FilesConverted += f.FilesConverted
	r.FilesUnchanged += f.FilesUnchanged
	r.FilesExcluded += f.FilesExcluded
	r.Errors += f.Errors
	r.Warnings += f.Warnings
	r.RepairFixes += f.RepairFixes
	r.AddCategoryCounts(f.Categories)

	r.Entries = append(r.Entries, f.Entries...)
	if r.sink != nil {
		for _, e := range f.Entries {
			r.sink.Emit(e)
		}
	}
}

// Statistics returns the "label: value" lines of the statistics block
func (r *Run) Statistics() []string {
	lines := []string{
		fmt.Sprintf("Files processed: %d", r.FilesProcessed),
		fmt.Sprintf("Files converted: %d", r.FilesConverted),
		fmt.Sprintf("Errors: %d", r.Errors),
		fmt.Sprintf("Warnings: %d", r.Warnings),
	}
	for _, c := range rules.Categories {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Label(), r.Categories[c]))
	}
	lines = append(lines, fmt.Sprintf("Repair fixes: %d", r.RepairFixes))
	return lines
}

// 📋 Summary renders the end-of-run report
func (r *Run) Summary() string {
	var sb strings.Builder

	sb.WriteString("\n=== PROJECT CONVERSION COMPLETED ===\n\n")

	sb.WriteString("File Statistics:\n")
	fmt.Fprintf(&sb, "• Files processed: %d\n", r.FilesProcessed)
	fmt.Fprintf(&sb, "• Files converted: %d\n", r.FilesConverted)
	fmt.Fprintf(&sb, "• Files unchanged: %d\n", r.FilesUnchanged)
	fmt.Fprintf(&sb, "• Files excluded: %d\n", r.FilesExcluded)
	fmt.Fprintf(&sb, "• Errors: %d\n", r.Errors)
	fmt.Fprintf(&sb, "• Warnings: %d\n", r.Warnings)

	sb.WriteString("\nConversion Rules Applied:\n")
	for _, c := range rules.Categories {
		fmt.Fprintf(&sb, "• %s: %d\n", c.Label(), r.Categories[c])
	}
	fmt.Fprintf(&sb, "• Repair fixes: %d\n", r.RepairFixes)

	fmt.Fprintf(&sb, "\nTotal rule applications: %d\n", r.TotalRuleApplications())

	return sb.String()
}

// WriteTo writes every entry, a blank line, then the statistics block
func (r *Run) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	write := func(s string) error {
		m, err := bw.WriteString(s)
		n += int64(m)
		return err
	}

	for _, e := range r.Entries {
		if err := write(e.String() + "\n"); err != nil {
			return n, errors.Errorf("writing entry: %w", err)
		}
	}

	if err := write("\n=== Conversion Statistics ===\n"); err != nil {
		return n, errors.Errorf("writing statistics header: %w", err)
	}
	for _, line := range r.Statistics() {
		if err := write(line + "\n"); err != nil {
			return n, errors.Errorf("writing statistics: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return n, errors.Errorf("flushing log: %w", err)
	}
	return n, nil
}

// LogFileName returns the run log's file name for time t
func LogFileName(t time.Time) string {
	return fmt.Sprintf("conversion_log_%s.txt", t.Format(FileTimeLayout))
}

// 💾 Persist writes the run log into dir. A failure is recorded on the run
// as an error entry and returned; it never panics past the caller.
func (r *Run) Persist(dir string) (path string, err error) {
	path = filepath.Join(dir, LogFileName(r.now()))

	defer func() {
		if err != nil {
			r.Errorf("Failed to save log file: %v", err)
			path = ""
		}
	}()

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Errorf("creating log file: %w", err)
	}

	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Errorf("closing log file: %w", err)
	}

	r.Infof("Log saved to: %s", path)
	return path, nil
}
