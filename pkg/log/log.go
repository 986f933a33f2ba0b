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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/ahkmigrate/pkg/report"
	"github.com/walteh/ahkmigrate/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 15 // Width for outcome text
)

// 🎯 FileOperation is one tracked file of a run
type FileOperation struct {
	Path    string         // Root-relative path
	Outcome status.Outcome // What happened to the file
}

var (
	_ report.Sink           = (*Logger)(nil)
	_ status.StatusReporter = (*Logger)(nil)
)

// 🎯 Logger prints run entries and per-file outcomes to a console and
// mirrors them to zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	total      int
	operations []FileOperation
}

// 🏭 New creates a logger writing to console. Mirrored lines go to zlog at
// debug level.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Outcome {
	case status.OutcomeConverted:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.OutcomeUnchanged:
		symbol = '•'
		symbolColor = color.FgCyan
	case status.OutcomeExcluded:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '✗'
		symbolColor = color.FgRed
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", outcomeWidth, op.Outcome.String())))
}

// 📝 Emit implements report.Sink by printing the entry as it is recorded
func (l *Logger) Emit(e report.Entry) {
	switch e.Level {
	case report.LevelError:
		l.Error(e.Message)
	case report.LevelWarning:
		l.Warning(e.Message)
	default:
		l.Info(e.Message)
	}
}

// 📝 StartOperation implements status.StatusReporter
func (l *Logger) StartOperation(ctx context.Context, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total = total
	l.operations = nil

	l.zlog.Debug().Int("total", total).Msg("starting conversion")
}

// 📝 TrackFile implements status.StatusReporter
func (l *Logger) TrackFile(ctx context.Context, path string, outcome status.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, FileOperation{Path: path, Outcome: outcome})

	l.zlog.Debug().
		Str("file", path).
		Str("outcome", outcome.String()).
		Msg("file operation")
}

// 📝 FinishOperation implements status.StatusReporter by printing every
// tracked file and the outcome totals
func (l *Logger) FinishOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.operations) == 0 {
		return
	}

	counts := make(map[status.Outcome]int)
	fmt.Fprintln(l.console)
	for _, op := range l.operations {
		counts[op.Outcome]++
		fmt.Fprintln(l.console, l.formatFileOperation(op))
	}

	failed := 0
	for o, n := range counts {
		if o.Failed() {
			failed += n
		}
	}

	fmt.Fprintf(l.console, "\n%s %s %s %s %s %s %s\n",
		color.New(color.FgGreen).Sprintf("%d converted", counts[status.OutcomeConverted]),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgCyan).Sprintf("%d unchanged", counts[status.OutcomeUnchanged]),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d excluded", counts[status.OutcomeExcluded]),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgRed).Sprintf("%d failed", failed))

	l.zlog.Debug().
		Int("files", len(l.operations)).
		Int("failed", failed).
		Msg("conversion complete")

	l.operations = nil
}

// Operations returns the files tracked since the last StartOperation
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("ahkmigrate")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Plain writes msg without decoration
func (l *Logger) Plain(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Str("kind", "success").Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Debug().Str("kind", "warning").Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Debug().Str("kind", "error").Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Str("kind", "info").Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
