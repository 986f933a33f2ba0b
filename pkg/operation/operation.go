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

package operation

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/walteh/ahkmigrate/pkg/report"
	"github.com/walteh/ahkmigrate/pkg/status"
	"github.com/walteh/ahkmigrate/pkg/text"
	"github.com/walteh/ahkmigrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// DefaultBackupDir is the backup directory name under the root
const DefaultBackupDir = "backups"

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// Flusher is implemented by operations holding output that must be written
// out even when Execute fails
type Flusher interface {
	Flush(ctx context.Context)
}

// 🔧 Options contains configuration for the converter
type Options struct {
	// Root is the traversal root; messages use paths relative to it
	Root string

	// Extension is the source extension, ".ahk" when empty
	Extension string

	// Exclusions is the exclusion policy; the built-in defaults when nil
	Exclusions *walk.Exclusions

	// Engine rewrites file text; the default rule table when nil
	Engine text.TextReplacer

	// Files performs every disk mutation; a status.Manager writing into
	// <Root>/backups when nil
	Files status.FileManager

	// Reporter tracks per-file outcomes, optional
	Reporter status.StatusReporter

	// Run receives the log and statistics; a fresh run when nil
	Run *report.Run

	// LogDir is where the run log is persisted; Root when empty
	LogDir string

	// PersistLog writes conversion_log_<ts>.txt at the end of Execute
	PersistLog bool

	// Concurrency is the number of files converted at once; <= 1 is sequential
	Concurrency int

	// DryRun skips backups and writes
	DryRun bool

	// Diffs receives a line diff per would-be conversion in dry runs
	Diffs io.Writer
}

// ⚙️ Converter drives the backup/apply pipeline over a tree
type Converter struct {
	root        string
	ext         string
	exclusions  walk.Exclusions
	engine      text.TextReplacer
	files       status.FileManager
	reporter    status.StatusReporter
	run         *report.Run
	logDir      string
	persistLog  bool
	concurrency int
	dryRun      bool

	diffMu sync.Mutex
	diffs  io.Writer

	logPath string
}

var (
	_ Operation = (*Converter)(nil)
	_ Flusher   = (*Converter)(nil)
)

// 🏭 NewConverter creates a converter with the given options
func NewConverter(opts Options) (*Converter, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	if opts.Concurrency < 0 {
		return nil, errors.Errorf("concurrency must not be negative, got %d", opts.Concurrency)
	}

	c := &Converter{
		root:        filepath.Clean(opts.Root),
		ext:         opts.Extension,
		engine:      opts.Engine,
		files:       opts.Files,
		reporter:    opts.Reporter,
		run:         opts.Run,
		logDir:      opts.LogDir,
		persistLog:  opts.PersistLog,
		concurrency: opts.Concurrency,
		dryRun:      opts.DryRun,
		diffs:       opts.Diffs,
	}

	if c.ext == "" {
		c.ext = walk.DefaultExtension
	}
	if !strings.HasPrefix(c.ext, ".") {
		c.ext = "." + c.ext
	}
	if opts.Exclusions != nil {
		c.exclusions = *opts.Exclusions
	} else {
		c.exclusions = walk.DefaultExclusions()
	}
	if c.engine == nil {
		c.engine = text.NewRuleEngine(nil)
	}
	if c.files == nil {
		c.files = status.New(filepath.Join(c.root, DefaultBackupDir))
	}
	if c.run == nil {
		c.run = report.NewRun()
	}
	if c.logDir == "" {
		c.logDir = c.root
	}

	return c, nil
}

// Run returns the run the converter records into
func (c *Converter) Run() *report.Run {
	return c.run
}

// LogPath returns where the run log was persisted, empty if it was not
func (c *Converter) LogPath() string {
	return c.logPath
}

// display returns path relative to the root for messages
func (c *Converter) display(path string) string {
	return filepath.ToSlash(walk.Rel(c.root, path))
}
