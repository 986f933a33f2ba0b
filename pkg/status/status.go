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

package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// BackupTimeLayout is the timestamp embedded in backup file names
const BackupTimeLayout = "20060102_150405"

// 📊 Outcome is the per-file result of a conversion attempt
type Outcome int

const (
	OutcomeExcluded Outcome = iota
	OutcomeUnchanged
	OutcomeConverted
	OutcomeBackupFailed
	OutcomeReadFailed
	OutcomeWriteFailed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeExcluded:
		return "excluded"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeConverted:
		return "converted"
	case OutcomeBackupFailed:
		return "backup_failed"
	case OutcomeReadFailed:
		return "read_failed"
	case OutcomeWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}

// Failed reports whether the outcome counts as a per-file error
func (o Outcome) Failed() bool {
	return o == OutcomeBackupFailed || o == OutcomeReadFailed || o == OutcomeWriteFailed
}

// 💾 FileManager handles all file system operations of the pipeline
type FileManager interface {
	// FileExists reports whether path names an existing file
	FileExists(ctx context.Context, path string) (bool, error)

	// BackupFile snapshots path into the backup directory and returns the
	// backup's location
	BackupFile(ctx context.Context, path string) (string, error)

	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFileAtomic replaces path's content, keeping its permissions
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// 📈 StatusReporter tracks per-file outcomes and reports progress
type StatusReporter interface {
	StartOperation(ctx context.Context, total int)
	TrackFile(ctx context.Context, path string, outcome Outcome)
	FinishOperation(ctx context.Context)
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🔧 Manager implements both FileManager and StatusReporter on the local disk
type Manager struct {
	backupDir string           // Where snapshots are written
	now       func() time.Time // Clock for backup names
	formatter FileFormatter    // Formatter for status messages

	mu        sync.Mutex
	outcomes  map[string]Outcome
	total     int
	processed int
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the clock used for backup timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithFormatter overrides the status message formatter
func WithFormatter(f FileFormatter) Option {
	return func(m *Manager) {
		m.formatter = f
	}
}

// 🏭 New creates a new status manager writing backups into backupDir
func New(backupDir string, opts ...Option) *Manager {
	m := &Manager{
		backupDir: filepath.Clean(backupDir),
		now:       time.Now,
		formatter: NewDefaultFileFormatter(),
		outcomes:  make(map[string]Outcome),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BackupDir returns the directory backups are written to
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// FileManager interface implementation

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// 📦 BackupFile copies path to <backupDir>/<base>_<YYYYMMDD_HHMMSS>.bak,
// creating the directory on demand. A numeric suffix is added when a backup
// with the same name already exists, so no snapshot is ever overwritten.
func (m *Manager) BackupFile(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return "", errors.Errorf("creating backup directory: %w", err)
	}

	stamp := m.now().Format(BackupTimeLayout)
	base := filepath.Base(path)

	for n := 0; ; n++ {
		name := fmt.Sprintf("%s_%s.bak", base, stamp)
		if n > 0 {
			name = fmt.Sprintf("%s_%s_%d.bak", base, stamp, n)
		}
		backupPath := filepath.Join(m.backupDir, name)

		err := copyFile(path, backupPath)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", errors.Errorf("creating backup: %w", err)
		}

		zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("backup created")
		return backupPath, nil
	}
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// StatusReporter interface implementation

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.outcomes = make(map[string]Outcome)
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) TrackFile(ctx context.Context, path string, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outcomes[path] = outcome
	m.processed++

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Stringer("outcome", outcome).
		Int("processed", m.processed).
		Msg(m.formatter.FormatOutcome(path, outcome))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// a zero total means the count was not known up front
	total := m.total
	if total == 0 {
		total = m.processed
	}

	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", total).
		Msg(m.formatter.FormatProgress(m.processed, total))
}

type multiReporter []StatusReporter

// Reporters fans every call out to each reporter in order
func Reporters(reporters ...StatusReporter) StatusReporter {
	return multiReporter(reporters)
}

func (m multiReporter) StartOperation(ctx context.Context, total int) {
	for _, r := range m {
		r.StartOperation(ctx, total)
	}
}

func (m multiReporter) TrackFile(ctx context.Context, path string, outcome Outcome) {
	for _, r := range m {
		r.TrackFile(ctx, path, outcome)
	}
}

func (m multiReporter) FinishOperation(ctx context.Context) {
	for _, r := range m {
		r.FinishOperation(ctx)
	}
}

// Outcome returns the tracked outcome of path
func (m *Manager) Outcome(path string) (Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.outcomes[path]
	return o, ok
}

// Outcomes returns a copy of every tracked outcome
func (m *Manager) Outcomes() map[string]Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Outcome, len(m.outcomes))
	for k, v := range m.outcomes {
		out[k] = v
	}
	return out
}

// Helper functions

// copyFile copies src to a new file dst, preserving src's permissions.
// It fails with os.ErrExist when dst is already present.
func copyFile(src, dst string) (err error) {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source file info: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer func() {
		if cerr := destination.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing destination file: %w", cerr)
		}
	}()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
