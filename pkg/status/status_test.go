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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestManager_BackupFile(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string) (src string, backupDir string)
		wantName    string
		wantErr     bool
		errContains string
	}{
		{
			name: "creates_backup_dir_on_demand",
			setup: func(t *testing.T, dir string) (string, string) {
				src := filepath.Join(dir, "main.ahk")
				require.NoError(t, os.WriteFile(src, []byte("catch Error as e\n"), 0644))
				return src, filepath.Join(dir, "backups")
			},
			wantName: "main.ahk_20240309_140507.bak",
		},
		{
			name: "collision_gets_suffix",
			setup: func(t *testing.T, dir string) (string, string) {
				src := filepath.Join(dir, "main.ahk")
				require.NoError(t, os.WriteFile(src, []byte("x := 1\n"), 0644))
				backups := filepath.Join(dir, "backups")
				require.NoError(t, os.MkdirAll(backups, 0755))
				require.NoError(t, os.WriteFile(filepath.Join(backups, "main.ahk_20240309_140507.bak"), []byte("older"), 0644))
				return src, backups
			},
			wantName: "main.ahk_20240309_140507_1.bak",
		},
		{
			name: "backup_dir_is_a_file",
			setup: func(t *testing.T, dir string) (string, string) {
				src := filepath.Join(dir, "main.ahk")
				require.NoError(t, os.WriteFile(src, []byte("x := 1\n"), 0644))
				blocker := filepath.Join(dir, "backups")
				require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0644))
				return src, blocker
			},
			wantErr:     true,
			errContains: "creating backup directory",
		},
		{
			name: "missing_source",
			setup: func(t *testing.T, dir string) (string, string) {
				return filepath.Join(dir, "gone.ahk"), filepath.Join(dir, "backups")
			},
			wantErr:     true,
			errContains: "opening source file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src, backupDir := tt.setup(t, dir)

			mgr := New(backupDir, WithClock(fixedClock))
			got, err := mgr.BackupFile(testContext(t), src)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.Join(backupDir, tt.wantName), got)

			want, err := os.ReadFile(src)
			require.NoError(t, err)
			backup, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, want, backup, "backup should be a byte copy of the source")
		})
	}
}

func TestManager_WriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.ahk")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	mgr := New(filepath.Join(dir, "backups"))
	require.NoError(t, mgr.WriteFileAtomic(testContext(t), path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should remain")
}

func TestManager_WriteFileAtomic_MissingDir(t *testing.T) {
	dir := t.TempDir()
	mgr := New(filepath.Join(dir, "backups"))

	err := mgr.WriteFileAtomic(testContext(t), filepath.Join(dir, "nope", "x.ahk"), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating temp file")
}

func TestManager_ReadFileAndExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ahk")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	mgr := New(filepath.Join(dir, "backups"))
	ctx := testContext(t)

	got, err := mgr.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = mgr.ReadFile(ctx, filepath.Join(dir, "missing.ahk"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	ok, err := mgr.FileExists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mgr.FileExists(ctx, filepath.Join(dir, "missing.ahk"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mgr.FileExists(ctx, dir)
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")
}

func TestManager_TrackFile(t *testing.T) {
	mgr := New(t.TempDir())
	ctx := testContext(t)

	mgr.StartOperation(ctx, 2)
	mgr.TrackFile(ctx, "a.ahk", OutcomeConverted)
	mgr.TrackFile(ctx, "b.ahk", OutcomeBackupFailed)
	mgr.FinishOperation(ctx)

	o, ok := mgr.Outcome("a.ahk")
	require.True(t, ok)
	assert.Equal(t, OutcomeConverted, o)
	assert.Equal(t, map[string]Outcome{
		"a.ahk": OutcomeConverted,
		"b.ahk": OutcomeBackupFailed,
	}, mgr.Outcomes())

	mgr.StartOperation(ctx, 0)
	assert.Empty(t, mgr.Outcomes(), "a new operation starts clean")
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		outcome    Outcome
		wantString string
		wantFailed bool
	}{
		{OutcomeExcluded, "excluded", false},
		{OutcomeUnchanged, "unchanged", false},
		{OutcomeConverted, "converted", false},
		{OutcomeBackupFailed, "backup_failed", true},
		{OutcomeReadFailed, "read_failed", true},
		{OutcomeWriteFailed, "write_failed", true},
		{Outcome(99), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			assert.Equal(t, tt.wantString, tt.outcome.String())
			assert.Equal(t, tt.wantFailed, tt.outcome.Failed())
		})
	}
}

func TestReporters(t *testing.T) {
	ctx := testContext(t)
	a := New(t.TempDir())
	b := New(t.TempDir())

	r := Reporters(a, b)
	r.StartOperation(ctx, 2)
	r.TrackFile(ctx, "x.ahk", OutcomeConverted)
	r.TrackFile(ctx, "y.ahk", OutcomeReadFailed)
	r.FinishOperation(ctx)

	want := map[string]Outcome{"x.ahk": OutcomeConverted, "y.ahk": OutcomeReadFailed}
	assert.Equal(t, want, a.Outcomes())
	assert.Equal(t, want, b.Outcomes())
}
