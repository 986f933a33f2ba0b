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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/ahkmigrate/pkg/walk"
)

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "Main.ahk", "x := 1\n")
	writeSource(t, dir, "backups/old.ahk", "x := 1\n")

	w, err := NewWatcher(dir, walk.DefaultExtension, walk.DefaultExclusions(), 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(testContext(t), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) {
			batches <- changed
		})
	}()

	writeSource(t, dir, "Main.ahk", "for i in Range(2) {\n")
	writeSource(t, dir, "backups/old.ahk", "y := 2\n")
	writeSource(t, dir, "notes.txt", "ignored\n")

	select {
	case got := <-batches:
		assert.Equal(t, []string{filepath.Join(dir, "Main.ahk")}, got)
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	assert.NoError(t, <-done)
}
