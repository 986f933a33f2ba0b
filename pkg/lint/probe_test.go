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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProbe(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib/Theme.ahk", "class ThemeManager {\n}\n")

	tests := []struct {
		name   string
		probe  Probe
		status ProbeStatus
		symbol string
	}{
		{
			name:   "symbol_found",
			probe:  Probe{Name: "theme", File: "lib/Theme.ahk", Symbols: []string{"class Missing", "class ThemeManager"}},
			status: ProbeFound,
			symbol: "class ThemeManager",
		},
		{
			name:   "file_only",
			probe:  Probe{Name: "theme", File: "lib/Theme.ahk"},
			status: ProbeFound,
		},
		{
			name:   "symbol_missing",
			probe:  Probe{Name: "theme", File: "lib/Theme.ahk", Symbols: []string{"class Other"}},
			status: ProbeSymbolMissing,
		},
		{
			name:   "file_missing",
			probe:  Probe{Name: "gui", File: "gui/Main.ahk", Optional: true},
			status: ProbeFileMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RunProbe(dir, tt.probe)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.symbol, r.Symbol)
			assert.NoError(t, r.Err)
		})
	}
}

func TestLinter_RunProbes(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib/Theme.ahk", "class ThemeManager {\n}\n")

	l, buf := newTestLinter(t, dir)

	results := l.RunProbes([]Probe{
		{Name: "Theme manager", File: "lib/Theme.ahk", Symbols: []string{"class ThemeManager"}},
		{Name: "Settings", File: "lib/Settings.ahk", Optional: true},
		{Name: "Hotkeys", File: "lib/Hotkeys.ahk"},
	})
	require.Len(t, results, 3)
	assert.Equal(t, ProbeFound, results[0].Status)
	assert.Equal(t, ProbeFileMissing, results[1].Status)
	assert.Equal(t, ProbeFileMissing, results[2].Status)

	out := buf.String()
	assert.Contains(t, out, "=== Feature Probes ===")
	assert.Contains(t, out, "Theme manager:")
	assert.Contains(t, out, "class ThemeManager found")
	assert.Contains(t, out, "Settings.ahk not found (optional)")
	assert.Contains(t, out, "Hotkeys.ahk not found")
}

func TestLinter_RunProbesEmpty(t *testing.T) {
	l, buf := newTestLinter(t, t.TempDir())
	assert.Nil(t, l.RunProbes(nil))
	assert.Empty(t, buf.String())
}

func TestProbeStatusString(t *testing.T) {
	assert.Equal(t, "found", ProbeFound.String())
	assert.Equal(t, "symbol_missing", ProbeSymbolMissing.String())
	assert.Equal(t, "unknown", ProbeStatus(42).String())
}
