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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/ahkmigrate/pkg/rules"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const hclConfig = `
extension     = "AHK"
backup_dir    = "snapshots"
exclude_dirs  = ["vendor"]
exclude_globs = ["**/*_gen.ahk"]
concurrency   = 4
disable_rules = ["%variable% removal"]

rule "legacy sleep" {
  pattern     = "Sleep,\\s*(\\d+)"
  replacement = "Sleep($${1})"
  category    = "legacy_conditional"
}

probe "Theme manager" {
  file    = "lib/Theme.ahk"
  symbols = ["class ThemeManager"]
}
`

const yamlConfig = `
extension: AHK
backup_dir: snapshots
exclude_dirs: [vendor]
exclude_globs: ["**/*_gen.ahk"]
concurrency: 4
disable_rules: ["%variable% removal"]
rules:
  - name: legacy sleep
    pattern: 'Sleep,\s*(\d+)'
    replacement: 'Sleep(${1})'
    category: legacy_conditional
probes:
  - name: Theme manager
    file: lib/Theme.ahk
    symbols: [class ThemeManager]
`

const jsonConfig = `{
  "extension": "AHK",
  "backup_dir": "snapshots",
  "exclude_dirs": ["vendor"],
  "exclude_globs": ["**/*_gen.ahk"],
  "concurrency": 4,
  "disable_rules": ["%variable% removal"],
  "rules": [
    {"name": "legacy sleep", "pattern": "Sleep,\\s*(\\d+)", "replacement": "Sleep(${1})", "category": "legacy_conditional"}
  ],
  "probes": [
    {"name": "Theme manager", "file": "lib/Theme.ahk", "symbols": ["class ThemeManager"]}
  ]
}`

const tomlConfig = `
extension = "AHK"
backup_dir = "snapshots"
exclude_dirs = ["vendor"]
exclude_globs = ["**/*_gen.ahk"]
concurrency = 4
disable_rules = ["%variable% removal"]

[[rules]]
name = "legacy sleep"
pattern = 'Sleep,\s*(\d+)'
replacement = 'Sleep(${1})'
category = "legacy_conditional"

[[probes]]
name = "Theme manager"
file = "lib/Theme.ahk"
symbols = ["class ThemeManager"]
`

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "hcl", file: ".ahkmigrate.hcl", content: hclConfig},
		{name: "yaml", file: ".ahkmigrate.yaml", content: yamlConfig},
		{name: "json", file: ".ahkmigrate.json", content: jsonConfig},
		{name: "toml", file: ".ahkmigrate.toml", content: tomlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			cfg, err := Load(testContext(t), path)
			require.NoError(t, err)

			assert.Equal(t, ".AHK", cfg.Extension)
			assert.Equal(t, "Main.ahk", cfg.Entry)
			assert.Equal(t, "snapshots", cfg.BackupDir)
			assert.Equal(t, ".", cfg.LogDir)
			assert.Equal(t, 4, cfg.Concurrency)
			assert.Equal(t, path, cfg.Location())

			require.Len(t, cfg.Rules, 1)
			assert.Equal(t, rules.Spec{
				Name:        "legacy sleep",
				Pattern:     `Sleep,\s*(\d+)`,
				Replacement: "Sleep(${1})",
				Category:    "legacy_conditional",
			}, cfg.Rules[0])

			require.Len(t, cfg.Probes, 1)
			assert.Equal(t, "Theme manager", cfg.Probes[0].Name)
			assert.Equal(t, "lib/Theme.ahk", cfg.Probes[0].File)
			assert.Equal(t, []string{"class ThemeManager"}, cfg.Probes[0].Symbols)

			table, err := cfg.Table()
			require.NoError(t, err)
			assert.Equal(t, rules.Default().Len(), table.Len())
			_, ok := table.Lookup("%variable% removal")
			assert.False(t, ok)
			last := table.Rules()[table.Len()-1]
			assert.Equal(t, "legacy sleep", last.Name)
			assert.Equal(t, rules.LegacyConditional, last.Category)

			ex := cfg.Exclusions()
			assert.Contains(t, ex.Dirs, "vendor")
			assert.Contains(t, ex.Dirs, "snapshots")
			assert.Contains(t, ex.Dirs, "backups")
			assert.Contains(t, ex.Files, "ConvertV1ToV2.ahk")
			assert.Equal(t, []string{"**/*_gen.ahk"}, ex.Globs)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		errContains string
	}{
		{
			name:        "unknown_yaml_field",
			file:        "c.yaml",
			content:     "extention: .ahk\n",
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "c.json",
			content:     `{"extention": ".ahk"}`,
			errContains: "parsing JSON",
		},
		{
			name:        "unknown_toml_field",
			file:        "c.toml",
			content:     "extention = \".ahk\"\n",
			errContains: "parsing TOML",
		},
		{
			name:        "unknown_hcl_attribute",
			file:        "c.hcl",
			content:     "extention = \".ahk\"\n",
			errContains: "decoding HCL",
		},
		{
			name:        "negative_concurrency",
			file:        "c.yaml",
			content:     "concurrency: -2\n",
			errContains: "concurrency must not be negative",
		},
		{
			name:        "unknown_disabled_rule",
			file:        "c.yaml",
			content:     "disable_rules: [nope]\n",
			errContains: `unknown rule "nope"`,
		},
		{
			name:        "unknown_category",
			file:        "c.yaml",
			content:     "rules:\n  - {name: x, pattern: a, replacement: b, category: bogus}\n",
			errContains: "unknown rule category",
		},
		{
			name:        "duplicate_rule_name",
			file:        "c.yaml",
			content:     "rules:\n  - {name: catch Error as e, pattern: a, replacement: b, category: legacy_catch}\n",
			errContains: "duplicate name",
		},
		{
			name:        "bad_pattern",
			file:        "c.yaml",
			content:     "rules:\n  - {name: x, pattern: '(', replacement: b, category: legacy_catch}\n",
			errContains: "compiling pattern",
		},
		{
			name:        "probe_without_file",
			file:        "c.yaml",
			content:     "probes:\n  - {name: x}\n",
			errContains: `probe "x": file is required`,
		},
		{
			name:        "unsupported_extension",
			file:        "c.ini",
			content:     "x=1\n",
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(testContext(t), writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	var cfg *Config
	require.NotPanics(t, func() { cfg = Default() })
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ".ahk", cfg.Extension)
	assert.Equal(t, "Main.ahk", cfg.Entry)
	assert.Equal(t, "backups", cfg.BackupDir)
	assert.Equal(t, ".", cfg.LogDir)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Empty(t, cfg.Location())

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, rules.Default().Rules(), table.Rules())
}

func TestValidate_ExtensionNormalized(t *testing.T) {
	cfg := &Config{Extension: " ahk2 "}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ".ahk2", cfg.Extension)
}

func TestExclusions_NestedBackupDir(t *testing.T) {
	cfg := &Config{BackupDir: "out/snap"}
	require.NoError(t, cfg.Validate())
	assert.Contains(t, cfg.Exclusions().Dirs, "snap")
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, "defaults: extension=.ahk entry=Main.ahk backups=backups rules=+0/-0 probes=0", Default().String())
}

func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: ".ahkmigrate.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: "config.YML", want: &YAMLParser{}},
		{name: "hcl_file", filename: ".ahkmigrate.hcl", want: &HCLParser{}},
		{name: "json_file", filename: ".ahkmigrate.json", want: &JSONParser{}},
		{name: "toml_file", filename: ".ahkmigrate.toml", want: &TOMLParser{}},
		{name: "unknown_extension", filename: "config.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

func TestParserRegistration(t *testing.T) {
	original := parsers
	defer func() {
		parsers = original
	}()

	parsers = nil
	Register(&YAMLParser{})
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Nil(t, GetParser("x.hcl"))
}
