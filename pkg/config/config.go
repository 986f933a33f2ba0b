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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ahkmigrate/pkg/lint"
	"github.com/walteh/ahkmigrate/pkg/rules"
	"github.com/walteh/ahkmigrate/pkg/walk"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

const (
	DefaultBackupDir   = "backups"
	DefaultLogDir      = "."
	DefaultConcurrency = 1
)

// 📚 Config represents a project configuration. Every field is optional.
type Config struct {
	Extension    string       `json:"extension,omitempty" yaml:"extension,omitempty" hcl:"extension,optional" toml:"extension,omitempty"`
	Entry        string       `json:"entry,omitempty" yaml:"entry,omitempty" hcl:"entry,optional" toml:"entry,omitempty"`
	BackupDir    string       `json:"backup_dir,omitempty" yaml:"backup_dir,omitempty" hcl:"backup_dir,optional" toml:"backup_dir,omitempty"`
	LogDir       string       `json:"log_dir,omitempty" yaml:"log_dir,omitempty" hcl:"log_dir,optional" toml:"log_dir,omitempty"`
	ExcludeFiles []string     `json:"exclude_files,omitempty" yaml:"exclude_files,omitempty" hcl:"exclude_files,optional" toml:"exclude_files,omitempty"`
	ExcludeDirs  []string     `json:"exclude_dirs,omitempty" yaml:"exclude_dirs,omitempty" hcl:"exclude_dirs,optional" toml:"exclude_dirs,omitempty"`
	ExcludeGlobs []string     `json:"exclude_globs,omitempty" yaml:"exclude_globs,omitempty" hcl:"exclude_globs,optional" toml:"exclude_globs,omitempty"`
	Concurrency  int          `json:"concurrency,omitempty" yaml:"concurrency,omitempty" hcl:"concurrency,optional" toml:"concurrency,omitempty"`
	DisableRules []string     `json:"disable_rules,omitempty" yaml:"disable_rules,omitempty" hcl:"disable_rules,optional" toml:"disable_rules,omitempty"`
	Rules        []rules.Spec `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block" toml:"rules,omitempty"`
	Probes       []lint.Probe `json:"probes,omitempty" yaml:"probes,omitempty" hcl:"probe,block" toml:"probes,omitempty"`

	location string
}

// 🏭 Default returns the configuration used when no file is present.
// It panics if the built-in defaults do not validate.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(errors.Errorf("default configuration is invalid: %w", err))
	}
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// 🔍 Validate applies defaults and checks the configuration
func (cfg *Config) Validate() error {
	cfg.Extension = strings.TrimSpace(cfg.Extension)
	if cfg.Extension == "" {
		cfg.Extension = walk.DefaultExtension
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}

	if cfg.Entry == "" {
		cfg.Entry = lint.DefaultEntry
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = DefaultBackupDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
	cfg.BackupDir = filepath.Clean(cfg.BackupDir)
	cfg.LogDir = filepath.Clean(cfg.LogDir)

	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	if _, err := cfg.Table(); err != nil {
		return err
	}

	for i, p := range cfg.Probes {
		if p.Name == "" {
			return errors.Errorf("probe %d: name is required", i)
		}
		if p.File == "" {
			return errors.Errorf("probe %q: file is required", p.Name)
		}
	}

	return nil
}

// 📚 Table returns the default rule table without the disabled rules and
// with the configured rules appended
func (cfg *Config) Table() (*rules.Table, error) {
	table, err := rules.Default().Without(cfg.DisableRules...)
	if err != nil {
		return nil, errors.Errorf("disable_rules: %w", err)
	}

	extra := make([]rules.Rule, 0, len(cfg.Rules))
	for _, s := range cfg.Rules {
		r, err := rules.Compile(s)
		if err != nil {
			return nil, err
		}
		extra = append(extra, r)
	}

	table, err = table.With(extra...)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// 🚫 Exclusions extends the built-in exclusions with the configured ones.
// The backup directory is always excluded.
func (cfg *Config) Exclusions() walk.Exclusions {
	files := append(append([]string(nil), walk.DefaultExcludedFiles...), cfg.ExcludeFiles...)
	dirs := append(append([]string(nil), walk.DefaultExcludedDirs...), cfg.ExcludeDirs...)
	if cfg.BackupDir != "" {
		dirs = append(dirs, filepath.Base(cfg.BackupDir))
	}
	return walk.NewExclusions(files, dirs, cfg.ExcludeGlobs)
}

// Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	src := cfg.location
	if src == "" {
		src = "defaults"
	}
	return fmt.Sprintf("%s: extension=%s entry=%s backups=%s rules=+%d/-%d probes=%d",
		src, cfg.Extension, cfg.Entry, cfg.BackupDir, len(cfg.Rules), len(cfg.DisableRules), len(cfg.Probes))
}
