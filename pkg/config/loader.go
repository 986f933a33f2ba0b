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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// FileNames are the config files looked for in a project root, in order
var FileNames = []string{
	".ahkmigrate.hcl",
	".ahkmigrate.yaml",
	".ahkmigrate.yml",
	".ahkmigrate.json",
	".ahkmigrate.toml",
}

// 🔍 Discover returns the first config file present in root, or "" if none
func Discover(root string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", errors.Errorf("looking for %s: %w", name, err)
		}
	}
	return "", nil
}

// 🎯 LoadConfig loads path when given, otherwise the config discovered in
// root, otherwise the defaults
func LoadConfig(ctx context.Context, root, path string) (*Config, error) {
	if path == "" {
		found, err := Discover(root)
		if err != nil {
			return nil, err
		}
		if found == "" {
			zerolog.Ctx(ctx).Debug().Str("root", root).Msg("no config file, using defaults")
			return Default(), nil
		}
		path = found
	}
	return Load(ctx, path)
}
