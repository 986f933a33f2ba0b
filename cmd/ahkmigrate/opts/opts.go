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

package opts

import (
	"context"

	"github.com/walteh/ahkmigrate/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// ErrProblemsFound is returned by commands that already reported their
// problems to the user; only the exit status is left to set
var ErrProblemsFound = errors.New("problems found")

type RootOpts struct {
	// ConfigFile is an explicit config path; discovered in the root when empty
	ConfigFile string
	Debug      bool
}

// LoadConfig loads the configuration for a project root
func (o *RootOpts) LoadConfig(ctx context.Context, root string) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx, root, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
