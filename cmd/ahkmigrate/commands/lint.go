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

package commands

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ahkmigrate/cmd/ahkmigrate/opts"
	"github.com/walteh/ahkmigrate/pkg/config"
	"github.com/walteh/ahkmigrate/pkg/lint"
	"gitlab.com/tozd/go/errors"
)

func NewLintCmd(o *opts.RootOpts) *cobra.Command {
	var (
		root     string
		watch    bool
		noProbes bool
	)

	cmd := &cobra.Command{
		Use:   "lint [entry]",
		Short: "Report legacy syntax left in a project",
		Long: `Lint starts at the entry file (Main.ahk by default) and follows every
#Include depth first, checking each file once. Errors are legacy constructs
and missing include targets; warnings are likely leftovers. Only errors fail
the command. With --watch the tree is checked again whenever a source file
under the root changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "lint").Logger().WithContext(cmd.Context())

			absRoot, err := filepath.Abs(root)
			if err != nil {
				return errors.Errorf("resolving root: %w", err)
			}

			cfg, err := o.LoadConfig(ctx, absRoot)
			if err != nil {
				return err
			}

			entry := cfg.Entry
			if len(args) == 1 {
				if entry, err = filepath.Abs(args[0]); err != nil {
					return errors.Errorf("resolving entry: %w", err)
				}
			}

			linter, err := lint.New(lint.Options{Root: absRoot, Out: cmd.OutOrStdout()})
			if err != nil {
				return errors.Errorf("creating linter: %w", err)
			}

			if !watch {
				res, err := lintOnce(ctx, linter, entry, cfg, noProbes)
				if err != nil {
					return err
				}
				if !res.OK() {
					return opts.ErrProblemsFound
				}
				return nil
			}

			watcher, err := lint.NewWatcher(absRoot, cfg.Extension, cfg.Exclusions(), lint.DefaultDebounce)
			if err != nil {
				return errors.Errorf("starting watcher: %w", err)
			}
			defer watcher.Close()

			if _, err := lintOnce(ctx, linter, entry, cfg, noProbes); err != nil {
				return err
			}

			return watcher.Run(ctx, func(ctx context.Context, changed []string) {
				for _, path := range changed {
					linter.Checker().Forget(path)
				}
				zerolog.Ctx(ctx).Debug().Strs("changed", changed).Msg("re-linting")
				if _, err := lintOnce(ctx, linter, entry, cfg, noProbes); err != nil {
					zerolog.Ctx(ctx).Error().Err(err).Msg("lint failed")
				}
			})
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root; reported paths are relative to it")
	cmd.Flags().BoolVar(&watch, "watch", false, "lint again whenever a source file changes")
	cmd.Flags().BoolVar(&noProbes, "no-probes", false, "skip the configured feature probes")

	return cmd
}

func lintOnce(ctx context.Context, linter *lint.Linter, entry string, cfg *config.Config, noProbes bool) (*lint.Result, error) {
	res, err := linter.Lint(ctx, entry)
	if err != nil {
		return nil, errors.Errorf("linting %s: %w", entry, err)
	}
	linter.PrintSummary(res)
	if !noProbes {
		linter.RunProbes(cfg.Probes)
	}
	return res, nil
}
