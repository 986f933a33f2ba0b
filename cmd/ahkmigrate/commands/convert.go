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
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ahkmigrate/cmd/ahkmigrate/opts"
	"github.com/walteh/ahkmigrate/pkg/log"
	"github.com/walteh/ahkmigrate/pkg/operation"
	"github.com/walteh/ahkmigrate/pkg/report"
	"github.com/walteh/ahkmigrate/pkg/status"
	"github.com/walteh/ahkmigrate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun      bool
		showDiff    bool
		noLog       bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "convert [root]",
		Short: "Convert every source file under a directory",
		Long: `Convert rewrites legacy syntax in every source file under root.
It will:
1. Walk the tree, skipping excluded files and directories
2. Back up each candidate file into the backup directory
3. Apply the rule table and the line repair pass
4. Write changed files in place
5. Print a summary and save conversion_log_<timestamp>.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "convert").Logger().WithContext(cmd.Context())

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return errors.Errorf("resolving root: %w", err)
			}

			cfg, err := o.LoadConfig(ctx, root)
			if err != nil {
				return err
			}

			table, err := cfg.Table()
			if err != nil {
				return errors.Errorf("building rule table: %w", err)
			}
			exclusions := cfg.Exclusions()

			if !cmd.Flags().Changed("concurrency") {
				concurrency = cfg.Concurrency
			}

			out := cmd.OutOrStdout()
			console := log.New(out, *zerolog.Ctx(ctx))
			run := report.NewRun(report.WithSink(console))

			files := status.New(filepath.Join(root, cfg.BackupDir))

			var diffs io.Writer
			if showDiff {
				diffs = out
			}

			converter, err := operation.NewConverter(operation.Options{
				Root:        root,
				Extension:   cfg.Extension,
				Exclusions:  &exclusions,
				Engine:      text.NewRuleEngine(table),
				Files:       files,
				Reporter:    status.Reporters(console, files),
				Run:         run,
				LogDir:      filepath.Join(root, cfg.LogDir),
				PersistLog:  !noLog,
				Concurrency: concurrency,
				DryRun:      dryRun,
				Diffs:       diffs,
			})
			if err != nil {
				return errors.Errorf("creating converter: %w", err)
			}

			if dryRun {
				console.Header("dry run in " + root)
			} else {
				console.Header("converting " + root)
			}

			runner := operation.NewRunner(zerolog.Ctx(ctx), false)
			if err := runner.Run(ctx, converter); err != nil {
				return errors.Errorf("running conversion: %w", err)
			}

			console.Plain(run.Summary())

			if !run.OK() {
				console.Errorf("%d files failed to convert", run.Errors)
				return opts.ErrProblemsFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without backing up or writing")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a line diff for every file that would change (with --dry-run)")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "do not save the conversion log file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of files converted at once")

	return cmd
}
