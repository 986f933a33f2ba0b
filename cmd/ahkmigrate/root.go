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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ahkmigrate/cmd/ahkmigrate/commands"
	"github.com/walteh/ahkmigrate/cmd/ahkmigrate/opts"
)

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ahkmigrate",
		Short: "Convert AutoHotkey v1 sources to v2 syntax",
		Long: `ahkmigrate rewrites legacy AutoHotkey constructs across a project tree.
Every file is backed up before it is written, and each run leaves a
conversion log with per-rule statistics. The lint command reports what a
conversion left behind, starting at the project's entry file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd, o)
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewConvertCmd(o),
		commands.NewLintCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: .ahkmigrate.* in the project root)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

func setupLogging(cmd *cobra.Command, o *opts.RootOpts) {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
}
