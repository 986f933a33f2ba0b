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
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/ahkmigrate/cmd/ahkmigrate/opts"
	"gitlab.com/tozd/go/errors"
)

func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective rule table",
		Long: `Rules prints the rules a conversion under root would apply, in
application order: the built-in table minus disable_rules, followed by any
rules from the project config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			absRoot, err := filepath.Abs(root)
			if err != nil {
				return errors.Errorf("resolving root: %w", err)
			}

			cfg, err := o.LoadConfig(ctx, absRoot)
			if err != nil {
				return err
			}

			table, err := cfg.Table()
			if err != nil {
				return errors.Errorf("building rule table: %w", err)
			}

			data := pterm.TableData{{"#", "Name", "Category", "Pattern"}}
			for i, r := range table.Rules() {
				data = append(data, []string{fmt.Sprint(i + 1), r.Name, r.Category.String(), r.Pattern.String()})
			}

			if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render(); err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root whose config is used")

	return cmd
}
