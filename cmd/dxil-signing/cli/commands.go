// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli builds the dxil-signing command tree.
package cli

import (
	"github.com/spf13/cobra"
	cobracompletefig "github.com/withfig/autocomplete-tools/integrations/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/sigstore/dxil-signing/cmd/dxil-signing/cli/options"
)

// New returns the root command. Running it without a subcommand signs the
// file given by --input.
func New() *cobra.Command {
	ro := &options.RootOptions{}
	so := &options.SignOptions{}

	cmd := &cobra.Command{
		Use:   "dxil-signing --input PATH --output PATH [--force]",
		Short: "Validate and sign DXIL shader containers.",
		Long: `Validate and sign DXIL shader containers.

    The container at --input is passed to the DXIL validator, which checks it
    and stamps a digest into its header. The signed container is written to
    --output.

    A container that already carries a digest is left untouched. Pass --force
    to clear the digest and validate it again.

    The validator defaults to "dxv" on PATH. Use --validator to pick another
    executable, or --config for a YAML file describing how to run it.

    Every global flag can also be set through an environment variable, for
    example DXIL_SIGNING_LOG_LEVEL=debug.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := ro.BindEnv(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			return ro.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSign(cmd.Context(), ro, so)
		},
	}
	options.AddAllFlags(cmd, ro, so)

	cmd.AddCommand(version.WithFont("starwars"))
	cmd.AddCommand(cobracompletefig.CreateCompletionSpecCommand())
	return cmd
}
