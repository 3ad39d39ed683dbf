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

package options

import (
	"github.com/spf13/cobra"

	"github.com/sigstore/dxil-signing/pkg/signing"
	"github.com/sigstore/dxil-signing/pkg/utils"
)

// FlagAdder is implemented by any flag group that can register itself to a cobra command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// SignOptions holds the flags of a signing request.
type SignOptions struct {
	InputPath  string // --input/-i (required)
	OutputPath string // --output/-o (required)
	Force      bool   // --force/-f
}

var _ FlagAdder = (*SignOptions)(nil)

func (o *SignOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.InputPath, "input", "i", "", "DXIL file to sign. [required]")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagFilename("input", "dxil", "cso")

	cmd.Flags().StringVarP(&o.OutputPath, "output", "o", "", "Location of the signed DXIL file. [required]")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagFilename("output", "dxil", "cso")

	cmd.Flags().BoolVarP(&o.Force, "force", "f", false, "Clear an existing digest and sign again.")
}

// Validate checks that both paths were given. Whether they can be read or
// written is decided by the signer, which skips the output entirely for
// containers that are already signed.
func (o *SignOptions) Validate() error {
	if err := utils.RequireFlag("--input", o.InputPath); err != nil {
		return err
	}
	return utils.RequireFlag("--output", o.OutputPath)
}

// ToRequest converts CLI options to a signing request.
func (o *SignOptions) ToRequest() signing.Request {
	return signing.Request{
		InputPath:  o.InputPath,
		OutputPath: o.OutputPath,
		Force:      o.Force,
	}
}

// AddAllFlags is a helper function to register multiple flag groups at once.
func AddAllFlags(cmd *cobra.Command, flagGroups ...FlagAdder) {
	for _, fg := range flagGroups {
		fg.AddFlags(cmd)
	}
}
