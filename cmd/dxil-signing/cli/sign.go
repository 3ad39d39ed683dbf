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

package cli

import (
	"context"
	"fmt"

	"github.com/sigstore/dxil-signing/cmd/dxil-signing/cli/options"
	"github.com/sigstore/dxil-signing/pkg/signing"
	"github.com/sigstore/dxil-signing/pkg/validator"
)

// ValidatorInitExitCode is the exit status when no validator could be set up.
const ValidatorInitExitCode = 2

// InitError reports that the validator could not be created.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("creating DXIL validator: %v", e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func (e *InitError) ExitCode() int {
	return ValidatorInitExitCode
}

func runSign(ctx context.Context, ro *options.RootOptions, so *options.SignOptions) error {
	obs := ro.NewObservability()
	logger := obs.Logger

	logger.Debug("Log level: %s, format: %s", ro.GetLogLevel(), ro.GetLogFormat())
	logger.Debug("Input: %s, output: %s, force: %t", so.InputPath, so.OutputPath, so.Force)

	cfg, err := ro.ValidatorConfig()
	if err != nil {
		logger.Error("Error creating DXIL validator")
		return &InitError{Err: err}
	}
	v, err := validator.NewExecValidator(cfg, logger)
	if err != nil {
		logger.Error("Error creating DXIL validator")
		return &InitError{Err: err}
	}
	logger.Debug("Validator: %s", v.Path())

	major, minor, err := v.Version(ctx)
	if err != nil {
		logger.Debug("Querying validator version: %v", err)
		major, minor = 0, 0
	}
	logger.Info("Validation version: %d.%d", major, minor)

	if err := so.Validate(); err != nil {
		return err
	}

	signer, err := signing.NewSigner(v, signing.SignerOptions{
		Logger:               logger,
		FingerprintAlgorithm: ro.Fingerprint,
	})
	if err != nil {
		return err
	}

	if _, err := signer.Sign(ctx, so.ToRequest()); err != nil {
		return err
	}
	logger.Info("Validation complete")
	return nil
}
