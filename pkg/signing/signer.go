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

// Package signing signs DXIL containers by running them through a validator
// and checking the digest it leaves in the container header.
package signing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sigstore/dxil-signing/pkg/dxil"
	"github.com/sigstore/dxil-signing/pkg/hashing"
	"github.com/sigstore/dxil-signing/pkg/logging"
	"github.com/sigstore/dxil-signing/pkg/tracing"
	"github.com/sigstore/dxil-signing/pkg/validator"
)

var _ ContainerSigner = (*Signer)(nil)

// SignerOptions configures a Signer.
type SignerOptions struct {
	Logger logging.Logger
	// FingerprintAlgorithm hashes written output; see hashing.Fingerprint.
	FingerprintAlgorithm string
}

// Signer runs signing requests against a single validator.
type Signer struct {
	validator   validator.Validator
	logger      logging.Logger
	fingerprint string
}

// NewSigner returns a Signer that uses v for every request.
func NewSigner(v validator.Validator, opts SignerOptions) (*Signer, error) {
	if v == nil {
		return nil, errors.New("validator is required")
	}
	algorithm := opts.FingerprintAlgorithm
	if algorithm == "" {
		algorithm = hashing.DefaultAlgorithm
	}
	if _, err := hashing.Fingerprint(algorithm, nil); err != nil {
		return nil, err
	}
	return &Signer{
		validator:   v,
		logger:      logging.EnsureLogger(opts.Logger),
		fingerprint: algorithm,
	}, nil
}

// Sign performs one signing request.
//
// A container that already carries a digest is left alone unless
// req.Force is set, in which case the digest is cleared before validation.
// The output file is only written when the validator accepted the container
// and the result carries a digest.
func (s *Signer) Sign(ctx context.Context, req Request) (Result, error) {
	attrs := map[string]interface{}{
		"dxil_signing.input":  req.InputPath,
		"dxil_signing.output": req.OutputPath,
		"dxil_signing.force":  req.Force,
	}
	var res Result
	err := tracing.Run(ctx, "Sign", attrs, func(ctx context.Context) error {
		var err error
		res, err = s.sign(ctx, req)
		return err
	})
	return res, err
}

func (s *Signer) sign(ctx context.Context, req Request) (Result, error) {
	res := Result{InputPath: req.InputPath, OutputPath: req.OutputPath}

	buf, err := os.ReadFile(req.InputPath)
	if err != nil {
		return res, newError(KindIO, StageRead, req.InputPath, "cannot read input", err)
	}

	s.logger.Info("Signing DXIL file: %s", req.InputPath)

	tag, err := dxil.Tag(buf)
	if err != nil {
		return res, newError(KindInvalidData, StageInspect, req.InputPath, "input is not a DXIL container", err)
	}
	s.logger.Debug("  Container tag: %q", tag[:])

	existing, err := dxil.ReadDigest(buf)
	if err != nil {
		return res, newError(KindInvalidData, StageInspect, req.InputPath, "input is not a DXIL container", err)
	}
	if !existing.IsZero() {
		if !req.Force {
			s.logger.Info("  DXIL is already signed - digest: %s", existing)
			res.Status = StatusAlreadySigned
			res.Digest = existing
			return res, nil
		}
		s.logger.Info("  DXIL is already signed - clearing existing digest.")
		if err := dxil.ClearDigest(buf); err != nil {
			return res, newError(KindInvalidData, StageInspect, req.InputPath, "cannot clear digest", err)
		}
	}

	out, err := s.validator.Validate(ctx, buf)
	if err != nil {
		s.logger.Error("  Error validating DXIL: %v", err)
		return res, newError(KindOther, StageValidate, req.InputPath, "validator call failed", err)
	}
	if out.Failed() {
		for _, d := range out.Diagnostics {
			s.logger.Error("  Validation failed: %s", d)
		}
		serr := newError(KindInvalidData, StageValidate, req.InputPath, "validator rejected the container", nil)
		serr.Diagnostics = out.Diagnostics
		return res, serr
	}

	signed, err := dxil.ReadDigest(out.Output)
	if err != nil || signed.IsZero() {
		s.logger.Error("  Validation failed: data is not signed.")
		return res, newError(KindOther, StageVerify, req.InputPath, "validator returned an unsigned container", err)
	}
	s.logger.Info("  DXIL is now signed - digest: %s", signed)
	res.Status = StatusSigned
	res.Digest = signed

	if req.OutputPath == "" {
		return res, nil
	}

	s.logger.Info("  Saving result: %s", req.OutputPath)
	if err := writeFile(req.OutputPath, out.Output); err != nil {
		return res, newError(KindIO, StageWrite, req.OutputPath, "cannot write output", err)
	}
	res.Written = true

	fp, err := hashing.Fingerprint(s.fingerprint, out.Output)
	if err != nil {
		return res, newError(KindOther, StageWrite, req.OutputPath, "cannot fingerprint output", err)
	}
	res.Fingerprint = fp
	s.logger.Debug("  Output fingerprint: %s", fp)
	return res, nil
}

// SignAll signs requests in order and stops at the first failure. The
// results of the requests that completed are returned with the error.
func (s *Signer) SignAll(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := s.Sign(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// writeFile creates or truncates path and writes data through a buffered
// writer.
func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
