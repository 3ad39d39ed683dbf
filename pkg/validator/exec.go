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

package validator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sigstore/dxil-signing/pkg/config"
	"github.com/sigstore/dxil-signing/pkg/logging"
)

var _ Validator = (*ExecValidator)(nil)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// ExecValidator runs an external validator executable once per container.
type ExecValidator struct {
	cfg    config.ValidatorConfig
	path   string
	logger logging.Logger
}

// NewExecValidator resolves the configured command and returns a validator
// that runs it. It fails when the configuration is invalid or the command
// cannot be found.
func NewExecValidator(cfg *config.ValidatorConfig, logger logging.Logger) (*ExecValidator, error) {
	if cfg == nil {
		cfg = config.NewValidatorConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid validator configuration: %w", err)
	}
	path, err := exec.LookPath(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("locating validator %q: %w", cfg.Command, err)
	}
	return &ExecValidator{
		cfg:    *cfg,
		path:   path,
		logger: logging.EnsureLogger(logger),
	}, nil
}

// Path returns the resolved validator executable.
func (v *ExecValidator) Path() string {
	return v.path
}

// Version runs the validator with the configured version arguments and
// parses the first "major.minor" pair it prints.
func (v *ExecValidator) Version(ctx context.Context) (uint32, uint32, error) {
	cmd := exec.CommandContext(ctx, v.path, v.cfg.VersionArgs...)
	cmd.Env = v.cfg.Environ(os.Environ())
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, &CallError{Command: v.path, Stderr: strings.TrimSpace(string(out)), Err: err}
	}
	return parseVersion(out)
}

func parseVersion(out []byte) (uint32, uint32, error) {
	m := versionPattern.FindSubmatch(out)
	if m == nil {
		return 0, 0, fmt.Errorf("no version number in validator output %q", firstLine(strings.TrimSpace(string(out))))
	}
	major, err := strconv.ParseUint(string(m[1]), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing major version: %w", err)
	}
	minor, err := strconv.ParseUint(string(m[2]), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing minor version: %w", err)
	}
	return uint32(major), uint32(minor), nil
}

// Validate hands buf to the validator process and collects the signed
// container or the diagnostics it reports.
func (v *ExecValidator) Validate(ctx context.Context, buf []byte) (Result, error) {
	dir, err := os.MkdirTemp("", "dxil-signing-")
	if err != nil {
		return Result{}, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.dxil")
	outPath := filepath.Join(dir, "output.dxil")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, v.path, v.expandArgs(inPath, outPath)...)
	cmd.Env = v.cfg.Environ(os.Environ())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if v.cfg.UsesInputFile() {
		if err := os.WriteFile(inPath, buf, 0o600); err != nil {
			return Result{}, fmt.Errorf("staging validator input: %w", err)
		}
	} else {
		cmd.Stdin = bytes.NewReader(buf)
	}

	v.logger.Debug("  Running validator: %s", strings.Join(cmd.Args, " "))
	runErr := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr) && exitErr.ExitCode() == v.cfg.DiagnosticsExitCode:
		return Result{Diagnostics: diagnostics(stderr.String(), exitErr.ExitCode())}, nil
	default:
		return Result{}, &CallError{Command: v.path, Stderr: strings.TrimSpace(stderr.String()), Err: runErr}
	}

	if !v.cfg.UsesOutputFile() {
		return Result{Output: stdout.Bytes()}, nil
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		return Result{}, &CallError{Command: v.path, Err: fmt.Errorf("reading validator output: %w", err)}
	}
	return Result{Output: out}, nil
}

func (v *ExecValidator) expandArgs(inPath, outPath string) []string {
	r := strings.NewReplacer(config.InputPlaceholder, inPath, config.OutputPlaceholder, outPath)
	args := make([]string, len(v.cfg.Args))
	for i, a := range v.cfg.Args {
		args[i] = r.Replace(a)
	}
	return args
}

// diagnostics splits validator stderr into one message per non-empty line.
func diagnostics(stderr string, code int) []string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("validator rejected the container (exit status %d)", code)}
	}
	return lines
}
