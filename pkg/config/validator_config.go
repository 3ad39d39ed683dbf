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

// Package config holds the configuration of the external validator that
// signs DXIL containers.
//
// The configuration is read from a single YAML file named by --config or
// DXIL_SIGNING_CONFIG. Fields left out of the file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// InputPlaceholder is replaced by the path of the unsigned container.
	InputPlaceholder = "{input}"
	// OutputPlaceholder is replaced by the path the validator writes to.
	OutputPlaceholder = "{output}"

	DefaultCommand             = "dxv"
	DefaultDiagnosticsExitCode = 1
)

// File is the top-level layout of the configuration file.
type File struct {
	Validator ValidatorConfig `yaml:"validator"`
}

// ValidatorConfig describes how to run the external validator.
type ValidatorConfig struct {
	// Command is the validator executable, looked up in PATH when it has no
	// path separator.
	Command string `yaml:"command"`

	// Args are passed to Command. {input} and {output} are replaced by temp
	// file paths. Without {input} the container is piped on stdin; without
	// {output} the signed container is read from stdout.
	Args []string `yaml:"args"`

	// VersionArgs are passed to Command to query the validator version.
	VersionArgs []string `yaml:"version_args"`

	// DiagnosticsExitCode is the exit status meaning "the container was
	// rejected"; stderr then holds one diagnostic per line. Any other
	// non-zero status is treated as a failure of the validator itself.
	DiagnosticsExitCode int `yaml:"diagnostics_exit_code"`

	// Env holds extra KEY=VALUE pairs for the validator process.
	Env map[string]string `yaml:"env"`
}

// NewValidatorConfig returns the default configuration for dxv.
func NewValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		Command:             DefaultCommand,
		Args:                []string{InputPlaceholder, "-o", OutputPlaceholder},
		VersionArgs:         []string{"--version"},
		DiagnosticsExitCode: DefaultDiagnosticsExitCode,
	}
}

// SetCommand overrides the validator executable. Empty values are ignored.
func (c *ValidatorConfig) SetCommand(command string) *ValidatorConfig {
	if command != "" {
		c.Command = command
	}
	return c
}

// UsesInputFile reports whether the container is passed as a file path.
func (c *ValidatorConfig) UsesInputFile() bool {
	return containsPlaceholder(c.Args, InputPlaceholder)
}

// UsesOutputFile reports whether the signed container is read from a file.
func (c *ValidatorConfig) UsesOutputFile() bool {
	return containsPlaceholder(c.Args, OutputPlaceholder)
}

// Validate checks that the configuration can be used to run a validator.
func (c *ValidatorConfig) Validate() error {
	if strings.TrimSpace(c.Command) == "" {
		return errors.New("validator command is required")
	}
	if c.DiagnosticsExitCode <= 0 || c.DiagnosticsExitCode > 255 {
		return fmt.Errorf("diagnostics_exit_code must be between 1 and 255, got %d", c.DiagnosticsExitCode)
	}
	for k := range c.Env {
		if k == "" || strings.Contains(k, "=") {
			return fmt.Errorf("invalid environment variable name %q", k)
		}
	}
	return nil
}

// Environ returns base followed by Env as KEY=VALUE pairs.
func (c *ValidatorConfig) Environ(base []string) []string {
	env := append([]string(nil), base...)
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// LoadValidatorConfig reads the validator section of the YAML file at path
// on top of the defaults. Unknown keys are rejected.
func LoadValidatorConfig(path string) (*ValidatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := ParseValidatorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseValidatorConfig is LoadValidatorConfig for in-memory YAML.
func ParseValidatorConfig(data []byte) (*ValidatorConfig, error) {
	file := File{Validator: *NewValidatorConfig()}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	cfg := &file.Validator
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func containsPlaceholder(args []string, placeholder string) bool {
	for _, a := range args {
		if strings.Contains(a, placeholder) {
			return true
		}
	}
	return false
}
