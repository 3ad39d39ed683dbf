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

// Package options defines the command-line options and flags for the
// dxil-signing CLI.
package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sigstore/dxil-signing/pkg/config"
	"github.com/sigstore/dxil-signing/pkg/hashing"
	"github.com/sigstore/dxil-signing/pkg/logging"
	"github.com/sigstore/dxil-signing/pkg/utils"
)

// EnvPrefix is the prefix used for environment variables that configure the CLI.
const EnvPrefix = "DXIL_SIGNING"

// RootOptions defines flags available to every command.
type RootOptions struct {
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string
	// ConfigPath points to a YAML validator configuration.
	ConfigPath string
	// Validator overrides the validator command from the configuration.
	Validator string
	// Fingerprint names the hash used to fingerprint written output.
	Fingerprint string
}

// ValidLogLevels lists the valid log level strings.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "silent"}

// ValidLogFormats lists the valid log format strings.
var ValidLogFormats = []string{"text", "json"}

var _ FlagAdder = (*RootOptions)(nil)

// AddFlags adds the persistent root flags to cmd.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		"set the minimum log level (debug, info, warn, error, silent)")

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"set the log output format (text, json)")

	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "",
		"path to a YAML file describing the validator")
	_ = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	cmd.PersistentFlags().StringVar(&o.Validator, "validator", "",
		"validator executable, overrides the config file")

	cmd.PersistentFlags().StringVar(&o.Fingerprint, "fingerprint", hashing.DefaultAlgorithm,
		fmt.Sprintf("hash used to fingerprint the signed output (%s)", strings.Join(hashing.SupportedAlgorithms(), ", ")))
}

// BindEnv fills every persistent flag the user did not set from its
// DXIL_SIGNING_* environment variable, e.g. --log-level from
// DXIL_SIGNING_LOG_LEVEL.
func (o *RootOptions) BindEnv(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if serr := flags.Set(f.Name, v.GetString(f.Name)); serr != nil {
			err = fmt.Errorf("%s_%s: %w", EnvPrefix, envName(f.Name), serr)
		}
	})
	return err
}

func envName(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// Validate checks the values of the root flags.
func (o *RootOptions) Validate() error {
	if !contains(ValidLogLevels, strings.ToLower(o.LogLevel)) {
		return fmt.Errorf("invalid --log-level %q, expected one of %s", o.LogLevel, strings.Join(ValidLogLevels, ", "))
	}
	if !contains(ValidLogFormats, strings.ToLower(o.LogFormat)) {
		return fmt.Errorf("invalid --log-format %q, expected one of %s", o.LogFormat, strings.Join(ValidLogFormats, ", "))
	}
	if !contains(hashing.SupportedAlgorithms(), o.Fingerprint) {
		return fmt.Errorf("invalid --fingerprint %q, expected one of %s", o.Fingerprint, strings.Join(hashing.SupportedAlgorithms(), ", "))
	}
	return utils.ValidateOptionalFile("--config", o.ConfigPath)
}

// GetLogLevel returns the effective log level based on the options.
func (o *RootOptions) GetLogLevel() logging.LogLevel {
	return logging.ParseLogLevel(o.LogLevel)
}

// GetLogFormat returns the log format based on the options.
func (o *RootOptions) GetLogFormat() logging.LogFormat {
	return logging.ParseLogFormat(o.LogFormat)
}

// NewLogger creates a new logger based on the root options.
func (o *RootOptions) NewLogger() logging.Logger {
	opts := logging.DefaultLoggerOptions()
	opts.Level = o.GetLogLevel()
	opts.Format = o.GetLogFormat()
	return logging.NewLogger(opts)
}

// ValidatorConfig loads the validator configuration from ConfigPath, or the
// defaults when no file is given, and applies the --validator override.
func (o *RootOptions) ValidatorConfig() (*config.ValidatorConfig, error) {
	cfg := config.NewValidatorConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadValidatorConfig(o.ConfigPath); err != nil {
			return nil, err
		}
	}
	return cfg.SetCommand(o.Validator), nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
