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
	"io"
	"os"
	"os/exec"
	"reflect"
	"testing"

	"github.com/sigstore/dxil-signing/pkg/config"
	"github.com/sigstore/dxil-signing/pkg/dxil"
	"github.com/sigstore/dxil-signing/pkg/logging"
)

// fakeModeEnv switches the test binary into a fake validator process.
const fakeModeEnv = "DXIL_SIGNING_FAKE_VALIDATOR"

func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeModeEnv); mode != "" {
		os.Exit(runFakeValidator(mode, os.Args[1:]))
	}
	os.Exit(m.Run())
}

// runFakeValidator imitates a validator. Signing stamps 0xAA over the digest.
func runFakeValidator(mode string, args []string) int {
	if len(args) > 0 && args[0] == "--version" {
		if mode == "no-version" {
			fmt.Fprintln(os.Stderr, "unknown option --version")
			return 2
		}
		fmt.Println("dxil validator version 1.8.2403 (release)")
		return 0
	}

	switch mode {
	case "sign-file":
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 9
		}
		if err := os.WriteFile(args[len(args)-1], stamp(data), 0o600); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 9
		}
		return 0
	case "sign-pipe":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return 9
		}
		_, _ = os.Stdout.Write(stamp(data))
		return 0
	case "reject":
		fmt.Fprint(os.Stderr, "error: invalid opcode\n\n  error: missing entry point  \n")
		return 1
	case "reject-silent":
		return 1
	case "crash":
		fmt.Fprintln(os.Stderr, "internal compiler error\nstack trace follows")
		return 3
	case "no-output":
		return 0
	}
	return 9
}

func stamp(data []byte) []byte {
	out := bytes.Clone(data)
	if len(out) >= dxil.HeaderSize {
		copy(out[dxil.DigestOffset:dxil.HeaderSize], bytes.Repeat([]byte{0xAA}, dxil.DigestSize))
	}
	return out
}

func newFakeValidator(t *testing.T, mode string, args []string) *ExecValidator {
	t.Helper()
	cfg := config.NewValidatorConfig().SetCommand(os.Args[0])
	if args != nil {
		cfg.Args = args
	}
	cfg.Env = map[string]string{fakeModeEnv: mode}

	var out, errOut bytes.Buffer
	logger := logging.NewLogger(logging.LoggerOptions{Level: logging.LevelDebug, Output: &out, ErrOutput: &errOut})
	v, err := NewExecValidator(cfg, logger)
	if err != nil {
		t.Fatalf("NewExecValidator() error = %v", err)
	}
	return v
}

func unsigned() []byte {
	buf := make([]byte, dxil.HeaderSize+8)
	copy(buf, "DXBC")
	copy(buf[dxil.HeaderSize:], "payload!")
	return buf
}

func TestValidateSigns(t *testing.T) {
	tests := []struct {
		name string
		mode string
		args []string
	}{
		{name: "file mode", mode: "sign-file"},
		{name: "pipe mode", mode: "sign-pipe", args: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newFakeValidator(t, tt.mode, tt.args)
			in := unsigned()

			res, err := v.Validate(context.Background(), in)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if res.Failed() {
				t.Fatalf("Validate() diagnostics = %v", res.Diagnostics)
			}
			if !bytes.Equal(res.Output, stamp(in)) {
				t.Errorf("Validate() output = %x, want %x", res.Output, stamp(in))
			}
			if has, _ := dxil.HasDigest(in); has {
				t.Error("Validate() modified the caller's buffer")
			}
		})
	}
}

func TestValidateDiagnostics(t *testing.T) {
	tests := []struct {
		mode string
		want []string
	}{
		{"reject", []string{"error: invalid opcode", "error: missing entry point"}},
		{"reject-silent", []string{"validator rejected the container (exit status 1)"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			v := newFakeValidator(t, tt.mode, nil)
			res, err := v.Validate(context.Background(), unsigned())
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !reflect.DeepEqual(res.Diagnostics, tt.want) {
				t.Errorf("Diagnostics = %q, want %q", res.Diagnostics, tt.want)
			}
		})
	}
}

func TestValidateCallErrors(t *testing.T) {
	for _, mode := range []string{"crash", "no-output"} {
		t.Run(mode, func(t *testing.T) {
			v := newFakeValidator(t, mode, nil)
			_, err := v.Validate(context.Background(), unsigned())
			var callErr *CallError
			if !errors.As(err, &callErr) {
				t.Fatalf("Validate() error = %v, want *CallError", err)
			}
			if callErr.Command != v.Path() {
				t.Errorf("CallError.Command = %q, want %q", callErr.Command, v.Path())
			}
		})
	}
}

func TestValidateCrashKeepsExitError(t *testing.T) {
	v := newFakeValidator(t, "crash", nil)
	_, err := v.Validate(context.Background(), unsigned())

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("Validate() error = %v, want exit status 3", err)
	}
	var callErr *CallError
	if errors.As(err, &callErr) && callErr.Stderr != "internal compiler error\nstack trace follows" {
		t.Errorf("CallError.Stderr = %q", callErr.Stderr)
	}
}

func TestValidateCanceledContext(t *testing.T) {
	v := newFakeValidator(t, "sign-file", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := v.Validate(ctx, unsigned()); err == nil {
		t.Error("Validate() with a canceled context succeeded")
	}
}

func TestVersion(t *testing.T) {
	v := newFakeValidator(t, "sign-file", nil)
	major, minor, err := v.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if major != 1 || minor != 8 {
		t.Errorf("Version() = %d.%d, want 1.8", major, minor)
	}

	v = newFakeValidator(t, "no-version", nil)
	if _, _, err := v.Version(context.Background()); err == nil {
		t.Error("Version() succeeded for a validator without --version")
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor uint32
		wantErr      bool
	}{
		{"dxv 1.7", 1, 7, false},
		{"Validator version: 1.8.2403.34\n", 1, 8, false},
		{"no digits here", 0, 0, true},
		{"99999999999.1", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, err := parseVersion([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if major != tt.major || minor != tt.minor {
				t.Errorf("parseVersion(%q) = %d.%d, want %d.%d", tt.in, major, minor, tt.major, tt.minor)
			}
		})
	}
}

func TestNewExecValidatorErrors(t *testing.T) {
	cfg := config.NewValidatorConfig().SetCommand("dxil-signing-no-such-validator")
	if _, err := NewExecValidator(cfg, nil); err == nil {
		t.Error("NewExecValidator() with a missing command succeeded")
	}

	cfg = config.NewValidatorConfig().SetCommand(os.Args[0])
	cfg.DiagnosticsExitCode = 0
	if _, err := NewExecValidator(cfg, nil); err == nil {
		t.Error("NewExecValidator() with an invalid config succeeded")
	}
}

func TestExpandArgs(t *testing.T) {
	v := &ExecValidator{cfg: config.ValidatorConfig{Args: []string{"-i={input}", "{output}", "-x"}}}
	got := v.expandArgs("/tmp/in", "/tmp/out")
	want := []string{"-i=/tmp/in", "/tmp/out", "-x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandArgs() = %v, want %v", got, want)
	}
}

func TestResultFailed(t *testing.T) {
	if (Result{Output: []byte{1}}).Failed() {
		t.Error("Failed() = true without diagnostics")
	}
	if !(Result{Diagnostics: []string{"x"}}).Failed() {
		t.Error("Failed() = false with diagnostics")
	}
}
