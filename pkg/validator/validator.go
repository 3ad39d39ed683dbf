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

// Package validator defines the external validation capability used to sign
// DXIL containers, and an implementation that runs a validator executable.
package validator

import (
	"context"
	"fmt"
	"strings"
)

// Result is what a validator returns for one container.
type Result struct {
	// Output is the signed container. It is only meaningful when
	// Diagnostics is empty.
	Output []byte
	// Diagnostics lists the reasons the container was rejected.
	Diagnostics []string
}

// Failed reports whether the validator rejected the container.
func (r Result) Failed() bool {
	return len(r.Diagnostics) > 0
}

// Validator validates and signs containers.
//
// Validate returns an error only when the validator itself could not be
// run or misbehaved. A container that fails validation is reported through
// Result.Diagnostics with a nil error.
type Validator interface {
	// Version returns the validator's major and minor version.
	Version(ctx context.Context) (major, minor uint32, err error)
	// Validate validates buf and returns the signed container.
	Validate(ctx context.Context, buf []byte) (Result, error)
}

// CallError reports a validator invocation that did not complete normally.
type CallError struct {
	Command string
	// Stderr holds the trimmed standard error of the process, if any.
	Stderr string
	Err    error
}

func (e *CallError) Error() string {
	msg := fmt.Sprintf("running validator %s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + firstLine(e.Stderr)
	}
	return msg
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
