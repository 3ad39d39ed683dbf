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

package signing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies signing failures.
type ErrorKind int

const (
	// KindOther covers validator invocation failures and validators that
	// break their contract, e.g. by returning an unsigned container.
	KindOther ErrorKind = iota
	// KindIO covers reading the input and writing the output.
	KindIO
	// KindInvalidData covers containers too short for a header and
	// containers the validator rejected.
	KindInvalidData
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "IOError"
	case KindInvalidData:
		return "InvalidData"
	default:
		return "Other"
	}
}

// Stages of a signing request, recorded on SigningError.
const (
	StageRead     = "read"
	StageInspect  = "inspect"
	StageValidate = "validate"
	StageVerify   = "verify"
	StageWrite    = "write"
)

// SigningError describes why a request failed.
//
//	var serr *signing.SigningError
//	if errors.As(err, &serr) && serr.Kind == signing.KindInvalidData {
//	    for _, d := range serr.Diagnostics { ... }
//	}
type SigningError struct {
	Kind ErrorKind
	// Stage is the step that failed (StageRead, StageValidate, ...).
	Stage string
	// Path is the file involved, if any.
	Path    string
	Message string
	// Diagnostics holds validator messages for rejected containers.
	Diagnostics []string
	Cause       error
}

func (e *SigningError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s failed: %s", e.Kind, e.Stage, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " (path: %s)", e.Path)
	}
	if len(e.Diagnostics) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Diagnostics, "; "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *SigningError) Unwrap() error {
	return e.Cause
}

// ExitCode is the process exit status for a failed request.
func (e *SigningError) ExitCode() int {
	return 1
}

func newError(kind ErrorKind, stage, path, message string, cause error) *SigningError {
	return &SigningError{
		Kind:    kind,
		Stage:   stage,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// IsKind reports whether err wraps a SigningError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var serr *SigningError
	return errors.As(err, &serr) && serr.Kind == kind
}
