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
	"context"

	"github.com/sigstore/dxil-signing/pkg/dxil"
	"github.com/sigstore/dxil-signing/pkg/hashing/digests"
)

// Request asks for one container to be signed.
type Request struct {
	// InputPath is the container to sign.
	InputPath string
	// OutputPath receives the signed container. Empty means validate and
	// sign in memory only.
	OutputPath string
	// Force clears an existing digest and signs again.
	Force bool
}

// Status describes what happened to a container.
type Status int

const (
	// StatusAlreadySigned means the input carried a digest and Force was
	// not set; the validator was not called.
	StatusAlreadySigned Status = iota + 1
	// StatusSigned means the validator produced a signed container.
	StatusSigned
)

func (s Status) String() string {
	switch s {
	case StatusAlreadySigned:
		return "already signed"
	case StatusSigned:
		return "signed"
	default:
		return "unknown"
	}
}

// Result represents the outcome of a successful signing request.
type Result struct {
	InputPath  string
	OutputPath string
	Status     Status
	// Digest is the digest found in the input (StatusAlreadySigned) or
	// produced by the validator (StatusSigned).
	Digest dxil.Digest
	// Written reports whether OutputPath was written.
	Written bool
	// Fingerprint hashes the written bytes. Zero when nothing was written.
	Fingerprint digests.Digest
}

// ContainerSigner signs DXIL containers.
type ContainerSigner interface {
	Sign(ctx context.Context, req Request) (Result, error)
}
