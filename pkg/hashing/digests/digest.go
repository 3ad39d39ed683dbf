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

// Package digests provides a value type for hash digests reported by the
// signing tool: the container digest found in a DXIL header and the
// fingerprint of the signed output.
package digests

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Digest pairs an algorithm name with raw digest bytes. The zero value
// represents "no digest".
//
// Fields are unexported and the byte slice is copied on the way in and out,
// so a Digest can be shared freely once constructed.
type Digest struct {
	algorithm string
	value     []byte
}

// NewDigest returns a Digest holding a copy of value.
func NewDigest(algorithm string, value []byte) Digest {
	return Digest{
		algorithm: algorithm,
		value:     bytes.Clone(value),
	}
}

// Algorithm returns the algorithm name, e.g. "sha256" or "dxil".
func (d Digest) Algorithm() string {
	return d.algorithm
}

// Value returns a copy of the raw digest bytes.
func (d Digest) Value() []byte {
	return bytes.Clone(d.value)
}

// Hex returns the digest bytes as lowercase hex.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.value)
}

// Size returns the digest length in bytes.
func (d Digest) Size() int {
	return len(d.value)
}

// IsZero reports whether d is the zero Digest.
func (d Digest) IsZero() bool {
	return d.algorithm == "" && len(d.value) == 0
}

// String formats the digest as "algorithm:hex".
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.algorithm, d.Hex())
}

// Equal reports whether both digests use the same algorithm and bytes.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm == other.algorithm && bytes.Equal(d.value, other.value)
}
