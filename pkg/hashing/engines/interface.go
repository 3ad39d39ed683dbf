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

// Package hashengines defines the hash engine interface used to fingerprint
// signed containers and a registry of engines by algorithm name.
package hashengines

import "github.com/sigstore/dxil-signing/pkg/hashing/digests"

// HashEngine accumulates bytes and produces a digest.
type HashEngine interface {
	// Update appends data to the running hash.
	Update(data []byte)
	// Reset discards the running state.
	Reset()
	// Compute returns the digest of everything written since the last Reset.
	Compute() digests.Digest
	// DigestName is the algorithm name copied into the Digest.
	DigestName() string
	// DigestSize is the size in bytes of the computed digest.
	DigestSize() int
}
