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

// Package hashing fingerprints signed containers with a registered hash
// engine.
package hashing

import (
	"fmt"

	"github.com/sigstore/dxil-signing/pkg/hashing/digests"
	hashengines "github.com/sigstore/dxil-signing/pkg/hashing/engines"
	"github.com/sigstore/dxil-signing/pkg/hashing/engines/memory"
)

// DefaultAlgorithm is used when no fingerprint algorithm is configured.
const DefaultAlgorithm = memory.SHA256

// Fingerprint hashes data with the named algorithm. An empty name selects
// DefaultAlgorithm.
func Fingerprint(algorithm string, data []byte) (digests.Digest, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	engine, err := hashengines.Create(algorithm)
	if err != nil {
		return digests.Digest{}, fmt.Errorf("fingerprint: %w", err)
	}
	engine.Update(data)
	return engine.Compute(), nil
}

// SupportedAlgorithms lists the names accepted by Fingerprint.
func SupportedAlgorithms() []string {
	return hashengines.SupportedAlgorithms()
}
