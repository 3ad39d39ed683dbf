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

// Package memory provides in-memory hash engines and registers them with
// the hashengines registry on import.
package memory

import (
	"crypto/sha256"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	"github.com/sigstore/dxil-signing/pkg/hashing/digests"
	hashengines "github.com/sigstore/dxil-signing/pkg/hashing/engines"
)

const (
	// SHA256 is the registry name of the SHA-256 engine.
	SHA256 = "sha256"
	// BLAKE2b is the registry name of the 512-bit BLAKE2b engine.
	BLAKE2b = "blake2b"
	// BLAKE3 is the registry name of the 256-bit BLAKE3 engine.
	BLAKE3 = "blake3"
)

func init() {
	hashengines.MustRegister(SHA256, func() hashengines.HashEngine { return NewSHA256() })
	hashengines.MustRegister(BLAKE2b, func() hashengines.HashEngine { return NewBLAKE2b() })
	hashengines.MustRegister(BLAKE3, func() hashengines.HashEngine { return NewBLAKE3() })
}

var _ hashengines.HashEngine = (*Engine)(nil)

// Engine adapts a hash.Hash constructor to hashengines.HashEngine.
type Engine struct {
	name    string
	newHash func() hash.Hash
	h       hash.Hash
}

// NewEngine returns an engine named name backed by hashes from newHash.
func NewEngine(name string, newHash func() hash.Hash) *Engine {
	return &Engine{name: name, newHash: newHash, h: newHash()}
}

// NewSHA256 returns a SHA-256 engine.
func NewSHA256() *Engine {
	return NewEngine(SHA256, sha256.New)
}

// NewBLAKE2b returns an unkeyed BLAKE2b-512 engine.
func NewBLAKE2b() *Engine {
	return NewEngine(BLAKE2b, func() hash.Hash {
		// New512 only fails for keys longer than 64 bytes.
		h, _ := blake2b.New512(nil)
		return h
	})
}

// NewBLAKE3 returns an unkeyed BLAKE3 engine with 32-byte output.
func NewBLAKE3() *Engine {
	return NewEngine(BLAKE3, func() hash.Hash { return blake3.New() })
}

func (e *Engine) Update(data []byte) {
	// hash.Hash.Write never returns an error.
	_, _ = e.h.Write(data)
}

func (e *Engine) Reset() {
	e.h = e.newHash()
}

func (e *Engine) Compute() digests.Digest {
	return digests.NewDigest(e.name, e.h.Sum(nil))
}

func (e *Engine) DigestName() string {
	return e.name
}

func (e *Engine) DigestSize() int {
	return e.h.Size()
}
