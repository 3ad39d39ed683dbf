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

// Package dxil inspects and edits the fixed header at the start of a DXIL
// container.
//
// Only the first HeaderSize bytes are interpreted: a 4-byte tag followed by a
// 16-byte digest stored as four little-endian 32-bit words. Every function
// operates directly on the caller's slice; nothing is copied and bytes past
// the header are never read or written.
package dxil

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the number of leading bytes covered by the header.
	HeaderSize = 20
	// DigestOffset is the byte offset of the first digest word.
	DigestOffset = 4
	// DigestSize is the size of the digest in bytes.
	DigestSize = 16

	digestWords = DigestSize / 4
)

// ErrInvalidData is returned when a buffer is too short to hold the header.
var ErrInvalidData = errors.New("invalid data")

// Digest holds the four digest words of a container header.
type Digest [digestWords]uint32

// IsZero reports whether every word of the digest is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Bytes returns the digest in its on-disk little-endian encoding.
func (d Digest) Bytes() []byte {
	b := make([]byte, DigestSize)
	for i, w := range d {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// String returns the on-disk digest bytes as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d.Bytes())
}

func checkLen(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: buffer is %d bytes, header needs %d", ErrInvalidData, len(buf), HeaderSize)
	}
	return nil
}

// Tag returns the 4-byte identifier at the start of the header. The tag is
// not validated.
func Tag(buf []byte) ([4]byte, error) {
	var tag [4]byte
	if err := checkLen(buf); err != nil {
		return tag, err
	}
	copy(tag[:], buf[:DigestOffset])
	return tag, nil
}

// ReadDigest decodes the digest words from buf.
func ReadDigest(buf []byte) (Digest, error) {
	var d Digest
	if err := checkLen(buf); err != nil {
		return d, err
	}
	for i := range d {
		off := DigestOffset + i*4
		d[i] = binary.LittleEndian.Uint32(buf[off : off+4])
	}
	return d, nil
}

// HasDigest reports whether any digest word in buf is non-zero.
func HasDigest(buf []byte) (bool, error) {
	d, err := ReadDigest(buf)
	if err != nil {
		return false, err
	}
	return !d.IsZero(), nil
}

// ClearDigest zeroes the digest words of buf in place. The tag and any bytes
// after the header are left untouched. A short buffer is not modified.
func ClearDigest(buf []byte) error {
	if err := checkLen(buf); err != nil {
		return err
	}
	clear(buf[DigestOffset : DigestOffset+DigestSize])
	return nil
}
