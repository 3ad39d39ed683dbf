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

package dxil

import (
	"bytes"
	"errors"
	"testing"
)

// header builds a buffer with the given tag and digest bytes followed by payload.
func header(tag string, digest []byte, payload []byte) []byte {
	buf := make([]byte, HeaderSize, HeaderSize+len(payload))
	copy(buf, tag)
	copy(buf[DigestOffset:], digest)
	return append(buf, payload...)
}

func TestShortBuffers(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		buf := bytes.Repeat([]byte{0xAB}, n)
		orig := bytes.Clone(buf)

		if _, err := ReadDigest(buf); !errors.Is(err, ErrInvalidData) {
			t.Errorf("ReadDigest(len=%d) error = %v, want ErrInvalidData", n, err)
		}
		if _, err := HasDigest(buf); !errors.Is(err, ErrInvalidData) {
			t.Errorf("HasDigest(len=%d) error = %v, want ErrInvalidData", n, err)
		}
		if _, err := Tag(buf); !errors.Is(err, ErrInvalidData) {
			t.Errorf("Tag(len=%d) error = %v, want ErrInvalidData", n, err)
		}
		if err := ClearDigest(buf); !errors.Is(err, ErrInvalidData) {
			t.Errorf("ClearDigest(len=%d) error = %v, want ErrInvalidData", n, err)
		}
		if !bytes.Equal(buf, orig) {
			t.Errorf("ClearDigest(len=%d) mutated a short buffer: %x", n, buf)
		}
	}
}

func TestHasDigest(t *testing.T) {
	tests := []struct {
		name   string
		digest []byte
		want   bool
	}{
		{name: "all zero", digest: make([]byte, DigestSize), want: false},
		{name: "word 0 set", digest: []byte{1, 0, 0, 0}, want: true},
		{name: "word 1 set", digest: []byte{0, 0, 0, 0, 0, 0, 0, 0x80}, want: true},
		{name: "word 2 set", digest: []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, want: true},
		{name: "word 3 set", digest: append(make([]byte, 15), 0xFF), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := header("DXBC", tt.digest, []byte("payload"))
			got, err := HasDigest(buf)
			if err != nil {
				t.Fatalf("HasDigest() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("HasDigest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasDigestIgnoresTagAndPayload(t *testing.T) {
	buf := header("\xff\xff\xff\xff", nil, bytes.Repeat([]byte{0xff}, 64))
	got, err := HasDigest(buf)
	if err != nil {
		t.Fatalf("HasDigest() error = %v", err)
	}
	if got {
		t.Error("HasDigest() = true, want false when only tag and payload are non-zero")
	}
}

func TestReadDigestLittleEndian(t *testing.T) {
	digest := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c,
		0x0d, 0x0e, 0x0f, 0x10,
	}
	buf := header("DXBC", digest, nil)

	got, err := ReadDigest(buf)
	if err != nil {
		t.Fatalf("ReadDigest() error = %v", err)
	}
	want := Digest{0x04030201, 0x08070605, 0x0c0b0a09, 0x100f0e0d}
	if got != want {
		t.Errorf("ReadDigest() = %#v, want %#v", got, want)
	}
	if !bytes.Equal(got.Bytes(), digest) {
		t.Errorf("Digest.Bytes() = %x, want %x", got.Bytes(), digest)
	}
	if got.String() != "0102030405060708090a0b0c0d0e0f10" {
		t.Errorf("Digest.String() = %q", got.String())
	}
}

func TestClearDigest(t *testing.T) {
	payload := []byte("opaque shader payload")
	digest := bytes.Repeat([]byte{0x5A}, DigestSize)
	buf := header("DXBC", digest, payload)

	if err := ClearDigest(buf); err != nil {
		t.Fatalf("ClearDigest() error = %v", err)
	}
	once := bytes.Clone(buf)

	if has, _ := HasDigest(buf); has {
		t.Error("HasDigest() = true after ClearDigest()")
	}
	if string(buf[:DigestOffset]) != "DXBC" {
		t.Errorf("ClearDigest() changed tag to %q", buf[:DigestOffset])
	}
	if !bytes.Equal(buf[HeaderSize:], payload) {
		t.Errorf("ClearDigest() changed payload to %q", buf[HeaderSize:])
	}

	if err := ClearDigest(buf); err != nil {
		t.Fatalf("second ClearDigest() error = %v", err)
	}
	if !bytes.Equal(buf, once) {
		t.Errorf("ClearDigest() is not idempotent: %x != %x", buf, once)
	}
}

func TestClearDigestExactHeader(t *testing.T) {
	buf := header("TAG!", bytes.Repeat([]byte{1}, DigestSize), nil)
	if len(buf) != HeaderSize {
		t.Fatalf("test buffer is %d bytes", len(buf))
	}
	if err := ClearDigest(buf); err != nil {
		t.Fatalf("ClearDigest() error = %v", err)
	}
	d, err := ReadDigest(buf)
	if err != nil {
		t.Fatalf("ReadDigest() error = %v", err)
	}
	if !d.IsZero() {
		t.Errorf("ReadDigest() = %v after clear, want zero", d)
	}
}

func TestClearDigestSubslice(t *testing.T) {
	// The header is a view: clearing through a sub-slice edits the backing array.
	backing := header("DXBC", bytes.Repeat([]byte{9}, DigestSize), []byte("tail"))
	view := backing[:HeaderSize]
	if err := ClearDigest(view); err != nil {
		t.Fatalf("ClearDigest() error = %v", err)
	}
	if has, _ := HasDigest(backing); has {
		t.Error("backing buffer still has a digest after clearing a view")
	}
	if string(backing[HeaderSize:]) != "tail" {
		t.Errorf("payload changed to %q", backing[HeaderSize:])
	}
}

func TestTag(t *testing.T) {
	tag, err := Tag(header("DXBC", nil, nil))
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if string(tag[:]) != "DXBC" {
		t.Errorf("Tag() = %q, want %q", tag, "DXBC")
	}
}
