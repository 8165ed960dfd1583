// Copyright 2020 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metainfo

import (
	"bytes"
	"crypto/sha1"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/xgfone/go-bencode/bencode"
)

// HashSize is the size of the SHA-1 hash in bytes.
const HashSize = 20

var zeroHash Hash

// Hash is the 20-byte SHA-1 hash, used as the info-hash of a torrent
// and the hash of a piece.
type Hash [HashSize]byte

var (
	_ bencode.Marshaler   = Hash{}
	_ bencode.Unmarshaler = new(Hash)
)

// NewHash copies the first HashSize bytes of b into a Hash.
func NewHash(b []byte) (h Hash) {
	copy(h[:], b)
	return
}

// NewHashFromBytes returns the SHA-1 hash of b.
func NewHashFromBytes(b []byte) Hash { return sha1.Sum(b) }

// NewHashFromHexString parses a 40-character hex string. It panics
// if s is invalid.
func NewHashFromHexString(s string) (h Hash) {
	if err := h.FromHexString(s); err != nil {
		panic(err)
	}
	return
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// String is the same as HexString.
func (h Hash) String() string { return h.HexString() }

// HexString returns the lowercase hex form of the hash.
func (h Hash) HexString() string { return hex.EncodeToString(h[:]) }

// IsZero reports whether the hash is all zeros.
func (h Hash) IsZero() bool { return h == zeroHash }

// Compare compares two hashes bytewise.
func (h Hash) Compare(o Hash) int { return bytes.Compare(h[:], o[:]) }

// FromString parses the hash from its raw 20 bytes, its hex form
// or its base32 form.
func (h *Hash) FromString(s string) (err error) {
	switch len(s) {
	case HashSize:
		copy(h[:], s)
	case 2 * HashSize:
		err = h.FromHexString(s)
	case 32:
		var bs []byte
		if bs, err = base32.StdEncoding.DecodeString(s); err == nil {
			copy(h[:], bs)
		}
	default:
		err = fmt.Errorf("hash string has bad length: %d", len(s))
	}
	return
}

// FromHexString parses the hash from its 40-character hex form.
func (h *Hash) FromHexString(s string) (err error) {
	if len(s) != 2*HashSize {
		return fmt.Errorf("hash hex string has bad length: %d", len(s))
	}
	_, err = hex.Decode(h[:], []byte(s))
	return
}

// UnmarshalBinary implements the interface encoding.BinaryUnmarshaler.
func (h *Hash) UnmarshalBinary(b []byte) error {
	if len(b) != HashSize {
		return fmt.Errorf("hash has bad length: %d", len(b))
	}
	copy(h[:], b)
	return nil
}

// MarshalBinary implements the interface encoding.BinaryMarshaler.
func (h Hash) MarshalBinary() ([]byte, error) { return h[:], nil }

// MarshalBencode implements the interface bencode.Marshaler,
// which writes the hash as a 20-byte string.
func (h Hash) MarshalBencode(e *bencode.Encoder) error {
	e.EmitByteString(h[:])
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (h *Hash) UnmarshalBencode(obj bencode.Object) error {
	b, err := obj.ByteString()
	if err != nil {
		return err
	}
	return h.UnmarshalBinary(b)
}

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

var errHashesLength = errors.New("the length of the hashes is not a multiple of 20")

// Hashes is a list of hashes, encoded as the concatenation
// of them in one byte string, such as "pieces" of the info dictionary.
type Hashes []Hash

var (
	_ bencode.Marshaler   = Hashes(nil)
	_ bencode.Unmarshaler = new(Hashes)
)

// Contains reports whether hs contains h.
func (hs Hashes) Contains(h Hash) bool {
	for _, _h := range hs {
		if h == _h {
			return true
		}
	}
	return false
}

// MarshalBencode implements the interface bencode.Marshaler.
func (hs Hashes) MarshalBencode(e *bencode.Encoder) error {
	b := make([]byte, 0, HashSize*len(hs))
	for _, h := range hs {
		b = append(b, h[:]...)
	}
	e.EmitByteString(b)
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (hs *Hashes) UnmarshalBencode(obj bencode.Object) error {
	b, err := obj.ByteString()
	if err != nil {
		return err
	}

	_len := len(b)
	if _len%HashSize != 0 {
		return &bencode.ConversionError{Type: "metainfo.Hashes", Value: fmt.Sprint(_len), Err: errHashesLength}
	}

	hashes := make(Hashes, 0, _len/HashSize)
	for i := 0; i < _len; i += HashSize {
		hashes = append(hashes, NewHash(b[i:i+HashSize]))
	}

	*hs = hashes
	return nil
}
