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

package peerprotocol

import (
	"errors"
	"net/netip"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

var errInvalidIP = errors.New("invalid ipv4 or ipv6")

// Predefine some extended message identifiers.
const (
	ExtendedIDHandshake = 0 // BEP 10
)

// Predefine some extended message names.
const (
	ExtendedMessageNameMetadata = "ut_metadata" // BEP 9
	ExtendedMessageNamePex      = "ut_pex"      // BEP 11
)

// Predefine some "ut_metadata" extended message types.
const (
	UtMetadataExtendedMsgTypeRequest = 0 // BEP 9
	UtMetadataExtendedMsgTypeData    = 1 // BEP 9
	UtMetadataExtendedMsgTypeReject  = 2 // BEP 9
)

// CompactIP is an ipv4 or ipv6 address encoded as a byte string
// of 4 or 16 bytes.
type CompactIP struct {
	netip.Addr
}

var (
	_ bencode.Marshaler   = CompactIP{}
	_ bencode.Unmarshaler = new(CompactIP)
)

// MarshalBencode implements the interface bencode.Marshaler.
func (ci CompactIP) MarshalBencode(e *bencode.Encoder) error {
	if !ci.IsValid() {
		return errInvalidIP
	}
	e.EmitByteString(ci.AsSlice())
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (ci *CompactIP) UnmarshalBencode(obj bencode.Object) error {
	b, err := obj.ByteString()
	if err != nil {
		return err
	}

	ip, ok := netip.AddrFromSlice(b)
	if !ok {
		return errInvalidIP
	}
	ci.Addr = ip
	return nil
}

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// ExtendedHandshakeMsg represent the extended handshake message.
//
// BEP 10
type ExtendedHandshakeMsg struct {
	// M is the type of map[ExtendedMessageName]ExtendedMessageID.
	M    map[string]uint8 // BEP 10
	V    string           // BEP 10
	Reqq int              // BEP 10

	// Port is the local client port, which is redundant and no need
	// for the receiving side of the connection to send this.
	Port   uint16    // BEP 10
	IPv6   CompactIP // BEP 10
	IPv4   CompactIP // BEP 10
	YourIP CompactIP // BEP 10

	MetadataSize int // BEP 9
}

// Decode decodes the extended handshake message from b.
func (ehm *ExtendedHandshakeMsg) Decode(b []byte) (err error) {
	return bencode.Unmarshal(b, ehm)
}

// Encode encodes the extended handshake message to b.
func (ehm ExtendedHandshakeMsg) Encode() (b []byte, err error) {
	return bencode.Marshal(ehm)
}

// MarshalBencode implements the interface bencode.Marshaler.
//
// The zero fields except "m" are omitted.
func (ehm ExtendedHandshakeMsg) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		m := ehm.M
		if m == nil {
			m = map[string]uint8{}
		}
		if err = bencode.EncodePair(de, "m", m, bencode.EncodeMap[string](bencode.EncodeInteger[uint8])); err != nil {
			return
		}

		if ehm.V != "" {
			if err = bencode.EncodePair(de, "v", ehm.V, bencode.EncodeString); err != nil {
				return
			}
		}
		if ehm.Reqq > 0 {
			if err = bencode.EncodePair(de, "reqq", ehm.Reqq, bencode.EncodeInteger[int]); err != nil {
				return
			}
		}
		if ehm.Port > 0 {
			if err = bencode.EncodePair(de, "p", ehm.Port, bencode.EncodeInteger[uint16]); err != nil {
				return
			}
		}
		if ehm.MetadataSize > 0 {
			if err = bencode.EncodePair(de, "metadata_size", ehm.MetadataSize, bencode.EncodeInteger[int]); err != nil {
				return
			}
		}

		for _, p := range []struct {
			key string
			ip  CompactIP
		}{
			{"ipv4", ehm.IPv4},
			{"ipv6", ehm.IPv6},
			{"yourip", ehm.YourIP},
		} {
			if p.ip.IsValid() {
				if err = de.EmitPair(p.key, p.ip); err != nil {
					return
				}
			}
		}

		return
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The unknown keys are ignored.
func (ehm *ExtendedHandshakeMsg) UnmarshalBencode(obj bencode.Object) error {
	decodeM := bencode.MapOf(bencode.DecodeString, bencode.DecodeInteger[uint8])
	return obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "m":
			ehm.M, err = decodeM(value)
		case "v":
			ehm.V, err = bencode.DecodeString(value)
		case "reqq":
			ehm.Reqq, err = bencode.DecodeInteger[int](value)
		case "p":
			ehm.Port, err = bencode.DecodeInteger[uint16](value)
		case "ipv4":
			err = ehm.IPv4.UnmarshalBencode(value)
		case "ipv6":
			err = ehm.IPv6.UnmarshalBencode(value)
		case "yourip":
			err = ehm.YourIP.UnmarshalBencode(value)
		case "metadata_size":
			ehm.MetadataSize, err = bencode.DecodeInteger[int](value)
		}
		return bencode.WrapFieldError(string(key), err)
	})
}

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// UtMetadataExtendedMsg represents the "ut_metadata" extended message.
type UtMetadataExtendedMsg struct {
	MsgType uint8 // BEP 9
	Piece   int   // BEP 9

	// They are only used by "data" type
	TotalSize int
	Data      []byte
}

// EncodeToBytes encodes UtMetadataExtendedMsg to the extended payload,
// that's, the bencoded dictionary followed by the raw metadata piece
// for the "data" type.
func (um UtMetadataExtendedMsg) EncodeToBytes() (b []byte, err error) {
	if um.MsgType != UtMetadataExtendedMsgTypeData {
		um.TotalSize = 0
		um.Data = nil
	}

	e := bencode.NewEncoder()
	err = e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		if err = bencode.EncodePair(de, "msg_type", um.MsgType, bencode.EncodeInteger[uint8]); err != nil {
			return
		}
		if err = bencode.EncodePair(de, "piece", um.Piece, bencode.EncodeInteger[int]); err != nil {
			return
		}
		if um.TotalSize > 0 {
			err = bencode.EncodePair(de, "total_size", um.TotalSize, bencode.EncodeInteger[int])
		}
		return
	})

	if err == nil {
		b = append(e.Bytes(), um.Data...)
	}
	return
}

// DecodeFromPayload decodes the extended payload to itself.
//
// The bytes following the bencoded dictionary are the metadata piece,
// which is referred by Data without copy.
func (um *UtMetadataExtendedMsg) DecodeFromPayload(b []byte) (err error) {
	dec := bencode.NewDecoder(b)
	obj, ok, err := dec.NextObject()
	if err != nil {
		return
	} else if !ok {
		return bencode.ErrEmptyInput
	}

	var hasType, hasPiece bool
	err = obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "msg_type":
			um.MsgType, err = bencode.DecodeInteger[uint8](value)
			hasType = true
		case "piece":
			um.Piece, err = bencode.DecodeInteger[int](value)
			hasPiece = true
		case "total_size":
			um.TotalSize, err = bencode.DecodeInteger[int](value)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	switch {
	case err != nil:
		return
	case !hasType:
		return bencode.NewMissingFieldError("msg_type")
	case !hasPiece:
		return bencode.NewMissingFieldError("piece")
	}

	if data := dec.Remaining(); len(data) > 0 {
		um.Data = data
	}
	return
}

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// PexMsg represents the "ut_pex" extended message.
//
// BEP 11
type PexMsg struct {
	Added       metainfo.CompactIPv4Addrs
	AddedFlags  []byte
	Added6      metainfo.CompactIPv6Addrs
	Added6Flags []byte
	Dropped     metainfo.CompactIPv4Addrs
	Dropped6    metainfo.CompactIPv6Addrs
}

// MarshalBencode implements the interface bencode.Marshaler.
//
// The empty fields are omitted.
func (pm PexMsg) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		for _, p := range []struct {
			key   string
			addrs bencode.Marshaler
			n     int
		}{
			{"added", pm.Added, len(pm.Added)},
			{"added6", pm.Added6, len(pm.Added6)},
			{"dropped", pm.Dropped, len(pm.Dropped)},
			{"dropped6", pm.Dropped6, len(pm.Dropped6)},
		} {
			if p.n > 0 {
				if err = de.EmitPair(p.key, p.addrs); err != nil {
					return
				}
			}
		}

		if len(pm.AddedFlags) > 0 {
			if err = bencode.EncodePair(de, "added.f", pm.AddedFlags, bencode.EncodeBytes); err != nil {
				return
			}
		}
		if len(pm.Added6Flags) > 0 {
			err = bencode.EncodePair(de, "added6.f", pm.Added6Flags, bencode.EncodeBytes)
		}
		return
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (pm *PexMsg) UnmarshalBencode(obj bencode.Object) error {
	return obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "added":
			err = pm.Added.UnmarshalBencode(value)
		case "added.f":
			pm.AddedFlags, err = bencode.DecodeBytes(value)
		case "added6":
			err = pm.Added6.UnmarshalBencode(value)
		case "added6.f":
			pm.Added6Flags, err = bencode.DecodeBytes(value)
		case "dropped":
			err = pm.Dropped.UnmarshalBencode(value)
		case "dropped6":
			err = pm.Dropped6.UnmarshalBencode(value)
		}
		return bencode.WrapFieldError(string(key), err)
	})
}
