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
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"github.com/xgfone/go-bencode/bencode"
)

// ErrInvalidAddr is returned when encoding an address without a valid IP.
var ErrInvalidAddr = errors.New("invalid compact address")

// CompactAddr represents an address in the compact form of BEP 5 and BEP 23,
// that's, the 4 or 16 bytes of the IP followed by the 2 bytes of the port
// in network byte order.
type CompactAddr struct {
	netip.AddrPort
}

// NewCompactAddr returns a new CompactAddr.
func NewCompactAddr(ip netip.Addr, port uint16) CompactAddr {
	return CompactAddr{netip.AddrPortFrom(ip, port)}
}

// Valid reports whether the address has an IP and a non-zero port.
func (a CompactAddr) Valid() bool {
	return a.Addr().IsValid() && a.Port() > 0
}

// Equal reports whether a is equal to o.
func (a CompactAddr) Equal(o CompactAddr) bool {
	return a.Port() == o.Port() && a.Addr().Unmap() == o.Addr().Unmap()
}

// AppendCompact appends the compact form of the address to b.
func (a CompactAddr) AppendCompact(b []byte) []byte {
	ip := a.Addr()
	if ip.Is4In6() {
		ip = ip.Unmap()
	}
	b = append(b, ip.AsSlice()...)
	return binary.BigEndian.AppendUint16(b, a.Port())
}

var (
	_ encoding.BinaryMarshaler   = CompactAddr{}
	_ encoding.BinaryUnmarshaler = new(CompactAddr)
	_ bencode.Marshaler          = CompactAddr{}
	_ bencode.Unmarshaler        = new(CompactAddr)
)

// MarshalBinary implements the interface encoding.BinaryMarshaler.
//
// It returns ErrInvalidAddr if the IP is invalid.
func (a CompactAddr) MarshalBinary() ([]byte, error) {
	if !a.Addr().IsValid() {
		return nil, ErrInvalidAddr
	}
	return a.AppendCompact(make([]byte, 0, 18)), nil
}

// UnmarshalBinary implements the interface encoding.BinaryUnmarshaler.
func (a *CompactAddr) UnmarshalBinary(data []byte) error {
	_len := len(data) - 2
	if _len != 4 && _len != 16 {
		return fmt.Errorf("invalid compact address length '%d'", len(data))
	}

	ip, _ := netip.AddrFromSlice(data[:_len])
	*a = NewCompactAddr(ip, binary.BigEndian.Uint16(data[_len:]))
	return nil
}

// MarshalBencode implements the interface bencode.Marshaler.
func (a CompactAddr) MarshalBencode(e *bencode.Encoder) error {
	b, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	e.EmitByteString(b)
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (a *CompactAddr) UnmarshalBencode(obj bencode.Object) error {
	b, err := obj.ByteString()
	if err != nil {
		return err
	}
	return a.UnmarshalBinary(b)
}

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// CompactIPv4Addrs is a list of IPv4 addresses, encoded as the concatenation
// of their 6-byte compact forms in one byte string, such as "peers"
// of a compact tracker response.
type CompactIPv4Addrs []CompactAddr

// CompactIPv6Addrs is the same as CompactIPv4Addrs, but for IPv6,
// whose compact form has 18 bytes, such as "peers6".
type CompactIPv6Addrs []CompactAddr

var (
	_ bencode.Marshaler   = CompactIPv4Addrs(nil)
	_ bencode.Unmarshaler = new(CompactIPv4Addrs)
	_ bencode.Marshaler   = CompactIPv6Addrs(nil)
	_ bencode.Unmarshaler = new(CompactIPv6Addrs)
)

// MarshalBencode implements the interface bencode.Marshaler.
//
// The addresses which are not IPv4 are ignored.
func (cas CompactIPv4Addrs) MarshalBencode(e *bencode.Encoder) error {
	b := make([]byte, 0, 6*len(cas))
	for _, addr := range cas {
		if addr.Addr().Unmap().Is4() {
			b = addr.AppendCompact(b)
		}
	}
	e.EmitByteString(b)
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (cas *CompactIPv4Addrs) UnmarshalBencode(obj bencode.Object) (err error) {
	*cas, err = decodeCompactAddrs(obj, 6)
	return
}

// MarshalBencode implements the interface bencode.Marshaler.
//
// The IPv4 addresses are written in the IPv4-mapped form.
func (cas CompactIPv6Addrs) MarshalBencode(e *bencode.Encoder) error {
	b := make([]byte, 0, 18*len(cas))
	for _, addr := range cas {
		if !addr.Addr().IsValid() {
			return ErrInvalidAddr
		}
		ip := netip.AddrFrom16(addr.Addr().As16())
		b = append(b, ip.AsSlice()...)
		b = binary.BigEndian.AppendUint16(b, addr.Port())
	}
	e.EmitByteString(b)
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (cas *CompactIPv6Addrs) UnmarshalBencode(obj bencode.Object) (err error) {
	*cas, err = decodeCompactAddrs(obj, 18)
	return
}

func decodeCompactAddrs(obj bencode.Object, size int) ([]CompactAddr, error) {
	b, err := obj.ByteString()
	if err != nil {
		return nil, err
	}

	_len := len(b)
	if _len%size != 0 {
		return nil, fmt.Errorf("invalid compact addresses length '%d'", _len)
	}

	addrs := make([]CompactAddr, _len/size)
	for i := range addrs {
		if err = addrs[i].UnmarshalBinary(b[i*size : (i+1)*size]); err != nil {
			return nil, err
		}
	}
	return addrs, nil
}
