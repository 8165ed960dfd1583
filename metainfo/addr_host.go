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
	"errors"
	"net"
	"strconv"

	"github.com/xgfone/go-bencode/bencode"
)

var errHostAddrLength = errors.New("the host address must be a list of host and port")

// HostAddr represents a host address, such as a DHT node of "nodes".
//
// It is encoded as the list "[host, port]", but the string "host:port"
// is also accepted when decoding.
type HostAddr struct {
	Host string
	Port uint16
}

var (
	_ bencode.Marshaler   = HostAddr{}
	_ bencode.Unmarshaler = new(HostAddr)
)

// NewHostAddr returns a new HostAddr.
func NewHostAddr(host string, port uint16) HostAddr {
	return HostAddr{Host: host, Port: port}
}

// ParseHostAddr parses a string s to Addr.
func ParseHostAddr(s string) (HostAddr, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return HostAddr{}, err
	}

	_port, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return HostAddr{}, err
	}

	return NewHostAddr(host, uint16(_port)), nil
}

func (a HostAddr) String() string {
	if a.Port == 0 {
		return a.Host
	}
	return net.JoinHostPort(a.Host, strconv.FormatUint(uint64(a.Port), 10))
}

// Equal reports whether a is equal to o.
func (a HostAddr) Equal(o HostAddr) bool {
	return a.Port == o.Port && a.Host == o.Host
}

// MarshalBencode implements the interface bencode.Marshaler.
func (a HostAddr) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitList(func(e *bencode.Encoder) error {
		e.EmitString(a.Host)
		e.EmitUint(uint64(a.Port))
		return nil
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (a *HostAddr) UnmarshalBencode(obj bencode.Object) (err error) {
	if obj.Kind() == bencode.KindByteString {
		var s string
		if s, err = bencode.DecodeString(obj); err == nil {
			*a, err = ParseHostAddr(s)
		}
		return
	}

	l, err := obj.List()
	if err != nil {
		return
	}

	var n int
	err = l.Each(func(o bencode.Object) (err error) {
		switch n++; n {
		case 1:
			a.Host, err = bencode.DecodeString(o)
		case 2:
			a.Port, err = bencode.DecodeInteger[uint16](o)
		default:
			err = errHostAddrLength
		}
		return
	})

	if err == nil && n != 2 {
		err = errHostAddrLength
	}
	return
}
