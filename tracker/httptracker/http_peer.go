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

package httptracker

import (
	"errors"
	"net/netip"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

var errInvalidPeer = errors.New("invalid peer information format")

// Peer is a tracker peer.
type Peer struct {
	// ID is the peer's self-selected ID.
	ID string // BEP 3

	// IP is the IP address or dns name.
	IP   string // BEP 3
	Port uint16 // BEP 3
}

// AddrPort returns the socket address of the peer.
//
// It fails when IP is a dns name instead of an IP address.
func (p Peer) AddrPort() (netip.AddrPort, error) {
	ip, err := netip.ParseAddr(p.IP)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return netip.AddrPortFrom(ip.Unmap(), p.Port), nil
}

func peerFromCompactAddr(addr metainfo.CompactAddr) Peer {
	return Peer{IP: addr.Addr().Unmap().String(), Port: addr.Port()}
}

func (p Peer) compactAddr() (metainfo.CompactAddr, error) {
	addr, err := p.AddrPort()
	if err != nil {
		return metainfo.CompactAddr{}, errInvalidPeer
	}
	return metainfo.CompactAddr{AddrPort: addr}, nil
}

// MarshalBencode implements the interface bencode.Marshaler.
func (p Peer) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) error {
		if p.ID != "" {
			if err := bencode.EncodePair(de, "peer id", p.ID, bencode.EncodeString); err != nil {
				return err
			}
		}
		if err := bencode.EncodePair(de, "ip", p.IP, bencode.EncodeString); err != nil {
			return err
		}
		return bencode.EncodePair(de, "port", p.Port, bencode.EncodeInteger[uint16])
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// "peer id" is optional since the tracker may omit it for "no_peer_id".
func (p *Peer) UnmarshalBencode(obj bencode.Object) error {
	var hasIP, hasPort bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "peer id":
			var id []byte
			id, err = bencode.DecodeBytes(value)
			p.ID = string(id)
		case "ip":
			p.IP, err = bencode.DecodeString(value)
			hasIP = true
		case "port":
			p.Port, err = bencode.DecodeInteger[uint16](value)
			hasPort = true
		}
		return bencode.WrapFieldError(string(key), err)
	})

	switch {
	case err != nil:
		return err
	case !hasIP:
		return bencode.NewMissingFieldError("ip")
	case !hasPort:
		return bencode.NewMissingFieldError("port")
	default:
		return nil
	}
}

// Peers is a set of the peers.
//
// It is decoded from either the compact byte string (BEP 23)
// or the list of the peer dictionaries (BEP 3).
type Peers []Peer

var (
	_ bencode.Marshaler   = Peers(nil)
	_ bencode.Unmarshaler = new(Peers)
)

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (ps *Peers) UnmarshalBencode(obj bencode.Object) (err error) {
	switch obj.Kind() {
	case bencode.KindByteString: // BEP 23
		var addrs metainfo.CompactIPv4Addrs
		if err = addrs.UnmarshalBencode(obj); err != nil {
			return
		}

		peers := make(Peers, len(addrs))
		for i, addr := range addrs {
			peers[i] = peerFromCompactAddr(addr)
		}
		*ps = peers

	case bencode.KindList: // BEP 3
		*ps, err = bencode.SliceOf(bencode.DecodeUnmarshaler[Peer])(obj)

	default:
		err = errInvalidPeer
	}
	return
}

// MarshalBencode implements the interface bencode.Marshaler.
//
// If any peer has no ID, the peers are encoded in the compact form,
// which requires that all of them are IPv4 addresses.
func (ps Peers) MarshalBencode(e *bencode.Encoder) error {
	for _, p := range ps {
		if p.ID == "" {
			return ps.marshalCompactBencode(e) // BEP 23
		}
	}

	// BEP 3
	return bencode.EncodeSlice(bencode.EncodeMarshaler[Peer])(e, ps)
}

func (ps Peers) marshalCompactBencode(e *bencode.Encoder) error {
	addrs := make(metainfo.CompactIPv4Addrs, len(ps))
	for i, peer := range ps {
		addr, err := peer.compactAddr()
		if err != nil {
			return err
		} else if !addr.Addr().Unmap().Is4() {
			return errInvalidPeer
		}
		addrs[i] = addr
	}
	return addrs.MarshalBencode(e)
}

// Peers6 is a set of the peers for IPv6 in the compact case.
//
// BEP 7
type Peers6 []Peer

var (
	_ bencode.Marshaler   = Peers6(nil)
	_ bencode.Unmarshaler = new(Peers6)
)

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (ps *Peers6) UnmarshalBencode(obj bencode.Object) (err error) {
	var addrs metainfo.CompactIPv6Addrs
	if err = addrs.UnmarshalBencode(obj); err != nil {
		return
	}

	peers := make(Peers6, len(addrs))
	for i, addr := range addrs {
		peers[i] = peerFromCompactAddr(addr)
	}
	*ps = peers
	return
}

// MarshalBencode implements the interface bencode.Marshaler.
func (ps Peers6) MarshalBencode(e *bencode.Encoder) error {
	addrs := make(metainfo.CompactIPv6Addrs, len(ps))
	for i, peer := range ps {
		addr, err := peer.compactAddr()
		if err != nil {
			return err
		}
		addrs[i] = addr
	}
	return addrs.MarshalBencode(e)
}
