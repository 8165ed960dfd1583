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

package krpc

import (
	"fmt"
	"net/netip"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

// Node represents a node information.
type Node struct {
	ID   metainfo.Hash
	Addr metainfo.CompactAddr
}

// NewNode returns a new Node.
func NewNode(id metainfo.Hash, ip netip.Addr, port uint16) Node {
	return Node{ID: id, Addr: metainfo.NewCompactAddr(ip, port)}
}

func (n Node) String() string {
	return fmt.Sprintf("Node<%x@%s>", n.ID, n.Addr)
}

// Equal reports whether n is equal to o.
func (n Node) Equal(o Node) bool {
	return n.ID == o.ID && n.Addr.Equal(o.Addr)
}

// AppendCompact appends the compact node info, that's, the node id
// followed by the compact address.
func (n Node) AppendCompact(b []byte) []byte {
	return n.Addr.AppendCompact(append(b, n.ID[:]...))
}

// MarshalBinary implements the interface encoding.BinaryMarshaler.
func (n Node) MarshalBinary() (data []byte, err error) {
	if !n.Addr.Addr().IsValid() {
		return nil, metainfo.ErrInvalidAddr
	}
	return n.AppendCompact(make([]byte, 0, 38)), nil
}

// UnmarshalBinary implements the interface encoding.BinaryUnmarshaler.
func (n *Node) UnmarshalBinary(b []byte) error {
	if len(b) < 26 {
		return fmt.Errorf("invalid compact node info length '%d'", len(b))
	}

	copy(n.ID[:], b[:20])
	return n.Addr.UnmarshalBinary(b[20:])
}

/// >>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>

// CompactIPv4Nodes is a list of the IPv4 nodes, encoded as the concatenation
// of their 26-byte compact node info in one byte string.
//
// BEP 5
type CompactIPv4Nodes []Node

// CompactIPv6Nodes is the same as CompactIPv4Nodes, but for IPv6,
// whose compact node info has 38 bytes.
//
// BEP 32
type CompactIPv6Nodes []Node

var (
	_ bencode.Marshaler   = CompactIPv4Nodes(nil)
	_ bencode.Unmarshaler = new(CompactIPv4Nodes)
	_ bencode.Marshaler   = CompactIPv6Nodes(nil)
	_ bencode.Unmarshaler = new(CompactIPv6Nodes)
)

// MarshalBencode implements the interface bencode.Marshaler.
//
// The nodes whose addresses are not IPv4 are ignored.
func (cns CompactIPv4Nodes) MarshalBencode(e *bencode.Encoder) error {
	b := make([]byte, 0, 26*len(cns))
	for _, n := range cns {
		if ip := n.Addr.Addr().Unmap(); ip.Is4() {
			n.Addr = metainfo.NewCompactAddr(ip, n.Addr.Port())
			b = n.AppendCompact(b)
		}
	}
	e.EmitByteString(b)
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (cns *CompactIPv4Nodes) UnmarshalBencode(obj bencode.Object) (err error) {
	*cns, err = decodeCompactNodes(obj, 26)
	return
}

// MarshalBencode implements the interface bencode.Marshaler.
//
// The nodes whose addresses are not IPv6 are ignored.
func (cns CompactIPv6Nodes) MarshalBencode(e *bencode.Encoder) error {
	b := make([]byte, 0, 38*len(cns))
	for _, n := range cns {
		if ip := n.Addr.Addr(); ip.Is6() && !ip.Is4In6() {
			b = n.AppendCompact(b)
		}
	}
	e.EmitByteString(b)
	return nil
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (cns *CompactIPv6Nodes) UnmarshalBencode(obj bencode.Object) (err error) {
	*cns, err = decodeCompactNodes(obj, 38)
	return
}

func decodeCompactNodes(obj bencode.Object, size int) ([]Node, error) {
	b, err := obj.ByteString()
	if err != nil {
		return nil, err
	}

	_len := len(b)
	if _len%size != 0 {
		return nil, fmt.Errorf("invalid compact nodes length '%d'", _len)
	}

	nodes := make([]Node, _len/size)
	for i := range nodes {
		if err = nodes[i].UnmarshalBinary(b[i*size : (i+1)*size]); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}
