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
	"net/netip"
	"testing"

	"github.com/xgfone/go-bencode/bencode"
)

func TestCompactAddr(t *testing.T) {
	addrs := []CompactAddr{
		NewCompactAddr(netip.MustParseAddr("172.16.1.1"), 123),
		NewCompactAddr(netip.MustParseAddr("192.168.1.1"), 456),
	}
	expect := "l6:\xac\x10\x01\x01\x00\x7b6:\xc0\xa8\x01\x01\x01\xc8e"

	encode := bencode.EncodeSlice(bencode.EncodeMarshaler[CompactAddr])
	if result, err := bencode.MarshalWith(addrs, encode); err != nil {
		t.Error(err)
	} else if string(result) != expect {
		t.Errorf("expect %x, but got %x\n", expect, result)
	}

	decode := bencode.SliceOf(bencode.DecodeUnmarshaler[CompactAddr])
	if raddrs, err := bencode.UnmarshalWith([]byte(expect), decode); err != nil {
		t.Error(err)
	} else if len(raddrs) != len(addrs) {
		t.Errorf("expect addrs length %d, but got %d\n", len(addrs), len(raddrs))
	} else {
		for i, addr := range addrs {
			if !addr.Equal(raddrs[i]) {
				t.Errorf("%d: expect addr %v, but got %v\n", i, addr, raddrs[i])
			}
		}
	}

	var addr CompactAddr
	if err := bencode.Unmarshal([]byte("3:abc"), &addr); err == nil {
		t.Error("expect an error, but got nil")
	}

	if _, err := bencode.Marshal(CompactAddr{}); !errors.Is(err, ErrInvalidAddr) {
		t.Errorf("expect error '%v', but got '%v'", ErrInvalidAddr, err)
	}
	if _, err := (CompactAddr{}).MarshalBinary(); !errors.Is(err, ErrInvalidAddr) {
		t.Errorf("expect error '%v', but got '%v'", ErrInvalidAddr, err)
	}
	if _, err := bencode.Marshal(CompactIPv6Addrs{{}}); !errors.Is(err, ErrInvalidAddr) {
		t.Errorf("expect error '%v', but got '%v'", ErrInvalidAddr, err)
	}
}

func TestCompactAddrs(t *testing.T) {
	v4 := CompactIPv4Addrs{
		NewCompactAddr(netip.MustParseAddr("1.2.3.4"), 80),
		NewCompactAddr(netip.MustParseAddr("::1"), 81),
		NewCompactAddr(netip.MustParseAddr("5.6.7.8"), 82),
	}

	b, err := bencode.Marshal(v4)
	if err != nil {
		t.Fatal(err)
	} else if expect := "12:\x01\x02\x03\x04\x00\x50\x05\x06\x07\x08\x00\x52"; string(b) != expect {
		t.Errorf("expect %x, but got %x", expect, b)
	}

	var r4 CompactIPv4Addrs
	if err = bencode.Unmarshal(b, &r4); err != nil {
		t.Error(err)
	} else if len(r4) != 2 || r4[1].String() != "5.6.7.8:82" {
		t.Errorf("unexpected addresses %v", r4)
	}

	v6 := CompactIPv6Addrs{
		NewCompactAddr(netip.MustParseAddr("::1"), 80),
		NewCompactAddr(netip.MustParseAddr("1.2.3.4"), 81),
	}
	if b, err = bencode.Marshal(v6); err != nil {
		t.Fatal(err)
	} else if len(b) != 3+36 {
		t.Errorf("expect 39 bytes, but got %d", len(b))
	}

	var r6 CompactIPv6Addrs
	if err = bencode.Unmarshal(b, &r6); err != nil {
		t.Error(err)
	} else if len(r6) != 2 || !r6[0].Equal(v6[0]) || !r6[1].Equal(v6[1]) {
		t.Errorf("expect %v, but got %v", v6, r6)
	}

	if err = bencode.Unmarshal([]byte("5:\x01\x02\x03\x04\x00"), &r4); err == nil {
		t.Error("expect an error, but got nil")
	}
}
