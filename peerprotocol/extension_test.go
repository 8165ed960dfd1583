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
	"bytes"
	"errors"
	"net/netip"
	"reflect"
	"testing"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

func TestCompactIP(t *testing.T) {
	ipv4 := CompactIP{netip.MustParseAddr("1.2.3.4")}
	b, err := bencode.Marshal(ipv4)
	if err != nil {
		t.Fatal(err)
	} else if string(b) != "4:\x01\x02\x03\x04" {
		t.Errorf("expect '%q', but got '%q'", "4:\x01\x02\x03\x04", b)
	}

	var ip CompactIP
	if err = bencode.Unmarshal(b, &ip); err != nil {
		t.Error(err)
	} else if ip.String() != "1.2.3.4" {
		t.Error(ip)
	}

	if err = bencode.Unmarshal([]byte("3:abc"), &ip); !errors.Is(err, errInvalidIP) {
		t.Errorf("expect error '%v', but got '%v'", errInvalidIP, err)
	}
	if _, err = bencode.Marshal(CompactIP{}); !errors.Is(err, errInvalidIP) {
		t.Errorf("expect error '%v', but got '%v'", errInvalidIP, err)
	}
}

func TestExtendedHandshakeMsg(t *testing.T) {
	m1 := ExtendedHandshakeMsg{
		M:            map[string]uint8{ExtendedMessageNameMetadata: 1, ExtendedMessageNamePex: 2},
		V:            "bencat 1.0",
		Reqq:         250,
		Port:         6881,
		YourIP:       CompactIP{netip.MustParseAddr("10.0.0.1")},
		MetadataSize: 31235,
	}

	b, err := m1.Encode()
	if err != nil {
		t.Fatal(err)
	}

	expect := "d1:md11:ut_metadatai1e6:ut_pexi2ee13:metadata_sizei31235e1:pi6881e4:reqqi250e1:v10:bencat 1.06:yourip4:\x0a\x00\x00\x01e"
	if string(b) != expect {
		t.Errorf("expect '%q', but got '%q'", expect, b)
	}

	var m2 ExtendedHandshakeMsg
	if err = m2.Decode(b); err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(m1, m2) {
		t.Errorf("expect %+v, but got %+v", m1, m2)
	}

	if b, err = (ExtendedHandshakeMsg{}).Encode(); err != nil {
		t.Fatal(err)
	} else if string(b) != "d1:mdee" {
		t.Errorf("expect '%s', but got '%s'", "d1:mdee", b)
	}
}

func TestUtMetadataExtendedMsg(t *testing.T) {
	data := []byte{0x31, 0x32, 0x33, 0x34, 0x35}
	m1 := UtMetadataExtendedMsg{MsgType: 1, Piece: 2, TotalSize: 1024, Data: data}
	payload, err := m1.EncodeToBytes()
	if err != nil {
		t.Fatal(err)
	}

	var m2 UtMetadataExtendedMsg
	if err = m2.DecodeFromPayload(payload); err != nil {
		t.Fatal(err)
	} else if m2.MsgType != 1 || m2.Piece != 2 || m2.TotalSize != 1024 {
		t.Error(m2)
	} else if !bytes.Equal(m2.Data, data) {
		t.Errorf("expect data '%s', but got '%s'", data, m2.Data)
	}

	m1 = UtMetadataExtendedMsg{MsgType: UtMetadataExtendedMsgTypeRequest, Piece: 3, Data: data}
	if payload, err = m1.EncodeToBytes(); err != nil {
		t.Fatal(err)
	} else if s := string(payload); s != "d8:msg_typei0e5:piecei3ee" {
		t.Errorf("expect '%s', but got '%s'", "d8:msg_typei0e5:piecei3ee", s)
	}

	var mferr *bencode.MissingFieldError
	m2 = UtMetadataExtendedMsg{}
	err = m2.DecodeFromPayload([]byte("d8:msg_typei2ee"))
	if !errors.As(err, &mferr) || mferr.Field != "piece" {
		t.Errorf("expect a missing field error of piece, but got %v", err)
	}
}

func TestPexMsg(t *testing.T) {
	m1 := PexMsg{
		Added: metainfo.CompactIPv4Addrs{
			metainfo.NewCompactAddr(netip.MustParseAddr("1.2.3.4"), 80),
		},
		AddedFlags: []byte{0x10},
		Dropped6: metainfo.CompactIPv6Addrs{
			metainfo.NewCompactAddr(netip.MustParseAddr("::1"), 81),
		},
	}

	b, err := bencode.Marshal(m1)
	if err != nil {
		t.Fatal(err)
	}

	expect := "d5:added6:\x01\x02\x03\x04\x00\x507:added.f1:\x108:dropped618:" +
		"\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x51e"
	if string(b) != expect {
		t.Errorf("expect '%q', but got '%q'", expect, b)
	}

	var m2 PexMsg
	if err = bencode.Unmarshal(b, &m2); err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(m1, m2) {
		t.Errorf("expect %+v, but got %+v", m1, m2)
	}
}
