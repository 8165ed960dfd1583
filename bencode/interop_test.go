// Copyright 2026 xgfone
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

package bencode_test

import (
	"bytes"
	"testing"

	"github.com/xgfone/go-bencode/bencode"
	zeebo "github.com/zeebo/bencode"
)

type interopFile struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

type interopInfo struct {
	Name        string        `bencode:"name"`
	PieceLength int64         `bencode:"piece length"`
	Pieces      string        `bencode:"pieces"`
	Files       []interopFile `bencode:"files"`
}

func TestInteropEncode(t *testing.T) {
	src := interopInfo{
		Name:        "dir",
		PieceLength: 262144,
		Pieces:      "01234567890123456789",
		Files: []interopFile{
			{Length: 10, Path: []string{"a", "b.txt"}},
			{Length: 20, Path: []string{"c.txt"}},
		},
	}

	expect, err := zeebo.EncodeBytes(src)
	if err != nil {
		t.Fatal(err)
	}

	v, err := bencode.Parse(expect)
	if err != nil {
		t.Fatal(err)
	}

	output, err := bencode.Marshal(v)
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(expect, output) {
		t.Errorf("expect %q, but got %q", expect, output)
	}

	if name, _ := v.Get("name"); name.String() != `"dir"` {
		t.Errorf("expect the name 'dir', but got %s", name)
	}
	if files, _ := v.Get("files"); files.Len() != 2 {
		t.Errorf("expect 2 files, but got %d", files.Len())
	}
}

func TestInteropDecode(t *testing.T) {
	v := bencode.NewDict(
		bencode.Pair{Key: "spam", Value: bencode.NewList(bencode.NewString("a"), bencode.NewInt(-1))},
		bencode.Pair{Key: "cow", Value: bencode.NewString("moo")},
		bencode.Pair{Key: "n", Value: bencode.NewInt(42)},
	)

	data, err := bencode.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err = zeebo.DecodeBytes(data, &m); err != nil {
		t.Fatal(err)
	}

	if m["cow"] != "moo" {
		t.Errorf("expect 'moo', but got %v", m["cow"])
	}
	if m["n"] != int64(42) {
		t.Errorf("expect 42, but got %v", m["n"])
	}
	if l, ok := m["spam"].([]interface{}); !ok || len(l) != 2 || l[0] != "a" || l[1] != int64(-1) {
		t.Errorf("expect [a -1], but got %v", m["spam"])
	}

	expect, err := zeebo.EncodeBytes(m)
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(expect, data) {
		t.Errorf("expect %q, but got %q", expect, data)
	}
}
