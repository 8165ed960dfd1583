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
	"reflect"
	"testing"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

func testHash(c byte) (h metainfo.Hash) {
	for i := 0; i < metainfo.HashSize; i++ {
		h[i] = c + byte(i)
	}
	return
}

func TestHTTPAnnounceRequest(t *testing.T) {
	infohash := testHash('a')
	peerid := testHash(0xe0)
	v1 := AnnounceRequest{
		InfoHash:   infohash,
		PeerID:     peerid,
		Uploaded:   789,
		Downloaded: 456,
		Left:       123,
		Port:       80,
		Event:      "started",
		Compact:    true,
		NumWant:    50,
		Key:        7,
	}
	vs := v1.ToQuery()

	var v2 AnnounceRequest
	if err := v2.FromQuery(vs); err != nil {
		t.Fatal(err)
	}

	if v2.InfoHash != infohash {
		t.Error(v2.InfoHash)
	}
	if v2.PeerID != peerid {
		t.Error(v2.PeerID)
	}
	if v2.Event != "started" {
		t.Error(v2.Event)
	}
	if !v2.Compact {
		t.Error(v2.Compact)
	}

	if !reflect.DeepEqual(v1, v2) {
		t.Errorf("%v != %v", v1, v2)
	}

	vs.Set("info_hash", "short")
	if err := v2.FromQuery(vs); err == nil {
		t.Errorf("expect an error for the short info hash, but got nil")
	}
}

func TestAnnounceResponse(t *testing.T) {
	resp := AnnounceResponse{
		Interval:   1800,
		Complete:   2,
		Incomplete: 1,
		TrackerID:  "tid",
		Peers:      Peers{{IP: "1.2.3.4", Port: 6881}},
		Peers6:     Peers6{{IP: "::1", Port: 6882}},
	}

	data, err := bencode.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}

	var got AnnounceResponse
	if err = bencode.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(got, resp) {
		t.Errorf("expect %+v, but got %+v", resp, got)
	}

	data = []byte("d14:failure reason4:deny5:extrai1ee")
	got = AnnounceResponse{}
	if err = bencode.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	} else if got.FailureReason != "deny" {
		t.Errorf("expect failure reason '%s', but got '%s'", "deny", got.FailureReason)
	}

	data, err = bencode.Marshal(got)
	if err != nil {
		t.Fatal(err)
	} else if s := string(data); s != "d14:failure reason4:denye" {
		t.Errorf("expect '%s', but got '%s'", "d14:failure reason4:denye", s)
	}

	var ferr *bencode.FieldError
	err = bencode.Unmarshal([]byte("d8:intervali-1ee"), &got)
	if !errors.As(err, &ferr) || ferr.Field != "interval" {
		t.Errorf("expect a field error of interval, but got %v", err)
	}
}

func TestScrapeResponse(t *testing.T) {
	hash1, hash2 := testHash('a'), testHash('b')

	var (
		result1 = ScrapeResponseResult{Complete: 1, Incomplete: 2, Downloaded: 3}
		result2 = ScrapeResponseResult{Complete: 2, Incomplete: 4, Downloaded: 6}
	)

	sr := ScrapeResponse{
		FailureReason: "test",
		Files: map[metainfo.Hash]ScrapeResponseResult{
			hash1: result1,
			hash2: result2,
		},
	}

	data, err := bencode.Marshal(sr)
	if err != nil {
		t.Fatal(err)
	}

	var got ScrapeResponse
	if err := bencode.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got.FailureReason != "test" {
		t.Errorf("expect failure reason '%s', but got '%s'", "test", got.FailureReason)
	}
	if len(got.Files) != 2 {
		t.Errorf("expect %d files, but got %d", 2, len(got.Files))
	} else {
		for hash, result := range got.Files {
			switch hash {
			case hash1:
				if result != result1 {
					t.Errorf("expect file result %+v, but got %+v", result1, result)
				}

			case hash2:
				if result != result2 {
					t.Errorf("expect file result %+v, but got %+v", result2, result)
				}

			default:
				t.Errorf("unexpected file hash: %s", hash.HexString())
			}
		}
	}

	if err = bencode.Unmarshal([]byte("d5:filesd3:abcdeee"), &got); err == nil {
		t.Errorf("expect an error for the short file hash, but got nil")
	}
}
