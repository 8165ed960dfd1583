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

// Package httptracker implements the messages of the tracker protocol
// based on HTTP/HTTPS: the announce request carried by the URL query,
// and the bencoded announce and scrape responses.
package httptracker

import (
	"net/url"
	"strconv"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

// AnnounceRequest is the tracker announce requests.
//
// BEP 3
type AnnounceRequest struct {
	// InfoHash is the sha1 hash of the bencoded form of the info value from the metainfo file.
	InfoHash metainfo.Hash // BEP 3

	// PeerID is the id of the downloader.
	//
	// Each downloader generates its own id at random at the start of a new download.
	PeerID metainfo.Hash // BEP 3

	Uploaded   int64 // BEP 3
	Downloaded int64 // BEP 3

	// Left is the number of bytes this peer still has to download.
	//
	// Note that this can't be computed from downloaded and the file length
	// since it might be a resume, and there's a chance that some of the
	// downloaded data failed an integrity check and had to be re-downloaded.
	Left int64 // BEP 3

	// Port is the port that this peer is listening on.
	Port uint16 // BEP 3

	// IP is the ip or DNS name which this peer is at. Optional.
	IP string // BEP 3

	// Event is one of "started", "completed" and "stopped",
	// or empty for the announcements done at regular intervals.
	Event string // BEP 3

	// Compact indicates whether it hopes the tracker to return the compact
	// peer lists.
	Compact bool // BEP 23

	// NumWant is the number of peers that the client would like to receive
	// from the tracker. If omitted, typically defaults to 50 peers.
	NumWant int32
	Key     int32
}

// ToQuery converts the Request to URL Query.
func (r AnnounceRequest) ToQuery() (vs url.Values) {
	vs = make(url.Values, 11)
	vs.Set("info_hash", string(r.InfoHash[:]))
	vs.Set("peer_id", string(r.PeerID[:]))
	vs.Set("uploaded", strconv.FormatInt(r.Uploaded, 10))
	vs.Set("downloaded", strconv.FormatInt(r.Downloaded, 10))
	vs.Set("left", strconv.FormatInt(r.Left, 10))

	if r.IP != "" {
		vs.Set("ip", r.IP)
	}
	if r.Event != "" {
		vs.Set("event", r.Event)
	}
	if r.Port > 0 {
		vs.Set("port", strconv.FormatUint(uint64(r.Port), 10))
	}
	if r.NumWant != 0 {
		vs.Set("numwant", strconv.FormatInt(int64(r.NumWant), 10))
	}
	if r.Key != 0 {
		vs.Set("key", strconv.FormatInt(int64(r.Key), 10))
	}

	// BEP 23
	if r.Compact {
		vs.Set("compact", "1")
	} else {
		vs.Set("compact", "0")
	}

	return
}

// FromQuery converts URL Query to itself.
func (r *AnnounceRequest) FromQuery(vs url.Values) (err error) {
	if err = r.InfoHash.UnmarshalBinary([]byte(vs.Get("info_hash"))); err != nil {
		return
	}
	if err = r.PeerID.UnmarshalBinary([]byte(vs.Get("peer_id"))); err != nil {
		return
	}

	for _, field := range []struct {
		key string
		ptr *int64
	}{
		{"uploaded", &r.Uploaded},
		{"downloaded", &r.Downloaded},
		{"left", &r.Left},
	} {
		if *field.ptr, err = strconv.ParseInt(vs.Get(field.key), 10, 64); err != nil {
			return
		}
	}

	if s := vs.Get("port"); s != "" {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return err
		}
		r.Port = uint16(v)
	}

	if s := vs.Get("numwant"); s != "" {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return err
		}
		r.NumWant = int32(v)
	}

	if s := vs.Get("key"); s != "" {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return err
		}
		r.Key = int32(v)
	}

	r.IP = vs.Get("ip")
	r.Event = vs.Get("event")
	r.Compact = vs.Get("compact") == "1"
	return
}

// AnnounceResponse is a announce response.
type AnnounceResponse struct {
	FailureReason  string
	WarningMessage string

	// Interval is the seconds the downloader should wait before next rerequest.
	Interval    uint32 // BEP 3
	MinInterval uint32

	// Peers is the list of the peers.
	Peers Peers // BEP 3, BEP 23

	// Peers6 is only used for ipv6 in the compact case.
	Peers6 Peers6 // BEP 7

	// Where's this specified?
	// Mentioned at https://wiki.theory.org/index.php/BitTorrentSpecification.

	// Complete is the number of peers with the entire file.
	Complete uint32
	// Incomplete is the number of non-seeder peers.
	Incomplete uint32
	// TrackerID is that the client should send back on its next announcements.
	// If absent and a previous announce sent a tracker id,
	// do not discard the old value; keep using it.
	TrackerID string
}

var (
	_ bencode.Marshaler   = AnnounceResponse{}
	_ bencode.Unmarshaler = new(AnnounceResponse)
)

// MarshalBencode implements the interface bencode.Marshaler.
//
// If FailureReason is not empty, it is the only key of the response.
func (r AnnounceResponse) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) error {
		if r.FailureReason != "" {
			return bencode.EncodePair(de, "failure reason", r.FailureReason, bencode.EncodeString)
		}

		for _, p := range []struct {
			key   string
			value uint32
		}{
			{"interval", r.Interval},
			{"min interval", r.MinInterval},
			{"complete", r.Complete},
			{"incomplete", r.Incomplete},
		} {
			if p.value > 0 {
				if err := bencode.EncodePair(de, p.key, p.value, bencode.EncodeInteger[uint32]); err != nil {
					return err
				}
			}
		}

		for _, p := range []struct {
			key   string
			value string
		}{
			{"warning message", r.WarningMessage},
			{"tracker id", r.TrackerID},
		} {
			if p.value != "" {
				if err := bencode.EncodePair(de, p.key, p.value, bencode.EncodeString); err != nil {
					return err
				}
			}
		}

		if err := de.EmitPair("peers", r.Peers); err != nil {
			return err
		}
		if len(r.Peers6) > 0 {
			return de.EmitPair("peers6", r.Peers6)
		}
		return nil
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The unknown keys are ignored.
func (r *AnnounceResponse) UnmarshalBencode(obj bencode.Object) error {
	return obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "failure reason":
			r.FailureReason, err = bencode.DecodeString(value)
		case "warning message":
			r.WarningMessage, err = bencode.DecodeString(value)
		case "interval":
			r.Interval, err = bencode.DecodeInteger[uint32](value)
		case "min interval":
			r.MinInterval, err = bencode.DecodeInteger[uint32](value)
		case "complete":
			r.Complete, err = bencode.DecodeInteger[uint32](value)
		case "incomplete":
			r.Incomplete, err = bencode.DecodeInteger[uint32](value)
		case "tracker id":
			var id []byte
			id, err = bencode.DecodeBytes(value)
			r.TrackerID = string(id)
		case "peers":
			err = r.Peers.UnmarshalBencode(value)
		case "peers6":
			err = r.Peers6.UnmarshalBencode(value)
		}
		return bencode.WrapFieldError(string(key), err)
	})
}

// ScrapeResponseResult is the result of the scraped file.
type ScrapeResponseResult struct {
	// Complete is the number of active peers that have completed downloading.
	Complete uint32 // BEP 48

	// Incomplete is the number of active peers that have not completed downloading.
	Incomplete uint32 // BEP 48

	// The number of peers that have ever completed downloading.
	Downloaded uint32 // BEP 48
}

// MarshalBencode implements the interface bencode.Marshaler.
func (r ScrapeResponseResult) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) error {
		encode := bencode.EncodeInteger[uint32]
		if err := bencode.EncodePair(de, "complete", r.Complete, encode); err != nil {
			return err
		}
		if err := bencode.EncodePair(de, "incomplete", r.Incomplete, encode); err != nil {
			return err
		}
		return bencode.EncodePair(de, "downloaded", r.Downloaded, encode)
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (r *ScrapeResponseResult) UnmarshalBencode(obj bencode.Object) error {
	return obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "complete":
			r.Complete, err = bencode.DecodeInteger[uint32](value)
		case "incomplete":
			r.Incomplete, err = bencode.DecodeInteger[uint32](value)
		case "downloaded":
			r.Downloaded, err = bencode.DecodeInteger[uint32](value)
		}
		return bencode.WrapFieldError(string(key), err)
	})
}

// ScrapeResponse represents a Scrape response.
//
// BEP 48
type ScrapeResponse struct {
	FailureReason string
	Files         map[metainfo.Hash]ScrapeResponseResult
}

var (
	_ bencode.Marshaler   = ScrapeResponse{}
	_ bencode.Unmarshaler = new(ScrapeResponse)
)

// MarshalBencode implements the interface bencode.Marshaler.
func (sr ScrapeResponse) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) error {
		if sr.FailureReason != "" {
			if err := bencode.EncodePair(de, "failure reason", sr.FailureReason, bencode.EncodeString); err != nil {
				return err
			}
		}

		return de.EmitPairWith("files", func(e *bencode.Encoder) error {
			return e.EmitDictionary(func(de *bencode.DictionaryEncoder) error {
				for h, result := range sr.Files {
					if err := de.EmitPairBytes(h[:], result.MarshalBencode); err != nil {
						return err
					}
				}
				return nil
			})
		})
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (sr *ScrapeResponse) UnmarshalBencode(obj bencode.Object) error {
	decodeHash := bencode.DecodeUnmarshaler[metainfo.Hash]
	decodeResult := bencode.DecodeUnmarshaler[ScrapeResponseResult]
	return obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "failure reason", "failure_reason":
			sr.FailureReason, err = bencode.DecodeString(value)
		case "files":
			sr.Files, err = bencode.MapOf(decodeHash, decodeResult)(value)
		}
		return bencode.WrapFieldError(string(key), err)
	})
}
