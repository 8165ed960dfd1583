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
	"strings"

	"github.com/xgfone/go-bencode/bencode"
	"golang.org/x/exp/slices"
)

// AnnounceList is a list of the announces.
type AnnounceList [][]string

// Unique returns the list of the unique announces.
func (al AnnounceList) Unique() (announces []string) {
	announces = make([]string, 0, len(al))
	for _, tier := range al {
		for _, v := range tier {
			if v != "" && !slices.Contains(announces, v) {
				announces = append(announces, v)
			}
		}
	}
	return
}

// URLList represents a list of the url.
//
// It may be encoded as a single string or a list of strings.
//
// BEP 19
type URLList []string

var (
	_ bencode.Marshaler   = URLList(nil)
	_ bencode.Unmarshaler = new(URLList)
)

// FullURL returns the index-th full url.
//
// For the single-file case, name is the "name" of "info".
// For the multi-file case, name is the path "name/path/file"
// from "info" and "files".
//
// See http://bittorrent.org/beps/bep_0019.html
func (us URLList) FullURL(index int, name string) (url string) {
	if url = us[index]; strings.HasSuffix(url, "/") {
		url += name
	}
	return
}

// MarshalBencode implements the interface bencode.Marshaler.
func (us URLList) MarshalBencode(e *bencode.Encoder) error {
	if len(us) == 1 {
		e.EmitString(us[0])
		return nil
	}
	return bencode.EncodeSlice(bencode.EncodeString)(e, us)
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (us *URLList) UnmarshalBencode(obj bencode.Object) (err error) {
	if obj.Kind() == bencode.KindByteString {
		var s string
		if s, err = bencode.DecodeString(obj); err == nil {
			*us = URLList{s}
		}
		return
	}

	*us, err = bencode.SliceOf(bencode.DecodeString)(obj)
	return
}

// MetaInfo represents the .torrent file.
type MetaInfo struct {
	// InfoBytes is the raw bytes of the info dictionary, from which
	// the info-hash is computed.
	InfoBytes    bencode.RawMessage // BEP 3
	Announce     string             // BEP 3
	AnnounceList AnnounceList       // BEP 12
	Nodes        []HostAddr         // BEP 5
	URLList      URLList            // BEP 19
	HTTPSeeds    []string           // BEP 17

	// Where's this specified?
	// Mentioned at https://wiki.theory.org/index.php/BitTorrentSpecification.
	// All of them are optional.

	// CreationDate is the creation time of the torrent, in standard UNIX epoch
	// format (seconds since 1-Jan-1970 00:00:00 UTC).
	CreationDate bencode.Option[int64]
	// Comment is the free-form textual comments of the author.
	Comment string
	// CreatedBy is name and version of the program used to create the .torrent.
	CreatedBy string
	// Encoding is the string encoding format used to generate the pieces part
	// of the info dictionary in the .torrent metafile.
	Encoding string
}

var (
	_ bencode.Marshaler   = MetaInfo{}
	_ bencode.Unmarshaler = new(MetaInfo)
)

// Parse decodes the torrent data, including its info dictionary.
//
// The bytes after the metainfo dictionary are not allowed.
// InfoBytes of the result aliases data.
func Parse(data []byte) (mi MetaInfo, err error) {
	dec := bencode.NewDecoder(data)
	obj, ok, err := dec.NextObject()
	switch {
	case err != nil:
		return
	case !ok:
		err = bencode.ErrEmptyInput
		return
	}

	if err = mi.UnmarshalBencode(obj); err != nil {
		return
	} else if rest := dec.Remaining(); len(rest) > 0 {
		err = &bencode.SyntaxError{Offset: dec.Offset(), Msg: "trailing data after metainfo", Err: bencode.ErrTrailingData}
		return
	}

	_, err = mi.Info()
	err = bencode.WrapFieldError("info", err)
	return
}

// Bytes returns the bencode of the metainfo.
func (mi MetaInfo) Bytes() ([]byte, error) { return bencode.Marshal(mi) }

// SetInfo encodes info into InfoBytes.
func (mi *MetaInfo) SetInfo(info Info) (err error) {
	mi.InfoBytes, err = bencode.Marshal(info)
	return
}

// Announces returns all the announces.
func (mi MetaInfo) Announces() AnnounceList {
	if len(mi.AnnounceList) > 0 {
		return mi.AnnounceList
	} else if mi.Announce != "" {
		return [][]string{{mi.Announce}}
	}
	return nil
}

// InfoHash returns the hash of the info.
func (mi MetaInfo) InfoHash() Hash {
	return NewHashFromBytes(mi.InfoBytes)
}

// Info parses the InfoBytes to the Info.
func (mi MetaInfo) Info() (info Info, err error) {
	err = bencode.Unmarshal(mi.InfoBytes, &info)
	return
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The info dictionary is kept as the raw bytes and decoded by Info.
func (mi *MetaInfo) UnmarshalBencode(obj bencode.Object) error {
	var hasInfo bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "info":
			if value.Kind() != bencode.KindDictionary {
				err = &bencode.UnexpectedObjectError{Expected: bencode.KindDictionary, Actual: value.Kind()}
			} else {
				err = mi.InfoBytes.UnmarshalBencode(value)
			}
			hasInfo = true
		case "announce":
			mi.Announce, err = bencode.DecodeString(value)
		case "announce-list":
			mi.AnnounceList, err = bencode.SliceOf(bencode.SliceOf(bencode.DecodeString))(value)
		case "nodes":
			mi.Nodes, err = bencode.SliceOf(bencode.DecodeUnmarshaler[HostAddr])(value)
		case "url-list":
			err = mi.URLList.UnmarshalBencode(value)
		case "httpseeds":
			mi.HTTPSeeds, err = bencode.SliceOf(bencode.DecodeString)(value)
		case "creation date":
			mi.CreationDate, err = bencode.OptionOf(bencode.DecodeInteger[int64])(value)
		case "comment":
			mi.Comment, err = bencode.DecodeString(value)
		case "created by":
			mi.CreatedBy, err = bencode.DecodeString(value)
		case "encoding":
			mi.Encoding, err = bencode.DecodeString(value)
		default:
			return bencode.NewUnexpectedFieldError(key)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	if err == nil && !hasInfo {
		err = bencode.NewMissingFieldError("info")
	}
	return err
}

// MarshalBencode implements the interface bencode.Marshaler.
//
// The empty optional fields are omitted.
func (mi MetaInfo) MarshalBencode(e *bencode.Encoder) error {
	encodeStrings := bencode.EncodeSlice(bencode.EncodeString)
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		if err = de.EmitPair("info", mi.InfoBytes); err != nil {
			return
		}

		pairs := []struct {
			key   string
			empty bool
			emit  func(*bencode.Encoder) error
		}{
			{"announce", mi.Announce == "", func(e *bencode.Encoder) error { return bencode.EncodeString(e, mi.Announce) }},
			{"announce-list", len(mi.AnnounceList) == 0, func(e *bencode.Encoder) error {
				return bencode.EncodeSlice(encodeStrings)(e, mi.AnnounceList)
			}},
			{"nodes", len(mi.Nodes) == 0, func(e *bencode.Encoder) error {
				return bencode.EncodeSlice(bencode.EncodeMarshaler[HostAddr])(e, mi.Nodes)
			}},
			{"url-list", len(mi.URLList) == 0, mi.URLList.MarshalBencode},
			{"httpseeds", len(mi.HTTPSeeds) == 0, func(e *bencode.Encoder) error { return encodeStrings(e, mi.HTTPSeeds) }},
			{"comment", mi.Comment == "", func(e *bencode.Encoder) error { return bencode.EncodeString(e, mi.Comment) }},
			{"created by", mi.CreatedBy == "", func(e *bencode.Encoder) error { return bencode.EncodeString(e, mi.CreatedBy) }},
			{"encoding", mi.Encoding == "", func(e *bencode.Encoder) error { return bencode.EncodeString(e, mi.Encoding) }},
		}

		for _, p := range pairs {
			if !p.empty {
				if err = de.EmitPairWith(p.key, p.emit); err != nil {
					return
				}
			}
		}

		return bencode.EncodeOptionalPair(de, "creation date", mi.CreationDate, bencode.EncodeInteger[int64])
	})
}
