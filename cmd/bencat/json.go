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

package main

import (
	"encoding/hex"
	"encoding/json"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/xgfone/go-bencode/bencode"
)

// hexPrefix marks the byte strings which are not valid UTF-8,
// such as the pieces of a torrent.
const hexPrefix = "hex:"

// marshalJSON renders the value as JSON, keeping the dictionary keys
// in the input order.
func marshalJSON(v bencode.Value, indent string) ([]byte, error) {
	x, err := toJSON(v)
	if err != nil {
		return nil, err
	} else if indent == "" {
		return json.Marshal(x)
	}
	return json.MarshalIndent(x, "", indent)
}

// jsonText returns b as a JSON string, or its hex form with hexPrefix
// if b is not valid UTF-8.
func jsonText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return hexPrefix + hex.EncodeToString(b)
}

func toJSON(v bencode.Value) (any, error) {
	switch v.Kind() {
	case bencode.KindByteString:
		b, err := v.ByteString()
		if err != nil {
			return nil, err
		}
		return jsonText(b), nil

	case bencode.KindInteger:
		digits, err := v.Integer()
		if err != nil {
			return nil, err
		}
		return json.Number(digits), nil

	case bencode.KindList:
		vs, err := v.List()
		if err != nil {
			return nil, err
		}

		list := make([]any, len(vs))
		for i, e := range vs {
			if list[i], err = toJSON(e); err != nil {
				return nil, err
			}
		}
		return list, nil

	default:
		dict, err := v.Dict()
		if err != nil {
			return nil, err
		}

		m := orderedmap.New[string, any](dict.Len())
		for p := dict.Oldest(); p != nil; p = p.Next() {
			x, err := toJSON(p.Value)
			if err != nil {
				return nil, err
			}
			m.Set(jsonText([]byte(p.Key)), x)
		}
		return m, nil
	}
}
