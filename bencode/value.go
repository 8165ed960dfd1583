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

package bencode

import (
	"bytes"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Dict is the dictionary of a Value, which keeps the keys in the order
// they are found in the input or inserted.
//
// A key is the raw byte string held in a Go string, so it may be
// not valid UTF-8.
type Dict = orderedmap.OrderedMap[string, Value]

// Pair is a key/value pair used to build a dictionary Value.
type Pair struct {
	Key   string
	Value Value
}

// Value is a fully decoded bencode value.
//
// The byte strings and integer digits of a parsed Value alias the input.
type Value struct {
	kind Kind
	data []byte
	list []Value
	dict *Dict
}

var (
	_ Marshaler   = Value{}
	_ Unmarshaler = new(Value)
)

// Parse decodes the whole data into a Value tree.
//
// It fails with ErrEmptyInput if data is empty, and with an error wrapping
// ErrTrailingData if data has more bytes after the first value.
//
// Dictionary keys keep the input order. If a key appears more than once,
// the last value wins, at the position of the first appearance.
func Parse(data []byte) (Value, error) {
	return parse(NewDecoder(data))
}

// ParseStrict is the same as Parse, but the keys of every dictionary must be
// unique and in ascending order, that's, the input must be canonical.
func ParseStrict(data []byte) (Value, error) {
	d := NewDecoder(data)
	d.Strict = true
	return parse(d)
}

func parse(d *Decoder) (v Value, err error) {
	obj, ok, err := d.NextObject()
	if err != nil {
		return
	} else if !ok {
		return Value{}, ErrEmptyInput
	}

	if err = v.UnmarshalBencode(obj); err != nil {
		return Value{}, err
	}

	if d.Offset() < len(d.data) {
		return Value{}, &SyntaxError{Offset: d.Offset(), Err: ErrTrailingData,
			Msg: "unexpected data after top-level value"}
	}
	return v, nil
}

// NewByteString returns a byte string Value.
func NewByteString(b []byte) Value { return Value{kind: KindByteString, data: b} }

// NewString returns a byte string Value from a string.
func NewString(s string) Value { return NewByteString([]byte(s)) }

// NewInt returns an integer Value.
func NewInt(i int64) Value {
	return Value{kind: KindInteger, data: strconv.AppendInt(nil, i, 10)}
}

// NewUint returns an integer Value.
func NewUint(i uint64) Value {
	return Value{kind: KindInteger, data: strconv.AppendUint(nil, i, 10)}
}

// NewBigInt returns an integer Value of arbitrary size.
//
// A nil i is 0.
func NewBigInt(i *big.Int) Value {
	if i == nil {
		return NewInt(0)
	}
	return Value{kind: KindInteger, data: i.Append(nil, 10)}
}

// NewList returns a list Value.
func NewList(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindList, list: vs}
}

// NewDict returns a dictionary Value with the pairs in the given order.
// A later pair overrides an earlier one with the same key.
func NewDict(pairs ...Pair) Value {
	d := orderedmap.New[string, Value](len(pairs))
	for _, p := range pairs {
		d.Set(p.Key, p.Value)
	}
	return Value{kind: KindDictionary, dict: d}
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) expect(kind Kind) error {
	if v.kind != kind {
		return &UnexpectedObjectError{Expected: kind, Actual: v.kind}
	}
	return nil
}

// ByteString returns the content of a byte string value.
func (v Value) ByteString() ([]byte, error) {
	if err := v.expect(KindByteString); err != nil {
		return nil, err
	}
	return v.data, nil
}

// Text returns the content of a byte string value as a UTF-8 string.
func (v Value) Text() (string, error) {
	b, err := v.ByteString()
	if err != nil {
		return "", err
	} else if !utf8.Valid(b) {
		return "", &ConversionError{Type: "string", Value: string(b), Err: ErrInvalidUTF8}
	}
	return string(b), nil
}

// Integer returns the textual digits of an integer value.
func (v Value) Integer() ([]byte, error) {
	if err := v.expect(KindInteger); err != nil {
		return nil, err
	}
	return v.data, nil
}

// Int64 returns an integer value as int64.
func (v Value) Int64() (int64, error) { return DecodeInteger[int64](v.object()) }

// Uint64 returns an integer value as uint64.
func (v Value) Uint64() (uint64, error) { return DecodeInteger[uint64](v.object()) }

// BigInt returns an integer value of arbitrary size.
func (v Value) BigInt() (*big.Int, error) { return DecodeBigInt(v.object()) }

// object returns a detached scalar Object to reuse the conversions.
func (v Value) object() Object {
	switch v.kind {
	case KindByteString, KindInteger:
		return Object{kind: v.kind, data: v.data}
	default:
		// Containers have no Decoder, so only the shape can be checked.
		return Object{kind: v.kind}
	}
}

// List returns the elements of a list value.
func (v Value) List() ([]Value, error) {
	if err := v.expect(KindList); err != nil {
		return nil, err
	}
	return v.list, nil
}

// Dict returns the dictionary of a dictionary value.
func (v Value) Dict() (*Dict, error) {
	if err := v.expect(KindDictionary); err != nil {
		return nil, err
	}
	return v.dict, nil
}

// Get returns the value of the key in a dictionary value.
// It returns false if v is not a dictionary or the key does not exist.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDictionary {
		return Value{}, false
	}
	return v.dict.Get(key)
}

// Index returns the i-th element of a list value.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// Len returns the length of a byte string, list or dictionary value,
// or 0 for the others.
func (v Value) Len() int {
	switch v.kind {
	case KindByteString:
		return len(v.data)
	case KindList:
		return len(v.list)
	case KindDictionary:
		return v.dict.Len()
	default:
		return 0
	}
}

// Equal reports whether v and o are the same abstract value.
//
// The order of the dictionary keys is not compared.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindByteString, KindInteger:
		return bytes.Equal(v.data, o.data)

	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true

	case KindDictionary:
		if v.dict.Len() != o.dict.Len() {
			return false
		}
		for p := v.dict.Oldest(); p != nil; p = p.Next() {
			if ov, ok := o.dict.Get(p.Key); !ok || !p.Value.Equal(ov) {
				return false
			}
		}
		return true

	default:
		return true
	}
}

// Interface converts the value to the plain Go types: string for a byte
// string, int64 or *big.Int for an integer, []any for a list,
// and map[string]any for a dictionary.
func (v Value) Interface() any {
	switch v.kind {
	case KindByteString:
		return string(v.data)

	case KindInteger:
		if i, err := v.Int64(); err == nil {
			return i
		}
		i, _ := v.BigInt()
		return i

	case KindList:
		vs := make([]any, len(v.list))
		for i, e := range v.list {
			vs[i] = e.Interface()
		}
		return vs

	case KindDictionary:
		m := make(map[string]any, v.dict.Len())
		for p := v.dict.Oldest(); p != nil; p = p.Next() {
			m[p.Key] = p.Value.Interface()
		}
		return m

	default:
		return nil
	}
}

// String returns a readable representation of the value,
// which is not bencode.
func (v Value) String() string {
	var sb strings.Builder
	v.writeString(&sb)
	return sb.String()
}

func (v Value) writeString(sb *strings.Builder) {
	switch v.kind {
	case KindByteString:
		sb.WriteString(strconv.Quote(string(v.data)))

	case KindInteger:
		sb.Write(v.data)

	case KindList:
		sb.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.writeString(sb)
		}
		sb.WriteByte(']')

	case KindDictionary:
		sb.WriteByte('{')
		for p := v.dict.Oldest(); p != nil; p = p.Next() {
			if p != v.dict.Oldest() {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(p.Key))
			sb.WriteString(": ")
			p.Value.writeString(sb)
		}
		sb.WriteByte('}')

	default:
		sb.WriteString("<invalid>")
	}
}

// UnmarshalBencode implements the interface Unmarshaler,
// decoding the object and all its descendants.
func (v *Value) UnmarshalBencode(obj Object) (err error) {
	switch obj.kind {
	case KindByteString, KindInteger:
		*v = Value{kind: obj.kind, data: obj.data}

	case KindList:
		list := []Value{}
		err = obj.EachElement(func(o Object) (err error) {
			var e Value
			if err = e.UnmarshalBencode(o); err == nil {
				list = append(list, e)
			}
			return
		})
		if err == nil {
			*v = Value{kind: KindList, list: list}
		}

	case KindDictionary:
		dict := orderedmap.New[string, Value]()
		err = obj.EachPair(func(key []byte, o Object) (err error) {
			var e Value
			if err = e.UnmarshalBencode(o); err == nil {
				dict.Set(string(key), e)
			}
			return
		})
		if err == nil {
			*v = Value{kind: KindDictionary, dict: dict}
		}

	default:
		err = &UnexpectedObjectError{Actual: obj.kind}
	}

	return
}

// MarshalBencode implements the interface Marshaler.
//
// The dictionary keys are written in ascending order, so the result is
// the same as the input of Parse only if that input was canonical.
func (v Value) MarshalBencode(e *Encoder) error {
	switch v.kind {
	case KindByteString:
		e.EmitByteString(v.data)
		return nil

	case KindInteger:
		return e.EmitRawInteger(v.data)

	case KindList:
		return e.EmitList(func(e *Encoder) error {
			for _, elem := range v.list {
				if err := elem.MarshalBencode(e); err != nil {
					return err
				}
			}
			return nil
		})

	case KindDictionary:
		return e.EmitDictionary(func(de *DictionaryEncoder) error {
			for p := v.dict.Oldest(); p != nil; p = p.Next() {
				if err := de.EmitPair(p.Key, p.Value); err != nil {
					return err
				}
			}
			return nil
		})

	default:
		return &UnexpectedObjectError{Actual: v.kind}
	}
}
