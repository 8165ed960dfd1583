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
	"encoding"
	"errors"
	"math/big"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/exp/constraints"
)

// Marshaler is the interface implemented by the types
// which can write themselves into an Encoder.
type Marshaler interface {
	MarshalBencode(e *Encoder) error
}

// EncodeFunc writes the value v into the Encoder.
type EncodeFunc[T any] func(e *Encoder, v T) error

// Marshal returns the canonical bencode of v.
func Marshal(v Marshaler) ([]byte, error) {
	e := NewEncoder()
	if err := v.MarshalBencode(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// MarshalWith returns the canonical bencode of v written by fn.
func MarshalWith[T any](v T, fn EncodeFunc[T]) ([]byte, error) {
	e := NewEncoder()
	if err := fn(e, v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeInteger writes an integer of any Go integer type.
func EncodeInteger[T constraints.Integer](e *Encoder, v T) error {
	if isSigned[T]() {
		e.EmitInt(int64(v))
	} else {
		e.EmitUint(uint64(v))
	}
	return nil
}

// EncodeBigInt writes an integer of arbitrary size.
func EncodeBigInt(e *Encoder, v *big.Int) error {
	e.EmitBigInt(v)
	return nil
}

// EncodeBool writes true as 1 and false as 0.
func EncodeBool(e *Encoder, v bool) error {
	if v {
		e.EmitUint(1)
	} else {
		e.EmitUint(0)
	}
	return nil
}

// EncodeString writes a string as a byte string.
func EncodeString(e *Encoder, v string) error {
	e.EmitString(v)
	return nil
}

// EncodeBytes writes a byte slice as a byte string.
func EncodeBytes(e *Encoder, v []byte) error {
	e.EmitByteString(v)
	return nil
}

// EncodeText writes the result of the MarshalText method as a byte string,
// which is the inverse of DecodeText.
func EncodeText[T encoding.TextMarshaler](e *Encoder, v T) error {
	b, err := v.MarshalText()
	if err != nil {
		return err
	}
	e.EmitByteString(b)
	return nil
}

// EncodeMarshaler writes v by its MarshalBencode method.
func EncodeMarshaler[T Marshaler](e *Encoder, v T) error {
	return v.MarshalBencode(e)
}

// EncodeValue writes a Value tree.
func EncodeValue(e *Encoder, v Value) error {
	return v.MarshalBencode(e)
}

// EncodeSlice returns an EncodeFunc which writes a slice as a list,
// writing each element by elem.
func EncodeSlice[T any](elem EncodeFunc[T]) EncodeFunc[[]T] {
	return func(e *Encoder, vs []T) error {
		return e.EmitList(func(e *Encoder) error {
			for _, v := range vs {
				if err := elem(e, v); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// EncodeMap returns an EncodeFunc which writes a map as a dictionary
// with the sorted keys, writing each value by val.
func EncodeMap[K ~string, V any](val EncodeFunc[V]) EncodeFunc[map[K]V] {
	return func(e *Encoder, m map[K]V) error {
		return e.EmitDictionary(func(de *DictionaryEncoder) error {
			for k, v := range m {
				if err := EncodePair(de, string(k), v, val); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// EncodeOrderedMap is the same as EncodeMap, but for an ordered map.
// The insertion order is not kept: the keys are sorted as always.
func EncodeOrderedMap[K ~string, V any](val EncodeFunc[V]) EncodeFunc[*orderedmap.OrderedMap[K, V]] {
	return func(e *Encoder, m *orderedmap.OrderedMap[K, V]) error {
		return e.EmitDictionary(func(de *DictionaryEncoder) error {
			if m == nil {
				return nil
			}
			for p := m.Oldest(); p != nil; p = p.Next() {
				if err := EncodePair(de, string(p.Key), p.Value, val); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

var errNilPointer = errors.New("bencode: cannot encode a nil pointer")

// EncodePointer returns an EncodeFunc which writes the value
// that the pointer refers to.
func EncodePointer[T any](fn EncodeFunc[T]) EncodeFunc[*T] {
	return func(e *Encoder, v *T) error {
		if v == nil {
			return errNilPointer
		}
		return fn(e, *v)
	}
}

// EncodeOption returns an EncodeFunc which writes the value of a present
// option. An absent option fails with ErrAbsentOption, since bencode has
// no null; use EncodeOptionalPair to omit a dictionary field instead.
func EncodeOption[T any](fn EncodeFunc[T]) EncodeFunc[Option[T]] {
	return func(e *Encoder, o Option[T]) error {
		if !o.Valid {
			return ErrAbsentOption
		}
		return fn(e, o.Value)
	}
}

// EncodePair adds the pair of key and v written by fn into the dictionary.
func EncodePair[T any](de *DictionaryEncoder, key string, v T, fn EncodeFunc[T]) error {
	return de.EmitPairWith(key, func(e *Encoder) error { return fn(e, v) })
}

// EncodeOptionalPair is the same as EncodePair, but does nothing
// if the option is absent.
func EncodeOptionalPair[T any](de *DictionaryEncoder, key string, o Option[T], fn EncodeFunc[T]) error {
	if !o.Valid {
		return nil
	}
	return EncodePair(de, key, o.Value, fn)
}
