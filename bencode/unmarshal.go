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
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/exp/constraints"
)

// Unmarshaler is the interface implemented by the types
// which can build themselves from a bencode Object.
type Unmarshaler interface {
	UnmarshalBencode(obj Object) error
}

// DecodeFunc converts an Object to a value of type T.
type DecodeFunc[T any] func(obj Object) (T, error)

// Unmarshal decodes the first object of data into v.
//
// It returns ErrEmptyInput if data contains no object. The bytes after
// the first object are not read.
func Unmarshal(data []byte, v Unmarshaler) error {
	obj, err := firstObject(data)
	if err != nil {
		return err
	}
	return v.UnmarshalBencode(obj)
}

// UnmarshalWith decodes the first object of data by fn.
func UnmarshalWith[T any](data []byte, fn DecodeFunc[T]) (v T, err error) {
	obj, err := firstObject(data)
	if err != nil {
		return
	}
	return fn(obj)
}

func firstObject(data []byte) (Object, error) {
	obj, ok, err := NewDecoder(data).NextObject()
	if err != nil {
		return Object{}, err
	} else if !ok {
		return Object{}, ErrEmptyInput
	}
	return obj, nil
}

func isSigned[T constraints.Integer]() bool {
	var zero T
	return zero-1 < 0
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func convError[T any](raw []byte, err error) error {
	return &ConversionError{Type: typeName[T](), Value: string(raw), Err: err}
}

// DecodeInteger converts an integer object to the integer type T.
//
// A value which does not fit T, including a negative value for an unsigned
// type, fails with an error wrapping ErrIntegerOverflow.
func DecodeInteger[T constraints.Integer](obj Object) (T, error) {
	digits, err := obj.Integer()
	if err != nil {
		return 0, err
	}

	if isSigned[T]() {
		n, err := strconv.ParseInt(string(digits), 10, 64)
		if err != nil || int64(T(n)) != n {
			return 0, convError[T](digits, ErrIntegerOverflow)
		}
		return T(n), nil
	}

	if digits[0] == '-' {
		return 0, convError[T](digits, ErrIntegerOverflow)
	}

	n, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil || uint64(T(n)) != n {
		return 0, convError[T](digits, ErrIntegerOverflow)
	}
	return T(n), nil
}

// DecodeBigInt converts an integer object of any size to a big.Int.
func DecodeBigInt(obj Object) (*big.Int, error) {
	digits, err := obj.Integer()
	if err != nil {
		return nil, err
	}

	i, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return nil, convError[*big.Int](digits, strconv.ErrSyntax)
	}
	return i, nil
}

// DecodeBool converts the integer object 0 or 1 to a bool.
func DecodeBool(obj Object) (bool, error) {
	digits, err := obj.Integer()
	if err != nil {
		return false, err
	}

	switch string(digits) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, convError[bool](digits, ErrIntegerOverflow)
	}
}

// DecodeString converts a byte string object to a string,
// which must be valid UTF-8.
func DecodeString(obj Object) (string, error) {
	b, err := obj.ByteString()
	if err != nil {
		return "", err
	} else if !utf8.Valid(b) {
		return "", convError[string](b, ErrInvalidUTF8)
	}
	return string(b), nil
}

// DecodeBytes returns the content of a byte string object.
//
// The result aliases the input of the decoder.
func DecodeBytes(obj Object) ([]byte, error) {
	return obj.ByteString()
}

// DecodeText decodes a UTF-8 byte string object and parses it
// by the UnmarshalText method of *T.
func DecodeText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](obj Object) (v T, err error) {
	b, err := obj.ByteString()
	if err != nil {
		return
	} else if !utf8.Valid(b) {
		err = convError[T](b, ErrInvalidUTF8)
	} else if e := PT(&v).UnmarshalText(b); e != nil {
		err = convError[T](b, e)
	}
	return
}

// DecodeAddr decodes an IP address such as "1.2.3.4" or "::1".
func DecodeAddr(obj Object) (netip.Addr, error) {
	return DecodeText[netip.Addr, *netip.Addr](obj)
}

// DecodeAddrPort decodes a socket address such as "1.2.3.4:80" or "[::1]:80".
func DecodeAddrPort(obj Object) (netip.AddrPort, error) {
	return DecodeText[netip.AddrPort, *netip.AddrPort](obj)
}

// DecodeIP decodes an IP address to net.IP.
func DecodeIP(obj Object) (net.IP, error) {
	return DecodeText[net.IP, *net.IP](obj)
}

// DecodeURL decodes a byte string object as an URL.
func DecodeURL(obj Object) (*url.URL, error) {
	s, err := DecodeString(obj)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, convError[*url.URL]([]byte(s), err)
	}
	return u, nil
}

// DecodeUnmarshaler decodes the object by the UnmarshalBencode method of *T.
func DecodeUnmarshaler[T any, PT interface {
	*T
	Unmarshaler
}](obj Object) (v T, err error) {
	err = PT(&v).UnmarshalBencode(obj)
	return
}

// DecodeValue decodes the object and all its descendants into a Value.
func DecodeValue(obj Object) (v Value, err error) {
	err = v.UnmarshalBencode(obj)
	return
}

// SliceOf returns a DecodeFunc which decodes a list object into a slice,
// converting each element by elem in order.
func SliceOf[T any](elem DecodeFunc[T]) DecodeFunc[[]T] {
	return func(obj Object) ([]T, error) {
		l, err := obj.List()
		if err != nil {
			return nil, err
		}

		vs := make([]T, 0, 4)
		err = l.Each(func(o Object) error {
			v, err := elem(o)
			if err == nil {
				vs = append(vs, v)
			}
			return err
		})

		if err != nil {
			return nil, err
		}
		return vs, nil
	}
}

// MapOf returns a DecodeFunc which decodes a dictionary object into a map.
// Each key is converted by key as a byte string object, and each value by val.
//
// If a key appears more than once, the last value wins unless the decoder
// is strict.
func MapOf[K comparable, V any](key DecodeFunc[K], val DecodeFunc[V]) DecodeFunc[map[K]V] {
	return func(obj Object) (map[K]V, error) {
		dd, err := obj.Dictionary()
		if err != nil {
			return nil, err
		}

		m := make(map[K]V)
		err = dd.Each(func(rawkey []byte, o Object) error {
			k, err := key(keyObject(rawkey))
			if err != nil {
				return err
			}

			v, err := val(o)
			if err != nil {
				return WrapFieldError(string(rawkey), err)
			}

			m[k] = v
			return nil
		})

		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// OrderedMapOf is the same as MapOf, but the result keeps the keys
// in the input order.
//
// A duplicated key keeps the position of its first appearance
// and the value of its last one.
func OrderedMapOf[K comparable, V any](key DecodeFunc[K], val DecodeFunc[V]) DecodeFunc[*orderedmap.OrderedMap[K, V]] {
	return func(obj Object) (*orderedmap.OrderedMap[K, V], error) {
		dd, err := obj.Dictionary()
		if err != nil {
			return nil, err
		}

		m := orderedmap.New[K, V]()
		err = dd.Each(func(rawkey []byte, o Object) error {
			k, err := key(keyObject(rawkey))
			if err != nil {
				return err
			}

			v, err := val(o)
			if err != nil {
				return WrapFieldError(string(rawkey), err)
			}

			m.Set(k, v)
			return nil
		})

		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// OptionOf returns a DecodeFunc which decodes the object by fn
// and marks the result as present.
func OptionOf[T any](fn DecodeFunc[T]) DecodeFunc[Option[T]] {
	return func(obj Object) (Option[T], error) {
		v, err := fn(obj)
		if err != nil {
			return Option[T]{}, err
		}
		return Some(v), nil
	}
}
