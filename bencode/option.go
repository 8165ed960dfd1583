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

// Option is a value which may be absent, such as an optional dictionary field.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some returns a present option of v.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None returns an absent option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Valid }

// Or returns the value if present, or def instead.
func (o Option[T]) Or(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

// RawMessage is the raw encoding of one bencode value.
//
// It can be used to delay the decoding of a field, or to keep its exact
// bytes, for example to hash the info dictionary of a torrent.
type RawMessage []byte

var (
	_ Marshaler   = RawMessage(nil)
	_ Unmarshaler = new(RawMessage)
)

// UnmarshalBencode implements the interface Unmarshaler.
//
// The result aliases the input of the decoder.
func (m *RawMessage) UnmarshalBencode(obj Object) error {
	raw, err := obj.Raw()
	if err == nil {
		*m = raw
	}
	return err
}

// MarshalBencode implements the interface Marshaler.
func (m RawMessage) MarshalBencode(e *Encoder) error {
	return e.EmitRaw(m)
}
