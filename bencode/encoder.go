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
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
)

// Encoder appends bencode tokens to an in-memory buffer.
//
// The zero value is ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder returns a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes returns the encoded bytes, which is valid until the next
// modification of the encoder.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of the encoded bytes.
func (e *Encoder) Len() int { return len(e.buf) }

// Reset discards the encoded bytes but keeps the buffer.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// WriteTo implements the interface io.WriterTo.
func (e *Encoder) WriteTo(w io.Writer) (n int64, err error) {
	m, err := w.Write(e.buf)
	return int64(m), err
}

// EmitByteString writes b as a byte string. b may be arbitrary bytes.
func (e *Encoder) EmitByteString(b []byte) {
	e.buf = strconv.AppendInt(e.buf, int64(len(b)), 10)
	e.buf = append(e.buf, ':')
	e.buf = append(e.buf, b...)
}

// EmitString writes s as a byte string.
func (e *Encoder) EmitString(s string) {
	e.buf = strconv.AppendInt(e.buf, int64(len(s)), 10)
	e.buf = append(e.buf, ':')
	e.buf = append(e.buf, s...)
}

// EmitInt writes a signed integer.
func (e *Encoder) EmitInt(i int64) {
	e.buf = append(e.buf, 'i')
	e.buf = strconv.AppendInt(e.buf, i, 10)
	e.buf = append(e.buf, 'e')
}

// EmitUint writes an unsigned integer.
func (e *Encoder) EmitUint(i uint64) {
	e.buf = append(e.buf, 'i')
	e.buf = strconv.AppendUint(e.buf, i, 10)
	e.buf = append(e.buf, 'e')
}

// EmitBigInt writes an integer of arbitrary size. A nil i is written as 0.
func (e *Encoder) EmitBigInt(i *big.Int) {
	e.buf = append(e.buf, 'i')
	if i == nil {
		e.buf = append(e.buf, '0')
	} else {
		e.buf = i.Append(e.buf, 10)
	}
	e.buf = append(e.buf, 'e')
}

// EmitRawInteger writes an integer from its textual digits,
// which must follow the bencode integer grammar.
func (e *Encoder) EmitRawInteger(digits []byte) error {
	if err := checkIntegerDigits(digits); err != nil {
		return err
	}

	e.buf = append(e.buf, 'i')
	e.buf = append(e.buf, digits...)
	e.buf = append(e.buf, 'e')
	return nil
}

// EmitRaw writes raw, which must be exactly one well-formed bencode value.
//
// raw is copied as is, so the keys of its dictionaries keep their order.
func (e *Encoder) EmitRaw(raw []byte) error {
	d := NewDecoder(raw)
	obj, ok, err := d.NextObject()
	switch {
	case err != nil:
		return err
	case !ok:
		return ErrEmptyInput
	}

	if err = obj.Skip(); err != nil {
		return err
	} else if d.off != len(raw) {
		return &SyntaxError{Offset: d.off, Msg: "raw value has trailing data", Err: ErrTrailingData}
	}

	e.buf = append(e.buf, raw...)
	return nil
}

// Emit writes v by calling its MarshalBencode method.
func (e *Encoder) Emit(v Marshaler) error {
	return v.MarshalBencode(e)
}

// EmitList writes a list whose elements are written by fn.
//
// If fn returns an error, nothing of the list is left in the buffer.
func (e *Encoder) EmitList(fn func(*Encoder) error) error {
	mark := len(e.buf)
	e.buf = append(e.buf, 'l')
	if err := fn(e); err != nil {
		e.buf = e.buf[:mark]
		return err
	}
	e.buf = append(e.buf, 'e')
	return nil
}

// EmitDictionary writes a dictionary whose pairs are added by fn.
//
// The pairs are written in ascending byte order of their keys whatever the
// order fn adds them in. If fn returns an error or adds a key twice,
// nothing of the dictionary is written.
func (e *Encoder) EmitDictionary(fn func(*DictionaryEncoder) error) error {
	de := DictionaryEncoder{}
	if err := fn(&de); err != nil {
		return err
	}
	return de.flush(e)
}

type dictPair struct {
	key        []byte
	start, end int
}

// DictionaryEncoder collects the pairs of a dictionary being encoded.
//
// The values are encoded at once into a scratch buffer, and the pairs are
// sorted by key when the dictionary is written.
type DictionaryEncoder struct {
	values Encoder
	pairs  []dictPair
}

// Len returns the number of the added pairs.
func (de *DictionaryEncoder) Len() int { return len(de.pairs) }

// EmitPair adds the pair of the key and v.
func (de *DictionaryEncoder) EmitPair(key string, v Marshaler) error {
	return de.emitPair([]byte(key), v.MarshalBencode)
}

// EmitPairWith adds a pair whose value is written by fn,
// which must write exactly one value.
func (de *DictionaryEncoder) EmitPairWith(key string, fn func(*Encoder) error) error {
	return de.emitPair([]byte(key), fn)
}

// EmitPairBytes is the same as EmitPairWith, but the key is
// an arbitrary byte string.
func (de *DictionaryEncoder) EmitPairBytes(key []byte, fn func(*Encoder) error) error {
	return de.emitPair(append([]byte(nil), key...), fn)
}

func (de *DictionaryEncoder) emitPair(key []byte, fn func(*Encoder) error) error {
	start := len(de.values.buf)
	if err := fn(&de.values); err != nil {
		de.values.buf = de.values.buf[:start]
		return fmt.Errorf("dictionary key %q: %w", key, err)
	}
	de.pairs = append(de.pairs, dictPair{key: key, start: start, end: len(de.values.buf)})
	return nil
}

func (de *DictionaryEncoder) flush(e *Encoder) error {
	sort.SliceStable(de.pairs, func(i, j int) bool {
		return bytes.Compare(de.pairs[i].key, de.pairs[j].key) < 0
	})

	for i := 1; i < len(de.pairs); i++ {
		if bytes.Equal(de.pairs[i-1].key, de.pairs[i].key) {
			return fmt.Errorf("%w %q", ErrDuplicateKey, de.pairs[i].key)
		}
	}

	e.buf = append(e.buf, 'd')
	for _, p := range de.pairs {
		e.EmitByteString(p.key)
		e.buf = append(e.buf, de.values.buf[p.start:p.end]...)
	}
	e.buf = append(e.buf, 'e')
	return nil
}
