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

import "strconv"

// Kind is the shape of an Object or a Value.
type Kind uint8

// Predefine some object kinds.
const (
	KindInvalid Kind = iota
	KindByteString
	KindInteger
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindByteString:
		return "byte string"
	case KindInteger:
		return "integer"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Object is a lazy view of the value which a Decoder has just read.
//
// A byte string or an integer object holds its content borrowed from the
// input. A list or dictionary object holds only a handle onto the Decoder,
// and its elements are read on demand through List or Dictionary.
// Such a handle is valid until the container is closed, either by reading
// it to its end or by reading past it from an outer container.
type Object struct {
	kind Kind
	data []byte

	dec   *Decoder
	level int
	id    uint32

	start int
	end   int
}

// keyObject returns a byte string object for a dictionary key,
// which is detached from any Decoder.
func keyObject(key []byte) Object {
	return Object{kind: KindByteString, data: key}
}

// Kind returns the shape of the object.
func (o Object) Kind() Kind { return o.kind }

func (o Object) expect(kind Kind) error {
	if o.kind != kind {
		return &UnexpectedObjectError{Expected: kind, Actual: o.kind}
	}
	return nil
}

// ByteString returns the content of the byte string object.
func (o Object) ByteString() ([]byte, error) {
	if err := o.expect(KindByteString); err != nil {
		return nil, err
	}
	return o.data, nil
}

// Integer returns the textual digits of the integer object,
// with a leading '-' for a negative number.
func (o Object) Integer() ([]byte, error) {
	if err := o.expect(KindInteger); err != nil {
		return nil, err
	}
	return o.data, nil
}

// List returns the decoder of the elements of the list object.
func (o Object) List() (*ListDecoder, error) {
	if err := o.expect(KindList); err != nil {
		return nil, err
	}
	return &ListDecoder{dec: o.dec, level: o.level, id: o.id}, nil
}

// Dictionary returns the decoder of the pairs of the dictionary object.
func (o Object) Dictionary() (*DictionaryDecoder, error) {
	if err := o.expect(KindDictionary); err != nil {
		return nil, err
	}
	return &DictionaryDecoder{dec: o.dec, level: o.level, id: o.id}, nil
}

// EachElement is a shortcut of List().Each(fn).
func (o Object) EachElement(fn func(Object) error) error {
	l, err := o.List()
	if err != nil {
		return err
	}
	return l.Each(fn)
}

// EachPair is a shortcut of Dictionary().Each(fn).
func (o Object) EachPair(fn func(key []byte, value Object) error) error {
	dd, err := o.Dictionary()
	if err != nil {
		return err
	}
	return dd.Each(fn)
}

func (o Object) isContainer() bool {
	return o.kind == KindList || o.kind == KindDictionary
}

// Skip consumes the rest of a list or dictionary object.
// It does nothing for the other kinds or for a closed container.
func (o Object) Skip() error {
	if !o.isContainer() || !o.dec.isOpen(o.level, o.id) {
		return nil
	}
	return o.dec.drain(o.level - 1)
}

// Raw returns the exact input bytes of the object.
//
// For a list or dictionary, the rest of the container is consumed, so Raw
// must be called before the container is closed, or ErrClosedObject
// is returned.
func (o Object) Raw() ([]byte, error) {
	switch {
	case o.kind == KindInvalid:
		return nil, &UnexpectedObjectError{Actual: KindInvalid}

	case o.dec == nil: // A detached dictionary key.
		enc := NewEncoder()
		enc.EmitByteString(o.data)
		return enc.Bytes(), nil

	case !o.isContainer():
		return o.dec.data[o.start:o.end:o.end], nil

	case !o.dec.isOpen(o.level, o.id):
		return nil, ErrClosedObject
	}

	if err := o.dec.drain(o.level - 1); err != nil {
		return nil, err
	}
	return o.dec.data[o.start:o.dec.off:o.dec.off], nil
}
