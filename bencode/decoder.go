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
	"strconv"
)

// Decoder is a cursor over an in-memory bencode document.
//
// A Decoder never copies the input: the byte strings and integer digits
// of the produced tokens and objects are sub-slices of it. There is only one
// read position, so the ListDecoder and DictionaryDecoder of nested
// containers are thin handles onto the same Decoder. Reading from an outer
// handle first skips whatever is left of an inner container, and a handle
// whose container has been closed reports no more elements.
//
// Once an error is returned, the Decoder keeps returning it.
type Decoder struct {
	// Strict makes the dictionaries reject keys which are not in strictly
	// ascending byte order, that's, duplicated or non-canonical keys.
	//
	// If false, the keys are returned as they appear.
	Strict bool

	// MaxDepth is the maximum number of the nested containers.
	//
	// Default: DefaultMaxDepth. A negative value means no limit.
	MaxDepth int

	data  []byte
	off   int
	stack []uint32 // the ids of the open containers, the innermost last
	ids   uint32
	err   error
}

// DefaultMaxDepth is the default nesting limit of a Decoder.
const DefaultMaxDepth = 10000

// NewDecoder returns a new Decoder reading from data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset returns the number of the consumed bytes.
func (d *Decoder) Offset() int { return d.off }

// Remaining returns the unconsumed part of the input.
func (d *Decoder) Remaining() []byte { return d.data[d.off:] }

// Depth returns the number of the containers which have been started
// but not ended yet.
func (d *Decoder) Depth() int { return len(d.stack) }

// NextToken consumes and returns the next token.
//
// It returns false when the input has been consumed fully.
func (d *Decoder) NextToken() (tok Token, ok bool, err error) {
	if d.err != nil {
		return Token{}, false, d.err
	} else if d.off == len(d.data) {
		return Token{}, false, nil
	}

	tok, n, err := lex(d.data[d.off:])
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.Offset += d.off
		}
		return Token{}, false, d.fail(err)
	}

	switch tok.Kind {
	case ListStartToken, DictionaryStartToken:
		if limit := d.maxDepth(); limit >= 0 && len(d.stack) >= limit {
			return Token{}, false, d.fail(&SyntaxError{Offset: d.off,
				Msg: "nesting too deep", Err: ErrNestingTooDeep})
		}
		d.ids++
		d.stack = append(d.stack, d.ids)

	case EndToken:
		if len(d.stack) == 0 {
			return Token{}, false, d.fail(newSyntaxError(d.off, "unexpected end marker"))
		}
		d.stack = d.stack[:len(d.stack)-1]
	}

	d.off += n
	return tok, true, nil
}

// NextObject returns the next top-level object, or false if the input
// has been consumed fully.
//
// If the previous object is a container which has not been read to its end,
// the rest of it is skipped first.
func (d *Decoder) NextObject() (Object, bool, error) {
	return d.next(0)
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}

func (d *Decoder) isOpen(level int, id uint32) bool {
	return level <= len(d.stack) && d.stack[level-1] == id
}

// drain consumes the tokens until only level containers are open.
func (d *Decoder) drain(level int) error {
	for len(d.stack) > level {
		if _, ok, err := d.NextToken(); err != nil {
			return err
		} else if !ok {
			return d.fail(newEOFError(d.off, "unterminated container"))
		}
	}
	return nil
}

// next reads the next object inside the container at the given level.
// It returns false when the end marker of the container is read.
func (d *Decoder) next(level int) (obj Object, ok bool, err error) {
	if d.err != nil {
		return Object{}, false, d.err
	} else if err = d.drain(level); err != nil {
		return
	}

	start := d.off
	tok, ok, err := d.NextToken()
	if err != nil {
		return
	} else if !ok {
		if level > 0 {
			err = d.fail(newEOFError(d.off, "unterminated container"))
		}
		return
	}

	obj = Object{dec: d, start: start, end: d.off}
	switch tok.Kind {
	case ByteStringToken:
		obj.kind, obj.data = KindByteString, tok.Data
	case IntegerToken:
		obj.kind, obj.data = KindInteger, tok.Data
	case ListStartToken:
		obj.kind, obj.level, obj.id = KindList, len(d.stack), d.stack[len(d.stack)-1]
	case DictionaryStartToken:
		obj.kind, obj.level, obj.id = KindDictionary, len(d.stack), d.stack[len(d.stack)-1]
	default: // EndToken
		return Object{}, false, nil
	}

	return obj, true, nil
}

// ListDecoder reads the elements of a list from the underlying Decoder.
type ListDecoder struct {
	dec   *Decoder
	level int
	id    uint32
}

// NextObject returns the next element, or false after the end of the list.
func (l *ListDecoder) NextObject() (Object, bool, error) {
	if l.dec.err != nil {
		return Object{}, false, l.dec.err
	} else if !l.dec.isOpen(l.level, l.id) {
		return Object{}, false, nil
	}
	return l.dec.next(l.level)
}

// Each calls fn with every remaining element of the list in order.
//
// If the element is a container which fn does not read to its end,
// the rest of it is skipped after fn returns.
func (l *ListDecoder) Each(fn func(Object) error) error {
	for {
		obj, ok, err := l.NextObject()
		if err != nil || !ok {
			return err
		} else if err = fn(obj); err != nil {
			return err
		}
	}
}

// DictionaryDecoder reads the key/value pairs of a dictionary
// from the underlying Decoder.
type DictionaryDecoder struct {
	dec   *Decoder
	level int
	id    uint32

	prev    []byte
	started bool
}

// NextPair returns the next key and its value, or false after the end
// of the dictionary.
//
// The key is the raw byte string. If the underlying Decoder is not strict,
// no check is done about the order or the uniqueness of the keys.
func (dd *DictionaryDecoder) NextPair() (key []byte, value Object, ok bool, err error) {
	d := dd.dec
	if d.err != nil {
		return nil, Object{}, false, d.err
	} else if !d.isOpen(dd.level, dd.id) {
		return nil, Object{}, false, nil
	}

	kobj, ok, err := d.next(dd.level)
	if err != nil || !ok {
		return nil, Object{}, false, err
	} else if kobj.kind != KindByteString {
		err = &SyntaxError{
			Offset: kobj.start,
			Msg:    "dictionary key must be a byte string",
			Err:    &UnexpectedObjectError{Expected: KindByteString, Actual: kobj.kind},
		}
		return nil, Object{}, false, d.fail(err)
	}

	key = kobj.data
	if d.Strict && dd.started {
		switch c := bytes.Compare(dd.prev, key); {
		case c == 0:
			err = &SyntaxError{Offset: kobj.start, Err: ErrDuplicateKey,
				Msg: "duplicate key " + strconv.Quote(string(key))}
		case c > 0:
			err = &SyntaxError{Offset: kobj.start, Err: ErrUnsortedKey,
				Msg: "key " + strconv.Quote(string(key)) + " is out of order"}
		}
		if err != nil {
			return nil, Object{}, false, d.fail(err)
		}
	}
	dd.prev, dd.started = key, true

	if d.off == len(d.data) {
		return nil, Object{}, false, d.fail(missingValueError(d.off, key))
	}

	value, ok, err = d.next(dd.level)
	if err != nil {
		return nil, Object{}, false, err
	} else if !ok {
		return nil, Object{}, false, d.fail(missingValueError(d.off-1, key))
	}

	return key, value, true, nil
}

func missingValueError(offset int, key []byte) error {
	return &SyntaxError{Offset: offset, Err: ErrMissingDictionaryValue,
		Msg: "missing value for key " + strconv.Quote(string(key))}
}

// Each calls fn with every remaining key/value pair of the dictionary
// in the input order.
//
// A container value which fn does not read to its end is skipped
// after fn returns.
func (dd *DictionaryDecoder) Each(fn func(key []byte, value Object) error) error {
	for {
		key, value, ok, err := dd.NextPair()
		if err != nil || !ok {
			return err
		} else if err = fn(key, value); err != nil {
			return err
		}
	}
}
