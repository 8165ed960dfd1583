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
	"errors"
	"fmt"
	"strconv"
)

// Predefined errors. They are either returned directly or wrapped by one of
// the error types below, so check them with errors.Is.
var (
	ErrUnexpectedEOF          = errors.New("bencode: unexpected end of input")
	ErrEmptyInput             = errors.New("bencode: no object in input")
	ErrTrailingData           = errors.New("bencode: trailing data after top-level value")
	ErrMissingDictionaryValue = errors.New("bencode: dictionary key without value")
	ErrDuplicateKey           = errors.New("bencode: duplicate dictionary key")
	ErrUnsortedKey            = errors.New("bencode: dictionary keys are not sorted")
	ErrIntegerOverflow        = errors.New("bencode: integer out of range")
	ErrInvalidUTF8            = errors.New("bencode: invalid utf-8 string")
	ErrAbsentOption           = errors.New("bencode: absent optional value")
	ErrClosedObject           = errors.New("bencode: container has already been consumed")
	ErrNestingTooDeep         = errors.New("bencode: containers nested too deep")
)

// SyntaxError is returned when the input does not follow the bencode grammar.
type SyntaxError struct {
	Offset int    // offset of the offending byte in the whole input
	Msg    string // description of the error
	Err    error  // optional underlying error, such as ErrUnexpectedEOF
}

func newSyntaxError(offset int, msg string) *SyntaxError {
	return &SyntaxError{Offset: offset, Msg: msg}
}

func newEOFError(offset int, msg string) *SyntaxError {
	return &SyntaxError{Offset: offset, Msg: msg, Err: ErrUnexpectedEOF}
}

func (e *SyntaxError) Error() string {
	return "bencode: syntax error at offset " + strconv.Itoa(e.Offset) + ": " + e.Msg
}

// Unwrap returns the underlying error.
func (e *SyntaxError) Unwrap() error { return e.Err }

// UnexpectedObjectError is returned when an Object or a Value has another
// shape than the one requested.
type UnexpectedObjectError struct {
	Expected Kind
	Actual   Kind
}

func (e *UnexpectedObjectError) Error() string {
	return fmt.Sprintf("bencode: expected %s, found %s", e.Expected, e.Actual)
}

// MissingFieldError is returned by a schema when a required dictionary key
// was not present.
type MissingFieldError struct {
	Field string
}

// NewMissingFieldError returns a new MissingFieldError.
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("bencode: missing field %q", e.Field)
}

// UnexpectedFieldError is returned by a schema when a dictionary contains
// a key it does not know.
type UnexpectedFieldError struct {
	Field string
}

// NewUnexpectedFieldError returns a new UnexpectedFieldError
// with the raw dictionary key.
func NewUnexpectedFieldError(key []byte) *UnexpectedFieldError {
	return &UnexpectedFieldError{Field: string(key)}
}

func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("bencode: unexpected field %q", e.Field)
}

// ConversionError is returned when a scalar has the right shape
// but cannot be converted to the target type.
type ConversionError struct {
	Type  string // the target type
	Value string // the raw bencode scalar
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("bencode: cannot convert %q to %s: %s", e.Value, e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error { return e.Err }

// FieldError annotates an error returned while decoding the value
// of a dictionary field.
type FieldError struct {
	Field string
	Err   error
}

// WrapFieldError wraps err with the field name, or returns nil if err is nil.
func WrapFieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error { return e.Err }
