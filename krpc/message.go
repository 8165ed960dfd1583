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

package krpc

import (
	"errors"
	"fmt"

	"github.com/xgfone/go-bencode/bencode"
	"github.com/xgfone/go-bencode/metainfo"
)

// Predefined KRPC error codes.
//
// BEP 5
const (
	ErrorCodeGenericError  = 201
	ErrorCodeServerError   = 202
	ErrorCodeProtocolError = 203
	ErrorCodeMethodUnknown = 204
)

// Predefined KRPC message types.
const (
	TypeQuery    = "q"
	TypeResponse = "r"
	TypeError    = "e"
)

var errInvalidError = errors.New("the KRPC error must be a list of the code and the reason")

// Error represents a KRPC error, which is encoded as the list
// of the code and the reason.
type Error struct {
	Code   int
	Reason string
}

// NewError returns a new Error.
func NewError(code int, reason string) Error {
	return Error{Code: code, Reason: reason}
}

func (e Error) Error() string {
	return fmt.Sprintf("krpc error %d: %s", e.Code, e.Reason)
}

// MarshalBencode implements the interface bencode.Marshaler.
func (e Error) MarshalBencode(enc *bencode.Encoder) error {
	return enc.EmitList(func(enc *bencode.Encoder) error {
		enc.EmitInt(int64(e.Code))
		enc.EmitString(e.Reason)
		return nil
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (e *Error) UnmarshalBencode(obj bencode.Object) error {
	l, err := obj.List()
	if err != nil {
		return err
	}

	var n int
	err = l.Each(func(o bencode.Object) (err error) {
		switch n++; n {
		case 1:
			e.Code, err = bencode.DecodeInteger[int](o)
		case 2:
			var reason []byte
			reason, err = bencode.DecodeBytes(o)
			e.Reason = string(reason)
		default:
			err = errInvalidError
		}
		return
	})

	if err == nil && n != 2 {
		err = errInvalidError
	}
	return err
}

// QueryArg represents the arguments of a query, that's, "a".
type QueryArg struct {
	ID          metainfo.Hash // All
	Target      metainfo.Hash // "find_node"
	InfoHash    metainfo.Hash // "get_peers" and "announce_peer"
	Port        bencode.Option[uint16]
	ImpliedPort bool     // "announce_peer"
	Token       string   // "announce_peer"
	Want        []string // BEP 32, such as "n4" and "n6"
}

// MarshalBencode implements the interface bencode.Marshaler.
func (a QueryArg) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		if err = de.EmitPair("id", a.ID); err != nil {
			return
		}
		if !a.Target.IsZero() {
			if err = de.EmitPair("target", a.Target); err != nil {
				return
			}
		}
		if !a.InfoHash.IsZero() {
			if err = de.EmitPair("info_hash", a.InfoHash); err != nil {
				return
			}
		}
		if a.ImpliedPort {
			if err = bencode.EncodePair(de, "implied_port", true, bencode.EncodeBool); err != nil {
				return
			}
		}
		if a.Token != "" {
			if err = bencode.EncodePair(de, "token", []byte(a.Token), bencode.EncodeBytes); err != nil {
				return
			}
		}
		if len(a.Want) > 0 {
			if err = bencode.EncodePair(de, "want", a.Want, bencode.EncodeSlice(bencode.EncodeString)); err != nil {
				return
			}
		}
		return bencode.EncodeOptionalPair(de, "port", a.Port, bencode.EncodeInteger[uint16])
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The unknown keys are ignored.
func (a *QueryArg) UnmarshalBencode(obj bencode.Object) error {
	var hasID bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "id":
			err = a.ID.UnmarshalBencode(value)
			hasID = true
		case "target":
			err = a.Target.UnmarshalBencode(value)
		case "info_hash":
			err = a.InfoHash.UnmarshalBencode(value)
		case "port":
			a.Port, err = bencode.OptionOf(bencode.DecodeInteger[uint16])(value)
		case "implied_port":
			a.ImpliedPort, err = bencode.DecodeBool(value)
		case "token":
			var token []byte
			token, err = bencode.DecodeBytes(value)
			a.Token = string(token)
		case "want":
			a.Want, err = bencode.SliceOf(bencode.DecodeString)(value)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	if err == nil && !hasID {
		err = bencode.NewMissingFieldError("id")
	}
	return err
}

// ResponseResult represents the result of a response, that's, "r".
type ResponseResult struct {
	ID     metainfo.Hash          // All
	Nodes  CompactIPv4Nodes       // "find_node" and "get_peers"
	Nodes6 CompactIPv6Nodes       // BEP 32
	Token  string                 // "get_peers"
	Values []metainfo.CompactAddr // "get_peers"
}

// MarshalBencode implements the interface bencode.Marshaler.
func (r ResponseResult) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		if err = de.EmitPair("id", r.ID); err != nil {
			return
		}
		if len(r.Nodes) > 0 {
			if err = de.EmitPair("nodes", r.Nodes); err != nil {
				return
			}
		}
		if len(r.Nodes6) > 0 {
			if err = de.EmitPair("nodes6", r.Nodes6); err != nil {
				return
			}
		}
		if r.Token != "" {
			if err = bencode.EncodePair(de, "token", []byte(r.Token), bencode.EncodeBytes); err != nil {
				return
			}
		}
		if len(r.Values) > 0 {
			encode := bencode.EncodeSlice(bencode.EncodeMarshaler[metainfo.CompactAddr])
			if err = bencode.EncodePair(de, "values", r.Values, encode); err != nil {
				return
			}
		}
		return nil
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The unknown keys are ignored.
func (r *ResponseResult) UnmarshalBencode(obj bencode.Object) error {
	var hasID bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "id":
			err = r.ID.UnmarshalBencode(value)
			hasID = true
		case "nodes":
			err = r.Nodes.UnmarshalBencode(value)
		case "nodes6":
			err = r.Nodes6.UnmarshalBencode(value)
		case "token":
			var token []byte
			token, err = bencode.DecodeBytes(value)
			r.Token = string(token)
		case "values":
			r.Values, err = bencode.SliceOf(bencode.DecodeUnmarshaler[metainfo.CompactAddr])(value)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	if err == nil && !hasID {
		err = bencode.NewMissingFieldError("id")
	}
	return err
}

// Message represents messages that nodes in the network send to each other
// as specified by the protocol. They are also referred to as the KRPC
// messages.
//
// There are three types of messages: QUERY, RESPONSE, ERROR.
// The message is a dictionary that is sent from one node to another.
//
// BEP 5
type Message struct {
	T  string         // Transaction ID
	Y  string         // Message type: "q", "r" or "e"
	Q  string         // Query method
	A  QueryArg       // Query arguments
	R  ResponseResult // Response result
	E  Error          // Error
	V  string         // Client version
	RO bool           // Read-only node, BEP 43
}

// NewQueryMessage returns a new query message.
func NewQueryMessage(tid, method string, arg QueryArg) Message {
	return Message{T: tid, Y: TypeQuery, Q: method, A: arg}
}

// NewResponseMessage returns a new response message.
func NewResponseMessage(tid string, result ResponseResult) Message {
	return Message{T: tid, Y: TypeResponse, R: result}
}

// NewErrorMessage returns a new error message.
func NewErrorMessage(tid string, code int, reason string) Message {
	return Message{T: tid, Y: TypeError, E: NewError(code, reason)}
}

// IsQuery reports whether the message is a query.
func (m Message) IsQuery() bool { return m.Y == TypeQuery }

// IsResponse reports whether the message is a response.
func (m Message) IsResponse() bool { return m.Y == TypeResponse }

// IsError reports whether the message is an error.
func (m Message) IsError() bool { return m.Y == TypeError }

// MarshalBencode implements the interface bencode.Marshaler.
func (m Message) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		if err = bencode.EncodePair(de, "t", []byte(m.T), bencode.EncodeBytes); err != nil {
			return
		}
		if err = bencode.EncodePair(de, "y", m.Y, bencode.EncodeString); err != nil {
			return
		}

		switch m.Y {
		case TypeQuery:
			if err = bencode.EncodePair(de, "q", m.Q, bencode.EncodeString); err == nil {
				err = de.EmitPair("a", m.A)
			}
		case TypeResponse:
			err = de.EmitPair("r", m.R)
		case TypeError:
			err = de.EmitPair("e", m.E)
		}
		if err != nil {
			return
		}

		if m.V != "" {
			if err = bencode.EncodePair(de, "v", []byte(m.V), bencode.EncodeBytes); err != nil {
				return
			}
		}
		if m.RO {
			err = bencode.EncodePair(de, "ro", true, bencode.EncodeBool)
		}
		return
	})
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The unknown keys are ignored.
func (m *Message) UnmarshalBencode(obj bencode.Object) error {
	var hasT, hasY bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "t":
			var tid []byte
			tid, err = bencode.DecodeBytes(value)
			m.T, hasT = string(tid), true
		case "y":
			m.Y, err = bencode.DecodeString(value)
			hasY = true
		case "q":
			m.Q, err = bencode.DecodeString(value)
		case "a":
			err = m.A.UnmarshalBencode(value)
		case "r":
			err = m.R.UnmarshalBencode(value)
		case "e":
			err = m.E.UnmarshalBencode(value)
		case "v":
			var v []byte
			v, err = bencode.DecodeBytes(value)
			m.V = string(v)
		case "ro":
			m.RO, err = bencode.DecodeBool(value)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	switch {
	case err != nil:
		return err
	case !hasT:
		return bencode.NewMissingFieldError("t")
	case !hasY:
		return bencode.NewMissingFieldError("y")
	}
	return nil
}

// DecodeMessage decodes a KRPC message from the UDP packet.
//
// The packet must contain exactly one message.
func DecodeMessage(packet []byte) (m Message, err error) {
	dec := bencode.NewDecoder(packet)
	obj, ok, err := dec.NextObject()
	switch {
	case err != nil:
		return
	case !ok:
		err = bencode.ErrEmptyInput
		return
	}

	if err = m.UnmarshalBencode(obj); err == nil && len(dec.Remaining()) > 0 {
		err = &bencode.SyntaxError{Offset: dec.Offset(), Msg: "trailing data after message", Err: bencode.ErrTrailingData}
	}
	return
}

// EncodeMessage encodes the KRPC message.
func EncodeMessage(m Message) ([]byte, error) {
	return bencode.Marshal(m)
}
