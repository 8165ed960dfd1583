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
	"math"
	"math/big"
	"net/netip"
	"testing"
)

func TestDecodeInteger(t *testing.T) {
	if v, err := UnmarshalWith([]byte("i255e"), DecodeInteger[uint8]); err != nil || v != 255 {
		t.Errorf("expect 255, but got %d (%v)", v, err)
	}
	if _, err := UnmarshalWith([]byte("i256e"), DecodeInteger[uint8]); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("expect ErrIntegerOverflow, but got %v", err)
	}
	if v, err := UnmarshalWith([]byte("i-128e"), DecodeInteger[int8]); err != nil || v != -128 {
		t.Errorf("expect -128, but got %d (%v)", v, err)
	}
	if _, err := UnmarshalWith([]byte("i-129e"), DecodeInteger[int8]); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("expect ErrIntegerOverflow, but got %v", err)
	}
	if _, err := UnmarshalWith([]byte("i-1e"), DecodeInteger[uint64]); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("expect ErrIntegerOverflow, but got %v", err)
	}
	if v, err := UnmarshalWith([]byte("i18446744073709551615e"), DecodeInteger[uint64]); err != nil || v != math.MaxUint64 {
		t.Errorf("expect MaxUint64, but got %d (%v)", v, err)
	}
	if _, err := UnmarshalWith([]byte("i18446744073709551616e"), DecodeInteger[uint64]); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("expect ErrIntegerOverflow, but got %v", err)
	}

	var ce *ConversionError
	if _, err := UnmarshalWith([]byte("i70000e"), DecodeInteger[int16]); !errors.As(err, &ce) {
		t.Errorf("expect a ConversionError, but got %v", err)
	} else if ce.Type != "int16" || ce.Value != "70000" {
		t.Errorf("unexpected conversion error: %s", ce)
	}
}

func TestDecodeBigInt(t *testing.T) {
	input := "i-340282366920938463463374607431768211456e"
	expect, _ := new(big.Int).SetString("-340282366920938463463374607431768211456", 10)
	if v, err := UnmarshalWith([]byte(input), DecodeBigInt); err != nil {
		t.Error(err)
	} else if v.Cmp(expect) != 0 {
		t.Errorf("expect %s, but got %s", expect, v)
	}

	var oe *UnexpectedObjectError
	if _, err := UnmarshalWith([]byte("2:12"), DecodeBigInt); !errors.As(err, &oe) {
		t.Errorf("expect an UnexpectedObjectError, but got %v", err)
	}
}

func TestDecodeShapeMismatch(t *testing.T) {
	_, err := UnmarshalWith([]byte("4:spam"), DecodeInteger[uint32])

	var oe *UnexpectedObjectError
	if !errors.As(err, &oe) {
		t.Fatalf("expect an UnexpectedObjectError, but got %v", err)
	} else if oe.Expected != KindInteger || oe.Actual != KindByteString {
		t.Errorf("expect integer/byte string, but got %s/%s", oe.Expected, oe.Actual)
	}

	if _, err = UnmarshalWith([]byte("i1e"), DecodeString); !errors.As(err, &oe) {
		t.Errorf("expect an UnexpectedObjectError, but got %v", err)
	}
	if _, err = UnmarshalWith([]byte("i1e"), SliceOf(DecodeString)); !errors.As(err, &oe) {
		t.Errorf("expect an UnexpectedObjectError, but got %v", err)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := UnmarshalWith(nil, DecodeString); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expect ErrEmptyInput, but got %v", err)
	}

	var v Value
	if err := Unmarshal([]byte{}, &v); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expect ErrEmptyInput, but got %v", err)
	}
}

func TestDecodeStringAndBytes(t *testing.T) {
	if s, err := UnmarshalWith([]byte("5:hello"), DecodeString); err != nil || s != "hello" {
		t.Errorf("expect 'hello', but got %q (%v)", s, err)
	}
	if _, err := UnmarshalWith([]byte("2:\xc3\x28"), DecodeString); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expect ErrInvalidUTF8, but got %v", err)
	}
	if b, err := UnmarshalWith([]byte("2:\xc3\x28"), DecodeBytes); err != nil || string(b) != "\xc3\x28" {
		t.Errorf("expect the raw bytes, but got %q (%v)", b, err)
	}
}

func TestDecodeBool(t *testing.T) {
	if v, err := UnmarshalWith([]byte("i1e"), DecodeBool); err != nil || !v {
		t.Errorf("expect true, but got %v (%v)", v, err)
	}
	if _, err := UnmarshalWith([]byte("i2e"), DecodeBool); err == nil {
		t.Error("expect an error, but got nil")
	}
}

func TestSliceOf(t *testing.T) {
	vs, err := UnmarshalWith([]byte("lli1ei2eeli3eee"), SliceOf(SliceOf(DecodeInteger[int])))
	if err != nil {
		t.Fatal(err)
	} else if len(vs) != 2 || len(vs[0]) != 2 || len(vs[1]) != 1 || vs[1][0] != 3 {
		t.Errorf("unexpected result %v", vs)
	}

	if _, err = UnmarshalWith([]byte("li1e1:xe"), SliceOf(DecodeInteger[int])); err == nil {
		t.Error("expect an error for the second element, but got nil")
	}

	if vs, err := UnmarshalWith([]byte("le"), SliceOf(DecodeString)); err != nil || vs == nil || len(vs) != 0 {
		t.Errorf("expect an empty slice, but got %v (%v)", vs, err)
	}
}

func TestMapOf(t *testing.T) {
	m, err := UnmarshalWith([]byte("d1:ai1e1:bi2e1:ai3ee"), MapOf(DecodeString, DecodeInteger[int]))
	if err != nil {
		t.Fatal(err)
	} else if len(m) != 2 || m["a"] != 3 || m["b"] != 2 {
		t.Errorf("unexpected result %v", m)
	}

	_, err = UnmarshalWith([]byte("d1:a1:xe"), MapOf(DecodeString, DecodeInteger[int]))
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "a" {
		t.Errorf("expect a FieldError for 'a', but got %v", err)
	}
}

func TestOrderedMapOf(t *testing.T) {
	m, err := UnmarshalWith([]byte("d1:ci1e1:ai2e1:bi3ee"), OrderedMapOf(DecodeString, DecodeInteger[int]))
	if err != nil {
		t.Fatal(err)
	}

	var keys string
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys += p.Key
	}
	if keys != "cab" {
		t.Errorf("expect the order 'cab', but got %q", keys)
	}
}

func TestDecodeAddr(t *testing.T) {
	addr, err := UnmarshalWith([]byte("7:1.2.3.4"), DecodeAddr)
	if err != nil || addr != netip.MustParseAddr("1.2.3.4") {
		t.Errorf("expect 1.2.3.4, but got %s (%v)", addr, err)
	}

	ap, err := UnmarshalWith([]byte("8:[::1]:80"), DecodeAddrPort)
	if err != nil || ap != netip.MustParseAddrPort("[::1]:80") {
		t.Errorf("expect [::1]:80, but got %s (%v)", ap, err)
	}

	var ce *ConversionError
	if _, err = UnmarshalWith([]byte("3:abc"), DecodeAddr); !errors.As(err, &ce) {
		t.Errorf("expect a ConversionError, but got %v", err)
	}

	if ip, err := UnmarshalWith([]byte("3:::1"), DecodeIP); err != nil || ip.String() != "::1" {
		t.Errorf("expect ::1, but got %s (%v)", ip, err)
	}

	if u, err := UnmarshalWith([]byte("19:http://a.b/announce"), DecodeURL); err != nil || u.Host != "a.b" {
		t.Errorf("expect the host a.b, but got %v (%v)", u, err)
	}
}

// peer is a small schema decoded field by field.
type peer struct {
	ID   []byte
	IP   netip.Addr
	Port uint16
	Name Option[string]
}

func (p *peer) UnmarshalBencode(obj Object) error {
	var hasID, hasIP, hasPort bool
	err := obj.EachPair(func(key []byte, value Object) (err error) {
		switch string(key) {
		case "id":
			p.ID, err = DecodeBytes(value)
			hasID = true
		case "ip":
			p.IP, err = DecodeAddr(value)
			hasIP = true
		case "port":
			p.Port, err = DecodeInteger[uint16](value)
			hasPort = true
		case "name":
			p.Name, err = OptionOf(DecodeString)(value)
		default:
			return NewUnexpectedFieldError(key)
		}
		return WrapFieldError(string(key), err)
	})

	switch {
	case err != nil:
		return err
	case !hasID:
		return NewMissingFieldError("id")
	case !hasIP:
		return NewMissingFieldError("ip")
	case !hasPort:
		return NewMissingFieldError("port")
	}
	return nil
}

func (p peer) MarshalBencode(e *Encoder) error {
	return e.EmitDictionary(func(de *DictionaryEncoder) error {
		if err := EncodeOptionalPair(de, "name", p.Name, EncodeString); err != nil {
			return err
		}
		if err := EncodePair(de, "port", p.Port, EncodeInteger[uint16]); err != nil {
			return err
		}
		if err := EncodePair(de, "ip", p.IP, EncodeText[netip.Addr]); err != nil {
			return err
		}
		return EncodePair(de, "id", p.ID, EncodeBytes)
	})
}

func TestSchema(t *testing.T) {
	input := "d2:id2:ab2:ip7:1.2.3.44:porti6881ee"

	var p peer
	if err := Unmarshal([]byte(input), &p); err != nil {
		t.Fatal(err)
	} else if string(p.ID) != "ab" || p.IP.String() != "1.2.3.4" || p.Port != 6881 {
		t.Errorf("unexpected peer %+v", p)
	} else if _, ok := p.Name.Get(); ok {
		t.Error("expect no name")
	}

	if output, err := Marshal(p); err != nil {
		t.Error(err)
	} else if string(output) != input {
		t.Errorf("expect %q, but got %q", input, output)
	}

	p.Name = Some("seed")
	if output, err := Marshal(p); err != nil {
		t.Error(err)
	} else if expect := "d2:id2:ab2:ip7:1.2.3.44:name4:seed4:porti6881ee"; string(output) != expect {
		t.Errorf("expect %q, but got %q", expect, output)
	}

	var p2 peer
	err := Unmarshal([]byte("d2:id2:ab2:ip7:1.2.3.45:extrai1ee"), &p2)
	var ufe *UnexpectedFieldError
	if !errors.As(err, &ufe) || ufe.Field != "extra" {
		t.Errorf("expect an UnexpectedFieldError, but got %v", err)
	}

	err = Unmarshal([]byte("d2:id2:ab2:ip7:1.2.3.4e"), &p2)
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) || mfe.Field != "port" {
		t.Errorf("expect a MissingFieldError for 'port', but got %v", err)
	}

	err = Unmarshal([]byte("d2:id2:ab2:ip7:1.2.3.44:porti70000ee"), &p2)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "port" || !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("expect an overflow of 'port', but got %v", err)
	}
}
