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
	"testing"
)

func TestNextToken(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		data  string
		rest  string
	}{
		{"5:hello", ByteStringToken, "hello", ""},
		{"0:", ByteStringToken, "", ""},
		{"3:abcde", ByteStringToken, "abc", "de"},
		{"05:hello", ByteStringToken, "hello", ""},
		{"i0e", IntegerToken, "0", ""},
		{"i-1e", IntegerToken, "-1", ""},
		{"i42ei1e", IntegerToken, "42", "i1e"},
		{"i12345678901234567890e", IntegerToken, "12345678901234567890", ""},
		{"le", ListStartToken, "", "e"},
		{"de", DictionaryStartToken, "", "e"},
		{"e", EndToken, "", ""},
	}

	for _, test := range tests {
		tok, rest, err := NextToken([]byte(test.input))
		if err != nil {
			t.Errorf("%q: unexpected error: %s", test.input, err)
		} else if tok.Kind != test.kind {
			t.Errorf("%q: expect kind %s, but got %s", test.input, test.kind, tok.Kind)
		} else if string(tok.Data) != test.data {
			t.Errorf("%q: expect data %q, but got %q", test.input, test.data, tok.Data)
		} else if string(rest) != test.rest {
			t.Errorf("%q: expect rest %q, but got %q", test.input, test.rest, rest)
		}
	}
}

func TestNextTokenInvalid(t *testing.T) {
	tests := []struct {
		input  string
		eof    bool
		offset int
	}{
		{"i-0e", false, 1},
		{"i00e", false, 1},
		{"i01e", false, 1},
		{"i-01e", false, 2},
		{"ie", false, 1},
		{"i-e", false, 1},
		{"i+1e", false, 1},
		{"i1.5e", false, 2},
		{"x", false, 0},
		{":abc", false, 0},
		{"5-hello", false, 1},
		{"99999999999999999999999:", false, 0},
		{"", true, 0},
		{"6:hello", true, 7},
		{"5", true, 1},
		{"i12", true, 3},
		{"i-", true, 2},
	}

	for _, test := range tests {
		_, _, err := NextToken([]byte(test.input))
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: expect a syntax error, but got %v", test.input, err)
			continue
		}

		if eof := errors.Is(err, ErrUnexpectedEOF); eof != test.eof {
			t.Errorf("%q: expect eof %v, but got %v", test.input, test.eof, eof)
		}
		if se.Offset != test.offset {
			t.Errorf("%q: expect offset %d, but got %d", test.input, test.offset, se.Offset)
		}
	}
}

func TestNextTokenNoCopy(t *testing.T) {
	input := []byte("4:spam")
	tok, _, err := NextToken(input)
	if err != nil {
		t.Fatal(err)
	}

	input[2] = 'S'
	if string(tok.Data) != "Spam" {
		t.Errorf("expect the token to alias the input, but got %q", tok.Data)
	}

	if cap(tok.Data) != len(tok.Data) {
		t.Errorf("expect the token capacity to be clipped, but got %d", cap(tok.Data))
	}
}
