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

// TokenKind is the kind of a lexical token.
type TokenKind uint8

// Predefine some token kinds.
const (
	ByteStringToken TokenKind = iota + 1
	IntegerToken
	ListStartToken
	DictionaryStartToken
	EndToken
)

func (k TokenKind) String() string {
	switch k {
	case ByteStringToken:
		return "ByteString"
	case IntegerToken:
		return "Integer"
	case ListStartToken:
		return "ListStart"
	case DictionaryStartToken:
		return "DictionaryStart"
	case EndToken:
		return "End"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is one lexical unit of a bencode document.
//
// For ByteStringToken, Data is the content of the string. For IntegerToken,
// Data is the textual digits with the optional leading '-'. Data is empty
// for the other kinds. Data always aliases the input.
type Token struct {
	Kind TokenKind
	Data []byte
}

// NextToken recognizes the token at the front of b and returns it together
// with the unconsumed remainder.
//
// The grammars are tried in the order byte string, integer, list start,
// dictionary start and end marker. If b holds only the prefix of a token,
// the returned error wraps ErrUnexpectedEOF. Otherwise, a *SyntaxError is
// returned when b starts with none of them.
func NextToken(b []byte) (tok Token, rest []byte, err error) {
	tok, n, err := lex(b)
	if err != nil {
		return
	}
	return tok, b[n:], nil
}

// lex returns the token at the front of b and the number of consumed bytes.
// The offset of a returned *SyntaxError is relative to b.
func lex(b []byte) (Token, int, error) {
	if len(b) == 0 {
		return Token{}, 0, newEOFError(0, "expected a token")
	}

	switch c := b[0]; {
	case isDigit(c):
		return lexByteString(b)
	case c == 'i':
		return lexInteger(b)
	case c == 'l':
		return Token{Kind: ListStartToken}, 1, nil
	case c == 'd':
		return Token{Kind: DictionaryStartToken}, 1, nil
	case c == 'e':
		return Token{Kind: EndToken}, 1, nil
	default:
		return Token{}, 0, newSyntaxError(0, "invalid character "+strconv.QuoteRune(rune(c)))
	}
}

// maxLength is the upper bound of a byte string length.
const maxLength = int(^uint(0) >> 1)

func lexByteString(b []byte) (Token, int, error) {
	var length int
	i := 0
	for ; i < len(b) && isDigit(b[i]); i++ {
		d := int(b[i] - '0')
		if length > (maxLength-d)/10 {
			return Token{}, 0, newSyntaxError(0, "byte string length overflows")
		}
		length = length*10 + d
	}

	switch {
	case i == len(b):
		return Token{}, 0, newEOFError(i, "unterminated byte string length")
	case b[i] != ':':
		return Token{}, 0, newSyntaxError(i, "invalid byte string length")
	}

	start := i + 1
	if len(b)-start < length {
		return Token{}, 0, newEOFError(len(b), "byte string of length "+
			strconv.Itoa(length)+" is truncated")
	}

	end := start + length
	return Token{Kind: ByteStringToken, Data: b[start:end:end]}, end, nil
}

func lexInteger(b []byte) (Token, int, error) {
	i := 1
	if i < len(b) && b[i] == '-' {
		i++
	}

	for i < len(b) && isDigit(b[i]) {
		i++
	}

	if i == len(b) {
		return Token{}, 0, newEOFError(i, "unterminated integer")
	} else if b[i] != 'e' {
		return Token{}, 0, newSyntaxError(i, "invalid character "+
			strconv.QuoteRune(rune(b[i]))+" in integer")
	}

	if err := checkIntegerDigits(b[1:i]); err != nil {
		err.Offset++
		return Token{}, 0, err
	}

	return Token{Kind: IntegerToken, Data: b[1:i:i]}, i + 1, nil
}

// checkIntegerDigits reports whether s is the canonical textual form of an
// integer: an optional '-' followed by digits without any leading zero,
// where "-0" is not allowed.
func checkIntegerDigits(s []byte) *SyntaxError {
	digits := s
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}

	switch {
	case len(digits) == 0:
		return newSyntaxError(0, "integer has no digits")
	case digits[0] == '0' && len(digits) > 1:
		return newSyntaxError(len(s)-len(digits), "integer has a leading zero")
	case digits[0] == '0' && len(s) != len(digits):
		return newSyntaxError(0, "negative zero")
	}

	for i, c := range digits {
		if !isDigit(c) {
			return newSyntaxError(len(s)-len(digits)+i, "invalid character "+
				strconv.QuoteRune(rune(c))+" in integer")
		}
	}
	return nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
