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

// Package bencode implements the bencode serialization format used by
// BitTorrent metadata: byte strings, integers, lists and dictionaries.
//
// The package offers two ways to read a document. Parse builds a Value tree
// of the whole document for generic inspection. The lower level Decoder is a
// zero-copy cursor over an in-memory buffer which yields Objects: a byte string
// or an integer borrowed from the buffer, or a ListDecoder/DictionaryDecoder
// which reads the nested elements lazily from the same cursor. Typed values
// are built from Objects by implementing Unmarshaler or by composing the
// DecodeFunc helpers, such as SliceOf and MapOf.
//
// Writing goes through an Encoder, which appends tokens to a byte buffer.
// Dictionaries are always written with their keys in ascending byte order,
// so the output is canonical and can be hashed, for example to compute the
// infohash of a torrent.
//
// Every slice returned by the decoding side aliases the input buffer, so the
// buffer must not be modified while they are in use.
package bencode
