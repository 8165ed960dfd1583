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

package metainfo

import (
	"errors"
	"fmt"

	"github.com/xgfone/go-bencode/bencode"
)

var (
	errNegativeLength  = errors.New("the length must not be negative")
	errZeroPieceLength = errors.New("the piece length must be positive")
	errLengthAndFiles  = errors.New("'length' and 'files' are mutually exclusive")
)

// Info is the file information of the torrent, that's, the "info" dictionary.
type Info struct {
	// Name is the name of the file in the single file case.
	// Or, it is the name of the directory in the muliple file case.
	Name string // BEP 3

	// PieceLength is the number of bytes in each piece, which is usually
	// a power of 2.
	PieceLength int64 // BEP 3

	// Pieces is the concatenation of all 20-byte SHA1 hash values,
	// one per piece (byte string, i.e. not urlencoded).
	Pieces Hashes // BEP 3

	// Length is the length of the file in bytes in the single file case.
	//
	// It's mutually exclusive with Files.
	Length int64 // BEP 3

	// MD5Sum is the optional hex MD5 sum of the file in the single file case.
	MD5Sum string

	// Files is the list of all the files in the multi-file case.
	//
	// For the purposes of the other keys, the multi-file case is treated
	// as only having a single file by concatenating the files in the order
	// they appear in the files list.
	//
	// It's mutually exclusive with Length.
	Files []File // BEP 3

	// Private forbids the peers from other sources than the trackers if true.
	Private bencode.Option[bool] // BEP 27

	// Source is the optional tag of the source, used by private trackers
	// to give the torrent a distinct info-hash.
	Source string
}

var (
	_ bencode.Marshaler   = Info{}
	_ bencode.Unmarshaler = new(Info)
)

func decodeLength(obj bencode.Object) (int64, error) {
	n, err := bencode.DecodeInteger[int64](obj)
	if err == nil && n < 0 {
		err = errNegativeLength
	}
	return n, err
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// It fails with *bencode.UnexpectedFieldError for an unknown key,
// and *bencode.MissingFieldError for the absent required one.
func (info *Info) UnmarshalBencode(obj bencode.Object) error {
	var hasName, hasPieceLength, hasPieces, hasLength, hasFiles bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "name":
			info.Name, err = bencode.DecodeString(value)
			hasName = true
		case "piece length":
			info.PieceLength, err = decodeLength(value)
			if err == nil && info.PieceLength == 0 {
				err = errZeroPieceLength
			}
			hasPieceLength = true
		case "pieces":
			err = info.Pieces.UnmarshalBencode(value)
			hasPieces = true
		case "length":
			info.Length, err = decodeLength(value)
			hasLength = true
		case "md5sum":
			info.MD5Sum, err = bencode.DecodeString(value)
		case "files":
			info.Files, err = bencode.SliceOf(bencode.DecodeUnmarshaler[File])(value)
			hasFiles = true
		case "private":
			info.Private, err = bencode.OptionOf(bencode.DecodeBool)(value)
		case "source":
			info.Source, err = bencode.DecodeString(value)
		default:
			return bencode.NewUnexpectedFieldError(key)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	switch {
	case err != nil:
		return err
	case !hasName:
		return bencode.NewMissingFieldError("name")
	case !hasPieceLength:
		return bencode.NewMissingFieldError("piece length")
	case !hasPieces:
		return bencode.NewMissingFieldError("pieces")
	case hasLength && hasFiles:
		return errLengthAndFiles
	case !hasLength && !hasFiles:
		return bencode.NewMissingFieldError("length")
	}
	return nil
}

// MarshalBencode implements the interface bencode.Marshaler.
func (info Info) MarshalBencode(e *bencode.Encoder) error {
	if info.IsDir() && info.Length > 0 {
		return errLengthAndFiles
	}

	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) (err error) {
		if err = bencode.EncodePair(de, "name", info.Name, bencode.EncodeString); err != nil {
			return
		}
		if err = bencode.EncodePair(de, "piece length", info.PieceLength, bencode.EncodeInteger[int64]); err != nil {
			return
		}
		if err = de.EmitPair("pieces", info.Pieces); err != nil {
			return
		}

		if info.IsDir() {
			err = bencode.EncodePair(de, "files", info.Files, bencode.EncodeSlice(bencode.EncodeMarshaler[File]))
		} else {
			err = bencode.EncodePair(de, "length", info.Length, bencode.EncodeInteger[int64])
		}
		if err != nil {
			return
		}

		if info.MD5Sum != "" {
			if err = bencode.EncodePair(de, "md5sum", info.MD5Sum, bencode.EncodeString); err != nil {
				return
			}
		}
		if info.Source != "" {
			if err = bencode.EncodePair(de, "source", info.Source, bencode.EncodeString); err != nil {
				return
			}
		}
		return bencode.EncodeOptionalPair(de, "private", info.Private, bencode.EncodeBool)
	})
}

// IsDir reports whether the name is a directory, that's, the file is not
// a single file.
func (info Info) IsDir() bool { return len(info.Files) != 0 }

// IsPrivate reports whether the torrent is private.
func (info Info) IsPrivate() bool { return info.Private.Or(false) }

// CountPieces returns the number of the pieces.
func (info Info) CountPieces() int { return len(info.Pieces) }

// TotalLength returns the total length of the torrent file.
func (info Info) TotalLength() (ret int64) {
	if info.IsDir() {
		for _, fi := range info.Files {
			ret += fi.Length
		}
	} else {
		ret = info.Length
	}
	return
}

// PieceOffset returns the total offset of the piece.
//
// offset is the offset relative to the beginning of the piece.
func (info Info) PieceOffset(index, offset uint32) int64 {
	return int64(index)*info.PieceLength + int64(offset)
}

// GetFileByOffset returns the file and its offset by the total offset.
//
// If fileOffset is eqaul to file.Length, it means to reach the end.
func (info Info) GetFileByOffset(offset int64) (file File, fileOffset int64) {
	if !info.IsDir() {
		if offset > info.Length {
			panic(fmt.Errorf("offset '%d' exceeds the maximum length '%d'",
				offset, info.Length))
		}
		return File{Length: info.Length, Paths: []string{info.Name}}, offset
	}

	fileOffset = offset
	for i, _len := 0, len(info.Files)-1; i <= _len; i++ {
		file = info.Files[i]
		if fileOffset < file.Length {
			return
		} else if fileOffset == file.Length && i == _len {
			return
		}
		fileOffset -= file.Length
	}

	if fileOffset > file.Length {
		panic(fmt.Errorf("offset '%d' exceeds the maximum length '%d'",
			offset, info.TotalLength()))
	}

	return
}

// AllFiles returns all the files.
//
// Notice: for the single file, the Path is nil.
func (info Info) AllFiles() []File {
	if info.IsDir() {
		return info.Files
	}
	return []File{{Length: info.Length}}
}
