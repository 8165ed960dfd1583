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
	"path/filepath"
	"sort"

	"github.com/xgfone/go-bencode/bencode"
)

// File represents a file in the multi-file case.
type File struct {
	// Length is the length of the file in bytes.
	Length int64 // BEP 3

	// MD5Sum is the optional hex MD5 sum of the file.
	MD5Sum string

	// Paths is a list containing one or more string elements that together
	// represent the path and filename. Each element in the list corresponds
	// to either a directory name or (in the case of the final element) the
	// filename.
	//
	// For example, a the file "dir1/dir2/file.ext" would consist of three
	// string elements: "dir1", "dir2", and "file.ext". This is encoded as
	// a bencoded list of strings such as l4:dir14:dir28:file.exte.
	Paths []string // BEP 3
}

var (
	_ bencode.Marshaler   = File{}
	_ bencode.Unmarshaler = new(File)
)

func (f File) String() string {
	return filepath.Join(f.Paths...)
}

// Path returns the path of the current.
func (f File) Path(info Info) string {
	if info.IsDir() {
		return f.String()
	}
	return info.Name
}

// Offset returns the offset of the current file from the start.
func (f File) Offset(info Info) (ret int64) {
	path := f.Path(info)
	for _, file := range info.AllFiles() {
		if path == file.Path(info) {
			return
		}
		ret += file.Length
	}
	panic("not found")
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (f *File) UnmarshalBencode(obj bencode.Object) error {
	var hasLength, hasPath bool
	err := obj.EachPair(func(key []byte, value bencode.Object) (err error) {
		switch string(key) {
		case "length":
			f.Length, err = decodeLength(value)
			hasLength = true
		case "md5sum":
			f.MD5Sum, err = bencode.DecodeString(value)
		case "path":
			f.Paths, err = bencode.SliceOf(bencode.DecodeString)(value)
			hasPath = true
		default:
			return bencode.NewUnexpectedFieldError(key)
		}
		return bencode.WrapFieldError(string(key), err)
	})

	switch {
	case err != nil:
		return err
	case !hasLength:
		return bencode.NewMissingFieldError("length")
	case !hasPath:
		return bencode.NewMissingFieldError("path")
	}
	return nil
}

// MarshalBencode implements the interface bencode.Marshaler.
func (f File) MarshalBencode(e *bencode.Encoder) error {
	return e.EmitDictionary(func(de *bencode.DictionaryEncoder) error {
		if err := bencode.EncodePair(de, "length", f.Length, bencode.EncodeInteger[int64]); err != nil {
			return err
		}
		if f.MD5Sum != "" {
			if err := bencode.EncodePair(de, "md5sum", f.MD5Sum, bencode.EncodeString); err != nil {
				return err
			}
		}
		return bencode.EncodePair(de, "path", f.Paths, bencode.EncodeSlice(bencode.EncodeString))
	})
}

// FilePiece represents the piece range used by a file， which is used to
// calculate the downloaded piece when downloading the file.
type FilePiece struct {
	Index  int64 // The index of the current piece.
	Offset int64 // The offset bytes from the beginning of the current piece.
	Length int64 // The length of the data.
}

// FilePieces is a set of the piece ranges.
type FilePieces []FilePiece

// Merge sorts the piece ranges by the index and offset,
// and merges the adjacent ranges of the same piece into one.
func (fps FilePieces) Merge() FilePieces {
	if len(fps) < 2 {
		return fps
	}

	sort.Slice(fps, func(i, j int) bool {
		if fps[i].Index == fps[j].Index {
			return fps[i].Offset < fps[j].Offset
		}
		return fps[i].Index < fps[j].Index
	})

	merged := make(FilePieces, 0, len(fps))
	merged = append(merged, fps[0])
	for _, fp := range fps[1:] {
		last := &merged[len(merged)-1]
		if last.Index == fp.Index && last.Offset+last.Length >= fp.Offset {
			if end := fp.Offset + fp.Length; end > last.Offset+last.Length {
				last.Length = end - last.Offset
			}
		} else {
			merged = append(merged, fp)
		}
	}
	return merged
}

// FilePieces returns the information of the pieces referred by the file.
func (f File) FilePieces(info Info) (fps FilePieces) {
	if f.Length < 1 {
		return nil
	}

	startOffset := f.Offset(info)
	startPieceIndex := startOffset / info.PieceLength
	startPieceOffset := startOffset % info.PieceLength

	endOffset := startOffset + f.Length
	endPieceIndex := endOffset / info.PieceLength
	endPieceOffset := endOffset % info.PieceLength

	if startPieceIndex == endPieceIndex {
		return FilePieces{{
			Index:  startPieceIndex,
			Offset: startPieceOffset,
			Length: endPieceOffset - startPieceOffset,
		}}
	}

	fps = make(FilePieces, 0, endPieceIndex-startPieceIndex+1)
	fps = append(fps, FilePiece{
		Index:  startPieceIndex,
		Offset: startPieceOffset,
		Length: info.PieceLength - startPieceOffset,
	})
	for i := startPieceIndex + 1; i < endPieceIndex; i++ {
		fps = append(fps, FilePiece{Index: i, Length: info.PieceLength})
	}
	if endPieceOffset > 0 {
		fps = append(fps, FilePiece{Index: endPieceIndex, Length: endPieceOffset})
	}
	return
}
