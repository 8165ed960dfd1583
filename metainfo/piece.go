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
	"crypto/sha1"
	"errors"
	"io"
)

// Predefined piece lengths.
const (
	PieceSize256KB = 1024 * 256
	PieceSize512KB = 2 * PieceSize256KB
	PieceSize1MB   = 2 * PieceSize512KB
	PieceSize2MB   = 2 * PieceSize1MB
	PieceSize4MB   = 2 * PieceSize2MB
)

// Piece represents a torrent file piece.
type Piece struct {
	info  Info
	index int
}

// Piece returns the Piece by the index starting with 0.
func (info Info) Piece(index int) Piece {
	if n := len(info.Pieces); index >= n {
		panic(errors.New("the piece index is out of range"))
	}
	return Piece{info: info, index: index}
}

// Index returns the index of the current piece.
func (p Piece) Index() int { return p.index }

// Offset returns the offset that the current piece is in all the files.
func (p Piece) Offset() int64 { return int64(p.index) * p.info.PieceLength }

// Hash returns the hash representation of the piece.
func (p Piece) Hash() (h Hash) { return p.info.Pieces[p.index] }

// Length returns the length of the current piece.
func (p Piece) Length() int64 {
	if p.index == p.info.CountPieces()-1 {
		return p.info.TotalLength() - int64(p.index)*p.info.PieceLength
	}
	return p.info.PieceLength
}

// GeneratePieces generates the pieces from the reader,
// hashing every pieceLength bytes.
func GeneratePieces(r io.Reader, pieceLength int64) (hs Hashes, err error) {
	if pieceLength <= 0 {
		return nil, errZeroPieceLength
	}

	buf := make([]byte, 32*1024)
	for {
		h := sha1.New()
		written, err := io.CopyBuffer(h, io.LimitReader(r, pieceLength), buf)
		if err != nil {
			return nil, err
		} else if written > 0 {
			hs = append(hs, NewHash(h.Sum(nil)))
		}

		if written < pieceLength {
			return hs, nil
		}
	}
}
