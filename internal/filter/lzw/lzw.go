// seehuhn.de/go/pdfstream - a library for decoding PDF streams
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package lzw implements the LZWDecode filter.
package lzw

import (
	"compress/lzw"
	"errors"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// Decode returns a reader which decompresses LZW data read from r.
//
// If earlyChange is true, the code width is increased one code early, as
// in TIFF files.  This corresponds to the default /EarlyChange 1 in PDF
// files.  A missing end-of-data code is not treated as an error.
func Decode(r io.Reader, earlyChange bool) io.ReadCloser {
	var lr io.ReadCloser
	if earlyChange {
		lr = tifflzw.NewReader(r, tifflzw.MSB, 8)
	} else {
		lr = lzw.NewReader(r, lzw.MSB, 8)
	}
	return &lenient{lr}
}

type lenient struct {
	io.ReadCloser
}

func (l *lenient) Read(p []byte) (int, error) {
	n, err := l.ReadCloser.Read(p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return n, err
}
