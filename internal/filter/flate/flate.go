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

// Package flate implements the FlateDecode filter.
package flate

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// Decode returns a reader which decompresses zlib data read from r.
//
// The zlib header is only read when data is first requested.  Truncated
// input and a wrong Adler-32 checksum end the data early instead of causing
// an error, since both are common in real-world files.
func Decode(r io.Reader) io.ReadCloser {
	return filter.Lazy(func() (io.Reader, error) {
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &lenient{zr: zr}, nil
	})
}

type lenient struct {
	zr io.ReadCloser
}

func (l *lenient) Read(p []byte) (int, error) {
	n, err := l.zr.Read(p)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum) {
		err = io.EOF
	}
	return n, err
}

func (l *lenient) Close() error {
	return l.zr.Close()
}
