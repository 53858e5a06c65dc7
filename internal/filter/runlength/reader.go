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

// Package runlength implements the RunLengthDecode filter.
package runlength

import (
	"bufio"
	"io"
)

// Decode returns a reader which decodes run-length encoded data read from
// r.  The data ends at the end-of-data code 128 or at the end of the
// input, whichever comes first.  A truncated final run is returned as far
// as it is available.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{br: bufio.NewReader(r)}
}

type reader struct {
	br  *bufio.Reader
	err error

	literal bool
	count   int
	value   byte
}

func (r *reader) Read(p []byte) (n int, err error) {
	for n < len(p) && r.err == nil {
		if r.count > 0 {
			k := min(r.count, len(p)-n)
			if r.literal {
				k, err = r.br.Read(p[n : n+k])
				if err == io.EOF {
					r.err = io.EOF
				} else if err != nil {
					r.err = err
				}
			} else {
				for i := range k {
					p[n+i] = r.value
				}
			}
			n += k
			r.count -= k
			continue
		}

		code, err := r.br.ReadByte()
		if err != nil {
			r.err = err
			break
		}
		switch {
		case code == 128:
			r.err = io.EOF
		case code < 128:
			r.literal = true
			r.count = int(code) + 1 // 1, ..., 128
		default:
			b, err := r.br.ReadByte()
			if err != nil {
				r.err = err
				break
			}
			r.literal = false
			r.value = b
			r.count = 257 - int(code) // 2, ..., 128
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

func (r *reader) Close() error {
	return nil
}
