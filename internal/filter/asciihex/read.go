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

// Package asciihex implements the ASCIIHexDecode filter.
package asciihex

import (
	"bufio"
	"fmt"
	"io"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// Decode returns a reader which decodes ASCII hexadecimal data read from r.
//
// White space is ignored and '>' marks the end of the data.  If the input
// ends before '>' is seen, the data read so far is returned.  A final odd
// digit is treated as if it was followed by '0'.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r   *bufio.Reader
	err error

	high     byte
	haveHigh bool
}

func (r *reader) Read(p []byte) (n int, err error) {
	for n < len(p) && r.err == nil {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			r.finish(p, &n)
			break
		} else if err != nil {
			r.err = err
			break
		}

		var b byte
		switch {
		case c >= '0' && c <= '9':
			b = c - '0'
		case c >= 'A' && c <= 'F':
			b = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			b = c - 'a' + 10
		case filter.IsSpace(c):
			continue
		case c == '>':
			r.finish(p, &n)
			continue
		default:
			r.err = fmt.Errorf("asciihex: invalid character %q", c)
			continue
		}

		if r.haveHigh {
			p[n] = r.high<<4 | b
			n++
			r.haveHigh = false
		} else {
			r.high = b
			r.haveHigh = true
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

// finish emits a pending odd digit and marks the end of data.
func (r *reader) finish(p []byte, n *int) {
	if r.haveHigh {
		p[*n] = r.high << 4
		*n++
		r.haveHigh = false
	}
	r.err = io.EOF
}

func (r *reader) Close() error {
	return nil
}
