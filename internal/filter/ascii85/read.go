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

// Package ascii85 implements the ASCII85Decode filter.
package ascii85

import (
	"bufio"
	"errors"
	"io"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// Decode returns a reader which decodes ASCII base-85 data read from r.
//
// The end-of-data marker "~>" is optional.  A leading "<~", as written by
// some PostScript tools, is skipped.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: bufio.NewReader(r), start: true}
}

type reader struct {
	r   *bufio.Reader
	err error

	start    bool
	v        uint32
	k        int
	out      [4]byte
	leftover []byte
}

func (r *reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
	}

	for n < len(p) && r.err == nil {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			n += r.flush(p[n:])
			r.err = io.EOF
			break
		} else if err != nil {
			r.err = err
			break
		}

		if r.start {
			r.start = false
			if c == '<' {
				if next, _ := r.r.Peek(1); len(next) == 1 && next[0] == '~' {
					r.r.ReadByte()
					continue
				}
			}
		}

		switch {
		case filter.IsSpace(c):
			continue
		case c >= '!' && c < '!'+85:
			r.v = r.v*85 + uint32(c-'!')
			r.k++
		case c == 'z' && r.k == 0:
			r.k = 5
		case c == '~':
			// The '>' after '~' is not checked.
			n += r.flush(p[n:])
			r.err = io.EOF
			continue
		default:
			r.err = errInvalid
			continue
		}

		if r.k == 5 {
			r.emit()
			l := copy(p[n:], r.out[:])
			n += l
			r.leftover = r.out[l:]
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

// flush decodes a final partial group.  A single trailing character
// carries no data and is ignored.
func (r *reader) flush(p []byte) int {
	if r.k < 2 {
		r.k = 0
		r.v = 0
		return 0
	}
	m := r.k - 1
	for i := r.k; i < 5; i++ {
		r.v = r.v*85 + 84
	}
	r.emit()
	l := copy(p, r.out[:m])
	r.leftover = r.out[l:m]
	return l
}

func (r *reader) emit() {
	r.out[0] = byte(r.v >> 24)
	r.out[1] = byte(r.v >> 16)
	r.out[2] = byte(r.v >> 8)
	r.out[3] = byte(r.v)
	r.v = 0
	r.k = 0
}

func (r *reader) Close() error {
	return nil
}

var errInvalid = errors.New("ascii85: invalid character")
