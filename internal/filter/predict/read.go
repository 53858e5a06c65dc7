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

// Package predict reverses the PNG and TIFF predictors which can be applied
// to image data before Flate or LZW compression.
package predict

import (
	"errors"
	"io"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// Decode returns a reader which undoes the prediction on the data read
// from r.  Invalid parameters are reported by the first call to Read.
// The reader r is not closed by the returned reader.
func Decode(r io.Reader, p Params) io.ReadCloser {
	if err := p.Validate(); err != nil {
		return filter.ErrorReader(err)
	}
	if p.Predictor == 1 {
		return io.NopCloser(r)
	}

	n := p.bytesPerRow()
	d := &reader{
		r:    r,
		p:    p,
		bpp:  p.bytesPerPixel(),
		cur:  make([]byte, n),
		prev: make([]byte, n),
	}
	if p.isPNG() {
		d.in = make([]byte, n+1)
	} else {
		d.in = make([]byte, n)
	}
	return d
}

type reader struct {
	r   io.Reader
	p   Params
	bpp int
	err error

	in         []byte
	cur, prev  []byte
	pos, avail int
}

func (d *reader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if d.pos < d.avail {
			k := copy(p[n:], d.cur[d.pos:d.avail])
			d.pos += k
			n += k
			continue
		}
		if d.err != nil {
			break
		}
		d.nextRow()
	}

	if n > 0 {
		return n, nil
	}
	return 0, d.err
}

// nextRow decodes the next row into d.cur.  A partial row at the end of
// the input is decoded as far as it goes.
func (d *reader) nextRow() {
	k, err := io.ReadFull(d.r, d.in)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	d.err = err

	d.prev, d.cur = d.cur, d.prev
	d.pos = 0
	d.avail = 0
	if d.p.isPNG() {
		if k > 1 {
			d.avail = k - 1
			d.pngRow(d.in[0], d.in[1:k])
		}
	} else if k > 0 {
		d.avail = k
		d.tiffRow(d.in[:k])
	}
}

func (d *reader) pngRow(tag byte, raw []byte) {
	cur, prev, bpp := d.cur, d.prev, d.bpp
	for i, x := range raw {
		var left, up, upLeft byte
		if i >= bpp {
			left = cur[i-bpp]
			upLeft = prev[i-bpp]
		}
		up = prev[i]

		switch tag {
		case 1: // Sub
			x += left
		case 2: // Up
			x += up
		case 3: // Average
			x += byte((int(left) + int(up)) / 2)
		case 4: // Paeth
			x += paeth(left, up, upLeft)
		}
		cur[i] = x
	}
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// tiffRow reverses horizontal differencing.  Every component is stored as
// the difference to the same component of the pixel to the left.
func (d *reader) tiffRow(raw []byte) {
	row := d.cur[:len(raw)]
	copy(row, raw)

	c := d.p.Colors
	switch bpc := d.p.BitsPerComponent; bpc {
	case 8:
		for i := c; i < len(row); i++ {
			row[i] += row[i-c]
		}
	case 16:
		for i := 2 * c; i+1 < len(row); i += 2 {
			v := uint16(row[i])<<8 | uint16(row[i+1])
			v += uint16(row[i-2*c])<<8 | uint16(row[i-2*c+1])
			row[i] = byte(v >> 8)
			row[i+1] = byte(v)
		}
	default:
		n := min(c*d.p.Columns, len(row)*8/bpc)
		for i := c; i < n; i++ {
			setBits(row, i, bpc, getBits(row, i, bpc)+getBits(row, i-c, bpc))
		}
	}
}

func getBits(row []byte, i, bpc int) byte {
	bit := i * bpc
	shift := 8 - bpc - bit%8
	return row[bit/8] >> shift & (1<<bpc - 1)
}

func setBits(row []byte, i, bpc int, v byte) {
	bit := i * bpc
	shift := 8 - bpc - bit%8
	mask := byte(1<<bpc-1) << shift
	row[bit/8] = row[bit/8]&^mask | v<<shift&mask
}

func (d *reader) Close() error {
	return nil
}
