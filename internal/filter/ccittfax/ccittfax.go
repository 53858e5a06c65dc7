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

// Package ccittfax implements the CCITTFaxDecode filter on top of
// golang.org/x/image/ccitt.
package ccittfax

import (
	"errors"
	"io"

	"golang.org/x/image/ccitt"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// Params holds the entries of a CCITTFaxDecode parameter dictionary.
type Params struct {
	// K selects the encoding: K < 0 is Group 4, K = 0 is Group 3
	// one-dimensional, and K > 0 is Group 3 mixed one- and
	// two-dimensional coding.
	K int

	// Columns is the width of the image in pixels.  If this is zero,
	// 1728 is used.
	Columns int

	// Rows is the height of the image.  If this is zero, the height is
	// determined by the end-of-block marker or the end of the data.
	// The end-of-block marker is always recognized, so the EndOfBlock
	// entry needs no field of its own.
	Rows int

	BlackIs1         bool
	EncodedByteAlign bool
}

// DefaultColumns is the width used when Columns is not given.
const DefaultColumns = 1728

// ErrMixedCoding is returned when K > 0 is used with data which contains
// two-dimensionally coded rows.
var ErrMixedCoding = errors.New("ccittfax: mixed 1D/2D coding is not supported")

// Decode returns a reader which decodes fax data read from r.  The output
// has one bit per pixel, and every row starts on a byte boundary.  A zero
// bit is black, unless BlackIs1 is set.
//
// For K > 0 the data is decoded as one-dimensional Group 3 data, which
// only works if no row uses two-dimensional coding.
func Decode(r io.Reader, p Params) io.ReadCloser {
	width := p.Columns
	if width <= 0 {
		width = DefaultColumns
	}
	height := p.Rows
	if height <= 0 {
		height = ccitt.AutoDetectHeight
	}
	sf := ccitt.Group3
	if p.K < 0 {
		sf = ccitt.Group4
	}
	opts := &ccitt.Options{
		Align:  p.EncodedByteAlign,
		Invert: p.BlackIs1,
	}
	mixed := p.K > 0
	return filter.Lazy(func() (io.Reader, error) {
		return &lenient{
			r:     ccitt.NewReader(r, ccitt.MSB, sf, width, height, opts),
			mixed: mixed,
		}, nil
	})
}

type lenient struct {
	r     io.Reader
	mixed bool
}

func (l *lenient) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = io.EOF
	case err != nil && err != io.EOF && l.mixed:
		err = errors.Join(ErrMixedCoding, err)
	}
	return n, err
}
