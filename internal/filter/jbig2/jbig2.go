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

// Package jbig2 connects the JBIG2Decode filter to an external decoder.
package jbig2

import (
	"bytes"
	"errors"
	"io"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// DecodeFunc decodes an embedded JBIG2 stream.  The globals argument holds
// the contents of the JBIG2Globals stream, or is nil.
type DecodeFunc func(data, globals []byte) ([]byte, error)

// ErrUnsupported is returned when data is read from a JBIG2 stage but no
// decoder is configured.
var ErrUnsupported = errors.New("jbig2: no decoder available")

// Decode returns a reader for the image data decoded from r.  The stage
// takes ownership of the globals buffer.  All input is read and decoded
// when data is first requested.
func Decode(r io.Reader, globals []byte, fn DecodeFunc) io.ReadCloser {
	return filter.Lazy(func() (io.Reader, error) {
		if fn == nil {
			return nil, ErrUnsupported
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		out, err := fn(data, globals)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(out), nil
	})
}
