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

package pdfstream

import (
	"bytes"
	"io"
)

// Bounds for the initial buffer size used by the materializer.  The
// buffer grows as needed.
const (
	minInitialCapacity = 512
	maxInitialCapacity = 64 << 20
)

// LoadRaw reads the stream data of an object, without applying any
// filters.  At most /Length bytes are returned.
func (d *Document) LoadRaw(ref Reference) ([]byte, error) {
	dict, offset, err := d.lookup(ref)
	if err != nil {
		return nil, err
	}
	s, err := d.openStream(ref, dict, offset, false)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	data, err := readAll(s, d.streamLength(ref, dict))
	if err != nil {
		return nil, wrapErr(ref, ErrRead, err)
	}
	return data, nil
}

// Load reads the stream data of an object and applies all filters.
func (d *Document) Load(ref Reference) ([]byte, error) {
	dict, offset, err := d.lookup(ref)
	if err != nil {
		return nil, err
	}
	s, err := d.openStream(ref, dict, offset, true)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	est := EstimateLength(d.streamLength(ref, dict), d.filterEntry(ref, dict))
	data, err := readAll(s, est)
	if err != nil {
		return nil, wrapErr(ref, ErrRead, err)
	}
	return data, nil
}

// readAll reads r until EOF.  The size hint is used as the initial
// capacity of the buffer.
func readAll(r io.Reader, hint int64) ([]byte, error) {
	hint = max(hint, minInitialCapacity)
	hint = min(hint, maxInitialCapacity)
	buf := bytes.NewBuffer(make([]byte, 0, hint))
	_, err := buf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
