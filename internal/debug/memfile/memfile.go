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

// Package memfile provides an in-memory file for tests.
package memfile

import (
	"errors"
	"io"
)

// MemFile is an in-memory file.
//
// This type implements the [io.ReadWriteSeeker] and [io.Closer]
// interfaces.  Close only records that the file was closed.
type MemFile struct {
	// Data are the file contents.
	Data []byte

	// Offset is the current file offset.
	Offset int64

	// Closed is set by Close.
	Closed bool

	// Seeks counts the calls to Seek.
	Seeks int
}

// New creates a new MemFile with the given contents.
func New(data []byte) *MemFile {
	return &MemFile{Data: data}
}

// Append adds data at the end of the file, independently of the current
// offset, and returns the position of the new data.
func (f *MemFile) Append(data []byte) int64 {
	pos := int64(len(f.Data))
	f.Data = append(f.Data, data...)
	return pos
}

// Write writes data at the current offset.
func (f *MemFile) Write(p []byte) (int, error) {
	if f.Closed {
		return 0, errClosed
	}
	if gap := f.Offset - int64(len(f.Data)); gap > 0 {
		f.Data = append(f.Data, make([]byte, gap)...)
	}
	n := copy(f.Data[f.Offset:], p)
	f.Data = append(f.Data, p[n:]...)
	f.Offset += int64(len(p))
	return len(p), nil
}

// Read reads data from the current offset.
func (f *MemFile) Read(p []byte) (int, error) {
	if f.Closed {
		return 0, errClosed
	}
	if f.Offset >= int64(len(f.Data)) {
		return 0, io.EOF
	}
	n := copy(p, f.Data[f.Offset:])
	f.Offset += int64(n)
	return n, nil
}

// Seek sets the offset for the next Read or Write.
func (f *MemFile) Seek(offset int64, whence int) (int64, error) {
	f.Seeks++

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.Offset + offset
	case io.SeekEnd:
		pos = int64(len(f.Data)) + offset
	default:
		return 0, errInvalidWhence
	}
	if pos < 0 {
		return 0, errInvalidOffset
	}
	f.Offset = pos
	return pos, nil
}

// Close marks the file as closed.
func (f *MemFile) Close() error {
	f.Closed = true
	return nil
}

var (
	errClosed        = errors.New("file already closed")
	errInvalidWhence = errors.New("invalid whence")
	errInvalidOffset = errors.New("invalid offset")
)
