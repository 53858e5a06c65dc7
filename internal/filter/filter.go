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

// Package filter contains helpers shared by the stream decoders in the
// subpackages.
package filter

import (
	"errors"
	"io"
)

// Lazy returns a reader which calls open when data is read for the first
// time.  This is used for decoders which consume input already when they
// are constructed.  An error returned by open is returned by every call to
// Read.
func Lazy(open func() (io.Reader, error)) io.ReadCloser {
	return &lazyReader{open: open}
}

type lazyReader struct {
	open func() (io.Reader, error)
	r    io.Reader
	err  error
}

func (l *lazyReader) Read(p []byte) (int, error) {
	if l.open != nil {
		l.r, l.err = l.open()
		l.open = nil
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.r.Read(p)
}

// Close releases the decoder, if it has been created.  The input of the
// decoder is not closed.
func (l *lazyReader) Close() error {
	l.open = nil
	if l.r == nil && l.err == nil {
		l.err = errClosed
	}
	if c, ok := l.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var errClosed = errors.New("read from closed decoder")

// ErrorReader returns a reader which fails every read with err.
func ErrorReader(err error) io.ReadCloser {
	return &errorReader{err}
}

type errorReader struct {
	err error
}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, e.err
}

func (e *errorReader) Close() error {
	return nil
}

// IsSpace reports whether c is a PDF white-space character.
func IsSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}
