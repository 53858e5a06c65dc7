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
	"errors"
	"io"
)

// stage is one link of a decode chain.  The codec reads from in, and
// in is closed when the stage is closed.
type stage struct {
	codec  io.Reader
	in     io.ReadCloser
	closed bool
}

// wrap makes codec, which reads from in, into a stage which owns in.
func wrap(in io.ReadCloser, codec io.Reader) io.ReadCloser {
	return &stage{codec: codec, in: in}
}

func (s *stage) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errClosed
	}
	return s.codec.Read(p)
}

// Close releases the codec and then closes the input.
func (s *stage) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if c, ok := s.codec.(io.Closer); ok {
		err = c.Close()
	}
	err2 := s.in.Close()
	if err == nil {
		err = err2
	}
	return err
}

// window is the pass-through stage at the bottom of every chain which
// reads from the shared file of a document.  Reading is limited to n
// bytes, where n < 0 means no limit.  The window borrows the file: closing
// the window releases the file for use by other streams, but does not
// close it.
type window struct {
	f      *sharedFile
	n      int64
	held   bool
	closed bool
}

// attach claims the shared file for this window and positions it at the
// start of the stream data.
func (w *window) attach(offset int64) error {
	err := w.f.acquire(offset)
	if err != nil {
		return err
	}
	w.held = true
	return nil
}

func (w *window) Read(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	if !w.held {
		return 0, errNotAttached
	}
	if w.n == 0 {
		return 0, io.EOF
	}
	if w.n > 0 && int64(len(p)) > w.n {
		p = p[:w.n]
	}
	n, err := w.f.rs.Read(p)
	if w.n > 0 {
		w.n -= int64(n)
	}
	return n, err
}

func (w *window) Close() error {
	if w.held {
		w.f.release()
		w.held = false
	}
	w.closed = true
	return nil
}

// borrowed wraps a reader owned by the caller.  Closing has no effect on
// the reader.
type borrowed struct {
	io.Reader
}

func (borrowed) Close() error {
	return nil
}

var (
	errClosed      = errors.New("read from closed stream")
	errNotAttached = errors.New("stream data not positioned")
)

// Stream is an open decode chain, as returned by the Open* methods of
// [Document].  Close must be called after use, on every code path.
//
// If a read fails, the chain is closed immediately and the error, of type
// [*ObjectError] with kind [ErrRead], is returned for this and all
// subsequent reads.
type Stream struct {
	// Ref is the reference of the stream object.  For inline streams this
	// is the zero reference.
	Ref Reference

	head   io.ReadCloser
	err    error
	closed bool
}

func (s *Stream) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.closed {
		return 0, &ObjectError{Ref: s.Ref, Kind: ErrRead, Err: errClosed}
	}
	n, err := s.head.Read(p)
	if err != nil && err != io.EOF {
		s.err = wrapErr(s.Ref, ErrRead, err)
		s.Close()
		return n, s.err
	}
	return n, err
}

// Close closes all stages of the decode chain and releases the underlying
// file.  Calling Close more than once has no effect.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.head.Close()
}
