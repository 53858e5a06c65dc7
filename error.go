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
	"strings"
)

// Error kinds reported by the stream opener and the materializer.  The
// errors returned by these functions are of type [*ObjectError]; use
// errors.Is to test for a kind.
var (
	// ErrOutOfRange indicates that the object number is outside the
	// cross-reference table.
	ErrOutOfRange = errors.New("object number out of range")

	// ErrObjectLoad indicates that the object store could not load the
	// object or one of the values needed to open the stream.
	ErrObjectLoad = errors.New("cannot load object")

	// ErrNotAStream indicates that the object has no stream data.
	ErrNotAStream = errors.New("object is not a stream")

	// ErrRead indicates that reading or decoding the stream data failed.
	ErrRead = errors.New("cannot read stream")

	// ErrFileBusy indicates that another stream of the same document is
	// still open.  Only one stream at a time can read from the underlying
	// file.
	ErrFileBusy = errors.New("file is in use by another stream")
)

// ObjectError records a failure to open or read the stream of an object.
type ObjectError struct {
	Ref  Reference
	Kind error // one of the Err* values in this package
	Err  error // the underlying cause, may be nil
}

func (err *ObjectError) Error() string {
	parts := []string{"object " + err.Ref.String()}
	if err.Kind != nil {
		parts = append(parts, err.Kind.Error())
	}
	if err.Err != nil {
		parts = append(parts, err.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the error kind and the underlying cause.
func (err *ObjectError) Unwrap() []error {
	var res []error
	if err.Kind != nil {
		res = append(res, err.Kind)
	}
	if err.Err != nil {
		res = append(res, err.Err)
	}
	return res
}

func wrapErr(ref Reference, kind error, err error) error {
	var objErr *ObjectError
	if errors.As(err, &objErr) && objErr.Ref == ref && errors.Is(err, kind) {
		return err
	}
	return &ObjectError{Ref: ref, Kind: kind, Err: err}
}

// A Warning describes a problem which does not prevent a stream from being
// decoded.  The affected stage is replaced by a pass-through stage.
type Warning struct {
	Ref    Reference
	Filter Name // empty if the problem is not specific to a filter
	Msg    string
}

func (w *Warning) String() string {
	s := "object " + w.Ref.String()
	if w.Filter != "" {
		s += ", filter " + string(w.Filter)
	}
	return s + ": " + w.Msg
}
