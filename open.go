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

	"github.com/sirupsen/logrus"
)

// lookup finds the stream dictionary and the data offset of a stream
// object.
func (d *Document) lookup(ref Reference) (Dict, int64, error) {
	if int64(ref.Number) >= int64(d.store.Len()) {
		return nil, 0, &ObjectError{Ref: ref, Kind: ErrOutOfRange}
	}
	obj, err := d.store.Resolve(ref)
	if err != nil {
		return nil, 0, wrapErr(ref, ErrObjectLoad, err)
	}
	offset, hasData := d.store.StreamOffset(ref)
	dict, isDict := obj.(Dict)
	if !hasData || !isDict {
		return nil, 0, &ObjectError{Ref: ref, Kind: ErrNotAStream}
	}
	return dict, offset, nil
}

// IsStream reports whether ref refers to a stream object which can be
// opened.
func (d *Document) IsStream(ref Reference) bool {
	_, _, err := d.lookup(ref)
	return err == nil
}

// StreamInfo returns the length and the filter list of a stream object,
// read from the stream dictionary the same way [Document.Open] reads them.
// Indirect values are resolved.  The length is -1 if the /Length entry is
// missing or invalid.
func (d *Document) StreamInfo(ref Reference) (length int64, filters Object, err error) {
	dict, _, err := d.lookup(ref)
	if err != nil {
		return -1, nil, err
	}
	return d.streamLength(ref, dict), d.filterEntry(ref, dict), nil
}

// OpenRaw opens the stream data of an object, without applying any
// filters.  If the document is encrypted, the data is decrypted, unless
// the stream uses the Crypt filter.
//
// The returned stream must be closed after use.
func (d *Document) OpenRaw(ref Reference) (*Stream, error) {
	dict, offset, err := d.lookup(ref)
	if err != nil {
		return nil, err
	}
	return d.openStream(ref, dict, offset, false)
}

// Open opens the stream data of an object and applies all filters given
// in the stream dictionary.
//
// The returned stream must be closed after use.
func (d *Document) Open(ref Reference) (*Stream, error) {
	dict, offset, err := d.lookup(ref)
	if err != nil {
		return nil, err
	}
	return d.openStream(ref, dict, offset, true)
}

// OpenAt is like [Document.Open], but uses the given stream dictionary
// and data offset instead of looking up the object.
func (d *Document) OpenAt(ref Reference, dict Dict, offset int64) (*Stream, error) {
	if offset == 0 {
		return nil, &ObjectError{Ref: ref, Kind: ErrNotAStream}
	}
	return d.openStream(ref, dict, offset, true)
}

// openStream builds the decode chain for a stream and positions the
// underlying file at the start of the stream data.  The file is only
// claimed after the chain is complete, since building the chain may read
// other streams.
func (d *Document) openStream(ref Reference, dict Dict, offset int64, decode bool) (*Stream, error) {
	w := &window{f: d.file, n: d.streamLength(ref, dict)}

	var head io.ReadCloser = w
	if d.cipher != nil && !d.hasCryptFilter(ref, dict) {
		head = wrap(head, d.cipher.DecryptStream(ref, head))
	}

	if decode {
		var err error
		head, err = d.buildChain(head, dict, ref)
		if err != nil {
			head.Close()
			return nil, wrapErr(ref, ErrObjectLoad, err)
		}
	}

	err := w.attach(offset)
	if errors.Is(err, ErrFileBusy) {
		head.Close()
		return nil, &ObjectError{Ref: ref, Kind: ErrFileBusy}
	} else if err != nil {
		head.Close()
		return nil, &ObjectError{Ref: ref, Kind: ErrRead, Err: err}
	}

	d.log.WithFields(logrus.Fields{
		"object":  ref.String(),
		"offset":  offset,
		"length":  w.n,
		"decoded": decode,
	}).Debug("stream opened")
	return &Stream{Ref: ref, head: head}, nil
}

// OpenInline applies the filters given in dict to the data read from r.
// This is used for inline images in content streams.  Inline data is
// never decrypted.
//
// If dict specifies no filters, reading stops after length bytes; a
// negative length means no limit.  Otherwise the filters determine where
// the data ends.  The reader r is not closed when the stream is closed.
func (d *Document) OpenInline(r io.Reader, dict Dict, length int64) (*Stream, error) {
	var ref Reference

	if d.filterEntry(ref, dict) == nil {
		if length >= 0 {
			r = io.LimitReader(r, length)
		}
		return &Stream{Ref: ref, head: borrowed{r}}, nil
	}

	head, err := d.buildChain(borrowed{r}, dict, ref)
	if err != nil {
		head.Close()
		return nil, wrapErr(ref, ErrObjectLoad, err)
	}
	return &Stream{Ref: ref, head: head}, nil
}
