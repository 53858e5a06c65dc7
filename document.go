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
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ObjectStore gives access to the objects of a PDF file.
//
// Implementations are expected to cache parsed objects.  The type
// [seehuhn.de/go/pdfstream/objstore.Table] implements this interface.
type ObjectStore interface {
	// Len returns the size of the cross-reference table.  Valid object
	// numbers are 0, ..., Len()-1.
	Len() int

	// Resolve loads the object with the given reference.  For stream
	// objects, the result is the stream dictionary.  A nil object and a
	// nil error are returned for free entries.
	Resolve(ref Reference) (Object, error)

	// StreamOffset returns the position of the stream data of the given
	// object in the file.  The second return value is false if the object
	// is not a stream, or if it has not been loaded via Resolve.
	StreamOffset(ref Reference) (int64, bool)
}

// Cipher decrypts the stream data of an encrypted document.
//
// The type [seehuhn.de/go/pdfstream/crypt.Context] implements this
// interface.
type Cipher interface {
	// DecryptStream returns a reader which decrypts the data read from r.
	// The object reference is used to derive the per-object key.  No data
	// may be read from r before the first call to Read on the result.
	DecryptStream(ref Reference, r io.Reader) io.Reader

	// WithFilter returns a cipher which uses the named crypt filter of the
	// document for streams.  The second return value is false if the
	// document does not define a crypt filter with this name.
	WithFilter(name Name) (Cipher, bool)
}

// JBIG2Decoder decodes JBIG2 data embedded in a PDF file.  The globals
// argument holds the contents of the JBIG2Globals stream, or is nil.
type JBIG2Decoder func(data, globals []byte) ([]byte, error)

// Options can be used to configure a [Document].
// The zero value gives the default settings.
type Options struct {
	// Cipher is the key material for encrypted documents.  This must be
	// nil if the document is not encrypted.
	Cipher Cipher

	// Logger receives warnings and debug messages.  If this is nil,
	// log messages are discarded.
	Logger logrus.FieldLogger

	// Warn, if set, is called for every non-fatal problem found while
	// setting up a decode chain, in addition to logging the problem.
	Warn func(*Warning)

	// JBIG2 decodes JBIG2 images.  If this is nil, reading from a
	// JBIG2Decode stage fails.
	JBIG2 JBIG2Decoder
}

// Document gives access to the stream data of a PDF file.
//
// All streams are read from a single underlying file.  At most one stream
// can be open at any time; the stream must be closed before the next one
// can be opened.  A Document is not safe for concurrent use.
type Document struct {
	store  ObjectStore
	file   *sharedFile
	cipher Cipher
	log    logrus.FieldLogger
	onWarn func(*Warning)
	jbig2  JBIG2Decoder

	// globalsBusy holds the JBIG2Globals streams currently being loaded.
	globalsBusy map[Reference]bool
}

// NewDocument creates a new Document, which reads stream data from file
// and resolves objects using store.  The file is never closed by the
// Document.
func NewDocument(file io.ReadSeeker, store ObjectStore, opt *Options) *Document {
	if opt == nil {
		opt = &Options{}
	}
	log := opt.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Document{
		store:  store,
		file:   &sharedFile{rs: file},
		cipher: opt.Cipher,
		log:    log,
		onWarn: opt.Warn,
		jbig2:  opt.JBIG2,

		globalsBusy: make(map[Reference]bool),
	}
}

// IsEncrypted reports whether the document has a cipher context.
func (d *Document) IsEncrypted() bool {
	return d.cipher != nil
}

func (d *Document) warn(ref Reference, filter Name, format string, args ...any) {
	w := &Warning{Ref: ref, Filter: filter, Msg: fmt.Sprintf(format, args...)}
	fields := logrus.Fields{"object": ref.String()}
	if filter != "" {
		fields["filter"] = string(filter)
	}
	d.log.WithFields(fields).Warn(w.Msg)
	if d.onWarn != nil {
		d.onWarn(w)
	}
}

// maxRefDepth limits the length of chains of indirect references.
const maxRefDepth = 8

var errRefLoop = errors.New("too many levels of indirection")

// resolve follows indirect references until a direct object is found.
func (d *Document) resolve(obj Object) (Object, error) {
	for range maxRefDepth {
		ref, ok := obj.(Reference)
		if !ok {
			return obj, nil
		}
		if int64(ref.Number) >= int64(d.store.Len()) {
			return nil, &ObjectError{Ref: ref, Kind: ErrOutOfRange}
		}
		var err error
		obj, err = d.store.Resolve(ref)
		if err != nil {
			return nil, wrapErr(ref, ErrObjectLoad, err)
		}
	}
	if _, ok := obj.(Reference); ok {
		return nil, errRefLoop
	}
	return obj, nil
}

// resolveLenient is like resolve, but reports errors as warnings and
// returns nil in this case.
func (d *Document) resolveLenient(ref Reference, obj Object) Object {
	res, err := d.resolve(obj)
	if err != nil {
		d.warn(ref, "", "cannot resolve %s: %v", Format(obj), err)
		return nil
	}
	return res
}

// streamLength returns the value of the /Length entry in a stream
// dictionary, or -1 if the length is missing or invalid.
func (d *Document) streamLength(ref Reference, dict Dict) int64 {
	switch length := d.resolveLenient(ref, dict["Length"]).(type) {
	case Integer:
		if length >= 0 {
			return int64(length)
		}
	case Real:
		// some writers use real numbers for integer values
		if length >= 0 {
			return int64(length)
		}
	}
	return -1
}

// sharedFile is the file all streams of a document read from.  The busy
// flag marks the file as used by an open stream.
type sharedFile struct {
	rs   io.ReadSeeker
	busy bool
}

func (f *sharedFile) acquire(offset int64) error {
	if f.busy {
		return ErrFileBusy
	}
	_, err := f.rs.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	f.busy = true
	return nil
}

func (f *sharedFile) release() {
	f.busy = false
}
