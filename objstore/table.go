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

// Package objstore provides a simple implementation of the
// [pdfstream.ObjectStore] interface.
//
// A [Table] plays the role of the cross-reference table of a PDF file: for
// every object number it records the generation, the location of the
// stream data (for stream objects), and a way to obtain the object.
// Resolved objects are kept in a small LRU cache.
//
// Tables can be filled programmatically, using [Table.Set] and
// [Table.SetFunc], or read from a YAML manifest using [ReadManifest].
package objstore

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfstream"
)

// DefaultCacheSize is the number of resolved objects kept in memory by
// default.
const DefaultCacheSize = 100

// Table maps object numbers to objects.
// A Table is not safe for concurrent use.
type Table struct {
	entries []tableEntry
	cache   *lruCache
}

var _ pdfstream.ObjectStore = (*Table)(nil)

type tableEntry struct {
	inUse      bool
	generation uint16

	// offset is the position of the stream data in the file, or 0 if the
	// object is not a stream.
	offset int64

	decode func() (pdfstream.Object, error)
}

// New allocates a table for object numbers 0, ..., size-1.  All entries
// are initially free.  If cacheSize is zero, [DefaultCacheSize] is used;
// a negative value disables caching.
func New(size, cacheSize int) *Table {
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	return &Table{
		entries: make([]tableEntry, max(size, 0)),
		cache:   newCache(cacheSize),
	}
}

// Set stores an object.  For stream objects, obj is the stream dictionary
// and offset is the position of the first byte of stream data in the file.
// Otherwise, offset must be 0.
func (t *Table) Set(ref pdfstream.Reference, obj pdfstream.Object, offset int64) error {
	return t.SetFunc(ref, func() (pdfstream.Object, error) { return obj, nil }, offset)
}

// SetFunc registers an object which is constructed by decode when it is
// first resolved.  The result of decode is cached; decode may be called
// again after the object has been evicted from the cache.
func (t *Table) SetFunc(ref pdfstream.Reference, decode func() (pdfstream.Object, error), offset int64) error {
	if int64(ref.Number) >= int64(len(t.entries)) {
		return fmt.Errorf("object %s: %w", ref, pdfstream.ErrOutOfRange)
	}
	if offset < 0 {
		return fmt.Errorf("object %s: negative stream offset %d", ref, offset)
	}
	t.entries[ref.Number] = tableEntry{
		inUse:      true,
		generation: ref.Generation,
		offset:     offset,
		decode:     decode,
	}
	t.cache.remove(ref)
	return nil
}

// Free marks an entry as unused.
func (t *Table) Free(number uint32) {
	if int64(number) < int64(len(t.entries)) {
		ref := pdfstream.NewReference(number, t.entries[number].generation)
		t.cache.remove(ref)
		t.entries[number] = tableEntry{}
	}
}

// Len returns the number of entries in the table.
// This implements the [pdfstream.ObjectStore] interface.
func (t *Table) Len() int {
	return len(t.entries)
}

// Resolve returns the object with the given reference.  Free entries, and
// references where the generation number does not match, resolve to nil.
// This implements the [pdfstream.ObjectStore] interface.
func (t *Table) Resolve(ref pdfstream.Reference) (pdfstream.Object, error) {
	ent, ok := t.lookup(ref)
	if !ok {
		if int64(ref.Number) >= int64(len(t.entries)) {
			return nil, fmt.Errorf("object %s: %w", ref, pdfstream.ErrOutOfRange)
		}
		return nil, nil
	}

	if obj, ok := t.cache.Get(ref); ok {
		return obj, nil
	}

	obj, err := ent.decode()
	if err != nil {
		return nil, &DecodeError{Ref: ref, Err: err}
	}
	if ent.offset > 0 {
		if _, isDict := obj.(pdfstream.Dict); !isDict {
			return nil, &DecodeError{Ref: ref, Err: errNoDict}
		}
	}
	t.cache.Put(ref, obj)
	return obj, nil
}

// StreamOffset returns the position of the stream data of a stream object.
// This implements the [pdfstream.ObjectStore] interface.
func (t *Table) StreamOffset(ref pdfstream.Reference) (int64, bool) {
	ent, ok := t.lookup(ref)
	if !ok || ent.offset == 0 {
		return 0, false
	}
	return ent.offset, true
}

func (t *Table) lookup(ref pdfstream.Reference) (*tableEntry, bool) {
	if int64(ref.Number) >= int64(len(t.entries)) {
		return nil, false
	}
	ent := &t.entries[ref.Number]
	if !ent.inUse || ent.generation != ref.Generation {
		return nil, false
	}
	return ent, true
}

// DecodeError is returned by [Table.Resolve] if an object cannot be
// constructed.
type DecodeError struct {
	Ref pdfstream.Reference
	Err error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("object %s: %v", err.Ref, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

var errNoDict = errors.New("stream object without dictionary")
