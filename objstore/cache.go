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

package objstore

import "seehuhn.de/go/pdfstream"

// lruCache holds recently resolved objects.
type lruCache struct {
	capacity    int
	entries     map[pdfstream.Reference]*cacheEntry
	first, last *cacheEntry
}

type cacheEntry struct {
	prev, next *cacheEntry
	key        pdfstream.Reference
	obj        pdfstream.Object
}

func newCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		entries:  make(map[pdfstream.Reference]*cacheEntry, max(capacity, 0)),
	}
}

// Put adds an object to the cache, evicting the least recently used entry
// if the cache is full.
func (l *lruCache) Put(key pdfstream.Reference, obj pdfstream.Object) {
	if l.capacity <= 0 {
		return
	}

	if ent, ok := l.entries[key]; ok {
		ent.obj = obj
		l.moveToFront(ent)
		return
	}

	ent := &cacheEntry{key: key, obj: obj}
	l.entries[key] = ent
	l.moveToFront(ent)

	if len(l.entries) > l.capacity {
		l.removeLast()
	}
}

// Get returns an object from the cache and marks it as recently used.
func (l *lruCache) Get(key pdfstream.Reference) (pdfstream.Object, bool) {
	ent, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	l.moveToFront(ent)
	return ent.obj, true
}

// Has reports whether the cache contains key, without changing the order
// of the entries.
func (l *lruCache) Has(key pdfstream.Reference) bool {
	_, ok := l.entries[key]
	return ok
}

// Len returns the number of cached objects.
func (l *lruCache) Len() int {
	return len(l.entries)
}

func (l *lruCache) moveToFront(ent *cacheEntry) {
	if ent == l.first {
		return
	}

	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if ent == l.last {
		l.last = ent.prev
	}

	ent.prev = nil
	ent.next = l.first
	if l.first != nil {
		l.first.prev = ent
	}
	l.first = ent
	if l.last == nil {
		l.last = ent
	}
}

func (l *lruCache) removeLast() {
	last := l.last
	if last == nil {
		return
	}

	delete(l.entries, last.key)
	l.last = last.prev
	if l.last != nil {
		l.last.next = nil
	} else {
		l.first = nil
	}
	last.prev = nil
}

// remove deletes key from the cache, if present.
func (l *lruCache) remove(key pdfstream.Reference) {
	ent, ok := l.entries[key]
	if !ok {
		return
	}
	delete(l.entries, key)

	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		l.first = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		l.last = ent.prev
	}
}
