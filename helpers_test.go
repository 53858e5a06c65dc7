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
	"encoding/hex"
	"fmt"
	"io"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"seehuhn.de/go/pdfstream/internal/debug/memfile"
)

// mapStore is an ObjectStore backed by maps.
type mapStore struct {
	size    int
	objects map[Reference]Object
	offsets map[Reference]int64
	fail    map[Reference]error

	resolved []Reference
}

func (s *mapStore) Len() int {
	return s.size
}

func (s *mapStore) Resolve(ref Reference) (Object, error) {
	s.resolved = append(s.resolved, ref)
	if err := s.fail[ref]; err != nil {
		return nil, err
	}
	return s.objects[ref], nil
}

func (s *mapStore) StreamOffset(ref Reference) (int64, bool) {
	off, ok := s.offsets[ref]
	return off, ok
}

// testFile is a fake PDF file, consisting of stream data in a MemFile and
// the stream dictionaries in a mapStore.
type testFile struct {
	file  *memfile.MemFile
	store *mapStore
}

func newTestFile() *testFile {
	return &testFile{
		file: memfile.New([]byte("%PDF-1.7\n")),
		store: &mapStore{
			size:    1,
			objects: map[Reference]Object{},
			offsets: map[Reference]int64{},
			fail:    map[Reference]error{},
		},
	}
}

// addStream stores a stream object.  If dict has no /Length entry, the
// length of data is used.
func (tf *testFile) addStream(number uint32, dict Dict, data []byte) Reference {
	ref := NewReference(number, 0)
	if dict == nil {
		dict = Dict{}
	}
	if _, ok := dict["Length"]; !ok {
		dict["Length"] = Integer(len(data))
	}
	tf.file.Append(fmt.Appendf(nil, "%d %d obj\n", ref.Number, ref.Generation))
	tf.file.Append([]byte(Format(dict) + "\nstream\n"))
	offset := tf.file.Append(data)
	tf.file.Append([]byte("\nendstream\nendobj\n"))

	tf.store.objects[ref] = dict
	tf.store.offsets[ref] = offset
	tf.store.size = max(tf.store.size, int(number)+1)
	return ref
}

// addObject stores a non-stream object.
func (tf *testFile) addObject(number uint32, obj Object) Reference {
	ref := NewReference(number, 0)
	tf.store.objects[ref] = obj
	tf.store.size = max(tf.store.size, int(number)+1)
	return ref
}

// open creates a Document for the file.  All log entries and warnings are
// recorded.
func (tf *testFile) open(cipher Cipher) (*Document, *test.Hook, *[]*Warning) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	var warnings []*Warning
	doc := NewDocument(tf.file, tf.store, &Options{
		Cipher: cipher,
		Logger: logger,
		Warn: func(w *Warning) {
			warnings = append(warnings, w)
		},
	})
	return doc, hook, &warnings
}

// xorCipher is a toy cipher which records the objects it is used for.
type xorCipher struct {
	key     byte
	refs    []Reference
	filters map[Name]*xorCipher
}

func (c *xorCipher) DecryptStream(ref Reference, r io.Reader) io.Reader {
	c.refs = append(c.refs, ref)
	return &xorReader{r: r, key: c.objectKey(ref)}
}

func (c *xorCipher) WithFilter(name Name) (Cipher, bool) {
	f, ok := c.filters[name]
	if !ok {
		return nil, false
	}
	return f, true
}

func (c *xorCipher) objectKey(ref Reference) byte {
	return c.key ^ byte(ref.Number)
}

func (c *xorCipher) encrypt(ref Reference, data []byte) []byte {
	return xorBytes(data, c.objectKey(ref))
}

type xorReader struct {
	r   io.Reader
	key byte
}

func (x *xorReader) Read(p []byte) (int, error) {
	n, err := x.r.Read(p)
	for i := range n {
		p[i] ^= x.key
	}
	return n, err
}

func xorBytes(data []byte, key byte) []byte {
	res := make([]byte, len(data))
	for i, b := range data {
		res[i] = b ^ key
	}
	return res
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zlib.NewWriter(buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func hexEncode(data []byte) []byte {
	return []byte(hex.EncodeToString(data) + ">")
}

// failingReader returns some data and then an error.
type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}
