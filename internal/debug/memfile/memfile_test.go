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

package memfile

import (
	"io"
	"testing"
)

func TestReadWrite(t *testing.T) {
	f := New(nil)
	pos := f.Append([]byte("hello"))
	if pos != 0 {
		t.Errorf("first append at %d", pos)
	}
	pos = f.Append([]byte(" world"))
	if pos != 5 {
		t.Errorf("second append at %d", pos)
	}

	_, err := f.Seek(6, io.SeekStart)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "world" {
		t.Errorf("got %q", data)
	}

	f.Seek(0, io.SeekStart)
	f.Write([]byte("HE"))
	f.Seek(12, io.SeekStart)
	f.Write([]byte("!"))
	if string(f.Data) != "HEllo world\x00!" {
		t.Errorf("got %q", f.Data)
	}
	if f.Seeks != 3 {
		t.Errorf("%d seeks", f.Seeks)
	}
}

func TestClose(t *testing.T) {
	f := New([]byte("abc"))
	f.Close()
	if !f.Closed {
		t.Error("not marked as closed")
	}
	if _, err := f.Read(make([]byte, 1)); err == nil {
		t.Error("read after close succeeded")
	}
}
