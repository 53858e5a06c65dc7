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

package jbig2

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecoder(t *testing.T) {
	var gotData, gotGlobals []byte
	fn := func(data, globals []byte) ([]byte, error) {
		gotData = data
		gotGlobals = globals
		return []byte("pixels"), nil
	}

	r := Decode(strings.NewReader("segments"), []byte("globals"), fn)
	if gotData != nil {
		t.Fatal("decoder called at construction")
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff("pixels", string(out)); d != "" {
		t.Errorf("output (-want +got):\n%s", d)
	}
	if !bytes.Equal(gotData, []byte("segments")) {
		t.Errorf("data = %q", gotData)
	}
	if !bytes.Equal(gotGlobals, []byte("globals")) {
		t.Errorf("globals = %q", gotGlobals)
	}
}

func TestNoDecoder(t *testing.T) {
	_, err := io.ReadAll(Decode(strings.NewReader("x"), nil, nil))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want %v", err, ErrUnsupported)
	}
}
