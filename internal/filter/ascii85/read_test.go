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

package ascii85

import (
	"bytes"
	"encoding/ascii85"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"~>", ""},
		{"z~>", "\x00\x00\x00\x00"},
		{"87cURD]j7BEbo80~>", "Hello world!"},
		{"<~87cURD]j7BEbo80~>", "Hello world!"},
		{"87cU RD]j7\nBEbo80~>", "Hello world!"},
		{"87cURD]j7BEbo80", "Hello world!"}, // missing end marker
		{"87cURD]j7BEbo7~>", "Hello world"},
		{"5sdq,~>", "ABCD"},
		{"5sb~>", "AB"},
	}
	for _, test := range cases {
		out, err := io.ReadAll(Decode(strings.NewReader(test.in)))
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.want, string(out)); d != "" {
			t.Errorf("%q: (-want +got):\n%s", test.in, d)
		}
	}
}

func TestInvalid(t *testing.T) {
	_, err := io.ReadAll(Decode(strings.NewReader("5sdq,v~>")))
	if err != errInvalid {
		t.Errorf("got %v, want %v", err, errInvalid)
	}
}

func TestOneByteReads(t *testing.T) {
	want := []byte("The quick brown fox jumps over the lazy dog.")
	buf := &bytes.Buffer{}
	enc := ascii85.NewEncoder(buf)
	enc.Write(want)
	enc.Close()
	buf.WriteString("~>")

	r := Decode(buf)
	var out []byte
	p := make([]byte, 1)
	for {
		n, err := r.Read(p)
		out = append(out, p[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	if d := cmp.Diff(want, out); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("1234"))
	f.Add([]byte("z"))
	f.Add([]byte("ABCDE"))

	f.Fuzz(func(t *testing.T, data []byte) {
		buf := &bytes.Buffer{}
		enc := ascii85.NewEncoder(buf)
		enc.Write(data)
		enc.Close()
		buf.WriteString("~>")

		out, err := io.ReadAll(Decode(buf))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("got %q, want %q", out, data)
		}
	})
}
