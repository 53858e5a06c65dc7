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

package asciihex

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"414243>", []byte("ABC")},
		{"20>", []byte(" ")},
		{">", nil},
		{"000ff0FF>", []byte{0x00, 0x0F, 0xF0, 0xFF}},
		{"41 42\n43\t>", []byte("ABC")},
		{"414>", []byte{0x41, 0x40}},
		{"4142", []byte("AB")}, // missing end marker
		{"41>4243", []byte("A")},
	}
	for _, test := range cases {
		out, err := io.ReadAll(Decode(strings.NewReader(test.in)))
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.want, out, cmp.Comparer(bytes.Equal)); d != "" {
			t.Errorf("%q: (-want +got):\n%s", test.in, d)
		}
	}
}

func TestInvalid(t *testing.T) {
	r := Decode(strings.NewReader("41x42>"))
	buf := make([]byte, 10)
	n, err := r.Read(buf)
	if n != 1 || err != nil {
		t.Fatalf("first read: n=%d, err=%v", n, err)
	}
	_, err = r.Read(buf)
	if err == nil || err == io.EOF {
		t.Errorf("expected decoding error, got %v", err)
	}
}

func TestSmallReads(t *testing.T) {
	r := Decode(strings.NewReader("48 65 6c 6c 6f>"))
	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	if string(out) != "Hello" {
		t.Errorf("got %q", out)
	}
}
