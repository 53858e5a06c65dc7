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

package predict

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// encodePNG applies the PNG predictor with the given tag to every row.
func encodePNG(p Params, tag byte, data []byte) []byte {
	n := p.bytesPerRow()
	bpp := p.bytesPerPixel()
	prev := make([]byte, n)
	var out []byte
	for len(data) > 0 {
		row := data[:min(n, len(data))]
		data = data[len(row):]
		out = append(out, tag)
		for i, x := range row {
			var left, up, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]
			switch tag {
			case 1:
				x -= left
			case 2:
				x -= up
			case 3:
				x -= byte((int(left) + int(up)) / 2)
			case 4:
				x -= paeth(left, up, upLeft)
			}
			out = append(out, x)
		}
		copy(prev, row)
	}
	return out
}

func TestPNG(t *testing.T) {
	p := Params{Predictor: 15, Colors: 3, BitsPerComponent: 8, Columns: 7}
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 5*p.bytesPerRow())
	rng.Read(data)

	for tag := byte(0); tag <= 4; tag++ {
		enc := encodePNG(p, tag, data)
		got, err := io.ReadAll(Decode(bytes.NewReader(enc), p))
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(data, got); d != "" {
			t.Errorf("tag %d: (-want +got):\n%s", tag, d)
		}
	}
}

func TestPNGUp(t *testing.T) {
	p := Params{Predictor: 12, Colors: 1, BitsPerComponent: 8, Columns: 3}
	in := []byte{
		2, 1, 2, 3,
		2, 1, 1, 1,
		2, 0, 0, 255,
	}
	want := []byte{1, 2, 3, 2, 3, 4, 2, 3, 3}
	got, err := io.ReadAll(Decode(bytes.NewReader(in), p))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestTIFF(t *testing.T) {
	cases := []struct {
		name string
		p    Params
		in   []byte
		want []byte
	}{
		{
			name: "8 bit RGB",
			p:    Params{Predictor: 2, Colors: 3, BitsPerComponent: 8, Columns: 2},
			in:   []byte{100, 150, 200, 10, 10, 10},
			want: []byte{100, 150, 200, 110, 160, 210},
		},
		{
			name: "8 bit two rows",
			p:    Params{Predictor: 2, Colors: 1, BitsPerComponent: 8, Columns: 3},
			in:   []byte{5, 1, 1, 7, 255, 255},
			want: []byte{5, 6, 7, 7, 6, 5},
		},
		{
			name: "16 bit gray",
			p:    Params{Predictor: 2, Colors: 1, BitsPerComponent: 16, Columns: 2},
			in:   []byte{0x12, 0xFF, 0x00, 0x02},
			want: []byte{0x12, 0xFF, 0x13, 0x01},
		},
		{
			name: "1 bit",
			p:    Params{Predictor: 2, Colors: 1, BitsPerComponent: 1, Columns: 8},
			in:   []byte{0b10000001},
			want: []byte{0b11111110},
		},
		{
			name: "4 bit",
			p:    Params{Predictor: 2, Colors: 1, BitsPerComponent: 4, Columns: 4},
			in:   []byte{0x31, 0x2F},
			want: []byte{0x34, 0x65},
		},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, err := io.ReadAll(Decode(bytes.NewReader(test.in), test.p))
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(test.want, got); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestPartialRow(t *testing.T) {
	p := Params{Predictor: 12, Colors: 1, BitsPerComponent: 8, Columns: 4}
	in := []byte{2, 1, 2, 3, 4, 2, 1, 1}
	got, err := io.ReadAll(Decode(bytes.NewReader(in), p))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{1, 2, 3, 4, 2, 3}, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestSmallReads(t *testing.T) {
	p := Params{Predictor: 11, Colors: 2, BitsPerComponent: 8, Columns: 5}
	data := []byte("abcdefghijklmnopqrstuvwxyz0123")
	enc := encodePNG(p, 1, data)

	r := Decode(bytes.NewReader(enc), p)
	var got []byte
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	if d := cmp.Diff(data, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestInvalidParams(t *testing.T) {
	cases := []Params{
		{Predictor: 3, Colors: 1, BitsPerComponent: 8, Columns: 1},
		{Predictor: 12, Colors: 0, BitsPerComponent: 8, Columns: 1},
		{Predictor: 12, Colors: 1, BitsPerComponent: 3, Columns: 1},
		{Predictor: 2, Colors: 1, BitsPerComponent: 8, Columns: 0},
		{Predictor: 2, Colors: 61, BitsPerComponent: 8, Columns: 1},
	}
	for _, p := range cases {
		if err := p.Validate(); err == nil {
			t.Errorf("%v: expected an error", p)
		}
		_, err := io.ReadAll(Decode(bytes.NewReader([]byte{0, 0, 0}), p))
		if err == nil {
			t.Errorf("%v: expected a read error", p)
		}
	}
}

func TestNoPrediction(t *testing.T) {
	p := Params{Predictor: 1}
	got, err := io.ReadAll(Decode(bytes.NewReader([]byte("abc")), p))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Errorf("got %q", got)
	}
}
