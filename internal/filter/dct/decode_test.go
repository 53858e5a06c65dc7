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

package dct

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"
)

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 100})
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	out, err := io.ReadAll(Decode(bytes.NewReader(encode(t, img)), Params{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 16*8 {
		t.Fatalf("got %d bytes, want %d", len(out), 16*8)
	}
	for i, v := range out {
		if v < 126 || v > 130 {
			t.Fatalf("pixel %d: got %d", i, v)
		}
	}
}

func TestColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	data := encode(t, img)

	out, err := io.ReadAll(Decode(bytes.NewReader(data), Params{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 8*8*3 {
		t.Fatalf("got %d bytes, want %d", len(out), 8*8*3)
	}
	if out[0] < 180 || out[1] > 60 {
		t.Errorf("unexpected RGB value % d", out[:3])
	}

	raw, err := io.ReadAll(Decode(bytes.NewReader(data), Params{KeepYCbCr: true}))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != len(out) {
		t.Fatalf("got %d bytes, want %d", len(raw), len(out))
	}
	// Cr is large for a red image
	if raw[2] < 190 {
		t.Errorf("unexpected YCbCr value % d", raw[:3])
	}
}

func TestInvalid(t *testing.T) {
	_, err := io.ReadAll(Decode(bytes.NewReader([]byte("not a jpeg")), Params{}))
	if err == nil {
		t.Error("expected an error")
	}
}
