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

// Package dct implements the DCTDecode filter using image/jpeg.
package dct

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"seehuhn.de/go/pdfstream/internal/filter"
)

// Params holds the entries of a DCTDecode parameter dictionary.
type Params struct {
	// KeepYCbCr is set if the parameters contain /ColorTransform 0.
	// In this case three-component images are returned without
	// conversion to RGB.
	KeepYCbCr bool
}

// Decode returns a reader for the pixel data of the JPEG image read from
// r.  The image is decoded when data is first requested.
//
// The output contains interleaved samples, row by row, with no padding:
// three bytes per pixel for color images, one byte per pixel for
// grayscale images and four bytes per pixel for CMYK images.
func Decode(r io.Reader, p Params) io.ReadCloser {
	return filter.Lazy(func() (io.Reader, error) {
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(samples(img, p.KeepYCbCr)), nil
	})
}

func samples(img image.Image, keepYCbCr bool) []byte {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	var buf []byte
	switch img := img.(type) {
	case *image.YCbCr:
		buf = make([]byte, 0, w*h*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yy := img.Y[img.YOffset(x, y)]
				ci := img.COffset(x, y)
				cb, cr := img.Cb[ci], img.Cr[ci]
				if keepYCbCr {
					buf = append(buf, yy, cb, cr)
				} else {
					r, g, b := color.YCbCrToRGB(yy, cb, cr)
					buf = append(buf, r, g, b)
				}
			}
		}

	case *image.Gray:
		buf = make([]byte, 0, w*h)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := img.PixOffset(bounds.Min.X, y)
			buf = append(buf, img.Pix[off:off+w]...)
		}

	case *image.CMYK:
		buf = make([]byte, 0, w*h*4)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := img.PixOffset(bounds.Min.X, y)
			buf = append(buf, img.Pix[off:off+4*w]...)
		}

	default:
		buf = make([]byte, 0, w*h*3)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				buf = append(buf, uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
	}
	return buf
}
