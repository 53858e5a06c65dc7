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
	"errors"
	"fmt"
)

const maxColumns = 1 << 20

// Params holds the predictor entries of a /DecodeParms dictionary.
type Params struct {
	// Predictor selects the prediction algorithm:
	//   1: no prediction
	//   2: TIFF horizontal differencing
	//  10-15: PNG prediction, with the algorithm given by a tag byte
	//         at the start of every row
	Predictor int

	// Colors is the number of color components per pixel.
	Colors int

	// BitsPerComponent is one of 1, 2, 4, 8 or 16.
	BitsPerComponent int

	// Columns is the number of pixels per row.
	Columns int
}

// Validate checks that the parameters describe a valid row layout.
func (p *Params) Validate() error {
	switch {
	case p.Predictor == 1:
		return nil
	case p.Predictor == 2:
		if p.Colors > 60 {
			return errors.New("predict: Colors must be at most 60 for TIFF predictor")
		}
	case p.Predictor >= 10 && p.Predictor <= 15:
		if p.Colors > 256 {
			return errors.New("predict: Colors must be at most 256 for PNG predictors")
		}
	default:
		return fmt.Errorf("predict: unsupported predictor %d", p.Predictor)
	}

	if p.Colors < 1 {
		return errors.New("predict: Colors must be at least 1")
	}
	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
	default:
		return fmt.Errorf("predict: invalid BitsPerComponent %d", p.BitsPerComponent)
	}
	maxCols := min(maxColumns, (1<<31-1)/p.bitsPerPixel())
	if p.Columns < 1 || p.Columns > maxCols {
		return fmt.Errorf("predict: invalid Columns %d", p.Columns)
	}
	return nil
}

func (p *Params) isPNG() bool {
	return p.Predictor >= 10
}

func (p *Params) bitsPerPixel() int {
	return p.Colors * p.BitsPerComponent
}

func (p *Params) bytesPerRow() int {
	return (p.bitsPerPixel()*p.Columns + 7) / 8
}

// bytesPerPixel is the distance to the "left" byte for PNG predictors.
func (p *Params) bytesPerPixel() int {
	return (p.bitsPerPixel() + 7) / 8
}
