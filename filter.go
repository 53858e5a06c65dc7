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

// FilterKind identifies one of the standard PDF stream filters.
type FilterKind int

// These are the filter kinds known to this package.
const (
	FilterUnknown FilterKind = iota
	FilterASCIIHex
	FilterASCII85
	FilterCCITTFax
	FilterDCT
	FilterRunLength
	FilterFlate
	FilterLZW
	FilterJBIG2
	FilterJPX
	FilterCrypt
)

// The abbreviated names are used in inline images, but many writers use
// them in stream dictionaries, too.
var filterNames = map[Name]FilterKind{
	"ASCIIHexDecode":  FilterASCIIHex,
	"AHx":             FilterASCIIHex,
	"ASCII85Decode":   FilterASCII85,
	"A85":             FilterASCII85,
	"CCITTFaxDecode":  FilterCCITTFax,
	"CCF":             FilterCCITTFax,
	"DCTDecode":       FilterDCT,
	"DCT":             FilterDCT,
	"RunLengthDecode": FilterRunLength,
	"RL":              FilterRunLength,
	"FlateDecode":     FilterFlate,
	"Fl":              FilterFlate,
	"LZWDecode":       FilterLZW,
	"LZW":             FilterLZW,
	"JBIG2Decode":     FilterJBIG2,
	"JPXDecode":       FilterJPX,
	"Crypt":           FilterCrypt,
}

// ParseFilterKind maps a filter name, either in full or abbreviated form,
// to the corresponding filter kind.  FilterUnknown is returned for names
// which are not recognised.
func ParseFilterKind(name Name) FilterKind {
	return filterNames[name]
}

// String returns the full PDF name of the filter.
func (k FilterKind) String() string {
	switch k {
	case FilterASCIIHex:
		return "ASCIIHexDecode"
	case FilterASCII85:
		return "ASCII85Decode"
	case FilterCCITTFax:
		return "CCITTFaxDecode"
	case FilterDCT:
		return "DCTDecode"
	case FilterRunLength:
		return "RunLengthDecode"
	case FilterFlate:
		return "FlateDecode"
	case FilterLZW:
		return "LZWDecode"
	case FilterJBIG2:
		return "JBIG2Decode"
	case FilterJPX:
		return "JPXDecode"
	case FilterCrypt:
		return "Crypt"
	default:
		return "Unknown"
	}
}

// usesPredictor reports whether the /Predictor entry of the decode
// parameters applies to filters of this kind.
func (k FilterKind) usesPredictor() bool {
	return k == FilterFlate || k == FilterLZW
}

// EstimateLength guesses the size of the decoded data of a stream, given
// the stream length and the value of the /Filter entry in the stream
// dictionary.  The result is only meant as the initial capacity of a
// buffer; the actual decoded size can be smaller or larger.
func EstimateLength(length int64, filter Object) int64 {
	if length < 0 {
		length = 0
	}
	switch f := filter.(type) {
	case Name:
		length = ParseFilterKind(f).estimate(length)
	case Array:
		for _, elem := range f {
			if name, ok := elem.(Name); ok {
				length = ParseFilterKind(name).estimate(length)
			}
		}
	}
	return length
}

func (k FilterKind) estimate(n int64) int64 {
	switch k {
	case FilterASCIIHex:
		return n / 2
	case FilterASCII85:
		return n * 4 / 5
	case FilterFlate, FilterRunLength:
		return n * 3
	case FilterLZW:
		return n * 2
	default:
		return n
	}
}
