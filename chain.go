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
	"io"
	"math"

	"seehuhn.de/go/pdfstream/internal/filter/ascii85"
	"seehuhn.de/go/pdfstream/internal/filter/asciihex"
	"seehuhn.de/go/pdfstream/internal/filter/ccittfax"
	"seehuhn.de/go/pdfstream/internal/filter/dct"
	"seehuhn.de/go/pdfstream/internal/filter/flate"
	"seehuhn.de/go/pdfstream/internal/filter/jbig2"
	"seehuhn.de/go/pdfstream/internal/filter/lzw"
	"seehuhn.de/go/pdfstream/internal/filter/predict"
	"seehuhn.de/go/pdfstream/internal/filter/runlength"
)

// filterEntry returns the /Filter entry of a stream dictionary, with
// indirect references resolved.
func (d *Document) filterEntry(ref Reference, dict Dict) Object {
	return d.resolveLenient(ref, dict.getAlt("Filter", "F"))
}

// hasCryptFilter reports whether the filter list of a stream contains the
// Crypt filter.  Such streams opt out of the document-wide decryption.
func (d *Document) hasCryptFilter(ref Reference, dict Dict) bool {
	switch f := d.filterEntry(ref, dict).(type) {
	case Name:
		return ParseFilterKind(f) == FilterCrypt
	case Array:
		for _, elem := range f {
			name, ok := d.resolveLenient(ref, elem).(Name)
			if ok && ParseFilterKind(name) == FilterCrypt {
				return true
			}
		}
	}
	return false
}

// buildChain adds the stages for all filters listed in dict on top of in.
//
// If an error occurs, the returned reader is the head of the partially
// built chain.  The caller must close it in every case.
func (d *Document) buildChain(in io.ReadCloser, dict Dict, ref Reference) (io.ReadCloser, error) {
	filters := d.filterEntry(ref, dict)
	params := d.resolveLenient(ref, dict.getAlt("DecodeParms", "DP"))

	switch f := filters.(type) {
	case nil:
		return in, nil

	case Name:
		return d.buildStage(in, f, d.singleParams(ref, params), ref)

	case Array:
		list := d.paramsList(ref, params, len(f))
		for i, elem := range f {
			name, ok := d.resolveLenient(ref, elem).(Name)
			if !ok {
				d.warn(ref, "", "invalid filter name %s", Format(elem))
				continue
			}
			var err error
			in, err = d.buildStage(in, name, list[i], ref)
			if err != nil {
				return in, err
			}
		}
		return in, nil

	default:
		d.warn(ref, "", "invalid /Filter entry %s", Format(filters))
		return in, nil
	}
}

// singleParams returns the decode parameters for a stream with a single
// filter.
func (d *Document) singleParams(ref Reference, params Object) Dict {
	switch p := params.(type) {
	case nil:
		return nil
	case Dict:
		return p
	case Array:
		if len(p) == 1 {
			return d.paramsDict(ref, p[0])
		}
		d.warn(ref, "", "%d decode parameter dictionaries for one filter", len(p))
	default:
		d.warn(ref, "", "invalid /DecodeParms entry %s", Format(params))
	}
	return nil
}

// paramsList returns the decode parameters for a filter array of length n.
// Missing or malformed entries give empty parameters.
func (d *Document) paramsList(ref Reference, params Object, n int) []Dict {
	res := make([]Dict, n)
	switch p := params.(type) {
	case nil:
	case Array:
		if len(p) != n {
			d.warn(ref, "", "%d decode parameter dictionaries for %d filters", len(p), n)
		}
		for i := range min(n, len(p)) {
			res[i] = d.paramsDict(ref, p[i])
		}
	default:
		d.warn(ref, "", "/DecodeParms is not an array, ignored")
	}
	return res
}

func (d *Document) paramsDict(ref Reference, obj Object) Dict {
	switch p := d.resolveLenient(ref, obj).(type) {
	case nil:
		return nil
	case Dict:
		return p
	default:
		d.warn(ref, "", "invalid decode parameters %s", Format(p))
		return nil
	}
}

func (d *Document) getInt(ref Reference, params Dict, key Name, def int) int {
	switch x := d.resolveLenient(ref, params[key]).(type) {
	case Integer:
		if x > math.MaxInt32 {
			return math.MaxInt32
		} else if x < math.MinInt32 {
			return math.MinInt32
		}
		return int(x)
	case Real:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int(x)
		}
	}
	return def
}

func (d *Document) getBool(ref Reference, params Dict, key Name, def bool) bool {
	if x, ok := d.resolveLenient(ref, params[key]).(Bool); ok {
		return bool(x)
	}
	return def
}

// buildStage adds the stage for one filter on top of in.  Problems with
// the filter description are reported as warnings, and the input is
// returned unchanged.  The only error is a failure to load the JBIG2
// globals; in this case in is returned together with the error.
func (d *Document) buildStage(in io.ReadCloser, name Name, params Dict, ref Reference) (io.ReadCloser, error) {
	switch kind := ParseFilterKind(name); kind {
	case FilterASCIIHex:
		return wrap(in, asciihex.Decode(in)), nil

	case FilterASCII85:
		return wrap(in, ascii85.Decode(in)), nil

	case FilterRunLength:
		return wrap(in, runlength.Decode(in)), nil

	case FilterCCITTFax:
		p := ccittfax.Params{
			K:                d.getInt(ref, params, "K", 0),
			Columns:          d.getInt(ref, params, "Columns", ccittfax.DefaultColumns),
			Rows:             d.getInt(ref, params, "Rows", 0),
			BlackIs1:         d.getBool(ref, params, "BlackIs1", false),
			EncodedByteAlign: d.getBool(ref, params, "EncodedByteAlign", false),
		}
		if p.K > 0 {
			d.warn(ref, name, "mixed 1D/2D coding (K=%d) is decoded as 1D", p.K)
		}
		return wrap(in, ccittfax.Decode(in, p)), nil

	case FilterDCT:
		p := dct.Params{
			KeepYCbCr: d.getInt(ref, params, "ColorTransform", -1) == 0,
		}
		return wrap(in, dct.Decode(in, p)), nil

	case FilterFlate:
		return d.predictor(kind, wrap(in, flate.Decode(in)), params, ref), nil

	case FilterLZW:
		early := d.getInt(ref, params, "EarlyChange", 1) != 0
		return d.predictor(kind, wrap(in, lzw.Decode(in, early)), params, ref), nil

	case FilterJBIG2:
		var globals []byte
		switch g := params["JBIG2Globals"].(type) {
		case nil:
		case Reference:
			if g == ref || d.globalsBusy[g] {
				d.warn(ref, name, "recursive /JBIG2Globals, ignored")
				break
			}
			d.globalsBusy[g] = true
			var err error
			globals, err = d.Load(g)
			delete(d.globalsBusy, g)
			if err != nil {
				return in, err
			}
		default:
			d.warn(ref, name, "invalid /JBIG2Globals %s, ignored", Format(g))
		}
		return wrap(in, jbig2.Decode(in, globals, jbig2.DecodeFunc(d.jbig2))), nil

	case FilterJPX:
		// JPX data is passed on to the image decoder unchanged.
		return in, nil

	case FilterCrypt:
		if d.cipher == nil {
			d.warn(ref, name, "Crypt filter in unencrypted document")
			return in, nil
		}
		cfName := Name("Identity")
		if n, ok := d.resolveLenient(ref, params["Name"]).(Name); ok {
			cfName = n
		}
		c, ok := d.cipher.WithFilter(cfName)
		if !ok {
			d.warn(ref, name, "unknown crypt filter %q", cfName)
			return in, nil
		}
		return wrap(in, c.DecryptStream(ref, in)), nil

	default: // FilterUnknown
		d.warn(ref, name, "unsupported filter")
		return in, nil
	}
}

// predictor adds a predictor stage on top of a Flate or LZW stage, if the
// parameters ask for one.
func (d *Document) predictor(kind FilterKind, in io.ReadCloser, params Dict, ref Reference) io.ReadCloser {
	if !kind.usesPredictor() {
		return in
	}
	pred := d.getInt(ref, params, "Predictor", 1)
	if pred <= 1 {
		return in
	}
	p := predict.Params{
		Predictor:        pred,
		Colors:           d.getInt(ref, params, "Colors", 1),
		BitsPerComponent: d.getInt(ref, params, "BitsPerComponent", 8),
		Columns:          d.getInt(ref, params, "Columns", 1),
	}
	return wrap(in, predict.Decode(in, p))
}
