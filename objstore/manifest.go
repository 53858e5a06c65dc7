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

package objstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"seehuhn.de/go/pdfstream"
)

// Manifest describes the objects of a PDF file in YAML form.  This allows
// to access the streams of a file without parsing the file structure.
//
// Example:
//
//	file: sample.pdf
//	id: 9a2f61c45e1b4f0e8d7c6b5a49382716
//	objects:
//	  - ref: 4 0 R
//	    offset: 1187
//	    value: {Length: 5 0 R, Filter: [/ASCII85Decode, /FlateDecode]}
//	  - ref: 5 0 R
//	    value: 734
//
// Object values use the following conventions: YAML maps are
// dictionaries, sequences are arrays, and numbers and booleans map to the
// corresponding PDF types.  Strings starting with "/" are names, strings of
// the form "12 0 R" are references, "<...>" gives a hexadecimal string and
// "(...)" a literal string.
type Manifest struct {
	// File is the name of the PDF file.  Relative names are interpreted
	// relative to the directory containing the manifest.
	File string `yaml:"file"`

	// ID is the first element of the file identifier, in hexadecimal.
	ID string `yaml:"id,omitempty"`

	// Size is the size of the cross-reference table.  If this is zero,
	// the table is just large enough to hold all listed objects.
	Size int `yaml:"size,omitempty"`

	// Encrypt is the Encrypt dictionary of the file trailer.
	Encrypt interface{} `yaml:"encrypt,omitempty"`

	Objects []ManifestObject `yaml:"objects"`
}

// ManifestObject describes one indirect object.
type ManifestObject struct {
	Ref string `yaml:"ref"`

	// Offset is the position of the stream data in the file.  This must
	// be zero for objects which are not streams.
	Offset int64 `yaml:"offset,omitempty"`

	Value interface{} `yaml:"value"`
}

// ReadManifest reads a manifest in YAML format.
func ReadManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	err = yaml.UnmarshalStrict(data, m)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return m, nil
}

// Table creates an object table for the objects listed in the manifest.
// Object values are converted when they are first resolved.  The
// cacheSize argument is passed to [New].
func (m *Manifest) Table(cacheSize int) (*Table, error) {
	refs := make([]pdfstream.Reference, len(m.Objects))
	size := m.Size
	for i, obj := range m.Objects {
		ref, err := ParseReference(obj.Ref)
		if err != nil {
			return nil, fmt.Errorf("manifest object %d: %w", i, err)
		}
		refs[i] = ref
		if m.Size == 0 {
			size = max(size, int(ref.Number)+1)
		}
	}

	t := New(size, cacheSize)
	for i, obj := range m.Objects {
		value := obj.Value
		err := t.SetFunc(refs[i], func() (pdfstream.Object, error) {
			return ToObject(value)
		}, obj.Offset)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
	}
	return t, nil
}

// FileID returns the decoded file identifier, or nil if the manifest does
// not specify one.
func (m *Manifest) FileID() ([]byte, error) {
	if m.ID == "" {
		return nil, nil
	}
	id, err := hex.DecodeString(m.ID)
	if err != nil {
		return nil, fmt.Errorf("manifest: invalid id: %w", err)
	}
	return id, nil
}

// EncryptDict returns the Encrypt dictionary, or nil if the file is not
// encrypted.
func (m *Manifest) EncryptDict() (pdfstream.Dict, error) {
	if m.Encrypt == nil {
		return nil, nil
	}
	obj, err := ToObject(m.Encrypt)
	if err != nil {
		return nil, fmt.Errorf("manifest: encrypt: %w", err)
	}
	dict, ok := obj.(pdfstream.Dict)
	if !ok {
		return nil, errors.New("manifest: encrypt: not a dictionary")
	}
	return dict, nil
}

// ParseReference parses a reference of the form "12 0 R".
func ParseReference(s string) (pdfstream.Reference, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 || fields[2] != "R" {
		return pdfstream.Reference{}, fmt.Errorf("invalid reference %q", s)
	}
	num, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return pdfstream.Reference{}, fmt.Errorf("invalid reference %q", s)
	}
	gen, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return pdfstream.Reference{}, fmt.Errorf("invalid reference %q", s)
	}
	return pdfstream.NewReference(uint32(num), uint16(gen)), nil
}

// ToObject converts a value decoded from YAML into a PDF object.
func ToObject(v interface{}) (pdfstream.Object, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return pdfstream.Bool(x), nil
	case int:
		return pdfstream.Integer(x), nil
	case int64:
		return pdfstream.Integer(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return pdfstream.Real(x), nil
		}
		return pdfstream.Integer(x), nil
	case float64:
		return pdfstream.Real(x), nil
	case string:
		return stringToObject(x)
	case []interface{}:
		res := make(pdfstream.Array, len(x))
		for i, elem := range x {
			obj, err := ToObject(elem)
			if err != nil {
				return nil, err
			}
			res[i] = obj
		}
		return res, nil
	case map[interface{}]interface{}:
		res := make(pdfstream.Dict, len(x))
		for key, val := range x {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("invalid dictionary key %v", key)
			}
			obj, err := ToObject(val)
			if err != nil {
				return nil, err
			}
			res[pdfstream.Name(strings.TrimPrefix(name, "/"))] = obj
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func stringToObject(s string) (pdfstream.Object, error) {
	switch {
	case strings.HasPrefix(s, "/"):
		return pdfstream.Name(s[1:]), nil
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		hexDigits := strings.Join(strings.Fields(s[1:len(s)-1]), "")
		if len(hexDigits)%2 != 0 {
			hexDigits += "0"
		}
		data, err := hex.DecodeString(hexDigits)
		if err != nil {
			return nil, fmt.Errorf("invalid hex string %q", s)
		}
		return pdfstream.String(data), nil
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		return pdfstream.String(s[1 : len(s)-1]), nil
	}
	if ref, err := ParseReference(s); err == nil {
		return ref, nil
	}
	return nil, fmt.Errorf("cannot interpret %q", s)
}
