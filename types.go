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
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Object represents an object in a PDF file.  There are nine basic types of
// PDF objects, which implement this interface: [Array], [Bool], [Dict],
// [Integer], [Name], [Real], [Reference], [String], and the null object,
// which is represented by a nil Object.
type Object interface {
	// PDF writes the PDF file representation of the object to w.
	PDF(w io.Writer) error
}

// Bool represents a boolean value in a PDF file.
type Bool bool

// PDF implements the [Object] interface.
func (x Bool) PDF(w io.Writer) error {
	s := "false"
	if x {
		s = "true"
	}
	_, err := io.WriteString(w, s)
	return err
}

// Integer represents an integer constant in a PDF file.
type Integer int64

// PDF implements the [Object] interface.
func (x Integer) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatInt(int64(x), 10))
	return err
}

// Real represents an real number in a PDF file.
type Real float64

// PDF implements the [Object] interface.
func (x Real) PDF(w io.Writer) error {
	s := strconv.FormatFloat(float64(x), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s = s + "."
	}
	_, err := io.WriteString(w, s)
	return err
}

// String represents a raw string in a PDF file.  The character set encoding,
// if any, is determined by the context.
type String []byte

// PDF implements the [Object] interface.
// Strings are always written in hexadecimal form.
func (x String) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<%x>", []byte(x))
	return err
}

// Name represents a name object in a PDF file.
type Name string

// PDF implements the [Object] interface.
func (x Name) PDF(w io.Writer) error {
	buf := &bytes.Buffer{}
	buf.WriteByte('/')
	for _, c := range []byte(x) {
		if c < 0x21 || c > 0x7e || c == '#' || strings.IndexByte("()<>[]{}/%", c) >= 0 {
			fmt.Fprintf(buf, "#%02x", c)
			continue
		}
		buf.WriteByte(c)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Array represent an array of objects in a PDF file.
type Array []Object

// PDF implements the [Object] interface.
func (x Array) PDF(w io.Writer) error {
	_, err := io.WriteString(w, "[")
	if err != nil {
		return err
	}
	for i, val := range x {
		if i > 0 {
			_, err = io.WriteString(w, " ")
			if err != nil {
				return err
			}
		}
		err = writeObject(w, val)
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "]")
	return err
}

// Dict represent a Dictionary object in a PDF file.
type Dict map[Name]Object

// PDF implements the [Object] interface.
// Keys are written in sorted order, entries with nil values are omitted.
func (x Dict) PDF(w io.Writer) error {
	keys := make([]Name, 0, len(x))
	for key, val := range x {
		if val != nil {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	_, err := io.WriteString(w, "<<")
	if err != nil {
		return err
	}
	for _, key := range keys {
		_, err = io.WriteString(w, " ")
		if err != nil {
			return err
		}
		err = key.PDF(w)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, " ")
		if err != nil {
			return err
		}
		err = writeObject(w, x[key])
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, " >>")
	return err
}

// getAlt returns the value stored under key, or under the abbreviated
// key alt if key is not present.
func (x Dict) getAlt(key, alt Name) Object {
	if val, ok := x[key]; ok && val != nil {
		return val
	}
	return x[alt]
}

// Reference represents a reference to an indirect object in a PDF file.
type Reference struct {
	Number     uint32
	Generation uint16
}

// NewReference creates a new reference object.
func NewReference(number uint32, generation uint16) Reference {
	return Reference{Number: number, Generation: generation}
}

func (x Reference) String() string {
	return strconv.FormatUint(uint64(x.Number), 10) + " " +
		strconv.FormatUint(uint64(x.Generation), 10) + " R"
}

// PDF implements the [Object] interface.
func (x Reference) PDF(w io.Writer) error {
	_, err := io.WriteString(w, x.String())
	return err
}

func writeObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	return obj.PDF(w)
}

// Format returns the PDF representation of obj as a string.
func Format(obj Object) string {
	buf := &bytes.Buffer{}
	err := writeObject(buf, obj)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return buf.String()
}
