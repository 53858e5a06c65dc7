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

// Package pdfstream provides access to the stream data stored in PDF files.
//
// Stream data is read through a decode chain: a window onto the stream
// data in the file, an optional decryption stage, and one stage for each
// filter listed in the stream dictionary.  A [Document] combines the file
// with an [ObjectStore], which locates objects and their stream data, and
// an optional [Cipher] for encrypted files:
//
//	doc := pdfstream.NewDocument(file, table, &pdfstream.Options{
//	    Cipher: ctx,
//	})
//	s, err := doc.Open(pdfstream.NewReference(12, 0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//	... read decoded data from s ...
//
// All streams of a document share the underlying file, so only one stream
// can be open at a time.  [Document.Load] and [Document.LoadRaw] read the
// complete data of a stream into memory.
//
// The following types implement the PDF object types used in stream
// dictionaries.  All of these implement the [Object] interface:
//
//	Array
//	Bool
//	Dict
//	Integer
//	Name
//	Real
//	Reference
//	String
package pdfstream
