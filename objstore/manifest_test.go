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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seehuhn.de/go/pdfstream"
)

const testManifest = `
file: test.pdf
id: 00112233445566778899aabbccddeeff
encrypt:
  Filter: /Standard
  V: 2
  R: 3
  Length: 128
  O: <0102>
  U: <0304>
  P: -3904
objects:
  - ref: 4 0 R
    offset: 1187
    value: {Length: 5 0 R, Filter: [/ASCII85Decode, /FlateDecode], DecodeParms: [null, {Predictor: 12, Columns: 4}]}
  - ref: 5 0 R
    value: 734
  - ref: 7 2 R
    value: [1.5, true, (hello), /Name, <48 65 6c>]
`

func TestManifest(t *testing.T) {
	m, err := ReadManifest(strings.NewReader(testManifest))
	require.NoError(t, err)
	require.Equal(t, "test.pdf", m.File)

	id, err := m.FileID()
	require.NoError(t, err)
	require.Len(t, id, 16)
	require.Equal(t, byte(0xff), id[15])

	enc, err := m.EncryptDict()
	require.NoError(t, err)
	require.Equal(t, pdfstream.Name("Standard"), enc["Filter"])
	require.Equal(t, pdfstream.Integer(-3904), enc["P"])
	require.Equal(t, pdfstream.String{1, 2}, enc["O"])

	tab, err := m.Table(0)
	require.NoError(t, err)
	require.Equal(t, 8, tab.Len())

	obj, err := tab.Resolve(pdfstream.NewReference(4, 0))
	require.NoError(t, err)
	require.Equal(t, pdfstream.Dict{
		"Length": pdfstream.NewReference(5, 0),
		"Filter": pdfstream.Array{pdfstream.Name("ASCII85Decode"), pdfstream.Name("FlateDecode")},
		"DecodeParms": pdfstream.Array{
			nil,
			pdfstream.Dict{"Predictor": pdfstream.Integer(12), "Columns": pdfstream.Integer(4)},
		},
	}, obj)
	offs, ok := tab.StreamOffset(pdfstream.NewReference(4, 0))
	require.True(t, ok)
	require.Equal(t, int64(1187), offs)

	obj, err = tab.Resolve(pdfstream.NewReference(5, 0))
	require.NoError(t, err)
	require.Equal(t, pdfstream.Integer(734), obj)

	obj, err = tab.Resolve(pdfstream.NewReference(7, 2))
	require.NoError(t, err)
	require.Equal(t, pdfstream.Array{
		pdfstream.Real(1.5),
		pdfstream.Bool(true),
		pdfstream.String("hello"),
		pdfstream.Name("Name"),
		pdfstream.String("Hel"),
	}, obj)
}

func TestManifestErrors(t *testing.T) {
	_, err := ReadManifest(strings.NewReader("file: a.pdf\nunknown: 1\n"))
	require.Error(t, err)

	m, err := ReadManifest(strings.NewReader("objects:\n  - ref: 1 0\n    value: 1\n"))
	require.NoError(t, err)
	_, err = m.Table(0)
	require.Error(t, err)

	m, err = ReadManifest(strings.NewReader("objects:\n  - ref: 1 0 R\n    value: just text\n"))
	require.NoError(t, err)
	tab, err := m.Table(0)
	require.NoError(t, err)
	_, err = tab.Resolve(pdfstream.NewReference(1, 0))
	require.Error(t, err)

	m = &Manifest{ID: "xyz", Encrypt: 12}
	_, err = m.FileID()
	require.Error(t, err)
	_, err = m.EncryptDict()
	require.Error(t, err)
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference(" 12  3 R ")
	require.NoError(t, err)
	require.Equal(t, pdfstream.NewReference(12, 3), ref)

	for _, s := range []string{"", "1 0", "1 0 X", "a 0 R", "1 70000 R", "-1 0 R"} {
		_, err := ParseReference(s)
		require.Error(t, err, s)
	}
}
