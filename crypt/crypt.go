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

// Package crypt implements the standard security handler of PDF files, as
// far as it is needed to decrypt stream data.
//
// The type [Context] implements the [pdfstream.Cipher] interface.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rc4"
	"fmt"
	"io"

	"seehuhn.de/go/pdfstream"
	"seehuhn.de/go/pdfstream/internal/filter"
)

// Options control how an encrypted document is unlocked.
type Options struct {
	// ReadPassword is called when the empty password does not unlock the
	// document.  The arguments are the document ID and the number of the
	// attempt, starting at 0.  Returning the empty string gives up.
	ReadPassword func(id []byte, try int) string
}

// Context holds the key material for decrypting the streams of one
// document.
type Context struct {
	sec     *stdSecHandler
	filters map[pdfstream.Name]*cryptFilter

	// stmF is the crypt filter used for streams.  nil means that streams
	// are not encrypted.
	stmF *cryptFilter
}

var _ pdfstream.Cipher = (*Context)(nil)

// Open reads an Encrypt dictionary and authenticates with the standard
// security handler.  The id argument is the first element of the /ID array
// in the file trailer.
func Open(encrypt pdfstream.Dict, id []byte, opt *Options) (*Context, error) {
	if opt == nil {
		opt = &Options{}
	}
	if id == nil {
		return nil, malformed("", "found Encrypt but no ID")
	}

	if filter, _ := encrypt["Filter"].(pdfstream.Name); filter != "Standard" {
		return nil, fmt.Errorf("security handler %q: %w", filter, ErrUnsupported)
	}

	V, ok := encrypt["V"].(pdfstream.Integer)
	if !ok {
		return nil, malformed("V", "missing or invalid")
	}

	ctx := &Context{}
	var keyBytes int
	switch V {
	case 1:
		ctx.stmF = &cryptFilter{Cipher: cipherRC4, Length: 40}
		keyBytes = 5
	case 2, 3:
		cf := &cryptFilter{Cipher: cipherRC4, Length: 40}
		if obj, ok := encrypt["Length"].(pdfstream.Integer); ok {
			cf.Length = int(obj)
			if cf.Length < 40 || cf.Length > 128 || cf.Length%8 != 0 {
				return nil, malformed("Length", "invalid key length %d", cf.Length)
			}
		}
		ctx.stmF = cf
		keyBytes = cf.Length / 8
	case 4, 5:
		CF, _ := encrypt["CF"].(pdfstream.Dict)
		ctx.filters = make(map[pdfstream.Name]*cryptFilter, len(CF))
		for name, obj := range CF {
			cfDict, ok := obj.(pdfstream.Dict)
			if !ok {
				return nil, malformed("CF", "invalid entry %s", name)
			}
			cf, err := newCryptFilter(cfDict)
			if err != nil {
				return nil, &MalformedError{Key: "CF", Err: fmt.Errorf("%s: %w", name, err)}
			}
			ctx.filters[name] = cf
		}
		if name, ok := encrypt["StmF"].(pdfstream.Name); ok {
			cf, ok := ctx.lookupFilter(name)
			if !ok {
				return nil, malformed("StmF", "unknown crypt filter %s", name)
			}
			ctx.stmF = cf
		}
		if V == 4 {
			keyBytes = 16
		} else {
			keyBytes = 32
		}
	default:
		return nil, fmt.Errorf("V=%d: %w", V, ErrUnsupported)
	}

	sec, err := openStdSecHandler(encrypt, keyBytes, id, opt.ReadPassword)
	if err != nil {
		return nil, err
	}
	ctx.sec = sec

	// Unlock the document now, so that wrong passwords are reported by
	// Open and not when the first stream is read.
	_, err = sec.GetKey(false)
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

// lookupFilter finds a crypt filter by name.  The filter "Identity" is
// always available and is represented by nil.
func (ctx *Context) lookupFilter(name pdfstream.Name) (*cryptFilter, bool) {
	if name == "Identity" {
		return nil, true
	}
	cf, ok := ctx.filters[name]
	return cf, ok
}

// WithFilter returns a Context which uses the named crypt filter for
// streams.  This implements the [pdfstream.Cipher] interface.
func (ctx *Context) WithFilter(name pdfstream.Name) (pdfstream.Cipher, bool) {
	cf, ok := ctx.lookupFilter(name)
	if !ok {
		return nil, false
	}
	return &Context{sec: ctx.sec, filters: ctx.filters, stmF: cf}, true
}

// DecryptStream returns a reader which decrypts the stream data of the
// object ref, read from r.  This implements the [pdfstream.Cipher]
// interface.
//
// For AES encryption, the initialisation vector is read from r when data
// is first requested.
func (ctx *Context) DecryptStream(ref pdfstream.Reference, r io.Reader) io.Reader {
	cf := ctx.stmF
	if cf == nil {
		return r
	}

	key, err := ctx.sec.KeyForRef(cf, ref)
	if err != nil {
		return filter.ErrorReader(err)
	}

	switch cf.Cipher {
	case cipherRC4:
		c, err := rc4.NewCipher(key)
		if err != nil {
			return filter.ErrorReader(err)
		}
		return &cipher.StreamReader{S: c, R: r}
	case cipherAES:
		return filter.Lazy(func() (io.Reader, error) {
			buf := make([]byte, 16+aesBufSize)
			iv := buf[:16]
			n, err := io.ReadFull(r, iv)
			if n == 0 && err == io.EOF {
				return r, nil // empty stream
			} else if err != nil {
				return nil, errCorrupted
			}

			c, err := aes.NewCipher(key)
			if err != nil {
				return nil, err
			}
			return &decryptReader{
				cbc: cipher.NewCBCDecrypter(c, iv),
				r:   r,
				buf: buf,
			}, nil
		})
	default:
		return r
	}
}

// Permissions returns the operations permitted for users who opened the
// document without the owner password.
func (ctx *Context) Permissions() Perm {
	return stdSecPToPerm(ctx.sec.R, ctx.sec.P)
}

// IsOwner reports whether the document was unlocked with the owner
// password.
func (ctx *Context) IsOwner() bool {
	return ctx.sec.ownerAuthenticated
}

// Method describes the cipher used for streams, for example "AES-128".
func (ctx *Context) Method() string {
	if ctx.stmF == nil {
		return "Identity"
	}
	return ctx.stmF.String()
}

type cryptFilter struct {
	Cipher cipherType

	// Length is the key length in bits.
	Length int
}

func (cf *cryptFilter) String() string {
	return fmt.Sprintf("%s-%d", cf.Cipher, cf.Length)
}

// newCryptFilter reads an entry of the /CF dictionary.  A filter with
// /CFM /None is represented by nil.
func newCryptFilter(cfDict pdfstream.Dict) (*cryptFilter, error) {
	switch cfDict["CFM"] {
	case pdfstream.Name("None"), nil:
		return nil, nil
	case pdfstream.Name("V2"):
		return &cryptFilter{Cipher: cipherRC4, Length: 128}, nil
	case pdfstream.Name("AESV2"):
		return &cryptFilter{Cipher: cipherAES, Length: 128}, nil
	case pdfstream.Name("AESV3"):
		return &cryptFilter{Cipher: cipherAES, Length: 256}, nil
	default:
		return nil, fmt.Errorf("CFM %s: %w", pdfstream.Format(cfDict["CFM"]), ErrUnsupported)
	}
}

// cipherType denotes the type of encryption used for stream data.
type cipherType int

const (
	cipherUnknown cipherType = iota

	// cipherRC4 corresponds to /CFM /V2, and to the encryption used for
	// /V values below 4.
	cipherRC4

	// cipherAES is AES in CBC mode.  This corresponds to /CFM /AESV2 and
	// /AESV3.
	cipherAES
)

func (c cipherType) String() string {
	switch c {
	case cipherRC4:
		return "RC4"
	case cipherAES:
		return "AES"
	default:
		return fmt.Sprintf("cipher#%d", c)
	}
}
