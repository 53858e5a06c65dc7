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

package crypt

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// AuthenticationError indicates that none of the available passwords
// could unlock the document.
type AuthenticationError struct {
	ID []byte
}

func (err *AuthenticationError) Error() string {
	return "authentication failed for document ID " + hex.EncodeToString(err.ID)
}

// MalformedError indicates a problem with the Encrypt dictionary.
type MalformedError struct {
	Key string // the offending entry, or empty
	Err error
}

func (err *MalformedError) Error() string {
	if err.Key == "" {
		return "malformed Encrypt dictionary: " + err.Err.Error()
	}
	return fmt.Sprintf("malformed Encrypt dictionary: /%s: %s", err.Key, err.Err)
}

func (err *MalformedError) Unwrap() error {
	return err.Err
}

func malformed(key string, format string, args ...any) error {
	return &MalformedError{Key: key, Err: fmt.Errorf(format, args...)}
}

var (
	// ErrUnsupported indicates an encryption method which is not
	// implemented.
	ErrUnsupported = errors.New("unsupported encryption method")

	errCorrupted       = errors.New("corrupted ciphertext")
	errInvalidPassword = errors.New("invalid password")
)
