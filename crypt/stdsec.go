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
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rc4"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"

	"github.com/xdg-go/stringprep"
	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/pdfstream"
)

// The stdSecHandler authenticates the user via a pair of passwords.
// The "user password" is used to access the contents of the document, the
// "owner password" can be used to control additional permissions.
//
// This represents the PDF standard security handler, which is specified in
// section 7.6.4 of ISO 32000-2:2020.
type stdSecHandler struct {
	// R is the revision of the standard security handler.
	R int

	// ID is the first element of the ID array in the trailer dictionary.
	ID []byte

	// O and U are derived from the owner and user passwords.
	O, U []byte

	// OE, UE and Perms are only used for revision 6.
	OE, UE, Perms []byte

	// P is the set of permission flags.
	P uint32

	keyBytes int

	readPwd func([]byte, int) string
	key     []byte

	// unencryptedMetaData is the negation of /EncryptMetadata.
	unencryptedMetaData bool

	ownerAuthenticated bool
}

func openStdSecHandler(enc pdfstream.Dict, keyBytes int, id []byte, readPwd func([]byte, int) string) (*stdSecHandler, error) {
	R, ok := enc["R"].(pdfstream.Integer)
	if !ok || R < 2 || R > 6 {
		return nil, malformed("R", "invalid revision")
	}
	if R == 5 {
		return nil, &MalformedError{Key: "R", Err: ErrUnsupported}
	}
	ouLength := 32
	if R == 6 {
		ouLength = 48
	}

	O, ok := enc["O"].(pdfstream.String)
	if !ok || len(O) < ouLength {
		return nil, malformed("O", "invalid value")
	}
	U, ok := enc["U"].(pdfstream.String)
	if !ok || len(U) < ouLength {
		return nil, malformed("U", "invalid value")
	}
	P, ok := enc["P"].(pdfstream.Integer)
	if !ok {
		return nil, malformed("P", "missing or invalid")
	}

	emd := true
	if obj, ok := enc["EncryptMetadata"].(pdfstream.Bool); ok && R >= 4 {
		emd = bool(obj)
	}

	sec := &stdSecHandler{
		R:        int(R),
		ID:       id,
		O:        []byte(O[:ouLength]),
		U:        []byte(U[:ouLength]),
		P:        uint32(P),
		keyBytes: keyBytes,
		readPwd:  readPwd,

		unencryptedMetaData: !emd,
	}

	if R == 6 {
		OE, ok := enc["OE"].(pdfstream.String)
		if !ok || len(OE) != 32 {
			return nil, malformed("OE", "invalid value")
		}
		UE, ok := enc["UE"].(pdfstream.String)
		if !ok || len(UE) != 32 {
			return nil, malformed("UE", "invalid value")
		}
		Perms, ok := enc["Perms"].(pdfstream.String)
		if !ok || len(Perms) != 16 {
			return nil, malformed("Perms", "invalid value")
		}
		sec.OE = []byte(OE)
		sec.UE = []byte(UE)
		sec.Perms = []byte(Perms)
	}

	return sec, nil
}

// KeyForRef computes the key for the stream data of one object
// (algorithm 1 in the PDF specification).
func (sec *stdSecHandler) KeyForRef(cf *cryptFilter, ref pdfstream.Reference) ([]byte, error) {
	key, err := sec.GetKey(false)
	if err != nil {
		return nil, err
	}
	if sec.R == 6 {
		return key, nil
	}

	h := md5.New()
	h.Write(key)
	num := ref.Number
	gen := ref.Generation
	h.Write([]byte{
		byte(num), byte(num >> 8), byte(num >> 16),
		byte(gen), byte(gen >> 8)})
	if cf.Cipher == cipherAES {
		h.Write([]byte("sAlT"))
	}
	l := min(len(key)+5, 16)
	return h.Sum(nil)[:l], nil
}

// GetKey returns the file encryption key.  Passwords are requested via
// the readPwd callback.  If needOwner is set, only the owner password is
// accepted.
func (sec *stdSecHandler) GetKey(needOwner bool) ([]byte, error) {
	if sec.key != nil && (sec.ownerAuthenticated || !needOwner) {
		return sec.key, nil
	}

	passwd := ""
	try := 0
	for {
		if sec.tryPassword(passwd, needOwner) {
			return sec.key, nil
		}

		if sec.readPwd == nil {
			return nil, &AuthenticationError{ID: sec.ID}
		}
		passwd = sec.readPwd(sec.ID, try)
		try++
		if passwd == "" {
			return nil, &AuthenticationError{ID: sec.ID}
		}
	}
}

func (sec *stdSecHandler) tryPassword(passwd string, needOwner bool) bool {
	if sec.R < 6 {
		padded, err := padPasswd(passwd)
		if err != nil {
			return false
		}
		if sec.authenticateOwner(padded) == nil {
			return true
		}
		return !needOwner && sec.authenticateUser(padded) == nil
	}

	prepared, err := utf8Passwd(passwd)
	if err != nil {
		return false
	}
	if sec.authenticateOwner6(prepared) == nil {
		return true
	}
	return !needOwner && sec.authenticateUser6(prepared) == nil
}

// Algorithm 2: compute the file encryption key for R <= 4.
func (sec *stdSecHandler) computeFileEncyptionKey(paddedUserPwd []byte) []byte {
	h := md5.New()
	h.Write(paddedUserPwd)
	h.Write(sec.O)
	h.Write([]byte{
		byte(sec.P), byte(sec.P >> 8), byte(sec.P >> 16), byte(sec.P >> 24)})
	h.Write(sec.ID)
	if sec.unencryptedMetaData && sec.R >= 4 {
		h.Write([]byte{255, 255, 255, 255})
	}
	key := h.Sum(nil)

	if sec.R >= 3 {
		for range 50 {
			h.Reset()
			h.Write(key[:sec.keyBytes])
			key = h.Sum(key[:0])
		}
	}

	return key[:sec.keyBytes]
}

// Algorithm 2.B: computing a hash (revision 6)
func slowHash(passwd, salt, U []byte) []byte {
	h := sha256.New()
	h.Write(passwd)
	h.Write(salt)
	h.Write(U)
	K := h.Sum(nil)

	K1 := make([]byte, 64*(len(passwd)+64+len(U)))
	for i := 0; i < 64 || K1[len(K1)-1] > byte(i-32); i++ {
		K1 = K1[:0]
		for range 64 {
			K1 = append(K1, passwd...)
			K1 = append(K1, K...)
			K1 = append(K1, U...)
		}

		c, _ := aes.NewCipher(K[:16])
		cbc := cipher.NewCBCEncrypter(c, K[16:32])
		// The length of K1 is a multiple of 64, so this is safe.
		cbc.CryptBlocks(K1, K1)

		// Since (a*256)%3 = a%3, the remainder of the big-endian number
		// is the remainder of the sum of its bytes.
		var rem int
		for _, b := range K1[:16] {
			rem += int(b)
		}

		var h hash.Hash
		switch rem % 3 {
		case 0:
			h = sha256.New()
		case 1:
			h = sha512.New384()
		case 2:
			h = sha512.New()
		}
		h.Write(K1)
		K = h.Sum(K[:0])
	}

	return K[:32]
}

// ownerKey computes the RC4 key used to encrypt the padded user password
// into /O (part of algorithm 3).
func (sec *stdSecHandler) ownerKey(paddedOwnerPwd []byte) []byte {
	h := md5.New()
	h.Write(paddedOwnerPwd)
	sum := h.Sum(nil)
	if sec.R >= 3 {
		for range 50 {
			h.Reset()
			h.Write(sum[:sec.keyBytes])
			sum = h.Sum(sum[:0])
		}
	}
	return sum[:sec.keyBytes]
}

// Algorithm 4/5: compute U.
func (sec *stdSecHandler) computeU(fileEncyptionKey []byte) []byte {
	U := make([]byte, 32)
	if sec.R == 2 {
		c, _ := rc4.NewCipher(fileEncyptionKey)
		c.XORKeyStream(U, passwdPad)
		return U
	}

	h := md5.New()
	h.Write(passwdPad)
	h.Write(sec.ID)
	U = h.Sum(U[:0])
	c, _ := rc4.NewCipher(fileEncyptionKey)
	c.XORKeyStream(U, U)

	tmpKey := make([]byte, len(fileEncyptionKey))
	for i := byte(1); i <= 19; i++ {
		for j := range tmpKey {
			tmpKey[j] = fileEncyptionKey[j] ^ i
		}
		c, _ = rc4.NewCipher(tmpKey)
		c.XORKeyStream(U, U)
	}
	// The remaining 16 bytes are arbitrary padding.
	return append(U[:16], make([]byte, 16)...)
}

// Algorithm 6: authenticating the user password (revision 4 and earlier)
func (sec *stdSecHandler) authenticateUser(paddedUserPwd []byte) error {
	key := sec.computeFileEncyptionKey(paddedUserPwd)
	U := sec.computeU(key)

	n := 32
	if sec.R >= 3 {
		n = 16
	}
	if !bytes.Equal(U[:n], sec.U[:n]) {
		return &AuthenticationError{ID: sec.ID}
	}
	sec.key = key
	return nil
}

// Algorithm 7: authenticating the owner password (revision 4 and earlier)
func (sec *stdSecHandler) authenticateOwner(paddedOwnerPwd []byte) error {
	key := sec.ownerKey(paddedOwnerPwd)

	buf := make([]byte, 32)
	copy(buf, sec.O)
	if sec.R == 2 {
		c, _ := rc4.NewCipher(key)
		c.XORKeyStream(buf, buf)
	} else {
		tmpKey := make([]byte, len(key))
		for i := 19; i >= 0; i-- {
			for j := range tmpKey {
				tmpKey[j] = key[j] ^ byte(i)
			}
			c, _ := rc4.NewCipher(tmpKey)
			c.XORKeyStream(buf, buf)
		}
	}

	err := sec.authenticateUser(buf)
	if err != nil {
		return err
	}
	sec.ownerAuthenticated = true
	return nil
}

// Algorithm 11: authenticating the user password (revision 6)
func (sec *stdSecHandler) authenticateUser6(utf8Passwd []byte) error {
	hash := slowHash(utf8Passwd, sec.U[32:40], nil)
	if !bytes.Equal(hash, sec.U[:32]) {
		return &AuthenticationError{ID: sec.ID}
	}
	key := slowHash(utf8Passwd, sec.U[40:48], nil)
	return sec.unwrapKey(key, sec.UE)
}

// Algorithm 12: authenticating the owner password (revision 6)
func (sec *stdSecHandler) authenticateOwner6(utf8Passwd []byte) error {
	hash := slowHash(utf8Passwd, sec.O[32:40], sec.U)
	if !bytes.Equal(hash, sec.O[:32]) {
		return &AuthenticationError{ID: sec.ID}
	}
	key := slowHash(utf8Passwd, sec.O[40:48], sec.U)
	err := sec.unwrapKey(key, sec.OE)
	if err != nil {
		return err
	}
	sec.ownerAuthenticated = true
	return nil
}

// unwrapKey decrypts the file encryption key from /UE or /OE and checks
// it against /Perms.
func (sec *stdSecHandler) unwrapKey(key, wrapped []byte) error {
	c, _ := aes.NewCipher(key)
	cbc := cipher.NewCBCDecrypter(c, zero16)
	fileEncryptionKey := make([]byte, 32)
	cbc.CryptBlocks(fileEncryptionKey, wrapped)

	err := sec.checkPerms(fileEncryptionKey)
	if err != nil {
		return err
	}
	sec.key = fileEncryptionKey
	return nil
}

func (sec *stdSecHandler) checkPerms(fileEncryptionKey []byte) error {
	buf := make([]byte, 16)
	c, _ := aes.NewCipher(fileEncryptionKey)
	c.Decrypt(buf, sec.Perms)

	if !bytes.Equal(buf[9:12], []byte("adb")) {
		return &AuthenticationError{ID: sec.ID}
	}
	if binary.LittleEndian.Uint32(buf[:4]) != sec.P {
		return &AuthenticationError{ID: sec.ID}
	}
	emdCode := byte('T')
	if sec.unencryptedMetaData {
		emdCode = 'F'
	}
	if buf[8] != emdCode {
		return &AuthenticationError{ID: sec.ID}
	}
	return nil
}

// utf8Passwd prepares a password for revision 6 of the security handler.
func utf8Passwd(passwd string) ([]byte, error) {
	prepped, err := stringprep.SASLprep.Prepare(passwd)
	if err != nil {
		return nil, errInvalidPassword
	}
	buf := []byte(prepped)
	if len(buf) > 127 {
		buf = buf[:127]
	}
	return buf, nil
}

// padPasswd prepares a password for revisions 2 to 4 of the security
// handler.  The result has length 32.
func padPasswd(passwd string) ([]byte, error) {
	buf, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(passwd))
	if err != nil {
		return nil, errInvalidPassword
	}

	padded := make([]byte, 32)
	n := copy(padded, buf)
	copy(padded[n:], passwdPad)
	return padded, nil
}

var passwdPad = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

var zero16 = make([]byte, 16)
