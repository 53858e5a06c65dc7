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

// Pdfstream extracts stream data from PDF files.
//
// The object structure of the file is read from a YAML manifest, see
// [objstore.Manifest] for the format.
//
// Usage:
//
//	pdfstream dump [-r] [-p password] [-o output] manifest.yaml 12
//	pdfstream list [-p password] manifest.yaml
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/tdewolff/argp"
	"golang.org/x/term"

	"seehuhn.de/go/pdfstream"
	"seehuhn.de/go/pdfstream/crypt"
	"seehuhn.de/go/pdfstream/objstore"
)

// Dump writes the contents of one stream.
type Dump struct {
	Raw      bool   `short:"r" desc:"Do not decode the stream data"`
	Gen      int    `short:"g" default:"0" desc:"Generation number of the object"`
	Password string `short:"p" default:"" desc:"Password for encrypted files"`
	Output   string `short:"o" desc:"Output file (default: standard output)"`
	Verbose  bool   `short:"v" desc:"Show warnings and debug messages"`
	Manifest string `index:"0" desc:"Manifest file"`
	Object   int    `index:"1" default:"-1" desc:"Object number of the stream"`
}

// List shows all streams of a file.
type List struct {
	Password string `short:"p" default:"" desc:"Password for encrypted files"`
	Verbose  bool   `short:"v" desc:"Show warnings and debug messages"`
	Manifest string `index:"0" desc:"Manifest file"`
}

func main() {
	root := argp.NewCmd(&List{}, "Extract stream data from PDF files")
	root.AddCmd(&Dump{}, "dump", "Write the contents of a stream")
	root.AddCmd(&List{}, "list", "List the streams of a file")
	root.Parse()
	root.PrintHelp()
}

// Run implements the dump command.
func (cmd *Dump) Run() error {
	if cmd.Manifest == "" || cmd.Object < 0 {
		return argp.ShowUsage
	}
	if uint64(cmd.Object) > math.MaxUint32 || cmd.Gen < 0 || cmd.Gen > math.MaxUint16 {
		return fmt.Errorf("invalid object reference %d %d R", cmd.Object, cmd.Gen)
	}

	s, err := openSession(cmd.Manifest, cmd.Password, cmd.Verbose, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	var w io.Writer = os.Stdout
	if cmd.Output != "" && cmd.Output != "-" {
		out, err := os.Create(cmd.Output)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	ref := pdfstream.NewReference(uint32(cmd.Object), uint16(cmd.Gen))
	var stm *pdfstream.Stream
	if cmd.Raw {
		stm, err = s.doc.OpenRaw(ref)
	} else {
		stm, err = s.doc.Open(ref)
	}
	if err != nil {
		return err
	}
	n, err := io.Copy(w, stm)
	closeErr := stm.Close()
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"object": ref.String(),
		"bytes":  n,
	}).Debug("stream written")
	return closeErr
}

// Run implements the list command.
func (cmd *List) Run() error {
	if cmd.Manifest == "" {
		return argp.ShowUsage
	}

	s, err := openSession(cmd.Manifest, cmd.Password, cmd.Verbose, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.list(os.Stdout)
}

// session holds the resources for accessing one PDF file.
type session struct {
	file  *os.File
	table *objstore.Table
	ctx   *crypt.Context
	doc   *pdfstream.Document
	log   *logrus.Logger
}

func openSession(manifestPath, password string, verbose bool, logOut io.Writer) (*session, error) {
	log := logrus.New()
	log.SetOutput(logOut)
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	mf, err := os.Open(manifestPath)
	if err != nil {
		return nil, err
	}
	m, err := objstore.ReadManifest(mf)
	mf.Close()
	if err != nil {
		return nil, err
	}

	table, err := m.Table(0)
	if err != nil {
		return nil, err
	}

	s := &session{table: table, log: log}
	opt := &pdfstream.Options{Logger: log}

	encrypt, err := m.EncryptDict()
	if err != nil {
		return nil, err
	}
	if encrypt != nil {
		id, err := m.FileID()
		if err != nil {
			return nil, err
		}
		s.ctx, err = crypt.Open(encrypt, id, &crypt.Options{
			ReadPassword: passwordFunc(password, promptPassword),
		})
		if err != nil {
			return nil, err
		}
		opt.Cipher = s.ctx
	}

	fname := m.File
	if fname == "" {
		return nil, errors.New("manifest does not name a PDF file")
	}
	if !filepath.IsAbs(fname) {
		fname = filepath.Join(filepath.Dir(manifestPath), fname)
	}
	s.file, err = os.Open(fname)
	if err != nil {
		return nil, err
	}

	s.doc = pdfstream.NewDocument(s.file, table, opt)
	return s, nil
}

func (s *session) Close() error {
	return s.file.Close()
}

// list writes one line for every stream object.
func (s *session) list(w io.Writer) error {
	if s.ctx != nil {
		fmt.Fprintf(w, "encryption: %s, owner: %t, permissions: %s\n",
			s.ctx.Method(), s.ctx.IsOwner(), s.ctx.Permissions())
	}
	for i := range s.table.Len() {
		ref, ok := s.streamAt(uint32(i))
		if !ok {
			continue
		}
		length, filters, err := s.doc.StreamInfo(ref)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-10s length %-8d estimate %-8d %s\n",
			ref, length, pdfstream.EstimateLength(length, filters), pdfstream.Format(filters))
	}
	return nil
}

// streamAt finds the stream with the given object number, trying the
// generation numbers listed in the table.
func (s *session) streamAt(number uint32) (pdfstream.Reference, bool) {
	for gen := range uint16(maxGeneration) {
		ref := pdfstream.NewReference(number, gen)
		if s.doc.IsStream(ref) {
			return ref, true
		}
	}
	return pdfstream.Reference{}, false
}

// maxGeneration limits the search for stream objects in the list command.
const maxGeneration = 8

// passwordFunc returns a callback for [crypt.Options].  The password given
// on the command line is tried first, then the user is prompted.
func passwordFunc(given string, prompt func() (string, error)) func([]byte, int) string {
	return func(_ []byte, try int) string {
		if given != "" {
			if try == 0 {
				return given
			}
			try--
		}
		if prompt == nil || try >= maxPasswordTries {
			return ""
		}
		passwd, err := prompt()
		if err != nil {
			return ""
		}
		return passwd
	}
}

const maxPasswordTries = 3

func promptPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("cannot prompt for password")
	}
	fmt.Fprint(os.Stderr, "password: ")
	passwd, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr, "***")
	if err != nil {
		return "", err
	}
	return string(passwd), nil
}
