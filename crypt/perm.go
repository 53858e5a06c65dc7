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

import "strings"

// Perm describes which operations are permitted when accessing the document
// with user access (but not owner access).  The user can always view the
// document.
//
// The permissions are only reported.  It is up to the caller to enforce
// them.
type Perm int

const (
	// PermCopy allows to extract text and graphics.
	PermCopy Perm = 1 << iota

	// PermPrintDegraded allows printing of a low-level representation of the
	// appearance, possibly of degraded quality.
	PermPrintDegraded

	// PermPrint allows faithful printing.  This implies PermPrintDegraded.
	PermPrint

	// PermForms allows to fill in form fields, including signature fields.
	PermForms

	// PermAnnotate allows to add or modify text annotations. This implies
	// PermForms.
	PermAnnotate

	// PermAssemble allows to insert, rotate, or delete pages and to create
	// bookmarks or thumbnail images.
	PermAssemble

	// PermModify allows to modify the document.  This implies PermAssemble.
	PermModify

	permNext

	// PermAll gives the user all permissions.
	PermAll = permNext - 1
)

var permNames = []string{
	"copy", "print-degraded", "print", "forms", "annotate", "assemble", "modify",
}

func (perm Perm) String() string {
	var parts []string
	for i, name := range permNames {
		if perm&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// stdSecPToPerm converts the /P entry of the Encrypt dictionary.
func stdSecPToPerm(R int, P uint32) Perm {
	perm := PermAll
	bit := func(n int) bool { return P&(1<<(n-1)) != 0 }

	if R == 2 {
		if !bit(3) {
			perm &^= PermPrint | PermPrintDegraded
		}
	} else if !bit(3) && !bit(12) {
		perm &^= PermPrint | PermPrintDegraded
	} else if !bit(12) {
		// bit 3 alone only allows degraded printing
		perm &^= PermPrint
	}

	if !bit(4) {
		perm &^= PermModify
		if !bit(11) {
			perm &^= PermAssemble
		}
	}
	if !bit(5) {
		perm &^= PermCopy
	}
	if !bit(6) {
		perm &^= PermAnnotate
		if !bit(9) {
			perm &^= PermForms
		}
	}
	return perm
}
