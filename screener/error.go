// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package screener

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific screener error.
const (
	// ErrWrongNumInputs indicates a recallable note does not carry the
	// number of inputs its script expects.
	ErrWrongNumInputs = ErrorKind("ErrWrongNumInputs")

	// ErrBlockNumber indicates a recallable note carries a recall height
	// that does not fit in a block number.
	ErrBlockNumber = ErrorKind("ErrBlockNumber")

	// ErrAccountDataNotFound indicates a tracked account has no stored
	// record.
	ErrAccountDataNotFound = ErrorKind("ErrAccountDataNotFound")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ScreenerError identifies an error encountered while screening a note.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error.
type ScreenerError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e ScreenerError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ScreenerError) Unwrap() error {
	return e.Err
}

// screenerError creates a ScreenerError given a set of arguments.
func screenerError(kind ErrorKind, desc string) ScreenerError {
	return ScreenerError{Err: kind, Description: desc}
}

// InvalidNoteInputsError identifies a note whose inputs do not match what its
// script expects.  It has full support for errors.Is and errors.As.
type InvalidNoteInputsError struct {
	NoteID      chainhash.Hash
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e InvalidNoteInputsError) Error() string {
	return fmt.Sprintf("invalid inputs for note %v: %s", e.NoteID,
		e.Description)
}

// Unwrap returns the underlying wrapped error.
func (e InvalidNoteInputsError) Unwrap() error {
	return e.Err
}

// invalidInputsError creates an InvalidNoteInputsError given a set of
// arguments.
func invalidInputsError(noteID chainhash.Hash, kind ErrorKind, desc string) InvalidNoteInputsError {
	return InvalidNoteInputsError{NoteID: noteID, Err: kind, Description: desc}
}
