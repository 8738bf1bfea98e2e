// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notes

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific NoteError.
const (
	// ErrWrongNumInputs indicates a well-known note carries a number of
	// inputs that does not match its script.
	ErrWrongNumInputs = ErrorKind("ErrWrongNumInputs")

	// ErrInvalidInput indicates an input of a well-known note holds a
	// value that is out of range for its meaning.
	ErrInvalidInput = ErrorKind("ErrInvalidInput")

	// ErrNotWellKnown indicates a note script is not one of the well-known
	// scripts.
	ErrNotWellKnown = ErrorKind("ErrNotWellKnown")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// NoteError identifies an error related to the well-known notes.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type NoteError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e NoteError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e NoteError) Unwrap() error {
	return e.Err
}

// noteError creates a NoteError given a set of arguments.
func noteError(kind ErrorKind, desc string) NoteError {
	return NoteError{Err: kind, Description: desc}
}
