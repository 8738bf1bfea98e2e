// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific MessageError.
const (
	// ErrNonCanonicalVarInt is returned when a variable length integer is
	// not canonically encoded.
	ErrNonCanonicalVarInt = ErrorKind("ErrNonCanonicalVarInt")

	// ErrVarStringTooLong is returned when a variable string exceeds the
	// maximum allowed length.
	ErrVarStringTooLong = ErrorKind("ErrVarStringTooLong")

	// ErrNonCanonicalFelt is returned when a field element is not less
	// than the field modulus.
	ErrNonCanonicalFelt = ErrorKind("ErrNonCanonicalFelt")

	// ErrTooManyNoteInputs is returned when a note carries more inputs
	// than allowed.
	ErrTooManyNoteInputs = ErrorKind("ErrTooManyNoteInputs")

	// ErrTooManyAssets is returned when a note or vault carries more assets
	// than allowed.
	ErrTooManyAssets = ErrorKind("ErrTooManyAssets")

	// ErrTooManyProcedures is returned when account code exports more
	// procedures than allowed.
	ErrTooManyProcedures = ErrorKind("ErrTooManyProcedures")

	// ErrTooManyStorageSlots is returned when account storage has more
	// slots than allowed.
	ErrTooManyStorageSlots = ErrorKind("ErrTooManyStorageSlots")

	// ErrInvalidNoteType is returned when a note type is not one of the
	// known types.
	ErrInvalidNoteType = ErrorKind("ErrInvalidNoteType")

	// ErrInvalidAmount is returned when a fungible asset amount exceeds the
	// maximum allowed amount.
	ErrInvalidAmount = ErrorKind("ErrInvalidAmount")

	// ErrMalformedAccountID is returned when an account id cannot be
	// parsed from its string form.
	ErrMalformedAccountID = ErrorKind("ErrMalformedAccountID")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// MessageError describes an issue with decoding or encoding ledger data.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error.
type MessageError struct {
	Func        string
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e MessageError) Error() string {
	if e.Func != "" {
		return e.Func + ": " + e.Description
	}
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e MessageError) Unwrap() error {
	return e.Err
}

// messageError creates a MessageError given a set of arguments.
func messageError(fn string, kind ErrorKind, desc string) MessageError {
	return MessageError{Func: fn, Err: kind, Description: desc}
}
