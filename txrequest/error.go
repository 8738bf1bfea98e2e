// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrequest

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RequestError.
const (
	// ErrNoInputNotes indicates a transaction without a script template
	// was requested that does not consume any notes.
	ErrNoInputNotes = ErrorKind("ErrNoInputNotes")

	// ErrInputNotesMapMissingUnauthenticatedNotes indicates an
	// unauthenticated input note was provided without a matching entry in
	// the input notes.
	ErrInputNotesMapMissingUnauthenticatedNotes = ErrorKind("ErrInputNotesMapMissingUnauthenticatedNotes")

	// ErrDuplicateInputNote indicates the same note was requested to be
	// consumed more than once.
	ErrDuplicateInputNote = ErrorKind("ErrDuplicateInputNote")

	// ErrScriptTemplate indicates an invalid combination of script
	// templates was requested.
	ErrScriptTemplate = ErrorKind("ErrScriptTemplate")

	// ErrInvalidSenderAccount indicates an own output note is not sent by
	// the executing account.
	ErrInvalidSenderAccount = ErrorKind("ErrInvalidSenderAccount")

	// ErrUnsupportedInterface indicates the account interface does not
	// provide the procedures required by the transaction script.
	ErrUnsupportedInterface = ErrorKind("ErrUnsupportedInterface")

	// ErrNoAssets indicates a payment or swap was requested that does not
	// transfer any assets.
	ErrNoAssets = ErrorKind("ErrNoAssets")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RequestError identifies an error related to building a transaction request
// or its script.  It has full support for errors.Is and errors.As, so the
// caller can ascertain the specific reason for the error by checking the
// underlying error.
type RequestError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e RequestError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e RequestError) Unwrap() error {
	return e.Err
}

// requestError creates a RequestError given a set of arguments.
func requestError(kind ErrorKind, desc string) RequestError {
	return RequestError{Err: kind, Description: desc}
}
