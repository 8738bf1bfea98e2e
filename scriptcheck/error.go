// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptcheck

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific CheckError.
const (
	// ErrUnknownScript indicates a note script the checker is unable to
	// evaluate.
	ErrUnknownScript = ErrorKind("ErrUnknownScript")

	// ErrProcedureNotFound indicates the transaction script calls a
	// procedure the account does not export.
	ErrProcedureNotFound = ErrorKind("ErrProcedureNotFound")

	// ErrMissingScript indicates no transaction script was provided.
	ErrMissingScript = ErrorKind("ErrMissingScript")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// CheckError identifies an error that prevented a consumption check from
// being carried out.  It has full support for errors.Is and errors.As, so the
// caller can ascertain the specific reason for the error by checking the
// underlying error.
type CheckError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e CheckError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e CheckError) Unwrap() error {
	return e.Err
}

// checkError creates a CheckError given a set of arguments.
func checkError(kind ErrorKind, desc string) CheckError {
	return CheckError{Err: kind, Description: desc}
}
