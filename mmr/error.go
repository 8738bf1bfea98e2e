// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific MmrError.
const (
	// ErrUnknownLeaf indicates a leaf position that is not part of the
	// forest was referenced.
	ErrUnknownLeaf = ErrorKind("ErrUnknownLeaf")

	// ErrPeakMismatch indicates a merkle path did not hash to the peak of
	// the tree that contains the leaf it claims to authenticate.  This
	// includes paths with a length that does not match the height of the
	// tree.
	ErrPeakMismatch = ErrorKind("ErrPeakMismatch")

	// ErrInvalidPeaks indicates the number of peaks provided does not
	// match the number of trees in the given forest.
	ErrInvalidPeaks = ErrorKind("ErrInvalidPeaks")

	// ErrInvalidNodeIndex indicates an in-order index of zero, which does
	// not address any node, was provided.
	ErrInvalidNodeIndex = ErrorKind("ErrInvalidNodeIndex")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// MmrError identifies an error related to merkle mountain range operations.
// It has full support for errors.Is and errors.As, so the caller can
// ascertain the specific reason for the error by checking the underlying
// error.
type MmrError struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e MmrError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e MmrError) Unwrap() error {
	return e.Err
}

// mmrError creates an MmrError given a set of arguments.
func mmrError(kind ErrorKind, desc string) MmrError {
	return MmrError{Err: kind, Description: desc}
}
