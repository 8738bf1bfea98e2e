// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific StoreError.
const (
	// ErrStore indicates a general error with the underlying database.
	ErrStore = ErrorKind("ErrStore")

	// ErrStoreCorruption indicates a checksum failure occurred which
	// invariably means the database is corrupt.
	ErrStoreCorruption = ErrorKind("ErrStoreCorruption")

	// ErrStoreNotOpen indicates the store is accessed after it is closed.
	ErrStoreNotOpen = ErrorKind("ErrStoreNotOpen")

	// ErrDeserialize indicates a stored record could not be decoded.
	ErrDeserialize = ErrorKind("ErrDeserialize")

	// ErrPeaksNotFound indicates no peaks are stored for a block.
	ErrPeaksNotFound = ErrorKind("ErrPeaksNotFound")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// StoreError identifies an error related to the client store.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.  RawErr
// holds the error returned by the database, if any.
type StoreError struct {
	Err         error
	Description string
	RawErr      error
}

// Error satisfies the error interface and prints human-readable errors.
func (e StoreError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e StoreError) Unwrap() error {
	return e.Err
}

// storeError creates a StoreError given a set of arguments.
func storeError(kind ErrorKind, desc string) StoreError {
	return StoreError{Err: kind, Description: desc}
}

// convertLdbErr converts the passed leveldb error into a store error with an
// equivalent error kind and the passed description.  It also sets the passed
// error as the raw error and adds its error string to the description.
func convertLdbErr(ldbErr error, desc string) StoreError {
	var kind = ErrStore
	switch {
	case ldberrors.IsCorrupted(ldbErr):
		kind = ErrStoreCorruption
	case errors.Is(ldbErr, leveldb.ErrClosed):
		kind = ErrStoreNotOpen
	}

	err := storeError(kind, fmt.Sprintf("%s: %v", desc, ldbErr))
	err.RawErr = ldbErr
	return err
}
