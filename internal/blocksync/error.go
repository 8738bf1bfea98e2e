// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocksync

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific SyncError.
const (
	// ErrGenesisUnavailable indicates the genesis block is neither stored
	// locally nor retrievable from the node.
	ErrGenesisUnavailable = ErrorKind("ErrGenesisUnavailable")

	// ErrBrokenLinkage indicates a block header does not commit to the
	// header of the block before it.
	ErrBrokenLinkage = ErrorKind("ErrBrokenLinkage")

	// ErrChainCommitmentMismatch indicates the chain commitment of a block
	// header does not match the peaks of the locally authenticated chain.
	ErrChainCommitmentMismatch = ErrorKind("ErrChainCommitmentMismatch")

	// ErrMissingProof indicates the node did not return the merkle proof
	// that was requested for a block header.
	ErrMissingProof = ErrorKind("ErrMissingProof")

	// ErrBlockNotInForest indicates a block that is not yet part of the
	// local chain was requested to be authenticated.
	ErrBlockNotInForest = ErrorKind("ErrBlockNotInForest")

	// ErrUnexpectedHeader indicates the node returned a header for a block
	// other than the one requested.
	ErrUnexpectedHeader = ErrorKind("ErrUnexpectedHeader")

	// ErrHeaderNotStored indicates a block is tracked by the chain tracker
	// without its header being stored.
	ErrHeaderNotStored = ErrorKind("ErrHeaderNotStored")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// SyncError identifies an error encountered while syncing block headers.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error.
type SyncError struct {
	Err         error
	Description string

	// RawErr is the underlying error that caused the failure, if any.
	RawErr error
}

// Error satisfies the error interface and prints human-readable errors.
func (e SyncError) Error() string {
	if e.RawErr != nil {
		return e.Description + ": " + e.RawErr.Error()
	}
	return e.Description
}

// Unwrap returns the underlying wrapped errors.
func (e SyncError) Unwrap() []error {
	if e.RawErr != nil {
		return []error{e.Err, e.RawErr}
	}
	return []error{e.Err}
}

// syncError creates a SyncError given a set of arguments.
func syncError(kind ErrorKind, desc string) SyncError {
	return SyncError{Err: kind, Description: desc}
}
