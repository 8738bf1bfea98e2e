// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package screener

import (
	"context"

	"github.com/notechain/noteclient/txrequest"
	"github.com/notechain/noteclient/wire"
)

// Store provides the account data the screener checks notes against.
type Store interface {
	// GetTrackedAccountIDs returns the ids of all accounts tracked by the
	// client.
	GetTrackedAccountIDs(ctx context.Context) ([]wire.AccountID, error)

	// GetAccount returns the latest stored state of the account.  It
	// returns nil without an error when the account is unknown.
	GetAccount(ctx context.Context, id wire.AccountID) (*wire.Account, error)

	// GetSyncHeight returns the number of the last synced block.
	GetSyncHeight(ctx context.Context) (uint32, error)
}

// ExecutionOutcome is the result of a speculative consumption check.
type ExecutionOutcome uint8

// These constants define the possible outcomes of a consumption check.
const (
	// OutcomeSuccess indicates the account can consume the notes.
	OutcomeSuccess ExecutionOutcome = iota

	// OutcomeFailure indicates the execution of the notes failed for the
	// account.
	OutcomeFailure
)

// String returns the outcome as a human-readable name.
func (o ExecutionOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// ConsumptionChecker speculatively executes the consumption of notes by an
// account without side effects.
type ConsumptionChecker interface {
	// CheckNotesConsumability runs the consumption of the notes by the
	// account at the provided block number with the provided transaction
	// arguments.  An error means the check itself could not be carried
	// out.
	CheckNotesConsumability(ctx context.Context, acct *wire.Account,
		blockNum uint32, toConsume []*wire.Note,
		args *txrequest.TransactionArgs) (ExecutionOutcome, error)
}
