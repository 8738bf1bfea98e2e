// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package screener

import (
	"context"
	"fmt"
	"math"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/txrequest"
	"github.com/notechain/noteclient/wire"
	"golang.org/x/sync/errgroup"
)

// recallHeightInput is the index of the recall height in the inputs of a
// recallable note.
const recallHeightInput = 2

// Config houses the parameters of a NoteScreener.
type Config struct {
	// MaxConcurrency is the maximum number of accounts checked at the same
	// time.  Values below one check accounts sequentially.
	MaxConcurrency int
}

// NoteScreener determines which tracked accounts can consume a note and from
// when.
type NoteScreener struct {
	store   Store
	checker ConsumptionChecker
	cfg     Config
}

// New returns a screener that reads accounts from the store and checks notes
// with the provided checker.
func New(store Store, checker ConsumptionChecker, cfg *Config) *NoteScreener {
	s := &NoteScreener{store: store, checker: checker}
	if cfg != nil {
		s.cfg = *cfg
	}
	if s.cfg.MaxConcurrency < 1 {
		s.cfg.MaxConcurrency = 1
	}
	return s
}

// CheckRelevance returns an entry for every tracked account that can consume
// the note, in the order the store returns the accounts.
//
// Each account is first checked by speculatively consuming the note.  When
// that fails and the note is recallable, the sender account is reported as
// able to consume it from the recall height on.  Failures of the check itself
// leave the account out of the result.
func (s *NoteScreener) CheckRelevance(ctx context.Context, note *wire.Note) ([]NoteConsumability, error) {
	ids, err := s.store.GetTrackedAccountIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []NoteConsumability{}, nil
	}

	blockNum, err := s.store.GetSyncHeight(ctx)
	if err != nil {
		return nil, err
	}

	// Each account writes to its own slot so results keep the order of the
	// account ids regardless of completion order.
	results := make([]*NoteRelevance, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i := range ids {
		i := i
		g.Go(func() error {
			relevance, err := s.checkAccount(gctx, ids[i], blockNum, note)
			if err != nil {
				return err
			}
			results[i] = relevance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	consumability := make([]NoteConsumability, 0, len(ids))
	for i, relevance := range results {
		if relevance == nil {
			continue
		}
		consumability = append(consumability, NoteConsumability{
			AccountID: ids[i],
			Relevance: *relevance,
		})
	}
	return consumability, nil
}

// checkAccount returns the relevance of the note for the account or nil when
// the account can not consume it.
func (s *NoteScreener) checkAccount(ctx context.Context, id wire.AccountID,
	blockNum uint32, note *wire.Note) (*NoteRelevance, error) {

	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		str := fmt.Sprintf("no data stored for tracked account %v", id)
		return nil, screenerError(ErrAccountDataNotFound, str)
	}

	outcome, err := s.standardCheck(ctx, acct, blockNum, note)
	if err != nil {
		// An interrupted check says nothing about the account.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Debugf("Unable to check consumability of note %v by account "+
			"%v: %v", note.ID(), id, err)
		return nil, nil
	}
	if outcome == OutcomeSuccess {
		relevance := Now()
		return &relevance, nil
	}

	return recallRelevance(id, note)
}

// standardCheck speculatively consumes the note with the account.
func (s *NoteScreener) standardCheck(ctx context.Context, acct *wire.Account,
	blockNum uint32, note *wire.Note) (ExecutionOutcome, error) {

	req, err := txrequest.NewBuilder().
		BuildConsumeNotes([]chainhash.Hash{note.ID()})
	if err != nil {
		return OutcomeFailure, err
	}
	iface := account.InterfaceFromAccount(acct)
	script, err := req.BuildTransactionScript(iface)
	if err != nil {
		return OutcomeFailure, err
	}
	args := req.IntoTransactionArgs(script)
	return s.checker.CheckNotesConsumability(ctx, acct, blockNum,
		[]*wire.Note{note}, args)
}

// recallRelevance returns the relevance of a recallable note for its sender
// or nil when the note is not recallable by the account.
func recallRelevance(id wire.AccountID, note *wire.Note) (*NoteRelevance, error) {
	if note.Script.Root() != notes.P2IDE.ScriptRoot() {
		return nil, nil
	}

	inputs := note.Inputs
	if len(inputs) != notes.P2IDENumInputs {
		str := fmt.Sprintf("recallable note expects %d inputs, got %d",
			notes.P2IDENumInputs, len(inputs))
		return nil, invalidInputsError(note.ID(), ErrWrongNumInputs, str)
	}
	recall := uint64(inputs[recallHeightInput])
	if recall > math.MaxUint32 {
		str := fmt.Sprintf("recall height %d does not fit in a block "+
			"number", recall)
		return nil, invalidInputsError(note.ID(), ErrBlockNumber, str)
	}

	if note.Metadata.Sender != id {
		return nil, nil
	}
	relevance := After(uint32(recall))
	return &relevance, nil
}
