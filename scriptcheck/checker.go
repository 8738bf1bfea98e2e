// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptcheck

import (
	"context"
	"fmt"

	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/screener"
	"github.com/notechain/noteclient/txrequest"
	"github.com/notechain/noteclient/wire"
)

// Checker evaluates the consumption of the well-known notes against the state
// of an account.  The account is never modified.
type Checker struct{}

// New returns a new checker.
func New() *Checker {
	return &Checker{}
}

// Ensure Checker implements the screener.ConsumptionChecker interface.
var _ screener.ConsumptionChecker = (*Checker)(nil)

// CheckNotesConsumability evaluates whether the account can consume all of
// the notes at the provided block number.
//
// Notes with inputs that do not match their script simply fail.  An error is
// returned when a note script is not one of the well-known scripts or the
// transaction script calls a procedure the account does not export, since
// neither can be evaluated.
func (c *Checker) CheckNotesConsumability(ctx context.Context,
	acct *wire.Account, blockNum uint32, toConsume []*wire.Note,
	args *txrequest.TransactionArgs) (screener.ExecutionOutcome, error) {

	if err := ctx.Err(); err != nil {
		return screener.OutcomeFailure, err
	}
	if args == nil || args.Script == nil {
		return screener.OutcomeFailure, checkError(ErrMissingScript,
			"no transaction script provided")
	}
	for _, root := range args.Script.Calls {
		if !acct.Code.HasProcedure(root) {
			str := fmt.Sprintf("account %v does not export procedure %v",
				acct.ID, root)
			return screener.OutcomeFailure, checkError(ErrProcedureNotFound,
				str)
		}
	}

	// Work on a copy of the vault so assets received from earlier notes
	// are accounted for by later ones.
	vault := newVault(acct.Vault)
	iface := account.InterfaceFromAccount(acct)
	for _, note := range toConsume {
		ok, err := checkNote(iface, vault, blockNum, note)
		if err != nil {
			return screener.OutcomeFailure, err
		}
		if !ok {
			log.Tracef("Account %v can not consume note %v at block %d",
				acct.ID, note.ID(), blockNum)
			return screener.OutcomeFailure, nil
		}
	}
	return screener.OutcomeSuccess, nil
}

// checkNote evaluates the consumption of a single note and applies its effect
// to the vault when it succeeds.
func checkNote(iface *account.Interface, v vault, blockNum uint32,
	note *wire.Note) (bool, error) {

	kind, ok := notes.FromNote(note)
	if !ok {
		str := fmt.Sprintf("note %v has unknown script %v", note.ID(),
			note.Script.Root())
		return false, checkError(ErrUnknownScript, str)
	}

	switch kind {
	case notes.P2ID:
		target, err := notes.P2IDTarget(note.Inputs)
		if err != nil || target != iface.ID {
			return false, nil
		}
		return v.receive(iface, note.Assets), nil

	case notes.P2IDE:
		inputs, err := notes.ParseP2IDEInputs(note.Inputs)
		if err != nil {
			return false, nil
		}
		switch {
		case iface.ID == inputs.Target && blockNum >= inputs.TimelockHeight:
		case iface.ID == note.Metadata.Sender && blockNum >= inputs.RecallHeight:
		default:
			return false, nil
		}
		return v.receive(iface, note.Assets), nil

	case notes.Swap:
		inputs, err := notes.ParseSwapInputs(note.Inputs)
		if err != nil {
			return false, nil
		}
		if !v.send(iface, inputs.Requested) {
			return false, nil
		}
		return v.receive(iface, note.Assets), nil
	}

	str := fmt.Sprintf("note %v has unsupported script %v", note.ID(), kind)
	return false, checkError(ErrUnknownScript, str)
}

// vault tracks the fungible balances of an account during a check.
type vault map[wire.AccountID]uint64

// newVault returns a vault holding a copy of the provided assets.
func newVault(assets []wire.FungibleAsset) vault {
	v := make(vault, len(assets))
	for _, asset := range assets {
		v[asset.Faucet] += asset.Amount
	}
	return v
}

// receive adds the assets to the vault.  It fails when the account can not
// receive assets or a balance would exceed the maximum fungible amount.
func (v vault) receive(iface *account.Interface, assets []wire.FungibleAsset) bool {
	if !iface.IsBasicWallet() {
		return false
	}
	for _, asset := range assets {
		if wire.MaxFungibleAmount-v[asset.Faucet] < asset.Amount {
			return false
		}
		v[asset.Faucet] += asset.Amount
	}
	return true
}

// send removes the asset from the vault.  It fails when the account can not
// move assets into notes or does not hold enough of the asset.
func (v vault) send(iface *account.Interface, asset wire.FungibleAsset) bool {
	if !iface.IsBasicWallet() || v[asset.Faucet] < asset.Amount {
		return false
	}
	v[asset.Faucet] -= asset.Amount
	return true
}
