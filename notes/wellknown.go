// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notes

import (
	"fmt"
	"math"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/notechain/noteclient/wire"
)

// WellKnownNote identifies one of the standard note scripts.
type WellKnownNote uint8

// These constants define the well-known notes.
const (
	// P2ID pays the assets to a single target account.
	P2ID WellKnownNote = iota

	// P2IDE pays the assets to a target account once a timelock height is
	// reached and lets the sender reclaim them from a recall height on.
	P2IDE

	// Swap offers the assets in exchange for a requested asset that is
	// paid back to the sender.
	Swap

	numWellKnownNotes
)

// Inputs of the well-known note scripts.
const (
	// P2IDNumInputs is the number of inputs of a P2ID note: the target
	// account suffix and prefix.
	P2IDNumInputs = 2

	// P2IDENumInputs is the number of inputs of a P2IDE note: the target
	// account suffix and prefix, the recall height, and the timelock
	// height.
	P2IDENumInputs = 4

	// SwapNumInputs is the number of inputs of a swap note: the requested
	// faucet suffix and prefix, the requested amount, and the note tag of
	// the payback note.
	SwapNumInputs = 4
)

var wellKnownScripts = [numWellKnownNotes]wire.NoteScript{
	P2ID:  wire.NewNoteScript("notes::p2id"),
	P2IDE: wire.NewNoteScript("notes::p2ide"),
	Swap:  wire.NewNoteScript("notes::swap"),
}

var wellKnownNumInputs = [numWellKnownNotes]int{
	P2ID:  P2IDNumInputs,
	P2IDE: P2IDENumInputs,
	Swap:  SwapNumInputs,
}

// Map of well-known notes back to their names for pretty printing.
var wellKnownStrings = map[WellKnownNote]string{
	P2ID:  "P2ID",
	P2IDE: "P2IDE",
	Swap:  "SWAP",
}

// String returns the WellKnownNote in human-readable form.
func (n WellKnownNote) String() string {
	if s, ok := wellKnownStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown WellKnownNote (%d)", uint8(n))
}

// Script returns the script of the well-known note.
func (n WellKnownNote) Script() wire.NoteScript {
	return wellKnownScripts[n]
}

// ScriptRoot returns the root of the script of the well-known note.
func (n WellKnownNote) ScriptRoot() chainhash.Hash {
	script := wellKnownScripts[n]
	return script.Root()
}

// NumInputs returns the number of inputs the script expects.
func (n WellKnownNote) NumInputs() int {
	return wellKnownNumInputs[n]
}

// FromScriptRoot returns the well-known note whose script has the provided
// root.
func FromScriptRoot(root chainhash.Hash) (WellKnownNote, bool) {
	for n := WellKnownNote(0); n < numWellKnownNotes; n++ {
		if n.ScriptRoot() == root {
			return n, true
		}
	}
	return 0, false
}

// FromNote returns the well-known note that matches the script of the
// provided note.
func FromNote(note *wire.Note) (WellKnownNote, bool) {
	return FromScriptRoot(note.Script.Root())
}

// checkNumInputs returns an error when the note does not carry the number of
// inputs its script expects.
func (n WellKnownNote) checkNumInputs(inputs []wire.Felt) error {
	if len(inputs) != n.NumInputs() {
		str := fmt.Sprintf("%v note expects %d inputs, got %d", n,
			n.NumInputs(), len(inputs))
		return noteError(ErrWrongNumInputs, str)
	}
	return nil
}

// accountIDFromInputs reads an account id stored as suffix then prefix.
func accountIDFromInputs(inputs []wire.Felt) wire.AccountID {
	return wire.AccountID{Prefix: inputs[1], Suffix: inputs[0]}
}

// heightFromInput returns the input as a block number.
func heightFromInput(input wire.Felt, what string) (uint32, error) {
	if uint64(input) > math.MaxUint32 {
		str := fmt.Sprintf("%s %d does not fit in a block number", what,
			uint64(input))
		return 0, noteError(ErrInvalidInput, str)
	}
	return uint32(input), nil
}

// P2IDTarget returns the target account of a P2ID note.
func P2IDTarget(inputs []wire.Felt) (wire.AccountID, error) {
	if err := P2ID.checkNumInputs(inputs); err != nil {
		return wire.AccountID{}, err
	}
	return accountIDFromInputs(inputs), nil
}

// P2IDEInputs houses the decoded inputs of a P2IDE note.
type P2IDEInputs struct {
	Target         wire.AccountID
	RecallHeight   uint32
	TimelockHeight uint32
}

// ParseP2IDEInputs decodes the inputs of a P2IDE note.
func ParseP2IDEInputs(inputs []wire.Felt) (*P2IDEInputs, error) {
	if err := P2IDE.checkNumInputs(inputs); err != nil {
		return nil, err
	}
	recall, err := heightFromInput(inputs[2], "recall height")
	if err != nil {
		return nil, err
	}
	timelock, err := heightFromInput(inputs[3], "timelock height")
	if err != nil {
		return nil, err
	}
	return &P2IDEInputs{
		Target:         accountIDFromInputs(inputs),
		RecallHeight:   recall,
		TimelockHeight: timelock,
	}, nil
}

// SwapInputs houses the decoded inputs of a swap note.
type SwapInputs struct {
	Requested  wire.FungibleAsset
	PaybackTag wire.NoteTag
}

// ParseSwapInputs decodes the inputs of a swap note.
func ParseSwapInputs(inputs []wire.Felt) (*SwapInputs, error) {
	if err := Swap.checkNumInputs(inputs); err != nil {
		return nil, err
	}
	requested, err := wire.NewFungibleAsset(accountIDFromInputs(inputs),
		uint64(inputs[2]))
	if err != nil {
		return nil, noteError(ErrInvalidInput, err.Error())
	}
	if uint64(inputs[3]) > math.MaxUint32 {
		str := fmt.Sprintf("payback tag %d does not fit in a note tag",
			uint64(inputs[3]))
		return nil, noteError(ErrInvalidInput, str)
	}
	return &SwapInputs{
		Requested:  requested,
		PaybackTag: wire.NoteTag(inputs[3]),
	}, nil
}

// newSerialNum returns a random note serial number.
func newSerialNum() chainhash.Hash {
	var serial chainhash.Hash
	rand.Read(serial[:])
	return serial
}

// CreateP2IDNote returns a new P2ID note that pays the assets to the target
// account.
func CreateP2IDNote(sender, target wire.AccountID, assets []wire.FungibleAsset,
	noteType wire.NoteType, aux wire.Felt) *wire.Note {

	return &wire.Note{
		SerialNum: newSerialNum(),
		Script:    P2ID.Script(),
		Inputs:    []wire.Felt{target.Suffix, target.Prefix},
		Assets:    assets,
		Metadata: wire.NoteMetadata{
			Sender: sender,
			Type:   noteType,
			Tag:    TagForAccount(target),
			Aux:    aux,
		},
	}
}

// CreateP2IDENote returns a new P2IDE note that pays the assets to the target
// account once the timelock height is reached and lets the sender reclaim them
// from the recall height on.
func CreateP2IDENote(sender, target wire.AccountID, assets []wire.FungibleAsset,
	recallHeight, timelockHeight uint32, noteType wire.NoteType,
	aux wire.Felt) *wire.Note {

	return &wire.Note{
		SerialNum: newSerialNum(),
		Script:    P2IDE.Script(),
		Inputs: []wire.Felt{target.Suffix, target.Prefix,
			wire.Felt(recallHeight), wire.Felt(timelockHeight)},
		Assets: assets,
		Metadata: wire.NoteMetadata{
			Sender: sender,
			Type:   noteType,
			Tag:    TagForAccount(target),
			Aux:    aux,
		},
	}
}

// CreateSwapNote returns a new swap note that offers an asset in exchange for
// the requested asset.
func CreateSwapNote(sender wire.AccountID, offered, requested wire.FungibleAsset,
	noteType wire.NoteType, aux wire.Felt) *wire.Note {

	return &wire.Note{
		SerialNum: newSerialNum(),
		Script:    Swap.Script(),
		Inputs: []wire.Felt{requested.Faucet.Suffix, requested.Faucet.Prefix,
			wire.Felt(requested.Amount), wire.Felt(TagForAccount(sender))},
		Assets: []wire.FungibleAsset{offered},
		Metadata: wire.NoteMetadata{
			Sender: sender,
			Type:   noteType,
			Tag:    SwapTag(offered.Faucet, requested.Faucet),
			Aux:    aux,
		},
	}
}
