// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrequest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/wire"
)

var (
	walletID = wire.AccountID{Prefix: 0x8000000000000000, Suffix: 1}
	faucetID = wire.AccountID{Prefix: 0x2000000000000000, Suffix: 3}
	otherID  = wire.AccountID{Prefix: 0x4000000000000000, Suffix: 2}
	pubKey   = chainhash.HashH([]byte("pubkey"))
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrNoInputNotes, "ErrNoInputNotes"},
		{ErrInputNotesMapMissingUnauthenticatedNotes, "ErrInputNotesMapMissingUnauthenticatedNotes"},
		{ErrDuplicateInputNote, "ErrDuplicateInputNote"},
		{ErrScriptTemplate, "ErrScriptTemplate"},
		{ErrInvalidSenderAccount, "ErrInvalidSenderAccount"},
		{ErrUnsupportedInterface, "ErrUnsupportedInterface"},
		{ErrNoAssets, "ErrNoAssets"},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestBuildTransactionScript ensures the script derived from a request
// depends on its template and the interface of the executing account.
func TestBuildTransactionScript(t *testing.T) {
	wallet := account.InterfaceFromAccount(account.NewBasicWallet(walletID,
		pubKey))
	faucet := account.InterfaceFromAccount(account.NewBasicFaucet(faucetID,
		pubKey))
	noAuth := account.InterfaceFromAccount(&wire.Account{
		ID:   walletID,
		Code: account.NewAccountCode(account.ComponentBasicWallet),
	})

	asset := wire.FungibleAsset{Faucet: faucetID, Amount: 10}
	ownNote := notes.CreateP2IDNote(walletID, otherID,
		[]wire.FungibleAsset{asset}, wire.NoteTypePublic, 0)
	foreignNote := notes.CreateP2IDNote(otherID, walletID,
		[]wire.FungibleAsset{asset}, wire.NoteTypePublic, 0)
	custom := NewTransactionScript(account.NewProcedure(account.ProcBurn))

	authProc := account.NewProcedure(account.ProcAuthFalcon512)
	moveProc := account.NewProcedure(account.ProcMoveAssetToNote)
	distProc := account.NewProcedure(account.ProcDistribute)

	tests := []struct {
		name    string
		builder func() *Builder
		iface   *account.Interface
		calls   []chainhash.Hash
		wantErr error
	}{{
		name: "custom script",
		builder: func() *Builder {
			return NewBuilder().WithCustomScript(custom)
		},
		iface: wallet,
		calls: custom.Calls,
	}, {
		name: "consume only",
		builder: func() *Builder {
			return NewBuilder().WithUnauthenticatedInputNotes(foreignNote)
		},
		iface: wallet,
		calls: []chainhash.Hash{authProc.Root},
	}, {
		name: "no input notes",
		builder: func() *Builder {
			return NewBuilder()
		},
		iface:   wallet,
		wantErr: ErrNoInputNotes,
	}, {
		name: "consume without auth component",
		builder: func() *Builder {
			return NewBuilder().WithUnauthenticatedInputNotes(foreignNote)
		},
		iface:   noAuth,
		wantErr: ErrUnsupportedInterface,
	}, {
		name: "wallet sends note",
		builder: func() *Builder {
			return NewBuilder().WithOwnOutputNotes(ownNote)
		},
		iface: wallet,
		calls: []chainhash.Hash{moveProc.Root, authProc.Root},
	}, {
		name: "faucet mints note",
		builder: func() *Builder {
			note := notes.CreateP2IDNote(faucetID, otherID,
				[]wire.FungibleAsset{asset}, wire.NoteTypePublic, 0)
			return NewBuilder().WithOwnOutputNotes(note)
		},
		iface: faucet,
		calls: []chainhash.Hash{distProc.Root, authProc.Root},
	}, {
		name: "note from another sender",
		builder: func() *Builder {
			return NewBuilder().WithOwnOutputNotes(foreignNote)
		},
		iface:   wallet,
		wantErr: ErrInvalidSenderAccount,
	}}

	for _, test := range tests {
		req, err := test.builder().Build()
		if err != nil {
			t.Errorf("%q: unexpected build error: %v", test.name, err)
			continue
		}
		script, err := req.BuildTransactionScript(test.iface)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%q: mismatched error -- got %v, want %v", test.name,
				err, test.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if !reflect.DeepEqual(script.Calls, test.calls) {
			t.Errorf("%q: mismatched calls -- got %v, want %v", test.name,
				script.Calls, test.calls)
		}
	}
}

// TestBuilderValidation ensures invalid requests are rejected.
func TestBuilderValidation(t *testing.T) {
	asset := wire.FungibleAsset{Faucet: faucetID, Amount: 10}
	note := notes.CreateP2IDNote(otherID, walletID,
		[]wire.FungibleAsset{asset}, wire.NoteTypePublic, 0)
	own := notes.CreateP2IDNote(walletID, otherID,
		[]wire.FungibleAsset{asset}, wire.NoteTypePublic, 0)

	_, err := NewBuilder().WithUnauthenticatedInputNotes(note).
		WithAuthenticatedInputNotes(InputNote{ID: note.ID()}).Build()
	if !errors.Is(err, ErrDuplicateInputNote) {
		t.Errorf("duplicate note: mismatched error -- got %v, want %v", err,
			ErrDuplicateInputNote)
	}

	_, err = NewBuilder().WithCustomScript(NewTransactionScript()).
		WithOwnOutputNotes(own).Build()
	if !errors.Is(err, ErrScriptTemplate) {
		t.Errorf("mixed template: mismatched error -- got %v, want %v", err,
			ErrScriptTemplate)
	}

	var reqErr RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("unable to unwrap %T as RequestError", err)
	}
}

// TestIntoTransactionArgs ensures the execution arguments carry the note
// arguments, the advice map, and the expected outputs of the request.
func TestIntoTransactionArgs(t *testing.T) {
	asset := wire.FungibleAsset{Faucet: faucetID, Amount: 10}
	own := notes.CreateP2IDNote(walletID, otherID,
		[]wire.FungibleAsset{asset}, wire.NoteTypePublic, 0)
	consumed := chainhash.HashH([]byte("consumed"))
	plain := chainhash.HashH([]byte("plain"))
	key := chainhash.HashH([]byte("advice"))
	args := []wire.Felt{1, 2, 3}

	req, err := NewBuilder().
		WithAuthenticatedInputNotes(InputNote{ID: consumed, Args: args}).
		WithOwnOutputNotes(own).
		ExtendAdviceMap(map[chainhash.Hash][]wire.Felt{key: {7}}).
		WithExpirationDelta(5).
		BuildConsumeNotes([]chainhash.Hash{plain})
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if req.ExpirationDelta() != 5 {
		t.Fatalf("mismatched expiration delta -- got %d, want 5",
			req.ExpirationDelta())
	}
	wantIDs := []chainhash.Hash{consumed, plain}
	if !reflect.DeepEqual(req.InputNoteIDs(), wantIDs) {
		t.Fatalf("mismatched input note ids -- got %v, want %v",
			req.InputNoteIDs(), wantIDs)
	}

	wallet := account.InterfaceFromAccount(account.NewBasicWallet(walletID,
		pubKey))
	script, err := req.BuildTransactionScript(wallet)
	if err != nil {
		t.Fatalf("unexpected script error: %v", err)
	}
	txArgs := req.IntoTransactionArgs(script)
	if txArgs.Script != script {
		t.Fatal("transaction args do not carry the script")
	}
	wantNoteArgs := map[chainhash.Hash][]wire.Felt{consumed: args}
	if !reflect.DeepEqual(txArgs.NoteArgs, wantNoteArgs) {
		t.Fatalf("mismatched note args -- got %v, want %v", txArgs.NoteArgs,
			wantNoteArgs)
	}
	if got := txArgs.AdviceMap[key]; !reflect.DeepEqual(got, []wire.Felt{7}) {
		t.Fatalf("mismatched advice entry -- got %v, want [7]", got)
	}
	if len(txArgs.ExpectedOutputNotes) != 1 ||
		txArgs.ExpectedOutputNotes[0] != own {

		t.Fatalf("mismatched expected outputs -- got %v",
			txArgs.ExpectedOutputNotes)
	}
}

// TestBuildPayToID ensures payments create the expected well-known note owned
// by the sender.
func TestBuildPayToID(t *testing.T) {
	wallet := account.InterfaceFromAccount(account.NewBasicWallet(walletID,
		pubKey))
	assets := []wire.FungibleAsset{{Faucet: faucetID, Amount: 25}}
	payment := &PaymentData{Sender: walletID, Target: otherID, Assets: assets}
	recall := uint32(120)

	tests := []struct {
		name   string
		recall *uint32
		want   notes.WellKnownNote
	}{
		{"without recall height", nil, notes.P2ID},
		{"with recall height", &recall, notes.P2IDE},
	}

	for _, test := range tests {
		req, err := NewBuilder().BuildPayToID(payment, test.recall,
			wire.NoteTypePublic)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.name, err)
			continue
		}
		outputs := req.ExpectedOutputNotes()
		if len(outputs) != 1 {
			t.Errorf("%q: mismatched output notes -- got %d, want 1",
				test.name, len(outputs))
			continue
		}
		note := outputs[0]
		if kind, ok := notes.FromNote(note); !ok || kind != test.want {
			t.Errorf("%q: mismatched note script -- got %v, want %v",
				test.name, kind, test.want)
			continue
		}
		if note.Metadata.Sender != walletID ||
			note.Metadata.Tag != notes.TagForAccount(otherID) ||
			!reflect.DeepEqual(note.Assets, assets) {

			t.Errorf("%q: mismatched note: %+v", test.name, note)
			continue
		}
		if test.recall != nil {
			inputs, err := notes.ParseP2IDEInputs(note.Inputs)
			if err != nil {
				t.Errorf("%q: unexpected error: %v", test.name, err)
				continue
			}
			if inputs.Target != otherID || inputs.RecallHeight != recall {
				t.Errorf("%q: mismatched inputs: %+v", test.name, inputs)
				continue
			}
		}
		if _, err := req.BuildTransactionScript(wallet); err != nil {
			t.Errorf("%q: unexpected error: %v", test.name, err)
		}
	}

	empty := &PaymentData{Sender: walletID, Target: otherID}
	_, err := NewBuilder().BuildPayToID(empty, nil, wire.NoteTypePublic)
	if !errors.Is(err, ErrNoAssets) {
		t.Fatalf("mismatched error -- got %v, want %v", err, ErrNoAssets)
	}
}

// TestBuildSwap ensures swaps create a swap note requesting the asset to be
// paid back to the sender.
func TestBuildSwap(t *testing.T) {
	offered := wire.FungibleAsset{Faucet: faucetID, Amount: 5}
	requested := wire.FungibleAsset{Faucet: otherID, Amount: 7}
	req, err := NewBuilder().BuildSwap(&SwapData{
		Sender:    walletID,
		Offered:   offered,
		Requested: requested,
	}, wire.NoteTypePrivate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outputs := req.ExpectedOutputNotes()
	if len(outputs) != 1 {
		t.Fatalf("mismatched output notes -- got %d, want 1", len(outputs))
	}
	note := outputs[0]
	if kind, ok := notes.FromNote(note); !ok || kind != notes.Swap {
		t.Fatalf("mismatched note script -- got %v, want %v", kind,
			notes.Swap)
	}
	inputs, err := notes.ParseSwapInputs(note.Inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inputs.Requested != requested ||
		inputs.PaybackTag != notes.TagForAccount(walletID) {

		t.Fatalf("mismatched inputs: %+v", inputs)
	}
	if note.Metadata.Tag != notes.SwapTag(faucetID, otherID) {
		t.Fatalf("mismatched tag -- got %v", note.Metadata.Tag)
	}

	_, err = NewBuilder().BuildSwap(&SwapData{
		Sender:  walletID,
		Offered: offered,
	}, wire.NoteTypePrivate)
	if !errors.Is(err, ErrNoAssets) {
		t.Fatalf("mismatched error -- got %v, want %v", err, ErrNoAssets)
	}
}
