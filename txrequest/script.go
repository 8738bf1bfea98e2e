// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrequest

import (
	"fmt"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/wire"
)

// TransactionScript is the script executed against the account after the
// input notes are consumed.
type TransactionScript struct {
	Code string

	// Calls holds the roots of the account procedures the script invokes
	// in order.
	Calls []chainhash.Hash
}

// NewTransactionScript returns a script that invokes the provided account
// procedures in order.
func NewTransactionScript(procs ...wire.Procedure) *TransactionScript {
	var b strings.Builder
	b.WriteString("begin\n")
	calls := make([]chainhash.Hash, 0, len(procs))
	for _, proc := range procs {
		fmt.Fprintf(&b, "    call.%s\n", proc.Name)
		calls = append(calls, proc.Root)
	}
	b.WriteString("end\n")
	return &TransactionScript{Code: b.String(), Calls: calls}
}

// Root returns the hash that identifies the script.
func (s *TransactionScript) Root() chainhash.Hash {
	return chainhash.HashH([]byte(s.Code))
}

// buildAuthScript returns a script that only authenticates the transaction.
func buildAuthScript(iface *account.Interface) (*TransactionScript, error) {
	if iface.Auth == nil {
		str := fmt.Sprintf("account %v does not expose an authentication "+
			"component", iface.ID)
		return nil, requestError(ErrUnsupportedInterface, str)
	}
	return NewTransactionScript(iface.Auth.Procedure()), nil
}

// buildSendNotesScript returns a script that creates the provided notes and
// then authenticates the transaction.  Wallets move assets from their vault
// into the notes while faucets mint them.
func buildSendNotesScript(iface *account.Interface, notes []*wire.Note) (*TransactionScript, error) {
	var create wire.Procedure
	switch {
	case iface.IsBasicWallet():
		create = account.NewProcedure(account.ProcMoveAssetToNote)
	case iface.IsBasicFaucet():
		create = account.NewProcedure(account.ProcDistribute)
	default:
		str := fmt.Sprintf("account %v can not create notes", iface.ID)
		return nil, requestError(ErrUnsupportedInterface, str)
	}
	if iface.Auth == nil {
		str := fmt.Sprintf("account %v does not expose an authentication "+
			"component", iface.ID)
		return nil, requestError(ErrUnsupportedInterface, str)
	}

	procs := make([]wire.Procedure, 0, len(notes)+1)
	for _, note := range notes {
		if note.Metadata.Sender != iface.ID {
			str := fmt.Sprintf("note %v is sent by %v instead of the "+
				"executing account %v", note.ID(), note.Metadata.Sender,
				iface.ID)
			return nil, requestError(ErrInvalidSenderAccount, str)
		}
		procs = append(procs, create)
	}
	procs = append(procs, iface.Auth.Procedure())
	return NewTransactionScript(procs...), nil
}
