// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/wire"
)

// Names of the procedures exported by the well-known account components.
const (
	ProcReceiveAsset    = "wallets::basic::receive_asset"
	ProcMoveAssetToNote = "wallets::basic::move_asset_to_note"
	ProcDistribute      = "faucets::basic_fungible::distribute"
	ProcBurn            = "faucets::basic_fungible::burn"
	ProcAuthFalcon512   = "auth::rpo_falcon512::auth_tx_rpo_falcon512"
	ProcAuthNoAuth      = "auth::noauth::auth_tx_noauth"
)

// ProcedureRoot returns the root of the procedure with the provided name.
func ProcedureRoot(name string) chainhash.Hash {
	return chainhash.HashH([]byte(name))
}

// NewProcedure returns the procedure with the provided name.
func NewProcedure(name string) wire.Procedure {
	return wire.Procedure{Name: name, Root: ProcedureRoot(name)}
}

// Component identifies a well-known piece of account code.
type Component uint8

// These constants define the recognized components.
const (
	// ComponentBasicWallet receives assets and moves them into notes.
	ComponentBasicWallet Component = iota

	// ComponentBasicFungibleFaucet issues and burns a fungible asset.
	ComponentBasicFungibleFaucet

	// ComponentAuthFalcon512 authenticates transactions with a Falcon-512
	// signature.
	ComponentAuthFalcon512

	// ComponentAuthNoAuth accepts every transaction.
	ComponentAuthNoAuth

	numComponents
)

// componentProcedures maps each component to the procedures it requires.
var componentProcedures = [numComponents][]string{
	ComponentBasicWallet:         {ProcReceiveAsset, ProcMoveAssetToNote},
	ComponentBasicFungibleFaucet: {ProcDistribute, ProcBurn},
	ComponentAuthFalcon512:       {ProcAuthFalcon512},
	ComponentAuthNoAuth:          {ProcAuthNoAuth},
}

// Map of components back to their names for pretty printing.
var componentStrings = map[Component]string{
	ComponentBasicWallet:         "BasicWallet",
	ComponentBasicFungibleFaucet: "BasicFungibleFaucet",
	ComponentAuthFalcon512:       "AuthFalcon512",
	ComponentAuthNoAuth:          "AuthNoAuth",
}

// String returns the Component in human-readable form.
func (c Component) String() string {
	if s, ok := componentStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Component (%d)", uint8(c))
}

// Procedures returns the procedures that make up the component.
func (c Component) Procedures() []wire.Procedure {
	if c >= numComponents {
		return nil
	}
	names := componentProcedures[c]
	procs := make([]wire.Procedure, 0, len(names))
	for _, name := range names {
		procs = append(procs, NewProcedure(name))
	}
	return procs
}

// AuthScheme describes how an account authenticates transactions.
type AuthScheme struct {
	Component Component

	// PubKey is the commitment to the public key for signature based
	// schemes.  It is the zero hash otherwise.
	PubKey chainhash.Hash
}

// Procedure returns the authentication procedure of the scheme.
func (s *AuthScheme) Procedure() wire.Procedure {
	return s.Component.Procedures()[0]
}

// Interface describes what an account can do based on the components found in
// its code.
type Interface struct {
	ID         wire.AccountID
	Components []Component
	Auth       *AuthScheme
}

// InterfaceFromAccount derives the interface of an account by looking for the
// procedures of every well-known component in its code.  The public key of a
// signature scheme is read from the first storage slot.
func InterfaceFromAccount(acct *wire.Account) *Interface {
	iface := &Interface{ID: acct.ID}
	for c := Component(0); c < numComponents; c++ {
		if !hasComponent(&acct.Code, c) {
			continue
		}
		iface.Components = append(iface.Components, c)

		// The first authentication component found wins.
		if iface.Auth != nil {
			continue
		}
		switch c {
		case ComponentAuthFalcon512:
			var pubKey chainhash.Hash
			if len(acct.Storage) > 0 {
				pubKey = acct.Storage[0]
			}
			iface.Auth = &AuthScheme{Component: c, PubKey: pubKey}
		case ComponentAuthNoAuth:
			iface.Auth = &AuthScheme{Component: c}
		}
	}
	return iface
}

// hasComponent returns whether the code exports every procedure of the
// component.
func hasComponent(code *wire.AccountCode, c Component) bool {
	for _, proc := range c.Procedures() {
		if !code.HasProcedure(proc.Root) {
			return false
		}
	}
	return true
}

// Has returns whether the interface includes the provided component.
func (i *Interface) Has(c Component) bool {
	for _, component := range i.Components {
		if component == c {
			return true
		}
	}
	return false
}

// IsBasicWallet returns whether the account can receive assets.
func (i *Interface) IsBasicWallet() bool {
	return i.Has(ComponentBasicWallet)
}

// IsBasicFaucet returns whether the account is a basic fungible faucet.
func (i *Interface) IsBasicFaucet() bool {
	return i.Has(ComponentBasicFungibleFaucet)
}

// NewAccountCode returns account code made of the provided components.
func NewAccountCode(components ...Component) wire.AccountCode {
	var code wire.AccountCode
	for _, c := range components {
		code.Procedures = append(code.Procedures, c.Procedures()...)
	}
	return code
}

// NewBasicWallet returns a new account that holds a basic wallet
// authenticated with a Falcon-512 key committed to by pubKey.
func NewBasicWallet(id wire.AccountID, pubKey chainhash.Hash) *wire.Account {
	return &wire.Account{
		ID:      id,
		Code:    NewAccountCode(ComponentBasicWallet, ComponentAuthFalcon512),
		Storage: []chainhash.Hash{pubKey},
	}
}

// NewBasicFaucet returns a new basic fungible faucet account authenticated
// with a Falcon-512 key committed to by pubKey.
func NewBasicFaucet(id wire.AccountID, pubKey chainhash.Hash) *wire.Account {
	return &wire.Account{
		ID:      id,
		Code:    NewAccountCode(ComponentBasicFungibleFaucet, ComponentAuthFalcon512),
		Storage: []chainhash.Hash{pubKey},
	}
}
