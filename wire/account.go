// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// AccountIDSize is the size of a serialized account id.
	AccountIDSize = 16

	// MaxProceduresPerAccount is the maximum number of procedures account
	// code may export.
	MaxProceduresPerAccount = 256

	// MaxStorageSlots is the maximum number of storage slots of an account.
	MaxStorageSlots = 255

	// MaxProcedureNameLen is the maximum length of a procedure name.
	MaxProcedureNameLen = 255
)

// AccountID uniquely identifies an account.  It is made of two field
// elements.
type AccountID struct {
	Prefix Felt
	Suffix Felt
}

// Bytes returns the big-endian serialization of the account id.  Ordering the
// serialized form byte-wise matches ordering by prefix and then suffix.
func (id AccountID) Bytes() [AccountIDSize]byte {
	var b [AccountIDSize]byte
	binary.BigEndian.PutUint64(b[:8], uint64(id.Prefix))
	binary.BigEndian.PutUint64(b[8:], uint64(id.Suffix))
	return b
}

// AccountIDFromBytes parses an account id from its big-endian serialization.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	const op = "AccountIDFromBytes"
	if len(b) != AccountIDSize {
		msg := fmt.Sprintf("account id must be %d bytes, got %d",
			AccountIDSize, len(b))
		return AccountID{}, messageError(op, ErrMalformedAccountID, msg)
	}
	prefix, err := NewFelt(binary.BigEndian.Uint64(b[:8]))
	if err != nil {
		return AccountID{}, err
	}
	suffix, err := NewFelt(binary.BigEndian.Uint64(b[8:]))
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{Prefix: prefix, Suffix: suffix}, nil
}

// ParseAccountID parses an account id from its hex form with an optional 0x
// prefix.
func ParseAccountID(s string) (AccountID, error) {
	const op = "ParseAccountID"
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		msg := fmt.Sprintf("account id %q is not hex: %v", s, err)
		return AccountID{}, messageError(op, ErrMalformedAccountID, msg)
	}
	return AccountIDFromBytes(b)
}

// String returns the account id as a 0x-prefixed hex string.
func (id AccountID) String() string {
	b := id.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}

// Procedure is a procedure exported by account code.
type Procedure struct {
	Name string
	Root chainhash.Hash
}

// AccountCode is the set of procedures an account exposes.
type AccountCode struct {
	Procedures []Procedure
}

// HasProcedure returns whether the code exports a procedure with the given
// root.
func (c *AccountCode) HasProcedure(root chainhash.Hash) bool {
	for i := range c.Procedures {
		if c.Procedures[i].Root == root {
			return true
		}
	}
	return false
}

// Account is the full state of an account.
type Account struct {
	ID      AccountID
	Nonce   Felt
	Code    AccountCode
	Storage []chainhash.Hash
	Vault   []FungibleAsset
}

// IsNew returns whether the account has never executed a transaction.
func (a *Account) IsNew() bool {
	return a.Nonce == 0
}

// Balance returns the amount of the fungible asset issued by the provided
// faucet held in the account vault.
func (a *Account) Balance(faucet AccountID) uint64 {
	var total uint64
	for i := range a.Vault {
		if a.Vault[i].Faucet == faucet {
			total += a.Vault[i].Amount
		}
	}
	return total
}

// Serialize encodes the account to w.
func (a *Account) Serialize(w io.Writer) error {
	if err := writeElements(w, a.ID, a.Nonce); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(a.Code.Procedures))); err != nil {
		return err
	}
	for i := range a.Code.Procedures {
		proc := &a.Code.Procedures[i]
		if err := writeElement(w, &proc.Root); err != nil {
			return err
		}
		if err := WriteVarString(w, proc.Name); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(a.Storage))); err != nil {
		return err
	}
	for i := range a.Storage {
		if err := writeElement(w, &a.Storage[i]); err != nil {
			return err
		}
	}

	return writeAssets(w, a.Vault)
}

// Deserialize decodes an account from r into the receiver.
func (a *Account) Deserialize(r io.Reader) error {
	const op = "Account.Deserialize"
	if err := readElements(r, &a.ID, &a.Nonce); err != nil {
		return err
	}

	count, err := readCount(r, op, MaxProceduresPerAccount,
		ErrTooManyProcedures, "procedures")
	if err != nil {
		return err
	}
	a.Code.Procedures = make([]Procedure, 0, count)
	for i := uint64(0); i < count; i++ {
		var proc Procedure
		if err := readElement(r, &proc.Root); err != nil {
			return err
		}
		proc.Name, err = ReadVarString(r, MaxProcedureNameLen)
		if err != nil {
			return err
		}
		a.Code.Procedures = append(a.Code.Procedures, proc)
	}

	count, err = readCount(r, op, MaxStorageSlots, ErrTooManyStorageSlots,
		"storage slots")
	if err != nil {
		return err
	}
	a.Storage = make([]chainhash.Hash, count)
	for i := range a.Storage {
		if err := readElement(r, &a.Storage[i]); err != nil {
			return err
		}
	}

	a.Vault, err = readAssets(r, op, MaxAssetsPerVault)
	return err
}

// Bytes returns the serialized account.
func (a *Account) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes decodes the provided serialized account into the receiver.
func (a *Account) FromBytes(b []byte) error {
	return a.Deserialize(bytes.NewReader(b))
}
