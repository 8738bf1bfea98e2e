// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

const (
	// MaxFungibleAmount is the largest amount a single fungible asset may
	// hold.
	MaxFungibleAmount uint64 = 1<<63 - 1<<31

	// MaxAssetsPerNote is the maximum number of assets a note may carry.
	MaxAssetsPerNote = 256

	// MaxAssetsPerVault is the maximum number of distinct assets an account
	// vault may hold.
	MaxAssetsPerVault = 4096
)

// FungibleAsset is an amount of a fungible asset issued by a faucet account.
type FungibleAsset struct {
	Faucet AccountID
	Amount uint64
}

// NewFungibleAsset returns a fungible asset after ensuring the amount is in
// range.
func NewFungibleAsset(faucet AccountID, amount uint64) (FungibleAsset, error) {
	if amount > MaxFungibleAmount {
		msg := fmt.Sprintf("amount %d exceeds the max allowed amount %d",
			amount, MaxFungibleAmount)
		return FungibleAsset{}, messageError("NewFungibleAsset",
			ErrInvalidAmount, msg)
	}
	return FungibleAsset{Faucet: faucet, Amount: amount}, nil
}

// String returns the asset in human-readable form.
func (a FungibleAsset) String() string {
	return fmt.Sprintf("%d@%s", a.Amount, a.Faucet)
}

// readAssets reads a count-prefixed list of fungible assets.
func readAssets(r io.Reader, op string, maxAllowed uint64) ([]FungibleAsset, error) {
	count, err := readCount(r, op, maxAllowed, ErrTooManyAssets, "assets")
	if err != nil {
		return nil, err
	}
	assets := make([]FungibleAsset, 0, count)
	for i := uint64(0); i < count; i++ {
		var asset FungibleAsset
		err := readElements(r, &asset.Faucet, &asset.Amount)
		if err != nil {
			return nil, err
		}
		if asset.Amount > MaxFungibleAmount {
			msg := fmt.Sprintf("amount %d exceeds the max allowed amount %d",
				asset.Amount, MaxFungibleAmount)
			return nil, messageError(op, ErrInvalidAmount, msg)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// writeAssets writes a count-prefixed list of fungible assets.
func writeAssets(w io.Writer, assets []FungibleAsset) error {
	if err := WriteVarInt(w, uint64(len(assets))); err != nil {
		return err
	}
	for i := range assets {
		err := writeElements(w, assets[i].Faucet, assets[i].Amount)
		if err != nil {
			return err
		}
	}
	return nil
}
