// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notes

import (
	"github.com/notechain/noteclient/wire"
)

const (
	// localAnyTagPrefix marks tags that target a specific account.
	localAnyTagPrefix = 0xc0000000

	// swapTagPrefix marks tags of swap notes.
	swapTagPrefix = 0x40000000

	// accountTagBits is the number of bits of the account prefix kept in
	// an account tag.
	accountTagBits = 14
)

// TagForAccount returns the note tag used for notes that target the provided
// account.  Only the high bits of the account prefix are kept so the tag does
// not reveal the exact account.
func TagForAccount(id wire.AccountID) wire.NoteTag {
	high := uint32(uint64(id.Prefix) >> (64 - accountTagBits))
	return wire.NoteTag(localAnyTagPrefix | high)
}

// SwapTag returns the note tag used for swap notes that exchange the offered
// asset for the requested one.
func SwapTag(offered, requested wire.AccountID) wire.NoteTag {
	const half = accountTagBits / 2
	o := uint32(uint64(offered.Prefix) >> (64 - half))
	r := uint32(uint64(requested.Prefix) >> (64 - half))
	return wire.NoteTag(swapTagPrefix | o<<half | r)
}
