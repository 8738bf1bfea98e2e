// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package screener

import (
	"fmt"

	"github.com/notechain/noteclient/wire"
)

// NoteRelevance describes when a note becomes consumable by an account.  The
// zero value means the note can be consumed now.
type NoteRelevance struct {
	after  bool
	height uint32
}

// Now returns a relevance that signals the note is consumable immediately.
func Now() NoteRelevance {
	return NoteRelevance{}
}

// After returns a relevance that signals the note becomes consumable once the
// chain reaches the provided block number.
func After(height uint32) NoteRelevance {
	return NoteRelevance{after: true, height: height}
}

// IsNow returns whether the note is consumable immediately.
func (r NoteRelevance) IsNow() bool {
	return !r.after
}

// Height returns the block number from which the note is consumable and
// whether the relevance carries one at all.
func (r NoteRelevance) Height() (uint32, bool) {
	return r.height, r.after
}

// Less returns whether r orders before other.  Immediate relevance orders
// before any block number, and block numbers order numerically.
func (r NoteRelevance) Less(other NoteRelevance) bool {
	if !r.after {
		return other.after
	}
	return other.after && r.height < other.height
}

// String returns the relevance in a human-readable form.
func (r NoteRelevance) String() string {
	if !r.after {
		return "Now"
	}
	return fmt.Sprintf("After block %d", r.height)
}

// NoteConsumability pairs an account with the relevance a note has for it.
type NoteConsumability struct {
	AccountID wire.AccountID
	Relevance NoteRelevance
}

// String returns the consumability in a human-readable form.
func (c NoteConsumability) String() string {
	return fmt.Sprintf("%v: %v", c.AccountID, c.Relevance)
}
