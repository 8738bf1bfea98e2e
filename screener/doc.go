// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package screener decides which tracked accounts can consume a note.

A NoteScreener checks a note against every account the client tracks by
speculatively executing its consumption through a ConsumptionChecker.  Notes
that can not be consumed right away but are recallable are additionally
reported as consumable by their sender once the recall height is reached.

The result of a check is a list of NoteConsumability entries, one per account
that can consume the note, pairing the account with a NoteRelevance of either
Now or After a block number.
*/
package screener
