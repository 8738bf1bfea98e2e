// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaingen provides facilities for generating chains of block headers
for use in tests.

Headers produced by the Generator link to their predecessor, commit to the
peaks of the chain MMR before them, and optionally carry notes.  The generator
retains the full MMR so tests can request merkle proofs for any block the way a
ledger node would serve them.
*/
package chaingen
