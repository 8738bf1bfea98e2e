// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

// MmrProofResult models the merkle proof of a block header within the chain
// MMR.  The path holds hex-encoded hashes ordered from the leaf to its peak.
type MmrProofResult struct {
	Forest   uint64   `json:"forest"`
	Position uint64   `json:"position"`
	Path     []string `json:"path"`
}

// GetBlockHeaderResult models the data returned from the getblockheader
// command.
type GetBlockHeaderResult struct {
	Header string          `json:"header"`
	Proof  *MmrProofResult `json:"proof,omitempty"`
}

// GetChainTipResult models the data returned from the getchaintip command.
type GetChainTipResult struct {
	BlockNum   uint32 `json:"number"`
	Commitment string `json:"commitment"`
}

// SyncNotesResult models the data returned from the syncnotes command.  It
// holds the hex-encoded notes of the requested block that carry any of the
// requested tags.
type SyncNotesResult struct {
	BlockNum uint32   `json:"blocknumber"`
	Notes    []string `json:"notes"`
}
