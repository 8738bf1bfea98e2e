// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"lukechampine.com/blake3"
)

// Merge returns the hash of an inner node given its left and right children.
// It is the BLAKE3-256 digest of the concatenation of both children.
func Merge(left, right *chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return blake3.Sum256(buf[:])
}

// Node pairs an in-order index with the hash stored at that position.
type Node struct {
	Index InOrderIndex
	Hash  chainhash.Hash
}

// NodeHashes returns the hashes of the provided nodes in order.
func NodeHashes(nodes []Node) []chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(nodes))
	for i := range nodes {
		hashes = append(hashes, nodes[i].Hash)
	}
	return hashes
}
