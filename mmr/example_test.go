// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr_test

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/mmr"
)

// This example demonstrates authenticating a leaf learned from a source that
// knows about more leaves than the local partial range.
func ExampleTrimPath() {
	var leaves []chainhash.Hash
	for i := 0; i < 20; i++ {
		leaves = append(leaves, chainhash.HashH([]byte{byte(i)}))
	}

	// The local view only knows the peaks of the first 11 leaves.
	local := mmr.FromPeaks(mmr.PeaksFromLeaves(leaves[:11]))

	// The remote source returns a proof relative to all 20 leaves.
	proof, err := mmr.FromLeaves(leaves).Open(9)
	if err != nil {
		fmt.Println(err)
		return
	}

	nodes := mmr.TrimPath(proof.Path, proof.Position, local.Forest())
	err = local.Track(proof.Position, leaves[9], mmr.NodeHashes(nodes))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("trimmed path length:", len(nodes))
	fmt.Println("leaf 9 tracked:", local.IsTracked(9))

	// Output:
	// trimmed path length: 1
	// leaf 9 tracked: true
}
