// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MerklePath is the ordered list of sibling hashes from a leaf up to, but not
// including, the peak of the tree that contains it.
type MerklePath []chainhash.Hash

// ComputeRoot returns the root obtained by hashing the leaf at the provided
// position together with the path.
func (p MerklePath) ComputeRoot(pos uint64, leaf *chainhash.Hash) chainhash.Hash {
	idx := FromLeafPos(pos)
	acc := *leaf
	for i := range p {
		if idx.IsLeftChild() {
			acc = Merge(&acc, &p[i])
		} else {
			acc = Merge(&p[i], &acc)
		}
		idx = idx.Parent()
	}
	return acc
}

// Proof is a merkle path for a leaf relative to a specific forest.  Remote
// sources return proofs relative to the forest they know about, which may be
// larger than the local one.
type Proof struct {
	Forest   uint64
	Position uint64
	Path     MerklePath
}

// TrimPath converts a merkle path obtained relative to any forest larger than
// the local forest into the authentication nodes the local forest can use.
//
// Starting at the leaf, each sibling is kept along with its in-order index
// only while the whole subtree under the sibling lies inside the local forest.
// Trimming stops at the first sibling that reaches past the last local leaf,
// so the result does not depend on how large the source forest was.  The
// hashes of the result form the path of the leaf within the local forest.
func TrimPath(path MerklePath, pos, forest uint64) []Node {
	if forest == 0 || pos >= forest {
		return nil
	}

	bound := FromLeafPos(forest - 1)
	idx := FromLeafPos(pos)
	nodes := make([]Node, 0, len(path))
	for i := range path {
		sibling := idx.Sibling()
		if sibling.rightmostLeaf() > bound {
			break
		}
		nodes = append(nodes, Node{Index: sibling, Hash: path[i]})
		idx = idx.Parent()
	}
	return nodes
}
