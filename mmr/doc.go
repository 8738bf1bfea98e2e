// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mmr implements Merkle Mountain Ranges along with a partial variant
that only retains the authentication nodes required to prove a chosen set of
leaves.

A Merkle Mountain Range is an append-only accumulator made of a sequence of
perfect binary trees whose sizes are given by the set bits of the number of
leaves it holds.  The number of leaves is called the forest, and the roots of
the trees are called peaks.  Peaks are always ordered from the largest tree to
the smallest, which means the most significant set bit of the forest comes
first.

# Node Indexing

Nodes are addressed by their in-order index in a conceptual binary tree that
contains every possible leaf.  Leaf at position p has the in-order index
2p+1, so all leaves have odd indices, and the level of any node is the number
of trailing zero bits in its index.  This addressing is stable as the forest
grows which makes it suitable as a persistent key for authentication nodes.

# Partial Ranges

A PartialMmr starts from the peaks of a forest and learns about individual
leaves either by appending them with tracking enabled or by being handed a
merkle path that authenticates them against a current peak.  Only the nodes
needed to open the tracked leaves are kept.

Proofs obtained from a source that knows a larger forest must be trimmed
before they can be applied to a smaller local forest.  See TrimPath.

# Errors

Errors returned by this package are of type MmrError and support errors.Is
and errors.As against the ErrorKind constants.
*/
package mmr
