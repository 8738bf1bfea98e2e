// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"fmt"
	"math/bits"
)

// InOrderIndex is the position of a node in an in-order traversal of a
// conceptual binary tree that holds every possible leaf.  Indices start at
// one and leaves always have odd indices.
//
// The zero value does not address a node.
type InOrderIndex uint64

// FromLeafPos returns the in-order index of the leaf at the provided position.
func FromLeafPos(pos uint64) InOrderIndex {
	return InOrderIndex(pos*2 + 1)
}

// NewInOrderIndex returns the provided raw index after verifying it addresses
// a node.
func NewInOrderIndex(idx uint64) (InOrderIndex, error) {
	if idx == 0 {
		return 0, mmrError(ErrInvalidNodeIndex, "in-order index 0 does "+
			"not address a node")
	}
	return InOrderIndex(idx), nil
}

// IsLeaf returns whether the index refers to a leaf.
func (i InOrderIndex) IsLeaf() bool {
	return i&1 == 1
}

// Level returns the height of the node above the leaves.  Leaves are at level
// zero.
func (i InOrderIndex) Level() uint32 {
	return uint32(bits.TrailingZeros64(uint64(i)))
}

// IsLeftChild returns whether the node is the left child of its parent.
func (i InOrderIndex) IsLeftChild() bool {
	return i < i.Parent()
}

// Parent returns the index of the parent node.
func (i InOrderIndex) Parent() InOrderIndex {
	// The parent is found by clearing the bits below the target level and
	// then setting the bit for the target level.
	target := i.Level() + 1
	bit := uint64(1) << target
	v := uint64(i)
	return InOrderIndex((v ^ (v & (bit - 1))) | bit)
}

// LeftChild returns the index of the left child of an inner node.  The result
// is meaningless for leaves.
func (i InOrderIndex) LeftChild() InOrderIndex {
	level := i.Level()
	if level == 0 {
		return i
	}
	return i - InOrderIndex(uint64(1)<<(level-1))
}

// RightChild returns the index of the right child of an inner node.  The
// result is meaningless for leaves.
func (i InOrderIndex) RightChild() InOrderIndex {
	level := i.Level()
	if level == 0 {
		return i
	}
	return i + InOrderIndex(uint64(1)<<(level-1))
}

// Sibling returns the index of the other child of the node's parent.
func (i InOrderIndex) Sibling() InOrderIndex {
	parent := i.Parent()
	if i > parent {
		return parent.LeftChild()
	}
	return parent.RightChild()
}

// rightmostLeaf returns the in-order index of the rightmost leaf of the
// subtree rooted at the node.
func (i InOrderIndex) rightmostLeaf() InOrderIndex {
	return i + InOrderIndex(uint64(1)<<i.Level()) - 1
}

// String returns the index in human-readable form.
func (i InOrderIndex) String() string {
	return fmt.Sprintf("%d", uint64(i))
}
