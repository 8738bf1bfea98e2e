// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Mmr is a merkle mountain range that retains every node.  It is able to
// produce a proof for any of its leaves.
type Mmr struct {
	forest uint64
	nodes  map[InOrderIndex]chainhash.Hash
	peaks  []chainhash.Hash
}

// New returns an empty merkle mountain range.
func New() *Mmr {
	return &Mmr{nodes: make(map[InOrderIndex]chainhash.Hash)}
}

// FromLeaves returns a merkle mountain range holding the provided leaves in
// order.
func FromLeaves(leaves []chainhash.Hash) *Mmr {
	m := New()
	for i := range leaves {
		m.Add(leaves[i])
	}
	return m
}

// Forest returns the number of leaves.
func (m *Mmr) Forest() uint64 {
	return m.forest
}

// Add appends a leaf and merges trees of equal size.
func (m *Mmr) Add(leaf chainhash.Hash) {
	idx := FromLeafPos(m.forest)
	m.nodes[idx] = leaf
	m.forest++

	right := leaf
	for merges := numTrailingZeros(m.forest); merges > 0; merges-- {
		left := m.peaks[len(m.peaks)-1]
		m.peaks = m.peaks[:len(m.peaks)-1]
		idx = idx.Parent()
		right = Merge(&left, &right)
		m.nodes[idx] = right
	}
	m.peaks = append(m.peaks, right)
}

// Peaks returns the current peaks.
func (m *Mmr) Peaks() Peaks {
	peaks, err := NewPeaks(m.forest, m.peaks)
	if err != nil {
		// The peaks are maintained alongside the forest.
		panic(err)
	}
	return peaks
}

// PeaksAt returns the peaks the range had when it held the provided number of
// leaves.
func (m *Mmr) PeaksAt(forest uint64) (Peaks, error) {
	if forest > m.forest {
		str := fmt.Sprintf("forest %d exceeds the current forest %d",
			forest, m.forest)
		return Peaks{}, mmrError(ErrUnknownLeaf, str)
	}

	var start uint64
	hashes := make([]chainhash.Hash, 0, numPeaks(forest))
	for bit := 63; bit >= 0; bit-- {
		size := uint64(1) << uint(bit)
		if forest&size == 0 {
			continue
		}
		// A tree covering leaves [s, s+2^j) is rooted at in-order index
		// 2s+2^j.
		root := InOrderIndex(2*start + size)
		hashes = append(hashes, m.nodes[root])
		start += size
	}
	return NewPeaks(forest, hashes)
}

// Leaf returns the leaf at the provided position.
func (m *Mmr) Leaf(pos uint64) (chainhash.Hash, error) {
	if pos >= m.forest {
		str := fmt.Sprintf("leaf %d is not in forest %d", pos, m.forest)
		return chainhash.Hash{}, mmrError(ErrUnknownLeaf, str)
	}
	return m.nodes[FromLeafPos(pos)], nil
}

// Open returns a proof for the leaf at the provided position relative to the
// current forest.
func (m *Mmr) Open(pos uint64) (*Proof, error) {
	tree, ok := locateLeaf(m.forest, pos)
	if !ok {
		str := fmt.Sprintf("leaf %d is not in forest %d", pos, m.forest)
		return nil, mmrError(ErrUnknownLeaf, str)
	}

	path := make(MerklePath, 0, tree.height)
	idx := FromLeafPos(pos)
	for i := uint32(0); i < tree.height; i++ {
		path = append(path, m.nodes[idx.Sibling()])
		idx = idx.Parent()
	}
	return &Proof{Forest: m.forest, Position: pos, Path: path}, nil
}

// PeaksFromLeaves returns the peaks of a merkle mountain range holding the
// provided leaves.
func PeaksFromLeaves(leaves []chainhash.Hash) Peaks {
	return FromLeaves(leaves).Peaks()
}
