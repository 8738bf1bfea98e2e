// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"lukechampine.com/blake3"
)

// numPeaks returns the number of trees in the given forest.
func numPeaks(forest uint64) int {
	return bits.OnesCount64(forest)
}

// numTrailingZeros returns the number of merges that happen when the forest
// grows to the provided value.
func numTrailingZeros(forest uint64) int {
	return bits.TrailingZeros64(forest)
}

// leafTree describes the tree of a forest that contains a given leaf.
type leafTree struct {
	// height is the height of the tree.  A tree of height h holds 2^h
	// leaves.
	height uint32

	// peakIdx is the position of the tree's peak in the ordered peak list.
	peakIdx int
}

// locateLeaf returns the tree of the forest that contains the leaf at the
// provided position.  The bool is false when the position is not part of the
// forest.
func locateLeaf(forest, pos uint64) (leafTree, bool) {
	if pos >= forest {
		return leafTree{}, false
	}

	var start uint64
	var peakIdx int
	for bit := 63; bit >= 0; bit-- {
		size := uint64(1) << uint(bit)
		if forest&size == 0 {
			continue
		}
		if pos < start+size {
			return leafTree{height: uint32(bit), peakIdx: peakIdx}, true
		}
		start += size
		peakIdx++
	}
	return leafTree{}, false
}

// Peaks houses the roots of the trees in a forest ordered from the largest
// tree to the smallest.
type Peaks struct {
	forest uint64
	hashes []chainhash.Hash
}

// NewPeaks returns the peaks of the given forest after ensuring the number of
// hashes matches the number of trees in it.
func NewPeaks(forest uint64, hashes []chainhash.Hash) (Peaks, error) {
	if len(hashes) != numPeaks(forest) {
		str := fmt.Sprintf("forest %d requires %d peaks, got %d", forest,
			numPeaks(forest), len(hashes))
		return Peaks{}, mmrError(ErrInvalidPeaks, str)
	}
	cpy := make([]chainhash.Hash, len(hashes))
	copy(cpy, hashes)
	return Peaks{forest: forest, hashes: cpy}, nil
}

// Forest returns the number of leaves summarized by the peaks.
func (p Peaks) Forest() uint64 {
	return p.forest
}

// NumPeaks returns the number of peaks.
func (p Peaks) NumPeaks() int {
	return len(p.hashes)
}

// Hashes returns a copy of the peak hashes.
func (p Peaks) Hashes() []chainhash.Hash {
	cpy := make([]chainhash.Hash, len(p.hashes))
	copy(cpy, p.hashes)
	return cpy
}

// Commitment returns a single hash that commits to the forest and every peak.
// Block headers carry this value as the chain commitment of the blocks that
// precede them.
func (p Peaks) Commitment() chainhash.Hash {
	h := blake3.New(chainhash.HashSize, nil)
	var forest [8]byte
	binary.LittleEndian.PutUint64(forest[:], p.forest)
	h.Write(forest[:])
	for i := range p.hashes {
		h.Write(p.hashes[i][:])
	}
	var commitment chainhash.Hash
	copy(commitment[:], h.Sum(nil))
	return commitment
}

// Equal returns whether both sets of peaks describe the same forest with the
// same roots.
func (p Peaks) Equal(other *Peaks) bool {
	if p.forest != other.forest || len(p.hashes) != len(other.hashes) {
		return false
	}
	for i := range p.hashes {
		if p.hashes[i] != other.hashes[i] {
			return false
		}
	}
	return true
}
