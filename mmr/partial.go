// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"fmt"
	"sort"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// PartialMmr is a merkle mountain range that only knows the peaks of its
// forest plus the authentication nodes of the leaves it tracks.
//
// For every tracked leaf the sibling of every node on the path from the leaf
// to its peak is retained, which is enough to open the leaf against the
// current peaks.  The lone leaf of a forest with an odd number of leaves is
// its own peak, so whether it is tracked is recorded separately.
//
// A PartialMmr is not safe for concurrent mutation.
type PartialMmr struct {
	forest      uint64
	peaks       []chainhash.Hash
	nodes       map[InOrderIndex]chainhash.Hash
	trackLatest bool
}

// FromPeaks returns a partial range that knows the provided peaks and tracks
// no leaves.
func FromPeaks(peaks Peaks) *PartialMmr {
	return &PartialMmr{
		forest: peaks.forest,
		peaks:  peaks.Hashes(),
		nodes:  make(map[InOrderIndex]chainhash.Hash),
	}
}

// NewPartialMmr returns a partial range for the given forest and peak hashes.
// ErrInvalidPeaks is returned when the number of hashes does not match the
// forest.
func NewPartialMmr(forest uint64, hashes []chainhash.Hash) (*PartialMmr, error) {
	peaks, err := NewPeaks(forest, hashes)
	if err != nil {
		return nil, err
	}
	return FromPeaks(peaks), nil
}

// FromParts rebuilds a partial range from previously persisted peaks and
// authentication nodes.  The trackLatest flag only has meaning when the forest
// has a lone leaf and is ignored otherwise.
func FromParts(peaks Peaks, nodes []Node, trackLatest bool) *PartialMmr {
	m := FromPeaks(peaks)
	for i := range nodes {
		m.nodes[nodes[i].Index] = nodes[i].Hash
	}
	m.trackLatest = trackLatest && peaks.forest&1 == 1
	return m
}

// Forest returns the number of leaves.
func (m *PartialMmr) Forest() uint64 {
	return m.forest
}

// Peaks returns the current peaks.
func (m *PartialMmr) Peaks() Peaks {
	return Peaks{forest: m.forest, hashes: m.cloneHashes()}
}

func (m *PartialMmr) cloneHashes() []chainhash.Hash {
	cpy := make([]chainhash.Hash, len(m.peaks))
	copy(cpy, m.peaks)
	return cpy
}

// TrackLatest returns whether the lone leaf of an odd forest is tracked.
func (m *PartialMmr) TrackLatest() bool {
	return m.trackLatest
}

// Nodes returns the retained authentication nodes ordered by index.
func (m *PartialMmr) Nodes() []Node {
	nodes := make([]Node, 0, len(m.nodes))
	for idx, hash := range m.nodes {
		nodes = append(nodes, Node{Index: idx, Hash: hash})
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Index < nodes[j].Index
	})
	return nodes
}

// Node returns the retained authentication node at the provided index.
func (m *PartialMmr) Node(idx InOrderIndex) (chainhash.Hash, bool) {
	hash, ok := m.nodes[idx]
	return hash, ok
}

// Clone returns a deep copy of the partial range.
func (m *PartialMmr) Clone() *PartialMmr {
	nodes := make(map[InOrderIndex]chainhash.Hash, len(m.nodes))
	for idx, hash := range m.nodes {
		nodes[idx] = hash
	}
	return &PartialMmr{
		forest:      m.forest,
		peaks:       m.cloneHashes(),
		nodes:       nodes,
		trackLatest: m.trackLatest,
	}
}

// IsTracked returns whether the leaf at the provided position can be opened.
func (m *PartialMmr) IsTracked(pos uint64) bool {
	if pos >= m.forest {
		return false
	}
	if m.forest&1 == 1 && pos == m.forest-1 {
		return m.trackLatest
	}
	_, ok := m.nodes[FromLeafPos(pos).Sibling()]
	return ok
}

// isTrackedNode returns whether any leaf under the inner node is tracked.
func (m *PartialMmr) isTrackedNode(idx InOrderIndex) bool {
	if idx.IsLeaf() {
		return false
	}
	if _, ok := m.nodes[idx.LeftChild()]; ok {
		return true
	}
	_, ok := m.nodes[idx.RightChild()]
	return ok
}

// Open returns the merkle path of a tracked leaf relative to the current
// forest.  The bool is false when the leaf is not tracked.
func (m *PartialMmr) Open(pos uint64) (MerklePath, bool) {
	if !m.IsTracked(pos) {
		return nil, false
	}
	tree, _ := locateLeaf(m.forest, pos)
	path := make(MerklePath, 0, tree.height)
	idx := FromLeafPos(pos)
	for i := uint32(0); i < tree.height; i++ {
		hash, ok := m.nodes[idx.Sibling()]
		if !ok {
			return nil, false
		}
		path = append(path, hash)
		idx = idx.Parent()
	}
	return path, true
}

// Add appends a leaf to the forest and returns the authentication nodes that
// were retained as a result.
//
// Appending a leaf merges trees of equal size.  When either side of a merge
// contains tracked leaves the root of the other side becomes part of their
// path and is retained.  Setting track marks the new leaf itself as tracked.
func (m *PartialMmr) Add(leaf chainhash.Hash, track bool) []Node {
	rightIdx := FromLeafPos(m.forest)
	m.forest++
	merges := numTrailingZeros(m.forest)

	var added []Node
	if merges == 0 {
		m.trackLatest = track
		m.peaks = append(m.peaks, leaf)
		return added
	}

	trackRight := track
	trackLeft := m.trackLatest
	right := leaf
	for i := 0; i < merges; i++ {
		left := m.peaks[len(m.peaks)-1]
		m.peaks = m.peaks[:len(m.peaks)-1]
		leftIdx := rightIdx.Sibling()

		if trackRight {
			m.nodes[leftIdx] = left
			added = append(added, Node{Index: leftIdx, Hash: left})
		}
		if trackLeft {
			m.nodes[rightIdx] = right
			added = append(added, Node{Index: rightIdx, Hash: right})
		}

		rightIdx = rightIdx.Parent()
		right = Merge(&left, &right)

		trackRight = trackRight || trackLeft
		trackLeft = m.isTrackedNode(rightIdx.Sibling())
	}
	m.trackLatest = false
	m.peaks = append(m.peaks, right)
	return added
}

// Track verifies the merkle path of a leaf against the current peak of the
// tree that contains it and, when valid, retains the path so the leaf can be
// opened later.
//
// The path must be relative to the local forest.  Paths obtained relative to
// a larger forest must first go through TrimPath.
func (m *PartialMmr) Track(pos uint64, leaf chainhash.Hash, path MerklePath) error {
	tree, ok := locateLeaf(m.forest, pos)
	if !ok {
		str := fmt.Sprintf("leaf %d is not in forest %d", pos, m.forest)
		return mmrError(ErrUnknownLeaf, str)
	}
	if uint32(len(path)) != tree.height {
		str := fmt.Sprintf("path for leaf %d has %d nodes, but the tree "+
			"that contains it has height %d", pos, len(path), tree.height)
		return mmrError(ErrPeakMismatch, str)
	}

	peak := m.peaks[tree.peakIdx]
	root := path.ComputeRoot(pos, &leaf)
	if root != peak {
		str := fmt.Sprintf("path for leaf %d computes root %v, but the peak "+
			"is %v", pos, root, peak)
		return mmrError(ErrPeakMismatch, str)
	}

	// A tree of height zero is the lone leaf of an odd forest.
	if tree.height == 0 {
		m.trackLatest = true
		return nil
	}

	idx := FromLeafPos(pos)
	for i := range path {
		m.nodes[idx.Sibling()] = path[i]
		idx = idx.Parent()
	}
	return nil
}
