// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mmr

import (
	"errors"
	"testing"
)

// TestInOrderIndex ensures the tree navigation of in-order indices produces
// the expected results.
func TestInOrderIndex(t *testing.T) {
	tests := []struct {
		name    string
		idx     InOrderIndex
		isLeaf  bool
		level   uint32
		parent  InOrderIndex
		sibling InOrderIndex
		isLeft  bool
	}{{
		name:    "leaf 0",
		idx:     FromLeafPos(0),
		isLeaf:  true,
		level:   0,
		parent:  2,
		sibling: 3,
		isLeft:  true,
	}, {
		name:    "leaf 1",
		idx:     FromLeafPos(1),
		isLeaf:  true,
		level:   0,
		parent:  2,
		sibling: 1,
		isLeft:  false,
	}, {
		name:    "leaf 6",
		idx:     FromLeafPos(6),
		isLeaf:  true,
		level:   0,
		parent:  14,
		sibling: 15,
		isLeft:  true,
	}, {
		name:    "root of leaves 0-1",
		idx:     2,
		isLeaf:  false,
		level:   1,
		parent:  4,
		sibling: 6,
		isLeft:  true,
	}, {
		name:    "root of leaves 4-7",
		idx:     12,
		isLeaf:  false,
		level:   2,
		parent:  8,
		sibling: 4,
		isLeft:  false,
	}, {
		name:    "root of leaves 0-7",
		idx:     8,
		isLeaf:  false,
		level:   3,
		parent:  16,
		sibling: 24,
		isLeft:  true,
	}}

	for _, test := range tests {
		if got := test.idx.IsLeaf(); got != test.isLeaf {
			t.Errorf("%q: mismatched leaf flag -- got %v, want %v", test.name,
				got, test.isLeaf)
		}
		if got := test.idx.Level(); got != test.level {
			t.Errorf("%q: mismatched level -- got %d, want %d", test.name,
				got, test.level)
		}
		if got := test.idx.Parent(); got != test.parent {
			t.Errorf("%q: mismatched parent -- got %d, want %d", test.name,
				got, test.parent)
		}
		if got := test.idx.Sibling(); got != test.sibling {
			t.Errorf("%q: mismatched sibling -- got %d, want %d", test.name,
				got, test.sibling)
		}
		if got := test.idx.IsLeftChild(); got != test.isLeft {
			t.Errorf("%q: mismatched left child flag -- got %v, want %v",
				test.name, got, test.isLeft)
		}
		if !test.isLeaf {
			left, right := test.idx.LeftChild(), test.idx.RightChild()
			if left.Parent() != test.idx || right.Parent() != test.idx {
				t.Errorf("%q: children %d and %d do not share parent",
					test.name, left, right)
			}
			if left.Sibling() != right {
				t.Errorf("%q: mismatched sibling of left child -- got %d, "+
					"want %d", test.name, left.Sibling(), right)
			}
		}
	}
}

// TestNewInOrderIndex ensures the zero index is rejected.
func TestNewInOrderIndex(t *testing.T) {
	if _, err := NewInOrderIndex(0); !errors.Is(err, ErrInvalidNodeIndex) {
		t.Fatalf("mismatched error -- got %v, want %v", err,
			ErrInvalidNodeIndex)
	}
	idx, err := NewInOrderIndex(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != FromLeafPos(2) {
		t.Fatalf("mismatched index -- got %d, want %d", idx, FromLeafPos(2))
	}
}
