// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package screener

import (
	"testing"

	"github.com/notechain/noteclient/wire"
)

// TestNoteRelevanceString ensures relevances render in their textual form.
func TestNoteRelevanceString(t *testing.T) {
	tests := []struct {
		in   NoteRelevance
		want string
	}{
		{Now(), "Now"},
		{After(0), "After block 0"},
		{After(42), "After block 42"},
		{After(4294967295), "After block 4294967295"},
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestNoteRelevanceLess ensures immediate relevance orders before any block
// number and block numbers order numerically.
func TestNoteRelevanceLess(t *testing.T) {
	tests := []struct {
		a, b NoteRelevance
		want bool
	}{
		{Now(), Now(), false},
		{Now(), After(0), true},
		{After(0), Now(), false},
		{After(1), After(2), true},
		{After(2), After(1), false},
		{After(3), After(3), false},
	}

	for i, test := range tests {
		if got := test.a.Less(test.b); got != test.want {
			t.Errorf("#%d: %v < %v -- got %v, want %v", i, test.a, test.b,
				got, test.want)
		}
	}
}

// TestNoteRelevanceAccessors ensures the accessors report the kind and the
// block number of a relevance.
func TestNoteRelevanceAccessors(t *testing.T) {
	if !Now().IsNow() {
		t.Fatal("Now is not immediate")
	}
	if h, ok := Now().Height(); ok || h != 0 {
		t.Fatalf("Now carries a height -- got (%d, %v)", h, ok)
	}
	if After(7).IsNow() {
		t.Fatal("After(7) is immediate")
	}
	if h, ok := After(7).Height(); !ok || h != 7 {
		t.Fatalf("mismatched height -- got (%d, %v), want (7, true)", h, ok)
	}
	var zero NoteRelevance
	if zero != Now() {
		t.Fatal("zero value is not Now")
	}
}

// TestNoteConsumabilityString ensures consumability entries render with the
// account id and the relevance.
func TestNoteConsumabilityString(t *testing.T) {
	c := NoteConsumability{
		AccountID: wire.AccountID{Prefix: 1, Suffix: 2},
		Relevance: After(9),
	}
	want := "0x00000000000000010000000000000002: After block 9"
	if got := c.String(); got != want {
		t.Fatalf("mismatched string -- got %q, want %q", got, want)
	}
}
