// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaingen

import (
	"testing"

	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/wire"
)

// TestGenerator ensures generated headers link to each other and commit to the
// chain before them.
func TestGenerator(t *testing.T) {
	g := MakeGenerator()
	g.GenerateBlocks("b", 9)
	note := &wire.Note{
		Script:   wire.NewNoteScript("notes::p2id"),
		Metadata: wire.NoteMetadata{Type: wire.NoteTypePublic, Tag: 5},
	}
	g.NextBlock("withnote", note)

	if g.TipName() != "withnote" || g.Tip().BlockNum != 10 {
		t.Fatalf("unexpected tip %s at %d", g.TipName(), g.Tip().BlockNum)
	}
	if g.BlockByName("b3").BlockNum != 3 {
		t.Fatal("block b3 has the wrong number")
	}

	commitments := g.Commitments()
	for n := uint32(1); n <= g.Tip().BlockNum; n++ {
		header := g.HeaderByNumber(n)
		if header.PrevCommitment != commitments[n-1] {
			t.Fatalf("block %d does not link to its predecessor", n)
		}
		peaks := mmr.PeaksFromLeaves(commitments[:n])
		if header.ChainCommitment != peaks.Commitment() {
			t.Fatalf("block %d has the wrong chain commitment", n)
		}

		proof, err := g.Proof(n)
		if err != nil {
			t.Fatalf("unexpected proof error: %v", err)
		}
		chainPeaks := g.ChainMmr().Peaks()
		root := proof.Path.ComputeRoot(proof.Position, &commitments[n])
		found := false
		for _, peak := range chainPeaks.Hashes() {
			found = found || peak == root
		}
		if !found {
			t.Fatalf("proof of block %d does not reach a peak", n)
		}
	}

	if got := g.Notes(10, []wire.NoteTag{1, 5}); len(got) != 1 {
		t.Fatalf("mismatched notes -- got %d, want 1", len(got))
	}
	if got := g.Notes(10, []wire.NoteTag{1}); len(got) != 0 {
		t.Fatalf("mismatched notes -- got %d, want 0", len(got))
	}
	if g.HeaderByNumber(11) != nil {
		t.Fatal("header beyond the tip")
	}
}
