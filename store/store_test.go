// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// newTestStore returns a store backed by an in-memory database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		t.Fatalf("unable to open database: %v", err)
	}
	s := New(db, 4)
	t.Cleanup(func() { s.Close() })
	return s
}

// testHeader returns a block header with the provided number.
func testHeader(blockNum uint32) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:        1,
		BlockNum:       blockNum,
		PrevCommitment: chainhash.HashH([]byte{byte(blockNum)}),
		NoteRoot:       chainhash.HashH([]byte("notes")),
		Timestamp:      time.Unix(1700000000+int64(blockNum), 0),
	}
}

// TestBlockHeaders ensures block headers and peaks round trip through the
// store and missing records are reported as such.
func TestBlockHeaders(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	header, _, err := s.GetBlockHeaderByNumber(ctx, 0)
	if err != nil || header != nil {
		t.Fatalf("unexpected header before insert: %v, %v", header, err)
	}

	leaves := []chainhash.Hash{chainhash.HashH([]byte("a")),
		chainhash.HashH([]byte("b")), chainhash.HashH([]byte("c"))}
	peaks := mmr.PeaksFromLeaves(leaves)

	genesis := testHeader(0)
	empty := mmr.PeaksFromLeaves(nil)
	if err := s.InsertBlockHeader(ctx, genesis, &empty, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := testHeader(3)
	if err := s.InsertBlockHeader(ctx, want, &peaks, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	historical := testHeader(1)
	if err := s.InsertBlockHeader(ctx, historical, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Read twice so the second read hits the header cache.
	for i := 0; i < 2; i++ {
		got, hasNotes, err := s.GetBlockHeaderByNumber(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasNotes {
			t.Fatal("block 3 does not report notes")
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("mismatched header\n got: %s want: %s", spew.Sdump(got),
				spew.Sdump(want))
		}
	}

	gotPeaks, err := s.GetPeaksByBlockNum(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotPeaks.Equal(&peaks) {
		t.Fatalf("mismatched peaks -- got %v, want %v", gotPeaks.Hashes(),
			peaks.Hashes())
	}
	gotEmpty, err := s.GetPeaksByBlockNum(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEmpty.Forest() != 0 || gotEmpty.NumPeaks() != 0 {
		t.Fatalf("genesis peaks are not empty: forest %d", gotEmpty.Forest())
	}
	if _, err := s.GetPeaksByBlockNum(ctx, 1); !errors.Is(err, ErrPeaksNotFound) {
		t.Fatalf("mismatched error -- got %v, want %v", err, ErrPeaksNotFound)
	}

	// Overwriting a header invalidates the cached copy.
	if err := s.InsertBlockHeader(ctx, want, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, hasNotes, _ := s.GetBlockHeaderByNumber(ctx, 3); hasNotes {
		t.Fatal("stale header served from cache")
	}
}

// TestApplyBlockSync ensures a sync update is stored as a whole.
func TestApplyBlockSync(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sender := wire.AccountID{Prefix: 0x8000000000000000, Suffix: 1}
	target := wire.AccountID{Prefix: 0x4000000000000000, Suffix: 2}
	note := notes.CreateP2IDNote(sender, target, nil, wire.NoteTypePrivate, 0)

	peaks := mmr.PeaksFromLeaves([]chainhash.Hash{chainhash.HashH(nil)})
	nodes := []mmr.Node{
		{Index: 4, Hash: chainhash.HashH([]byte("four"))},
		{Index: 1, Hash: chainhash.HashH([]byte("one"))},
	}
	update := &BlockSyncUpdate{
		Header:   testHeader(1),
		HasNotes: true,
		Peaks:    &peaks,
		Nodes:    nodes,
		Notes: []*InputNoteRecord{{
			Note:      note,
			Committed: true,
			BlockNum:  1,
		}},
	}

	// A canceled context writes nothing.
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.ApplyBlockSync(canceled, update); !errors.Is(err, context.Canceled) {
		t.Fatalf("mismatched error -- got %v, want %v", err, context.Canceled)
	}
	if height, _ := s.GetSyncHeight(ctx); height != 0 {
		t.Fatalf("sync height advanced to %d by canceled update", height)
	}

	if err := s.ApplyBlockSync(ctx, update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	height, err := s.GetSyncHeight(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if height != 1 {
		t.Fatalf("mismatched sync height -- got %d, want 1", height)
	}

	gotNodes, err := s.GetTrackedAuthenticationNodes(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNodes := []mmr.Node{nodes[1], nodes[0]}
	if !reflect.DeepEqual(gotNodes, wantNodes) {
		t.Fatalf("mismatched nodes\n got: %s want: %s", spew.Sdump(gotNodes),
			spew.Sdump(wantNodes))
	}

	recs, err := s.GetInputNotes(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Note.ID() != note.ID() ||
		!recs[0].Committed || recs[0].BlockNum != 1 {

		t.Fatalf("mismatched input notes: %s", spew.Sdump(recs))
	}
}

// TestInsertAuthenticationNodes ensures authentication nodes are returned in
// in-order index order and that stored nodes are overwritten.
func TestInsertAuthenticationNodes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	nodes := []mmr.Node{
		{Index: 9, Hash: chainhash.HashH([]byte("nine"))},
		{Index: 2, Hash: chainhash.HashH([]byte("two"))},
	}
	if err := s.InsertAuthenticationNodes(ctx, nodes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	replaced := mmr.Node{Index: 9, Hash: chainhash.HashH([]byte("other"))}
	if err := s.InsertAuthenticationNodes(ctx, []mmr.Node{replaced}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetTrackedAuthenticationNodes(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []mmr.Node{nodes[1], replaced}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mismatched nodes\n got: %s want: %s", spew.Sdump(got),
			spew.Sdump(want))
	}

	// A canceled context writes nothing.
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	extra := []mmr.Node{{Index: 4, Hash: chainhash.HashH([]byte("four"))}}
	if err := s.InsertAuthenticationNodes(canceled, extra); !errors.Is(err, context.Canceled) {
		t.Fatalf("mismatched error -- got %v, want %v", err, context.Canceled)
	}
}

// TestHeaderCacheConcurrentWrites ensures readers filling the header cache
// while a header is rewritten never leave a stale header cached.
func TestHeaderCacheConcurrentWrites(t *testing.T) {
	const numRounds = 200
	const numReaders = 4

	ctx := context.Background()
	s := newTestStore(t)
	header := testHeader(7)
	for round := 0; round < numRounds; round++ {
		hasNotes := round%2 == 0

		var wg sync.WaitGroup
		wg.Add(numReaders)
		for i := 0; i < numReaders; i++ {
			go func() {
				defer wg.Done()
				s.GetBlockHeaderByNumber(ctx, header.BlockNum)
			}()
		}
		if err := s.InsertBlockHeader(ctx, header, nil, hasNotes); err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		wg.Wait()

		_, got, err := s.GetBlockHeaderByNumber(ctx, header.BlockNum)
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		if got != hasNotes {
			t.Fatalf("round %d: stale cached header -- got has notes %v, "+
				"want %v", round, got, hasNotes)
		}
	}
}

// TestAccounts ensures accounts are tracked in id order.
func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ids := []wire.AccountID{
		{Prefix: 0x8000000000000000, Suffix: 1},
		{Prefix: 0x1000000000000000, Suffix: 9},
		{Prefix: 0x1000000000000000, Suffix: 2},
	}
	for _, id := range ids {
		acct := account.NewBasicWallet(id, chainhash.HashH([]byte("key")))
		if err := s.InsertAccount(ctx, acct); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := s.GetTrackedAccountIDs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []wire.AccountID{ids[2], ids[1], ids[0]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mismatched ids -- got %v, want %v", got, want)
	}

	acct, err := s.GetAccount(ctx, ids[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct == nil || acct.ID != ids[0] || !account.InterfaceFromAccount(acct).IsBasicWallet() {
		t.Fatalf("mismatched account: %s", spew.Sdump(acct))
	}

	missing, err := s.GetAccount(ctx, wire.AccountID{Prefix: 5})
	if err != nil || missing != nil {
		t.Fatalf("unexpected account for unknown id: %v, %v", missing, err)
	}
}

// TestNoteTags ensures note tags are added and removed.
func TestNoteTags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, tag := range []wire.NoteTag{0xc0000002, 7, 0xc0000001} {
		if err := s.AddNoteTag(ctx, tag); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.RemoveNoteTag(ctx, 0xc0000001); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetNoteTags(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []wire.NoteTag{7, 0xc0000002}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mismatched tags -- got %v, want %v", got, want)
	}
}

// TestClosedStore ensures access after close is reported.
func TestClosedStore(t *testing.T) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		t.Fatalf("unable to open database: %v", err)
	}
	s := New(db, 0)
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.GetSyncHeight(context.Background())
	if !errors.Is(err, ErrStoreNotOpen) {
		t.Fatalf("mismatched error -- got %v, want %v", err, ErrStoreNotOpen)
	}
	var storeErr StoreError
	if !errors.As(err, &storeErr) || storeErr.RawErr == nil {
		t.Fatalf("raw database error not preserved: %v", err)
	}
}

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrStore, "ErrStore"},
		{ErrStoreCorruption, "ErrStoreCorruption"},
		{ErrStoreNotOpen, "ErrStoreNotOpen"},
		{ErrDeserialize, "ErrDeserialize"},
		{ErrPeaksNotFound, "ErrPeaksNotFound"},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}
