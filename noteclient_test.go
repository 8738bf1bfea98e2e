// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/internal/blocksync"
	"github.com/notechain/noteclient/internal/chaingen"
	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/rpcclient"
	"github.com/notechain/noteclient/screener"
	"github.com/notechain/noteclient/scriptcheck"
	"github.com/notechain/noteclient/store"
	"github.com/notechain/noteclient/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	testWalletID = wire.AccountID{Prefix: 0x8000000000000000, Suffix: 1}
	testSenderID = wire.AccountID{Prefix: 0x4000000000000000, Suffix: 2}
	testFaucetID = wire.AccountID{Prefix: 0x2000000000000000, Suffix: 3}

	errNodeDown = errors.New("node unavailable")
)

// testNode serves a generated chain to the syncer.
type testNode struct {
	gen  *chaingen.Generator
	down bool
}

func (n *testNode) GetBlockHeaderByNumber(ctx context.Context, blockNum uint32, includeProof bool) (*wire.BlockHeader, *mmr.Proof, error) {
	if n.down {
		return nil, nil, errNodeDown
	}
	header := n.gen.HeaderByNumber(blockNum)
	if header == nil {
		return nil, nil, errors.New("block not found")
	}
	if !includeProof {
		return header, nil, nil
	}
	proof, err := n.gen.Proof(blockNum)
	if err != nil {
		return nil, nil, err
	}
	return header, proof, nil
}

func (n *testNode) GetBlockHeaderWithProof(ctx context.Context, blockNum uint32) (*wire.BlockHeader, *mmr.Proof, error) {
	return n.GetBlockHeaderByNumber(ctx, blockNum, true)
}

func (n *testNode) GetChainTip(ctx context.Context) (*rpcclient.ChainTip, error) {
	if n.down {
		return nil, errNodeDown
	}
	tip := n.gen.Tip()
	return &rpcclient.ChainTip{BlockNum: tip.BlockNum, Commitment: tip.Commitment()}, nil
}

func (n *testNode) SyncNotes(ctx context.Context, blockNum uint32, tags []wire.NoteTag) ([]*wire.Note, error) {
	if n.down {
		return nil, errNodeDown
	}
	return n.gen.Notes(blockNum, tags), nil
}

// newTestStore returns an in-memory store tracking a basic wallet.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		t.Fatalf("unable to open database: %v", err)
	}
	db := store.New(ldb, store.DefaultHeaderCacheSize)
	t.Cleanup(func() { db.Close() })

	wallet := account.NewBasicWallet(testWalletID, chainhash.Hash{})
	if err := db.InsertAccount(context.Background(), wallet); err != nil {
		t.Fatalf("unable to insert account: %v", err)
	}
	return db
}

// writeNote serializes the note to a file in the provided directory and
// returns its path.
func writeNote(t *testing.T, dir string, note *wire.Note) string {
	t.Helper()

	b, err := note.Bytes()
	if err != nil {
		t.Fatalf("unable to serialize note: %v", err)
	}
	path := filepath.Join(dir, note.ID().String()+".note")
	if err := os.WriteFile(path, b, 0600); err != nil {
		t.Fatalf("unable to write note file: %v", err)
	}
	return path
}

// TestImportNotes ensures only notes a tracked account can consume are
// imported and that notes already tracked keep their records.
func TestImportNotes(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	noteScreener := screener.New(db, scriptcheck.New(), &screener.Config{
		MaxConcurrency: 2,
	})

	assets := []wire.FungibleAsset{{Faucet: testFaucetID, Amount: 10}}
	payable := notes.CreateP2IDNote(testSenderID, testWalletID, assets,
		wire.NoteTypePublic, 0)
	unrelated := notes.CreateP2IDNote(testWalletID, testSenderID, assets,
		wire.NoteTypePublic, 0)
	committed := notes.CreateP2IDNote(testSenderID, testWalletID, assets,
		wire.NoteTypePublic, 1)
	err := db.InsertInputNotes(ctx, []*store.InputNoteRecord{{
		Note:      committed,
		Committed: true,
		BlockNum:  4,
	}})
	if err != nil {
		t.Fatalf("unable to insert input note: %v", err)
	}

	dir := t.TempDir()
	paths := []string{writeNote(t, dir, payable), writeNote(t, dir, unrelated),
		writeNote(t, dir, committed)}
	if err := importNotes(ctx, db, noteScreener, paths); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := db.GetInputNotes(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make(map[chainhash.Hash]*store.InputNoteRecord, len(recs))
	for _, rec := range recs {
		got[rec.Note.ID()] = rec
	}
	if len(got) != 2 {
		t.Fatalf("mismatched number of input notes -- got %d, want 2",
			len(got))
	}
	if rec, ok := got[payable.ID()]; !ok || rec.Committed {
		t.Fatalf("payable note was not imported as uncommitted: %+v", rec)
	}
	if _, ok := got[unrelated.ID()]; ok {
		t.Fatal("note no tracked account can consume was imported")
	}
	if rec := got[committed.ID()]; rec == nil || !rec.Committed ||
		rec.BlockNum != 4 {

		t.Fatalf("committed note record was replaced: %+v", rec)
	}

	// Malformed and missing files are rejected.
	bad := filepath.Join(dir, "bad.note")
	if err := os.WriteFile(bad, []byte{0x01}, 0600); err != nil {
		t.Fatalf("unable to write note file: %v", err)
	}
	if err := importNotes(ctx, db, noteScreener, []string{bad}); err == nil {
		t.Fatal("malformed note file was imported")
	}
	missing := filepath.Join(dir, "missing.note")
	if err := importNotes(ctx, db, noteScreener, []string{missing}); err == nil {
		t.Fatal("missing note file was imported")
	}
}

// TestUnfollowNoteTags ensures removed note tags are no longer followed.
func TestUnfollowNoteTags(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	if err := followNoteTags(ctx, db, []wire.NoteTag{0x10, 0x20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := unfollowNoteTags(ctx, db, []wire.NoteTag{0x20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tags, err := db.GetNoteTags(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[wire.NoteTag]bool{notes.TagForAccount(testWalletID): true,
		0x10: true}
	got := make(map[wire.NoteTag]bool, len(tags))
	for _, tag := range tags {
		got[tag] = true
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mismatched note tags -- got %v, want %v", got, want)
	}
}

// TestAuthenticateBlocks ensures configured historical blocks are
// authenticated and tracked while blocks beyond the local chain are skipped.
func TestAuthenticateBlocks(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	gen := chaingen.MakeGenerator()
	gen.GenerateBlocks("b", 10)
	node := &testNode{gen: &gen}
	syncer := blocksync.New(&blocksync.Config{
		Store: db,
		RPC:   node,
		Screener: screener.New(db, scriptcheck.New(), &screener.Config{
			MaxConcurrency: 1,
		}),
	})
	if _, err := syncer.SyncRound(ctx); err != nil {
		t.Fatalf("unable to sync: %v", err)
	}

	if err := authenticateBlocks(ctx, syncer, []uint32{2, 7, 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tracker := syncer.Tracker()
	for _, blockNum := range []uint64{2, 7} {
		if !tracker.IsTracked(blockNum) {
			t.Fatalf("block %d is not tracked", blockNum)
		}
		header, hasNotes, err := db.GetBlockHeaderByNumber(ctx, uint32(blockNum))
		if err != nil || header == nil || !hasNotes {
			t.Fatalf("block %d was not stored as authenticated: %v",
				blockNum, err)
		}
	}

	// Failures other than blocks beyond the local chain are returned.
	node.down = true
	if err := authenticateBlocks(ctx, syncer, []uint32{2, 3}); !errors.Is(err, errNodeDown) {
		t.Fatalf("mismatched error -- got %v, want %v", err, errNodeDown)
	}
}
