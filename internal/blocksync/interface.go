// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocksync

import (
	"context"

	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/rpcclient"
	"github.com/notechain/noteclient/screener"
	"github.com/notechain/noteclient/store"
	"github.com/notechain/noteclient/wire"
)

// Store provides the persisted chain state the syncer reads and extends.
type Store interface {
	// GetBlockHeaderByNumber returns the stored header with the provided
	// number and whether it holds notes relevant to the client.  A nil
	// header is returned when it is not stored.
	GetBlockHeaderByNumber(ctx context.Context, blockNum uint32) (*wire.BlockHeader, bool, error)

	// InsertBlockHeader stores a header along with the peaks of the chain
	// before it.
	InsertBlockHeader(ctx context.Context, header *wire.BlockHeader, peaks *mmr.Peaks, hasNotes bool) error

	// GetPeaksByBlockNum returns the peaks of the chain before the block.
	GetPeaksByBlockNum(ctx context.Context, blockNum uint32) (mmr.Peaks, error)

	// GetTrackedAuthenticationNodes returns every stored authentication
	// node.
	GetTrackedAuthenticationNodes(ctx context.Context) ([]mmr.Node, error)

	// InsertAuthenticationNodes stores authentication nodes of the chain.
	InsertAuthenticationNodes(ctx context.Context, nodes []mmr.Node) error

	// ApplyBlockSync atomically stores a synced block and advances the
	// sync height to it.
	ApplyBlockSync(ctx context.Context, update *store.BlockSyncUpdate) error

	// GetSyncHeight returns the number of the last synced block.
	GetSyncHeight(ctx context.Context) (uint32, error)

	// GetNoteTags returns the note tags the client follows.
	GetNoteTags(ctx context.Context) ([]wire.NoteTag, error)
}

// NodeRPC provides the ledger node methods the syncer relies on.
type NodeRPC interface {
	// GetBlockHeaderByNumber returns a block header and, when requested,
	// its proof relative to the chain tip of the node.
	GetBlockHeaderByNumber(ctx context.Context, blockNum uint32, includeProof bool) (*wire.BlockHeader, *mmr.Proof, error)

	// GetBlockHeaderWithProof returns a block header along with its proof.
	GetBlockHeaderWithProof(ctx context.Context, blockNum uint32) (*wire.BlockHeader, *mmr.Proof, error)

	// GetChainTip returns the latest block known to the node.
	GetChainTip(ctx context.Context) (*rpcclient.ChainTip, error)

	// SyncNotes returns the notes of the block that match the tags.
	SyncNotes(ctx context.Context, blockNum uint32, tags []wire.NoteTag) ([]*wire.Note, error)
}

// NoteScreener determines which tracked accounts can consume a note.
type NoteScreener interface {
	CheckRelevance(ctx context.Context, note *wire.Note) ([]screener.NoteConsumability, error)
}

var (
	_ Store        = (*store.Store)(nil)
	_ NodeRPC      = (*rpcclient.Client)(nil)
	_ NoteScreener = (*screener.NoteScreener)(nil)
)
