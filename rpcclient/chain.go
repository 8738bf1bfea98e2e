// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrjson/v4"
	"github.com/notechain/noteclient/mmr"
	nodejson "github.com/notechain/noteclient/rpc/jsonrpc/types"
	"github.com/notechain/noteclient/wire"
)

// decodeHash decodes a hex-encoded hash in its natural byte order.
func decodeHash(s string) (chainhash.Hash, error) {
	var hash chainhash.Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return hash, err
	}
	if len(b) != chainhash.HashSize {
		return hash, fmt.Errorf("hash %q has %d bytes, want %d", s, len(b),
			chainhash.HashSize)
	}
	copy(hash[:], b)
	return hash, nil
}

// decodeProof converts a proof returned by the server into an MMR proof.
func decodeProof(res *nodejson.MmrProofResult) (*mmr.Proof, error) {
	path := make(mmr.MerklePath, 0, len(res.Path))
	for _, s := range res.Path {
		hash, err := decodeHash(s)
		if err != nil {
			return nil, err
		}
		path = append(path, hash)
	}
	return &mmr.Proof{
		Forest:   res.Forest,
		Position: res.Position,
		Path:     path,
	}, nil
}

// FutureGetBlockHeaderResult is a future promise to deliver the result of a
// GetBlockHeaderByNumberAsync RPC invocation (or an applicable error).
type FutureGetBlockHeaderResult cmdRes

// Receive waits for the response promised by the future and returns the block
// header requested from the server along with its MMR proof when one was
// requested and provided.
func (r *FutureGetBlockHeaderResult) Receive() (*wire.BlockHeader, *mmr.Proof, error) {
	res, err := receiveFuture(r.ctx, r.c)
	if err != nil {
		return nil, nil, err
	}

	// Unmarshal result as a getblockheader result object.
	var result nodejson.GetBlockHeaderResult
	if err := json.Unmarshal(res, &result); err != nil {
		return nil, nil, err
	}

	serializedBH, err := hex.DecodeString(result.Header)
	if err != nil {
		return nil, nil, err
	}
	var bh wire.BlockHeader
	if err := bh.FromBytes(serializedBH); err != nil {
		return nil, nil, err
	}

	if result.Proof == nil {
		return &bh, nil, nil
	}
	proof, err := decodeProof(result.Proof)
	if err != nil {
		return nil, nil, err
	}
	return &bh, proof, nil
}

// GetBlockHeaderByNumberAsync returns an instance of a type that can be used
// to get the result of the RPC at some future time by invoking the Receive
// function on the returned instance.
//
// See GetBlockHeaderByNumber for the blocking version and more details.
func (c *Client) GetBlockHeaderByNumberAsync(ctx context.Context, blockNum uint32, includeProof bool) *FutureGetBlockHeaderResult {
	cmd := nodejson.NewGetBlockHeaderCmd(blockNum, dcrjson.Bool(includeProof))
	return (*FutureGetBlockHeaderResult)(c.sendCmd(ctx, "getblockheader", cmd))
}

// GetBlockHeaderByNumber returns the block header with the provided number.
// When includeProof is set, the server also returns the MMR proof of the
// header relative to the current chain tip.
func (c *Client) GetBlockHeaderByNumber(ctx context.Context, blockNum uint32, includeProof bool) (*wire.BlockHeader, *mmr.Proof, error) {
	return c.GetBlockHeaderByNumberAsync(ctx, blockNum, includeProof).Receive()
}

// GetBlockHeaderWithProof returns the block header with the provided number
// along with its MMR proof.  The proof is nil if the server did not provide
// one.
func (c *Client) GetBlockHeaderWithProof(ctx context.Context, blockNum uint32) (*wire.BlockHeader, *mmr.Proof, error) {
	return c.GetBlockHeaderByNumberAsync(ctx, blockNum, true).Receive()
}

// ChainTip describes the latest block known to the server.
type ChainTip struct {
	BlockNum   uint32
	Commitment chainhash.Hash
}

// FutureGetChainTipResult is a future promise to deliver the result of a
// GetChainTipAsync RPC invocation (or an applicable error).
type FutureGetChainTipResult cmdRes

// Receive waits for the response promised by the future and returns the
// current chain tip of the server.
func (r *FutureGetChainTipResult) Receive() (*ChainTip, error) {
	res, err := receiveFuture(r.ctx, r.c)
	if err != nil {
		return nil, err
	}

	var result nodejson.GetChainTipResult
	if err := json.Unmarshal(res, &result); err != nil {
		return nil, err
	}
	commitment, err := decodeHash(result.Commitment)
	if err != nil {
		return nil, err
	}
	return &ChainTip{BlockNum: result.BlockNum, Commitment: commitment}, nil
}

// GetChainTipAsync returns an instance of a type that can be used to get the
// result of the RPC at some future time by invoking the Receive function on the
// returned instance.
//
// See GetChainTip for the blocking version and more details.
func (c *Client) GetChainTipAsync(ctx context.Context) *FutureGetChainTipResult {
	cmd := nodejson.NewGetChainTipCmd()
	return (*FutureGetChainTipResult)(c.sendCmd(ctx, "getchaintip", cmd))
}

// GetChainTip returns the number and commitment of the latest block known to
// the server.
func (c *Client) GetChainTip(ctx context.Context) (*ChainTip, error) {
	return c.GetChainTipAsync(ctx).Receive()
}

// FutureSyncNotesResult is a future promise to deliver the result of a
// SyncNotesAsync RPC invocation (or an applicable error).
type FutureSyncNotesResult cmdRes

// Receive waits for the response promised by the future and returns the notes
// of the requested block that carry any of the requested tags.
func (r *FutureSyncNotesResult) Receive() ([]*wire.Note, error) {
	res, err := receiveFuture(r.ctx, r.c)
	if err != nil {
		return nil, err
	}

	var result nodejson.SyncNotesResult
	if err := json.Unmarshal(res, &result); err != nil {
		return nil, err
	}
	notes := make([]*wire.Note, 0, len(result.Notes))
	for _, noteHex := range result.Notes {
		serialized, err := hex.DecodeString(noteHex)
		if err != nil {
			return nil, err
		}
		var note wire.Note
		if err := note.FromBytes(serialized); err != nil {
			return nil, err
		}
		notes = append(notes, &note)
	}
	return notes, nil
}

// SyncNotesAsync returns an instance of a type that can be used to get the
// result of the RPC at some future time by invoking the Receive function on the
// returned instance.
//
// See SyncNotes for the blocking version and more details.
func (c *Client) SyncNotesAsync(ctx context.Context, blockNum uint32, tags []wire.NoteTag) *FutureSyncNotesResult {
	rawTags := make([]uint32, 0, len(tags))
	for _, tag := range tags {
		rawTags = append(rawTags, uint32(tag))
	}
	cmd := nodejson.NewSyncNotesCmd(blockNum, rawTags)
	return (*FutureSyncNotesResult)(c.sendCmd(ctx, "syncnotes", cmd))
}

// SyncNotes returns the notes of the block with the provided number that
// carry any of the provided tags.
func (c *Client) SyncNotes(ctx context.Context, blockNum uint32, tags []wire.NoteTag) ([]*wire.Note, error) {
	return c.SyncNotesAsync(ctx, blockNum, tags).Receive()
}
