// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// a ledger node.

package types

import "github.com/decred/dcrd/dcrjson/v4"

// GetBlockHeaderCmd defines the getblockheader JSON-RPC command.
type GetBlockHeaderCmd struct {
	BlockNum     uint32
	IncludeProof *bool `jsonrpcdefault:"false"`
}

// NewGetBlockHeaderCmd returns a new instance which can be used to issue a
// getblockheader JSON-RPC command.
func NewGetBlockHeaderCmd(blockNum uint32, includeProof *bool) *GetBlockHeaderCmd {
	return &GetBlockHeaderCmd{
		BlockNum:     blockNum,
		IncludeProof: includeProof,
	}
}

// GetChainTipCmd defines the getchaintip JSON-RPC command.
type GetChainTipCmd struct{}

// NewGetChainTipCmd returns a new instance which can be used to issue a
// getchaintip JSON-RPC command.
func NewGetChainTipCmd() *GetChainTipCmd {
	return &GetChainTipCmd{}
}

// SyncNotesCmd defines the syncnotes JSON-RPC command.
type SyncNotesCmd struct {
	BlockNum uint32
	NoteTags []uint32
}

// NewSyncNotesCmd returns a new instance which can be used to issue a
// syncnotes JSON-RPC command.
func NewSyncNotesCmd(blockNum uint32, noteTags []uint32) *SyncNotesCmd {
	return &SyncNotesCmd{
		BlockNum: blockNum,
		NoteTags: noteTags,
	}
}

func init() {
	// No special flags for commands in this file.
	flags := dcrjson.UsageFlag(0)

	dcrjson.MustRegister(Method("getblockheader"), (*GetBlockHeaderCmd)(nil), flags)
	dcrjson.MustRegister(Method("getchaintip"), (*GetChainTipCmd)(nil), flags)
	dcrjson.MustRegister(Method("syncnotes"), (*SyncNotesCmd)(nil), flags)
}
