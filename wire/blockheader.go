// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
)

// MaxBlockHeaderPayload is the number of bytes a block header can be.
// Version 4 bytes + BlockNum 4 bytes + PrevCommitment, ChainCommitment,
// AccountRoot, NullifierRoot, NoteRoot, TxCommitment and ProofCommitment
// 32 bytes each + Timestamp 4 bytes.
const MaxBlockHeaderPayload = 4 + 4 + (chainhash.HashSize * 7) + 4

// BlockHeader defines information about a block and is used to authenticate
// the chain a client is following.
type BlockHeader struct {
	// Version of the block.
	Version uint32

	// Number of the block in the chain.  The genesis block is number 0.
	BlockNum uint32

	// Commitment of the previous block header.
	PrevCommitment chainhash.Hash

	// Commitment to the peaks of the chain merkle mountain range that
	// holds the commitments of every block before this one.
	ChainCommitment chainhash.Hash

	// Roots of the account, nullifier, and note trees after applying the
	// block.
	AccountRoot   chainhash.Hash
	NullifierRoot chainhash.Hash
	NoteRoot      chainhash.Hash

	// Commitments to the transactions in the block and to the proof of
	// their execution.
	TxCommitment    chainhash.Hash
	ProofCommitment chainhash.Hash

	// Time the block was created.  This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time
}

// Commitment returns the hash that uniquely identifies the block header.  It
// is the BLAKE-256 digest of the serialized header.
func (h *BlockHeader) Commitment() chainhash.Hash {
	hasher := blake256.NewHasher256()
	writeBlockHeader(hasher, h)
	return chainhash.Hash(hasher.Sum256())
}

// Deserialize decodes a block header from r into the receiver.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, h)
}

// Serialize encodes the block header to w.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Bytes returns a byte slice containing the serialized contents of the block
// header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, MaxBlockHeaderPayload))
	err := h.Serialize(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes a block header byte slice.
func (h *BlockHeader) FromBytes(b []byte) error {
	r := bytes.NewReader(b)
	return h.Deserialize(r)
}

// readBlockHeader reads a block header from r.
func readBlockHeader(r io.Reader, bh *BlockHeader) error {
	return readElements(r, &bh.Version, &bh.BlockNum, &bh.PrevCommitment,
		&bh.ChainCommitment, &bh.AccountRoot, &bh.NullifierRoot,
		&bh.NoteRoot, &bh.TxCommitment, &bh.ProofCommitment,
		(*uint32Time)(&bh.Timestamp))
}

// writeBlockHeader writes a block header to w.
func writeBlockHeader(w io.Writer, bh *BlockHeader) error {
	sec := uint32(bh.Timestamp.Unix())
	return writeElements(w, bh.Version, bh.BlockNum, &bh.PrevCommitment,
		&bh.ChainCommitment, &bh.AccountRoot, &bh.NullifierRoot,
		&bh.NoteRoot, &bh.TxCommitment, &bh.ProofCommitment, sec)
}
