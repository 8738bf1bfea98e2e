// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaingen

import (
	"fmt"
	"time"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/wire"
)

// genesisTime is the timestamp of the generated genesis block.
var genesisTime = time.Unix(1700000000, 0)

// blockInterval is the time between generated blocks.
const blockInterval = 3 * time.Second

// Generator houses state used to ease the process of generating test chains
// of block headers that build from one another.  Every header commits to the
// chain before it through its chain commitment, and the generator keeps the
// full chain MMR so it is able to prove any header relative to the tip.
type Generator struct {
	headers      []*wire.BlockHeader
	blocksByName map[string]*wire.BlockHeader
	notes        map[uint32][]*wire.Note
	chain        *mmr.Mmr
	tipName      string
}

// randomHash returns a random hash used for the state commitments the
// generator does not model.
func randomHash() chainhash.Hash {
	var hash chainhash.Hash
	rand.Read(hash[:])
	return hash
}

// MakeGenerator returns a generator instance initialized with a genesis block
// as the tip.
func MakeGenerator() Generator {
	g := Generator{
		blocksByName: make(map[string]*wire.BlockHeader),
		notes:        make(map[uint32][]*wire.Note),
		chain:        mmr.New(),
	}
	g.connect("genesis", &wire.BlockHeader{
		Version:         1,
		BlockNum:        0,
		AccountRoot:     randomHash(),
		NullifierRoot:   randomHash(),
		NoteRoot:        noteRoot(nil),
		TxCommitment:    randomHash(),
		ProofCommitment: randomHash(),
		Timestamp:       genesisTime,
	}, nil)
	return g
}

// noteRoot returns the merkle root of the ids of the notes of a block.
func noteRoot(notes []*wire.Note) chainhash.Hash {
	ids := make([]chainhash.Hash, 0, len(notes))
	for _, note := range notes {
		ids = append(ids, note.ID())
	}
	return standalone.CalcMerkleRoot(ids)
}

// connect makes the header the new tip.
func (g *Generator) connect(blockName string, header *wire.BlockHeader, notes []*wire.Note) {
	if _, ok := g.blocksByName[blockName]; ok {
		panic(fmt.Sprintf("block name %s already exists", blockName))
	}
	g.headers = append(g.headers, header)
	g.blocksByName[blockName] = header
	if len(notes) > 0 {
		g.notes[header.BlockNum] = notes
	}
	g.chain.Add(header.Commitment())
	g.tipName = blockName
}

// NextBlock builds a new block header that extends the current tip and holds
// the provided notes.  The header commits to the previous tip and to the peaks
// of the chain MMR before it.  The new block becomes the tip.
func (g *Generator) NextBlock(blockName string, notes ...*wire.Note) *wire.BlockHeader {
	tip := g.Tip()
	prevCommitment := tip.Commitment()
	peaks := g.chain.Peaks()
	header := &wire.BlockHeader{
		Version:         1,
		BlockNum:        tip.BlockNum + 1,
		PrevCommitment:  prevCommitment,
		ChainCommitment: peaks.Commitment(),
		AccountRoot:     randomHash(),
		NullifierRoot:   randomHash(),
		NoteRoot:        noteRoot(notes),
		TxCommitment:    randomHash(),
		ProofCommitment: randomHash(),
		Timestamp:       tip.Timestamp.Add(blockInterval),
	}
	g.connect(blockName, header, notes)
	return header
}

// GenerateBlocks extends the chain by the provided number of empty blocks
// named with the prefix followed by their block number.
func (g *Generator) GenerateBlocks(prefix string, numBlocks int) {
	for i := 0; i < numBlocks; i++ {
		g.NextBlock(fmt.Sprintf("%s%d", prefix, g.Tip().BlockNum+1))
	}
}

// Tip returns the current tip block header of the generator instance.
func (g *Generator) Tip() *wire.BlockHeader {
	return g.headers[len(g.headers)-1]
}

// TipName returns the name of the current tip block of the generator instance.
func (g *Generator) TipName() string {
	return g.tipName
}

// BlockByName returns the block header associated with the provided block
// name.  It will panic if the specified block name does not exist.
func (g *Generator) BlockByName(blockName string) *wire.BlockHeader {
	header, ok := g.blocksByName[blockName]
	if !ok {
		panic(fmt.Sprintf("block name %s does not exist", blockName))
	}
	return header
}

// HeaderByNumber returns the block header with the provided number or nil if
// the chain is not that long.
func (g *Generator) HeaderByNumber(blockNum uint32) *wire.BlockHeader {
	if uint64(blockNum) >= uint64(len(g.headers)) {
		return nil
	}
	return g.headers[blockNum]
}

// Notes returns the notes of the block with the provided number that carry
// any of the provided tags.
func (g *Generator) Notes(blockNum uint32, tags []wire.NoteTag) []*wire.Note {
	var notes []*wire.Note
	for _, note := range g.notes[blockNum] {
		for _, tag := range tags {
			if note.Metadata.Tag == tag {
				notes = append(notes, note)
				break
			}
		}
	}
	return notes
}

// Commitments returns the commitments of every block header in order.
func (g *Generator) Commitments() []chainhash.Hash {
	commitments := make([]chainhash.Hash, 0, len(g.headers))
	for _, header := range g.headers {
		commitments = append(commitments, header.Commitment())
	}
	return commitments
}

// ChainMmr returns the full MMR over the commitments of every block header,
// including the tip.
func (g *Generator) ChainMmr() *mmr.Mmr {
	return g.chain
}

// Proof returns the MMR proof of the block header with the provided number
// relative to the full chain, including the tip.
func (g *Generator) Proof(blockNum uint32) (*mmr.Proof, error) {
	return g.chain.Open(uint64(blockNum))
}
