// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocksync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notechain/noteclient/internal/progresslog"
	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/screener"
	"github.com/notechain/noteclient/store"
	"github.com/notechain/noteclient/wire"
	"golang.org/x/sync/errgroup"
)

const (
	// genesisBlockNum is the number of the first block of the chain.
	genesisBlockNum = 0

	// DefaultPollInterval is the default time between sync rounds.
	DefaultPollInterval = 10 * time.Second
)

// Config is a descriptor containing the syncer configuration.
type Config struct {
	// Store houses the persisted chain state.
	Store Store

	// RPC is the connection to the ledger node.
	RPC NodeRPC

	// Screener determines the relevance of the notes of synced blocks.
	Screener NoteScreener

	// PollInterval is the time between sync rounds when running.
	PollInterval time.Duration
}

// Syncer keeps a locally authenticated view of the chain in step with the
// node.  It owns the chain tracker and serializes every operation that reads
// or advances it.
type Syncer struct {
	cfg      Config
	progress *progresslog.Logger

	mtx     sync.Mutex
	tracker *mmr.PartialMmr
	tip     *wire.BlockHeader
}

// New returns a syncer using the provided configuration.  Load or Run must be
// called before the chain can be synced.
func New(cfg *Config) *Syncer {
	c := *cfg
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return &Syncer{
		cfg:      c,
		progress: progresslog.New("Synced", log),
	}
}

// EnsureGenesis returns the genesis block header from the store.  When it is
// not stored, it is fetched from the node and stored with the empty peaks of
// the chain before it.
func (s *Syncer) EnsureGenesis(ctx context.Context) (*wire.BlockHeader, error) {
	genesis, _, err := s.cfg.Store.GetBlockHeaderByNumber(ctx, genesisBlockNum)
	if err != nil {
		return nil, err
	}
	if genesis != nil {
		return genesis, nil
	}

	genesis, _, err = s.cfg.RPC.GetBlockHeaderByNumber(ctx, genesisBlockNum,
		false)
	if err != nil {
		return nil, SyncError{
			Err:         ErrGenesisUnavailable,
			Description: "unable to retrieve the genesis block",
			RawErr:      err,
		}
	}
	if genesis.BlockNum != genesisBlockNum {
		str := fmt.Sprintf("requested the genesis block, got block %d",
			genesis.BlockNum)
		return nil, syncError(ErrUnexpectedHeader, str)
	}

	emptyPeaks := mmr.PeaksFromLeaves(nil)
	err = s.cfg.Store.InsertBlockHeader(ctx, genesis, &emptyPeaks, false)
	if err != nil {
		return nil, err
	}
	log.Infof("Stored genesis block %v", genesis.Commitment())
	return genesis, nil
}

// BuildCurrentPartialMmr rebuilds the chain tracker from the store.  The
// result covers every block up to and including the last synced one and
// retains every stored authentication node.
//
// The store holds the peaks of the chain before each synced block, so the
// tracker is started from the peaks before the last synced block, which is
// then added to obtain the current peaks.
func (s *Syncer) BuildCurrentPartialMmr(ctx context.Context) (*mmr.PartialMmr, error) {
	tracker, _, err := s.buildCurrentPartialMmr(ctx)
	return tracker, err
}

// buildCurrentPartialMmr rebuilds the chain tracker from the store and also
// returns the header of the last synced block.
func (s *Syncer) buildCurrentPartialMmr(ctx context.Context) (*mmr.PartialMmr, *wire.BlockHeader, error) {
	syncHeight, err := s.cfg.Store.GetSyncHeight(ctx)
	if err != nil {
		return nil, nil, err
	}
	nodes, err := s.cfg.Store.GetTrackedAuthenticationNodes(ctx)
	if err != nil {
		return nil, nil, err
	}
	peaks, err := s.cfg.Store.GetPeaksByBlockNum(ctx, syncHeight)
	if err != nil {
		return nil, nil, err
	}
	current, hasNotes, err := s.cfg.Store.GetBlockHeaderByNumber(ctx,
		syncHeight)
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		str := fmt.Sprintf("header of synced block %d is not stored",
			syncHeight)
		return nil, nil, syncError(ErrHeaderNotStored, str)
	}

	tracker := mmr.FromPeaks(peaks)
	tracker.Add(current.Commitment(), hasNotes)
	tracker = mmr.FromParts(tracker.Peaks(), nodes, hasNotes)
	return tracker, current, nil
}

// GetAndStoreAuthenticatedBlock returns the header of a block that is part of
// the chain covered by the tracker, authenticating it against the tracker
// first when needed.
//
// Headers of tracked blocks are returned from the store.  Otherwise the header
// is fetched from the node along with its proof, which is trimmed to the
// forest of the tracker and verified.  The header and the new authentication
// nodes are then stored and the tracker starts tracking the block.  The
// tracker is not modified when any step fails.
func (s *Syncer) GetAndStoreAuthenticatedBlock(ctx context.Context, blockNum uint32, tracker *mmr.PartialMmr) (*wire.BlockHeader, error) {
	if tracker.IsTracked(uint64(blockNum)) {
		log.Debugf("Block %d is already tracked", blockNum)
		header, _, err := s.cfg.Store.GetBlockHeaderByNumber(ctx, blockNum)
		if err != nil {
			return nil, err
		}
		if header == nil {
			str := fmt.Sprintf("tracked block %d is not stored", blockNum)
			return nil, syncError(ErrHeaderNotStored, str)
		}
		return header, nil
	}

	forest := tracker.Forest()
	if uint64(blockNum) >= forest {
		str := fmt.Sprintf("block %d is not part of the local chain of %d "+
			"blocks", blockNum, forest)
		return nil, syncError(ErrBlockNotInForest, str)
	}

	header, proof, err := s.cfg.RPC.GetBlockHeaderWithProof(ctx, blockNum)
	if err != nil {
		return nil, err
	}
	if header.BlockNum != blockNum {
		str := fmt.Sprintf("requested block %d, got block %d", blockNum,
			header.BlockNum)
		return nil, syncError(ErrUnexpectedHeader, str)
	}
	if proof == nil {
		str := fmt.Sprintf("no proof returned for block %d", blockNum)
		return nil, syncError(ErrMissingProof, str)
	}

	// The node proves the block against its own chain, which may be longer
	// than the local one.
	nodes := mmr.TrimPath(proof.Path, uint64(blockNum), forest)
	updated := tracker.Clone()
	err = updated.Track(uint64(blockNum), header.Commitment(),
		mmr.NodeHashes(nodes))
	if err != nil {
		return nil, err
	}

	// Blocks are only authenticated after the fact because they hold notes
	// of interest.  The nodes are stored last so an interrupted write leaves
	// the block untracked rather than tracked without a header.
	err = s.cfg.Store.InsertBlockHeader(ctx, header, nil, true)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.Store.InsertAuthenticationNodes(ctx, nodes); err != nil {
		return nil, err
	}
	*tracker = *updated

	log.Debugf("Authenticated block %d with %d nodes", blockNum, len(nodes))
	return header, nil
}

// Load prepares the syncer by making sure the genesis block is stored and
// rebuilding the chain tracker from the store.
func (s *Syncer) Load(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.load(ctx)
}

// load rebuilds the chain tracker.  It must be called with the mutex held.
func (s *Syncer) load(ctx context.Context) error {
	if _, err := s.EnsureGenesis(ctx); err != nil {
		return err
	}
	tracker, tip, err := s.buildCurrentPartialMmr(ctx)
	if err != nil {
		return err
	}
	s.tracker = tracker
	s.tip = tip
	peaks := tracker.Peaks()
	log.Infof("Loaded chain at block %d (forest %d, %d peaks)", tip.BlockNum,
		peaks.Forest(), peaks.NumPeaks())
	return nil
}

// Tracker returns a copy of the current chain tracker or nil when the syncer
// has not been loaded.
func (s *Syncer) Tracker() *mmr.PartialMmr {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.tracker == nil {
		return nil
	}
	return s.tracker.Clone()
}

// SyncHeight returns the number of the last synced block.
func (s *Syncer) SyncHeight() uint32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.tip == nil {
		return 0
	}
	return s.tip.BlockNum
}

// AuthenticateBlock returns the header of a block that is already part of the
// local chain, authenticating it and tracking it when needed.
func (s *Syncer) AuthenticateBlock(ctx context.Context, blockNum uint32) (*wire.BlockHeader, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.tracker == nil {
		if err := s.load(ctx); err != nil {
			return nil, err
		}
	}
	return s.GetAndStoreAuthenticatedBlock(ctx, blockNum, s.tracker)
}

// fetchBlock retrieves the header of a block along with its notes that match
// the provided tags.
func (s *Syncer) fetchBlock(ctx context.Context, blockNum uint32, tags []wire.NoteTag) (*wire.BlockHeader, []*wire.Note, error) {
	var header *wire.BlockHeader
	var notes []*wire.Note
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		header, _, err = s.cfg.RPC.GetBlockHeaderByNumber(gctx, blockNum, false)
		return err
	})
	if len(tags) > 0 {
		g.Go(func() error {
			var err error
			notes, err = s.cfg.RPC.SyncNotes(gctx, blockNum, tags)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return header, notes, nil
}

// syncBlock authenticates the block after the current tip, screens its notes
// and stores the result.  The tracker and tip are only advanced once the block
// is stored.  It must be called with the mutex held.
func (s *Syncer) syncBlock(ctx context.Context, blockNum uint32, tags []wire.NoteTag, forceLog bool) error {
	header, notes, err := s.fetchBlock(ctx, blockNum, tags)
	if err != nil {
		return err
	}
	if header.BlockNum != blockNum {
		str := fmt.Sprintf("requested block %d, got block %d", blockNum,
			header.BlockNum)
		return syncError(ErrUnexpectedHeader, str)
	}

	tipCommitment := s.tip.Commitment()
	if header.PrevCommitment != tipCommitment {
		str := fmt.Sprintf("block %d commits to previous block %v, but the "+
			"local tip is %v", blockNum, header.PrevCommitment,
			tipCommitment)
		return syncError(ErrBrokenLinkage, str)
	}
	peaks := s.tracker.Peaks()
	if commitment := peaks.Commitment(); header.ChainCommitment != commitment {
		str := fmt.Sprintf("block %d commits to chain %v, but the local "+
			"chain is %v", blockNum, header.ChainCommitment, commitment)
		return syncError(ErrChainCommitmentMismatch, str)
	}

	var relevant []*store.InputNoteRecord
	for _, note := range notes {
		consumability, err := s.cfg.Screener.CheckRelevance(ctx, note)
		var inputsErr screener.InvalidNoteInputsError
		if errors.As(err, &inputsErr) {
			log.Warnf("Skipping note in block %d: %v", blockNum, err)
			continue
		}
		if err != nil {
			return err
		}
		if len(consumability) == 0 {
			continue
		}
		log.Debugf("Note %v in block %d is relevant: %v", note.ID(),
			blockNum, consumability)
		relevant = append(relevant, &store.InputNoteRecord{
			Note:      note,
			Committed: true,
			BlockNum:  blockNum,
		})
	}
	hasNotes := len(relevant) > 0

	updated := s.tracker.Clone()
	nodes := updated.Add(header.Commitment(), hasNotes)
	err = s.cfg.Store.ApplyBlockSync(ctx, &store.BlockSyncUpdate{
		Header:   header,
		HasNotes: hasNotes,
		Peaks:    &peaks,
		Nodes:    nodes,
		Notes:    relevant,
	})
	if err != nil {
		return err
	}
	s.tracker = updated
	s.tip = header

	s.progress.LogProgress(header, len(notes), len(relevant), forceLog)
	return nil
}

// SyncRound syncs every block between the last synced block and the chain tip
// of the node.  It returns the number of the last synced block, which reflects
// the blocks synced before any error.
func (s *Syncer) SyncRound(ctx context.Context) (uint32, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.tracker == nil {
		if err := s.load(ctx); err != nil {
			return 0, err
		}
	}

	chainTip, err := s.cfg.RPC.GetChainTip(ctx)
	if err != nil {
		return s.tip.BlockNum, err
	}
	if chainTip.BlockNum <= s.tip.BlockNum {
		return s.tip.BlockNum, nil
	}
	tags, err := s.cfg.Store.GetNoteTags(ctx)
	if err != nil {
		return s.tip.BlockNum, err
	}

	log.Debugf("Syncing blocks %d through %d", s.tip.BlockNum+1,
		chainTip.BlockNum)
	for blockNum := s.tip.BlockNum + 1; blockNum <= chainTip.BlockNum; blockNum++ {
		forceLog := blockNum == chainTip.BlockNum
		if err := s.syncBlock(ctx, blockNum, tags, forceLog); err != nil {
			return s.tip.BlockNum, err
		}
	}
	return s.tip.BlockNum, nil
}

// Run loads the syncer and then syncs with the node every poll interval until
// the context is canceled.  Errors during a round are logged and the round is
// retried at the next interval.
func (s *Syncer) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		_, err := s.SyncRound(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("Sync round failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
