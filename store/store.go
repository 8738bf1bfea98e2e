// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/lru"
	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// dbName is the name of the database directory within the data
	// directory.
	dbName = "notes_ldb"

	// DefaultHeaderCacheSize is the default number of block headers kept
	// in memory.
	DefaultHeaderCacheSize = 1024
)

// cachedHeader is a block header held by the header cache.
type cachedHeader struct {
	header   *wire.BlockHeader
	hasNotes bool
}

// Store persists the chain data, accounts, and notes of the client in a
// leveldb database.  It is safe for concurrent use.
type Store struct {
	// db is the underlying database.  It is set when the instance is
	// created and is not changed afterward.
	db *leveldb.DB

	// headersMtx serializes filling the header cache from the database with
	// header writes so the cache never holds a header older than the one
	// stored.
	headersMtx sync.Mutex
	headers    *lru.Map[uint32, cachedHeader]
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// Open loads (or creates when needed) the store database in the provided data
// directory.
func Open(dataDir string, headerCacheSize uint32) (*Store, error) {
	dbPath := filepath.Join(dataDir, dbName)
	dbExists := fileExists(dbPath)
	if !dbExists {
		// The error can be ignored here since the call to leveldb.OpenFile
		// will fail if the directory couldn't be created.
		_ = os.MkdirAll(dataDir, 0700)
	}

	log.Infof("Loading note database from '%s'", dbPath)
	opts := opt.Options{
		ErrorIfExist: !dbExists,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, convertLdbErr(err, "failed to open note database")
	}
	log.Info("Note database loaded")

	return New(db, headerCacheSize), nil
}

// New returns a store that uses the provided leveldb database for its
// underlying storage.
func New(db *leveldb.DB, headerCacheSize uint32) *Store {
	if headerCacheSize == 0 {
		headerCacheSize = DefaultHeaderCacheSize
	}
	return &Store{
		db:      db,
		headers: lru.NewMap[uint32, cachedHeader](headerCacheSize),
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return convertLdbErr(err, "failed to close note database")
	}
	return nil
}

// get returns the value for the given key.  It returns nil for both the value
// and the error if the database does not contain the key.
func (s *Store) get(key []byte) ([]byte, error) {
	serialized, err := s.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		str := fmt.Sprintf("failed to get key %x", key)
		return nil, convertLdbErr(err, str)
	}
	return serialized, nil
}

// write atomically applies the batch once the context is confirmed to still
// be live.  Nothing is written when the context is done.
func (s *Store) write(ctx context.Context, batch *leveldb.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Write(batch, nil); err != nil {
		return convertLdbErr(err, "failed to write batch")
	}
	return nil
}

// forEach invokes fn for every key/value pair with the provided prefix in key
// order.  The slices are only valid during the call.
func (s *Store) forEach(prefix []byte, fn func(key, value []byte) error) error {
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if err := fn(iter.Key()[len(prefix):], iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return convertLdbErr(err, "failed to iterate database")
	}
	return nil
}

// putHeader adds a block header and optionally the peaks of the chain before
// the block to the batch.
func putHeader(batch *leveldb.Batch, header *wire.BlockHeader, peaks *mmr.Peaks,
	hasNotes bool) error {

	rec, err := serializeHeaderRecord(header, hasNotes)
	if err != nil {
		return err
	}
	batch.Put(headerKey(header.BlockNum), rec)
	if peaks != nil {
		batch.Put(peaksKey(header.BlockNum), serializePeaks(peaks))
	}
	return nil
}

// putNodes adds authentication nodes to the batch.
func putNodes(batch *leveldb.Batch, nodes []mmr.Node) {
	for i := range nodes {
		batch.Put(nodeKey(nodes[i].Index), nodes[i].Hash[:])
	}
}

// GetBlockHeaderByNumber returns the stored block header with the provided
// number and whether the block holds notes relevant to the client.  It returns
// a nil header without an error when the header is not stored.
func (s *Store) GetBlockHeaderByNumber(ctx context.Context, blockNum uint32) (*wire.BlockHeader, bool, error) {
	if cached, ok := s.headers.Get(blockNum); ok {
		return cached.header, cached.hasNotes, nil
	}

	s.headersMtx.Lock()
	defer s.headersMtx.Unlock()
	b, err := s.get(headerKey(blockNum))
	if err != nil || b == nil {
		return nil, false, err
	}
	header, hasNotes, err := deserializeHeaderRecord(b)
	if err != nil {
		return nil, false, err
	}
	s.headers.Put(blockNum, cachedHeader{header: header, hasNotes: hasNotes})
	return header, hasNotes, nil
}

// InsertBlockHeader stores a block header along with the peaks of the chain
// before the block.  Peaks may be nil for headers stored out of order, such as
// historical blocks authenticated with a merkle path.
func (s *Store) InsertBlockHeader(ctx context.Context, header *wire.BlockHeader,
	peaks *mmr.Peaks, hasNotes bool) error {

	var batch leveldb.Batch
	if err := putHeader(&batch, header, peaks, hasNotes); err != nil {
		return err
	}

	s.headersMtx.Lock()
	defer s.headersMtx.Unlock()
	if err := s.write(ctx, &batch); err != nil {
		return err
	}
	s.headers.Delete(header.BlockNum)
	return nil
}

// GetPeaksByBlockNum returns the peaks of the chain before the block with the
// provided number.  ErrPeaksNotFound is returned when none are stored.
func (s *Store) GetPeaksByBlockNum(ctx context.Context, blockNum uint32) (mmr.Peaks, error) {
	b, err := s.get(peaksKey(blockNum))
	if err != nil {
		return mmr.Peaks{}, err
	}
	if b == nil {
		str := fmt.Sprintf("no peaks stored for block %d", blockNum)
		return mmr.Peaks{}, storeError(ErrPeaksNotFound, str)
	}
	return deserializePeaks(b)
}

// GetTrackedAuthenticationNodes returns every stored authentication node in
// in-order index order.
func (s *Store) GetTrackedAuthenticationNodes(ctx context.Context) ([]mmr.Node, error) {
	var nodes []mmr.Node
	err := s.forEach(nodePrefix, func(k, v []byte) error {
		if len(k) != 8 || len(v) != chainhash.HashSize {
			str := fmt.Sprintf("malformed authentication node %x", k)
			return storeError(ErrDeserialize, str)
		}
		node := mmr.Node{Index: mmr.InOrderIndex(byteOrderBE.Uint64(k))}
		copy(node.Hash[:], v)
		nodes = append(nodes, node)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// InsertAuthenticationNodes stores authentication nodes.  Nodes that are
// already stored are overwritten.
func (s *Store) InsertAuthenticationNodes(ctx context.Context, nodes []mmr.Node) error {
	var batch leveldb.Batch
	putNodes(&batch, nodes)
	return s.write(ctx, &batch)
}

// BlockSyncUpdate houses everything a sync round persists for one block.
type BlockSyncUpdate struct {
	Header   *wire.BlockHeader
	HasNotes bool

	// Peaks are the peaks of the chain before the block.
	Peaks *mmr.Peaks

	// Nodes are the authentication nodes retained while adding the
	// previous tip to the chain.
	Nodes []mmr.Node

	// Notes are the notes of the block relevant to tracked accounts.
	Notes []*InputNoteRecord
}

// ApplyBlockSync atomically stores the result of syncing a block and advances
// the sync height to it.
func (s *Store) ApplyBlockSync(ctx context.Context, update *BlockSyncUpdate) error {
	var batch leveldb.Batch
	err := putHeader(&batch, update.Header, update.Peaks, update.HasNotes)
	if err != nil {
		return err
	}
	putNodes(&batch, update.Nodes)
	for _, rec := range update.Notes {
		b, err := serializeInputNote(rec)
		if err != nil {
			return err
		}
		id := rec.Note.ID()
		batch.Put(inputNoteKey(&id), b)
	}
	var height [4]byte
	byteOrder.PutUint32(height[:], update.Header.BlockNum)
	batch.Put(syncHeightKey, height[:])

	s.headersMtx.Lock()
	err = s.write(ctx, &batch)
	if err == nil {
		s.headers.Delete(update.Header.BlockNum)
	}
	s.headersMtx.Unlock()
	if err != nil {
		return err
	}
	log.Tracef("Stored block %d with %d nodes and %d notes",
		update.Header.BlockNum, len(update.Nodes), len(update.Notes))
	return nil
}

// GetSyncHeight returns the number of the last synced block.  It is zero until
// a block is synced.
func (s *Store) GetSyncHeight(ctx context.Context) (uint32, error) {
	b, err := s.get(syncHeightKey)
	if err != nil || b == nil {
		return 0, err
	}
	if len(b) != 4 {
		str := fmt.Sprintf("sync height record has invalid length %d", len(b))
		return 0, storeError(ErrDeserialize, str)
	}
	return byteOrder.Uint32(b), nil
}

// InsertAccount stores the account, replacing any earlier state, and starts
// tracking it.
func (s *Store) InsertAccount(ctx context.Context, acct *wire.Account) error {
	b, err := acct.Bytes()
	if err != nil {
		return err
	}
	var batch leveldb.Batch
	batch.Put(accountKey(acct.ID), b)
	return s.write(ctx, &batch)
}

// GetAccount returns the stored state of the account.  It returns nil without
// an error when the account is not tracked.
func (s *Store) GetAccount(ctx context.Context, id wire.AccountID) (*wire.Account, error) {
	b, err := s.get(accountKey(id))
	if err != nil || b == nil {
		return nil, err
	}
	var acct wire.Account
	if err := acct.FromBytes(b); err != nil {
		str := fmt.Sprintf("malformed account record %v: %v", id, err)
		return nil, storeError(ErrDeserialize, str)
	}
	return &acct, nil
}

// GetTrackedAccountIDs returns the ids of all tracked accounts ordered by id.
func (s *Store) GetTrackedAccountIDs(ctx context.Context) ([]wire.AccountID, error) {
	var ids []wire.AccountID
	err := s.forEach(accountPrefix, func(k, _ []byte) error {
		id, err := wire.AccountIDFromBytes(k)
		if err != nil {
			str := fmt.Sprintf("malformed account key %x: %v", k, err)
			return storeError(ErrDeserialize, str)
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AddNoteTag starts tracking notes with the provided tag.
func (s *Store) AddNoteTag(ctx context.Context, tag wire.NoteTag) error {
	var batch leveldb.Batch
	batch.Put(noteTagKey(tag), nil)
	return s.write(ctx, &batch)
}

// RemoveNoteTag stops tracking notes with the provided tag.
func (s *Store) RemoveNoteTag(ctx context.Context, tag wire.NoteTag) error {
	var batch leveldb.Batch
	batch.Delete(noteTagKey(tag))
	return s.write(ctx, &batch)
}

// GetNoteTags returns the tracked note tags in ascending order.
func (s *Store) GetNoteTags(ctx context.Context) ([]wire.NoteTag, error) {
	var tags []wire.NoteTag
	err := s.forEach(noteTagPrefix, func(k, _ []byte) error {
		if len(k) != 4 {
			str := fmt.Sprintf("malformed note tag key %x", k)
			return storeError(ErrDeserialize, str)
		}
		tags = append(tags, wire.NoteTag(byteOrderBE.Uint32(k)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// InsertInputNotes stores the notes, replacing earlier records of the same
// notes.
func (s *Store) InsertInputNotes(ctx context.Context, recs []*InputNoteRecord) error {
	var batch leveldb.Batch
	for _, rec := range recs {
		b, err := serializeInputNote(rec)
		if err != nil {
			return err
		}
		id := rec.Note.ID()
		batch.Put(inputNoteKey(&id), b)
	}
	return s.write(ctx, &batch)
}

// GetInputNotes returns every stored input note ordered by note id.
func (s *Store) GetInputNotes(ctx context.Context) ([]*InputNoteRecord, error) {
	var recs []*InputNoteRecord
	err := s.forEach(inputNotePrefix, func(_, v []byte) error {
		rec, err := deserializeInputNote(v)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}
