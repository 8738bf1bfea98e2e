// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/mmr"
	"github.com/notechain/noteclient/wire"
)

// The database keys are made of a short bucket prefix followed by the
// big-endian encoding of the record key so iteration is ordered.
var (
	headerPrefix    = []byte("hdr")
	peaksPrefix     = []byte("pks")
	nodePrefix      = []byte("nod")
	accountPrefix   = []byte("acc")
	noteTagPrefix   = []byte("tag")
	inputNotePrefix = []byte("nte")
	syncHeightKey   = []byte("synch")
)

// byteOrder is the preferred byte order used through the record
// serialization.
var byteOrder = binary.LittleEndian

// byteOrderBE is the byte order of the numeric part of database keys.
var byteOrderBE = binary.BigEndian

func prefixedKey(prefix []byte, keyLen int) []byte {
	key := make([]byte, len(prefix)+keyLen)
	copy(key, prefix)
	return key
}

func headerKey(blockNum uint32) []byte {
	key := prefixedKey(headerPrefix, 4)
	byteOrderBE.PutUint32(key[len(headerPrefix):], blockNum)
	return key
}

func peaksKey(blockNum uint32) []byte {
	key := prefixedKey(peaksPrefix, 4)
	byteOrderBE.PutUint32(key[len(peaksPrefix):], blockNum)
	return key
}

func nodeKey(idx mmr.InOrderIndex) []byte {
	key := prefixedKey(nodePrefix, 8)
	byteOrderBE.PutUint64(key[len(nodePrefix):], uint64(idx))
	return key
}

func accountKey(id wire.AccountID) []byte {
	key := prefixedKey(accountPrefix, wire.AccountIDSize)
	b := id.Bytes()
	copy(key[len(accountPrefix):], b[:])
	return key
}

func noteTagKey(tag wire.NoteTag) []byte {
	key := prefixedKey(noteTagPrefix, 4)
	byteOrderBE.PutUint32(key[len(noteTagPrefix):], uint32(tag))
	return key
}

func inputNoteKey(id *chainhash.Hash) []byte {
	key := prefixedKey(inputNotePrefix, chainhash.HashSize)
	copy(key[len(inputNotePrefix):], id[:])
	return key
}

// -----------------------------------------------------------------------------
// The serialized format of a stored block header is:
//
//   <flags><header>
//
//   Field    Type    Size
//   flags    byte    1
//   header   []byte  wire.MaxBlockHeaderPayload
//
// The only flag currently defined marks blocks with notes relevant to the
// client.
// -----------------------------------------------------------------------------

const headerFlagHasNotes = 0x01

func serializeHeaderRecord(header *wire.BlockHeader, hasNotes bool) ([]byte, error) {
	hb, err := header.Bytes()
	if err != nil {
		return nil, err
	}
	b := make([]byte, 1+len(hb))
	if hasNotes {
		b[0] = headerFlagHasNotes
	}
	copy(b[1:], hb)
	return b, nil
}

func deserializeHeaderRecord(b []byte) (*wire.BlockHeader, bool, error) {
	if len(b) < 1 {
		return nil, false, storeError(ErrDeserialize, "empty block header "+
			"record")
	}
	var header wire.BlockHeader
	if err := header.FromBytes(b[1:]); err != nil {
		str := fmt.Sprintf("malformed block header record: %v", err)
		return nil, false, storeError(ErrDeserialize, str)
	}
	return &header, b[0]&headerFlagHasNotes != 0, nil
}

// -----------------------------------------------------------------------------
// The serialized format of stored peaks is:
//
//   <forest><peak hashes>
//
//   Field         Type              Size
//   forest        uint64            8
//   peak hashes   []chainhash.Hash  32 * popcount(forest)
// -----------------------------------------------------------------------------

func serializePeaks(peaks *mmr.Peaks) []byte {
	hashes := peaks.Hashes()
	b := make([]byte, 8+len(hashes)*chainhash.HashSize)
	byteOrder.PutUint64(b, peaks.Forest())
	offset := 8
	for i := range hashes {
		copy(b[offset:], hashes[i][:])
		offset += chainhash.HashSize
	}
	return b
}

func deserializePeaks(b []byte) (mmr.Peaks, error) {
	if len(b) < 8 || (len(b)-8)%chainhash.HashSize != 0 {
		str := fmt.Sprintf("peaks record has invalid length %d", len(b))
		return mmr.Peaks{}, storeError(ErrDeserialize, str)
	}
	forest := byteOrder.Uint64(b)
	hashes := make([]chainhash.Hash, (len(b)-8)/chainhash.HashSize)
	offset := 8
	for i := range hashes {
		copy(hashes[i][:], b[offset:])
		offset += chainhash.HashSize
	}
	peaks, err := mmr.NewPeaks(forest, hashes)
	if err != nil {
		str := fmt.Sprintf("malformed peaks record: %v", err)
		return mmr.Peaks{}, storeError(ErrDeserialize, str)
	}
	return peaks, nil
}

// InputNoteRecord is a note the client can consume along with where it was
// committed.
type InputNoteRecord struct {
	Note *wire.Note

	// Committed is set once the note is known to be included in the block
	// with number BlockNum.
	Committed bool
	BlockNum  uint32
}

// -----------------------------------------------------------------------------
// The serialized format of an input note record is:
//
//   <committed><block num><note>
//
//   Field       Type    Size
//   committed   byte    1
//   block num   uint32  4
//   note        []byte  variable
// -----------------------------------------------------------------------------

func serializeInputNote(rec *InputNoteRecord) ([]byte, error) {
	nb, err := rec.Note.Bytes()
	if err != nil {
		return nil, err
	}
	b := make([]byte, 5+len(nb))
	if rec.Committed {
		b[0] = 1
	}
	byteOrder.PutUint32(b[1:], rec.BlockNum)
	copy(b[5:], nb)
	return b, nil
}

func deserializeInputNote(b []byte) (*InputNoteRecord, error) {
	if len(b) < 5 {
		str := fmt.Sprintf("input note record has invalid length %d", len(b))
		return nil, storeError(ErrDeserialize, str)
	}
	var note wire.Note
	if err := note.FromBytes(b[5:]); err != nil {
		str := fmt.Sprintf("malformed input note record: %v", err)
		return nil, storeError(ErrDeserialize, str)
	}
	return &InputNoteRecord{
		Note:      &note,
		Committed: b[0] == 1,
		BlockNum:  byteOrder.Uint32(b[1:]),
	}, nil
}
