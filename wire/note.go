// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
)

const (
	// MaxInputsPerNote is the maximum number of inputs a note may carry.
	MaxInputsPerNote = 128

	// MaxNoteScriptSize is the maximum size of a serialized note script.
	MaxNoteScriptSize = 32768
)

// NoteType describes the visibility of a note.
type NoteType uint8

// These constants define the known note types.
const (
	// NoteTypePublic notes are stored on chain in full.
	NoteTypePublic NoteType = 1

	// NoteTypePrivate notes only have their commitment stored on chain.
	NoteTypePrivate NoteType = 2

	// NoteTypeEncrypted notes are stored on chain encrypted.
	NoteTypeEncrypted NoteType = 3
)

// Map of note types back to their constant names for pretty printing.
var noteTypeStrings = map[NoteType]string{
	NoteTypePublic:    "public",
	NoteTypePrivate:   "private",
	NoteTypeEncrypted: "encrypted",
}

// String returns the NoteType in human-readable form.
func (t NoteType) String() string {
	if s, ok := noteTypeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown NoteType (%d)", uint8(t))
}

// NoteTag is a hint used by nodes to filter the notes a client is interested
// in without learning which account they are for.
type NoteTag uint32

// NoteMetadata is the public part of a note.
type NoteMetadata struct {
	Sender AccountID
	Type   NoteType
	Tag    NoteTag
	Aux    Felt
}

// NoteScript is the code executed when a note is consumed.  The root uniquely
// identifies the script.
type NoteScript struct {
	root chainhash.Hash
	code string
}

// NewNoteScript returns the note script with the provided code.
func NewNoteScript(code string) NoteScript {
	return NoteScript{root: chainhash.HashH([]byte(code)), code: code}
}

// Root returns the hash that identifies the script.
func (s *NoteScript) Root() chainhash.Hash {
	return s.root
}

// Code returns the source of the script.
func (s *NoteScript) Code() string {
	return s.code
}

// Note is a unit of value and logic sent to an account.
type Note struct {
	SerialNum chainhash.Hash
	Script    NoteScript
	Inputs    []Felt
	Assets    []FungibleAsset
	Metadata  NoteMetadata
}

// InputsCommitment returns the commitment to the note inputs.
func (n *Note) InputsCommitment() chainhash.Hash {
	h := blake256.NewHasher256()
	WriteVarInt(h, uint64(len(n.Inputs)))
	for _, input := range n.Inputs {
		writeElement(h, input)
	}
	return chainhash.Hash(h.Sum256())
}

// RecipientDigest returns the digest that commits to everything required to
// consume the note.
func (n *Note) RecipientDigest() chainhash.Hash {
	root := n.Script.Root()
	inputs := n.InputsCommitment()
	h := blake256.NewHasher256()
	h.Write(n.SerialNum[:])
	h.Write(root[:])
	h.Write(inputs[:])
	return chainhash.Hash(h.Sum256())
}

// AssetsCommitment returns the commitment to the note assets.
func (n *Note) AssetsCommitment() chainhash.Hash {
	h := blake256.NewHasher256()
	writeAssets(h, n.Assets)
	return chainhash.Hash(h.Sum256())
}

// ID returns the identifier of the note.
func (n *Note) ID() chainhash.Hash {
	recipient := n.RecipientDigest()
	assets := n.AssetsCommitment()
	h := blake256.NewHasher256()
	h.Write(recipient[:])
	h.Write(assets[:])
	return chainhash.Hash(h.Sum256())
}

// Serialize encodes the note to w.
func (n *Note) Serialize(w io.Writer) error {
	if err := writeElement(w, &n.SerialNum); err != nil {
		return err
	}
	if err := WriteVarString(w, n.Script.Code()); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(n.Inputs))); err != nil {
		return err
	}
	for _, input := range n.Inputs {
		if err := writeElement(w, input); err != nil {
			return err
		}
	}
	if err := writeAssets(w, n.Assets); err != nil {
		return err
	}
	md := &n.Metadata
	return writeElements(w, md.Sender, md.Type, md.Tag, md.Aux)
}

// Deserialize decodes a note from r into the receiver.
func (n *Note) Deserialize(r io.Reader) error {
	const op = "Note.Deserialize"
	if err := readElement(r, &n.SerialNum); err != nil {
		return err
	}
	code, err := ReadVarString(r, MaxNoteScriptSize)
	if err != nil {
		return err
	}
	n.Script = NewNoteScript(code)

	count, err := readCount(r, op, MaxInputsPerNote, ErrTooManyNoteInputs,
		"note inputs")
	if err != nil {
		return err
	}
	n.Inputs = make([]Felt, count)
	for i := range n.Inputs {
		if err := readElement(r, &n.Inputs[i]); err != nil {
			return err
		}
	}

	n.Assets, err = readAssets(r, op, MaxAssetsPerNote)
	if err != nil {
		return err
	}

	md := &n.Metadata
	err = readElements(r, &md.Sender, &md.Type, &md.Tag, &md.Aux)
	if err != nil {
		return err
	}
	if _, ok := noteTypeStrings[md.Type]; !ok {
		msg := fmt.Sprintf("unknown note type %d", uint8(md.Type))
		return messageError(op, ErrInvalidNoteType, msg)
	}
	return nil
}

// Bytes returns the serialized note.
func (n *Note) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes decodes the provided serialized note into the receiver.
func (n *Note) FromBytes(b []byte) error {
	return n.Deserialize(bytes.NewReader(b))
}
