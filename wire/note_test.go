// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// testNote returns a note with every field populated.
func testNote() *Note {
	sender := AccountID{Prefix: 0x1122, Suffix: 0x3344}
	faucet := AccountID{Prefix: 0xfa, Suffix: 0xce}
	return &Note{
		SerialNum: chainhash.HashH([]byte("serial")),
		Script:    NewNoteScript("notes::p2id"),
		Inputs:    []Felt{7, 8},
		Assets:    []FungibleAsset{{Faucet: faucet, Amount: 100}},
		Metadata: NoteMetadata{
			Sender: sender,
			Type:   NoteTypePublic,
			Tag:    0xdeadbeef,
			Aux:    3,
		},
	}
}

// TestNoteSerialize tests note serialization and deserialization.
func TestNoteSerialize(t *testing.T) {
	note := testNote()
	b, err := note.Bytes()
	if err != nil {
		t.Fatalf("Bytes: unexpected error: %v", err)
	}

	var got Note
	if err := got.FromBytes(b); err != nil {
		t.Fatalf("FromBytes: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(&got, note) {
		t.Fatalf("mismatched note\n got: %s want: %s", spew.Sdump(&got),
			spew.Sdump(note))
	}
	if got.ID() != note.ID() {
		t.Fatal("mismatched note id after round trip")
	}
}

// TestNoteDeserializeErrors ensures malformed notes are rejected.
func TestNoteDeserializeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *Note) []byte
		err    error
	}{{
		name: "non-canonical input",
		mutate: func(n *Note) []byte {
			n.Inputs = []Felt{Felt(FeltModulus)}
			b, _ := n.Bytes()
			return b
		},
		err: ErrNonCanonicalFelt,
	}, {
		name: "too many inputs",
		mutate: func(n *Note) []byte {
			n.Inputs = make([]Felt, MaxInputsPerNote+1)
			b, _ := n.Bytes()
			return b
		},
		err: ErrTooManyNoteInputs,
	}, {
		name: "unknown note type",
		mutate: func(n *Note) []byte {
			n.Metadata.Type = 9
			b, _ := n.Bytes()
			return b
		},
		err: ErrInvalidNoteType,
	}, {
		name: "amount too large",
		mutate: func(n *Note) []byte {
			n.Assets[0].Amount = MaxFungibleAmount + 1
			b, _ := n.Bytes()
			return b
		},
		err: ErrInvalidAmount,
	}}

	for _, test := range tests {
		b := test.mutate(testNote())
		var n Note
		err := n.Deserialize(bytes.NewReader(b))
		if !errors.Is(err, test.err) {
			t.Errorf("%q: mismatched error -- got %v, want %v", test.name,
				err, test.err)
		}
	}
}

// TestNoteID ensures the note id commits to the recipient and the assets but
// not to the metadata.
func TestNoteID(t *testing.T) {
	base := testNote()
	baseID := base.ID()

	tests := []struct {
		name    string
		mutate  func(n *Note)
		changes bool
	}{
		{"serial number", func(n *Note) { n.SerialNum[0] ^= 1 }, true},
		{"script", func(n *Note) { n.Script = NewNoteScript("notes::other") }, true},
		{"inputs", func(n *Note) { n.Inputs[1]++ }, true},
		{"assets", func(n *Note) { n.Assets[0].Amount++ }, true},
		{"tag", func(n *Note) { n.Metadata.Tag++ }, false},
		{"sender", func(n *Note) { n.Metadata.Sender.Suffix++ }, false},
	}

	for _, test := range tests {
		n := testNote()
		test.mutate(n)
		if changed := n.ID() != baseID; changed != test.changes {
			t.Errorf("%q: mismatched id change -- got %v, want %v",
				test.name, changed, test.changes)
		}
	}
}

// TestNoteTypeStringer tests the stringized output for the NoteType type.
func TestNoteTypeStringer(t *testing.T) {
	tests := []struct {
		in   NoteType
		want string
	}{
		{NoteTypePublic, "public"},
		{NoteTypePrivate, "private"},
		{NoteTypeEncrypted, "encrypted"},
		{0xff, "Unknown NoteType (255)"},
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result, test.want)
			continue
		}
	}
}
