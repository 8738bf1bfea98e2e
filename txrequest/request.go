// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrequest

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/notechain/noteclient/account"
	"github.com/notechain/noteclient/notes"
	"github.com/notechain/noteclient/wire"
)

// InputNote identifies a note to consume along with the optional arguments
// passed to its script.
type InputNote struct {
	ID   chainhash.Hash
	Args []wire.Felt
}

// ScriptTemplate describes the transaction script of a request.  At most one
// of the fields is set.
type ScriptTemplate struct {
	// Custom is a script provided by the caller.
	Custom *TransactionScript

	// SendNotes are notes the executing account creates.
	SendNotes []*wire.Note
}

// Request describes a transaction to execute against an account.
type Request struct {
	unauthenticatedInputNotes []*wire.Note
	inputNotes                []InputNote
	scriptTemplate            *ScriptTemplate
	expectedOutputNotes       []*wire.Note
	adviceMap                 map[chainhash.Hash][]wire.Felt
	expirationDelta           uint16
	ignoreInvalidInputNotes   bool
}

// UnauthenticatedInputNotes returns the notes consumed without an inclusion
// proof.
func (r *Request) UnauthenticatedInputNotes() []*wire.Note {
	return r.unauthenticatedInputNotes
}

// InputNoteIDs returns the ids of every note consumed by the request in the
// order they were added.
func (r *Request) InputNoteIDs() []chainhash.Hash {
	ids := make([]chainhash.Hash, 0, len(r.inputNotes))
	for i := range r.inputNotes {
		ids = append(ids, r.inputNotes[i].ID)
	}
	return ids
}

// NoteArgs returns the script arguments of the input notes that have them.
func (r *Request) NoteArgs() map[chainhash.Hash][]wire.Felt {
	args := make(map[chainhash.Hash][]wire.Felt)
	for i := range r.inputNotes {
		if r.inputNotes[i].Args != nil {
			args[r.inputNotes[i].ID] = r.inputNotes[i].Args
		}
	}
	return args
}

// ScriptTemplate returns the script template of the request or nil.
func (r *Request) ScriptTemplate() *ScriptTemplate {
	return r.scriptTemplate
}

// ExpectedOutputNotes returns the notes the transaction is expected to create.
func (r *Request) ExpectedOutputNotes() []*wire.Note {
	return r.expectedOutputNotes
}

// ExpirationDelta returns the number of blocks after which the transaction
// expires.  Zero means the transaction does not expire.
func (r *Request) ExpirationDelta() uint16 {
	return r.expirationDelta
}

// IgnoreInvalidInputNotes returns whether input notes that fail to be
// consumed are dropped instead of failing the transaction.
func (r *Request) IgnoreInvalidInputNotes() bool {
	return r.ignoreInvalidInputNotes
}

// BuildTransactionScript returns the transaction script of the request for an
// account with the provided interface.
//
// A custom script is returned unchanged.  Requests that send notes get a
// script that creates them, and requests with neither get a script that only
// authenticates the transaction.  The latter requires at least one input
// note, otherwise ErrNoInputNotes is returned.
func (r *Request) BuildTransactionScript(iface *account.Interface) (*TransactionScript, error) {
	switch {
	case r.scriptTemplate != nil && r.scriptTemplate.Custom != nil:
		return r.scriptTemplate.Custom, nil

	case r.scriptTemplate != nil:
		return buildSendNotesScript(iface, r.scriptTemplate.SendNotes)

	case len(r.inputNotes) == 0:
		str := "a transaction without output notes must have at least " +
			"one input note"
		return nil, requestError(ErrNoInputNotes, str)
	}
	return buildAuthScript(iface)
}

// TransactionArgs houses everything besides the account and the input notes
// that is needed to execute a transaction.
type TransactionArgs struct {
	Script              *TransactionScript
	NoteArgs            map[chainhash.Hash][]wire.Felt
	AdviceMap           map[chainhash.Hash][]wire.Felt
	ExpectedOutputNotes []*wire.Note
}

// IntoTransactionArgs returns the execution arguments of the request with the
// provided script.
func (r *Request) IntoTransactionArgs(script *TransactionScript) *TransactionArgs {
	adviceMap := make(map[chainhash.Hash][]wire.Felt, len(r.adviceMap))
	for k, v := range r.adviceMap {
		adviceMap[k] = v
	}
	return &TransactionArgs{
		Script:              script,
		NoteArgs:            r.NoteArgs(),
		AdviceMap:           adviceMap,
		ExpectedOutputNotes: r.expectedOutputNotes,
	}
}

// Builder builds transaction requests.
type Builder struct {
	req Request
}

// NewBuilder returns a builder for an empty request.
func NewBuilder() *Builder {
	return &Builder{req: Request{
		adviceMap: make(map[chainhash.Hash][]wire.Felt),
	}}
}

// WithUnauthenticatedInputNotes adds notes to consume without an inclusion
// proof along with optional script arguments.
func (b *Builder) WithUnauthenticatedInputNotes(notes ...*wire.Note) *Builder {
	for _, note := range notes {
		b.req.unauthenticatedInputNotes = append(b.req.unauthenticatedInputNotes,
			note)
		b.req.inputNotes = append(b.req.inputNotes, InputNote{ID: note.ID()})
	}
	return b
}

// WithAuthenticatedInputNotes adds notes known to be committed on chain to
// consume.
func (b *Builder) WithAuthenticatedInputNotes(notes ...InputNote) *Builder {
	b.req.inputNotes = append(b.req.inputNotes, notes...)
	return b
}

// WithCustomScript sets a caller provided transaction script.
func (b *Builder) WithCustomScript(script *TransactionScript) *Builder {
	if b.req.scriptTemplate == nil {
		b.req.scriptTemplate = new(ScriptTemplate)
	}
	b.req.scriptTemplate.Custom = script
	return b
}

// WithOwnOutputNotes sets notes the executing account creates.  They are also
// expected as outputs.
func (b *Builder) WithOwnOutputNotes(notes ...*wire.Note) *Builder {
	if b.req.scriptTemplate == nil {
		b.req.scriptTemplate = new(ScriptTemplate)
	}
	b.req.scriptTemplate.SendNotes = append(b.req.scriptTemplate.SendNotes,
		notes...)
	b.req.expectedOutputNotes = append(b.req.expectedOutputNotes, notes...)
	return b
}

// ExtendAdviceMap adds entries to the advice map provided to the transaction.
func (b *Builder) ExtendAdviceMap(entries map[chainhash.Hash][]wire.Felt) *Builder {
	for k, v := range entries {
		b.req.adviceMap[k] = v
	}
	return b
}

// WithExpirationDelta sets the number of blocks after which the transaction
// expires.
func (b *Builder) WithExpirationDelta(delta uint16) *Builder {
	b.req.expirationDelta = delta
	return b
}

// IgnoreInvalidInputNotes drops input notes that fail to be consumed instead
// of failing the transaction.
func (b *Builder) IgnoreInvalidInputNotes() *Builder {
	b.req.ignoreInvalidInputNotes = true
	return b
}

// Build validates and returns the request.
func (b *Builder) Build() (*Request, error) {
	seen := make(map[chainhash.Hash]struct{}, len(b.req.inputNotes))
	for i := range b.req.inputNotes {
		id := b.req.inputNotes[i].ID
		if _, ok := seen[id]; ok {
			str := fmt.Sprintf("note %v is consumed more than once", id)
			return nil, requestError(ErrDuplicateInputNote, str)
		}
		seen[id] = struct{}{}
	}
	for _, note := range b.req.unauthenticatedInputNotes {
		if _, ok := seen[note.ID()]; !ok {
			str := fmt.Sprintf("the input notes do not include the "+
				"unauthenticated note %v", note.ID())
			return nil, requestError(ErrInputNotesMapMissingUnauthenticatedNotes,
				str)
		}
	}

	if tmpl := b.req.scriptTemplate; tmpl != nil {
		if tmpl.Custom != nil && len(tmpl.SendNotes) > 0 {
			str := "a custom script can not be combined with own " +
				"output notes"
			return nil, requestError(ErrScriptTemplate, str)
		}
	}

	req := b.req
	return &req, nil
}

// BuildConsumeNotes returns a request that consumes the notes with the
// provided ids and executes no other logic than authenticating the
// transaction.
func (b *Builder) BuildConsumeNotes(ids []chainhash.Hash) (*Request, error) {
	for _, id := range ids {
		b.req.inputNotes = append(b.req.inputNotes, InputNote{ID: id})
	}
	return b.Build()
}

// PaymentData describes assets sent from one account to another.
type PaymentData struct {
	Sender wire.AccountID
	Target wire.AccountID
	Assets []wire.FungibleAsset
}

// BuildPayToID returns a request for the sender to create a note that pays
// the assets to the target.  A P2ID note is created unless a recall height is
// provided, in which case a P2IDE note lets the sender reclaim the assets from
// that height on.
func (b *Builder) BuildPayToID(payment *PaymentData, recallHeight *uint32,
	noteType wire.NoteType) (*Request, error) {

	if len(payment.Assets) == 0 {
		str := fmt.Sprintf("payment from %v to %v transfers no assets",
			payment.Sender, payment.Target)
		return nil, requestError(ErrNoAssets, str)
	}

	var note *wire.Note
	if recallHeight != nil {
		note = notes.CreateP2IDENote(payment.Sender, payment.Target,
			payment.Assets, *recallHeight, 0, noteType, 0)
	} else {
		note = notes.CreateP2IDNote(payment.Sender, payment.Target,
			payment.Assets, noteType, 0)
	}
	return b.WithOwnOutputNotes(note).Build()
}

// SwapData describes an asset offered by an account in exchange for another.
type SwapData struct {
	Sender    wire.AccountID
	Offered   wire.FungibleAsset
	Requested wire.FungibleAsset
}

// BuildSwap returns a request for the sender to create a swap note offering
// an asset to whoever pays back the requested asset.
func (b *Builder) BuildSwap(swap *SwapData, noteType wire.NoteType) (*Request, error) {
	if swap.Offered.Amount == 0 || swap.Requested.Amount == 0 {
		str := fmt.Sprintf("swap of %v for %v transfers no assets",
			swap.Offered, swap.Requested)
		return nil, requestError(ErrNoAssets, str)
	}

	note := notes.CreateSwapNote(swap.Sender, swap.Offered, swap.Requested,
		noteType, 0)
	return b.WithOwnOutputNotes(note).Build()
}
