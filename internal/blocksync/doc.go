// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blocksync keeps a locally authenticated view of the ledger chain in
step with a node.

The chain is authenticated through a partial Merkle Mountain Range over the
commitments of every block header.  Each block header commits to the peaks of
the range before it, so a header is accepted only when it links to the local
tip and its chain commitment matches the local peaks.  Only blocks holding
notes relevant to the client keep their authentication paths, which keeps the
local view small while still allowing those blocks to be proven later.

Blocks that became interesting after they were synced are authenticated with
a proof from the node.  Such proofs are relative to the chain of the node, so
they are trimmed to the local chain before being verified.

Every change is made to a copy of the tracker and persisted before the copy
replaces the tracker, so a failed or canceled operation leaves both the store
and the tracker as they were.
*/
package blocksync
