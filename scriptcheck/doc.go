// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package scriptcheck provides a side-effect free evaluator of the well-known
note scripts.

The Checker implements the consumption checker used by the note screener.  It
recognizes P2ID, P2IDE and SWAP notes and evaluates them against a copy of the
account vault:

  - a P2ID note is consumable by its target
  - a P2IDE note is consumable by its target from the timelock height on and by
    its sender from the recall height on
  - a SWAP note is consumable by any wallet that holds the requested asset
*/
package scriptcheck
