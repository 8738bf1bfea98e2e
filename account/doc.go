// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account recognizes the well-known components of account code and
// derives the interface an account exposes from them.
package account
