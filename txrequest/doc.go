// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txrequest defines transaction requests and the transaction scripts
derived from them.

A request lists the notes to consume, an optional script template, and the
data the transaction needs at execution time.  Once the interface of the
executing account is known, BuildTransactionScript produces the script and
IntoTransactionArgs packages everything the executor needs besides the account
and the notes themselves.
*/
package txrequest
