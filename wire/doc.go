// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the ledger data types along with their canonical
binary encoding.

The encoding is used both to compute commitments, such as block header and note
commitments, and to persist records in the client database.  Integers are
little endian, lists are prefixed with a variable length integer count, and
field elements are rejected unless they are in canonical form.

# Errors

Errors returned by this package are either the raw errors provided by
underlying calls to read/write from streams such as io.EOF,
io.ErrUnexpectedEOF, and io.ErrShortWrite, or of type wire.MessageError.  This
allows the caller to differentiate between general IO errors and malformed
data through type assertions and errors.Is.
*/
package wire
