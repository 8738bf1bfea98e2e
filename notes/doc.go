// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package notes provides the well-known note scripts along with helpers to create
notes that use them and to decode their inputs.

Account ids are stored in note inputs as the suffix followed by the prefix.
Block heights are stored as field elements and must fit in a uint32.
*/
package notes
