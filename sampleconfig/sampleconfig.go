// Copyright (c) 2017-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sampleconfig provides the commented example config for noteclient.
package sampleconfig

import (
	_ "embed"
)

// sampleNoteClientConf is a string containing the commented example config
// for noteclient.
//
//go:embed sample-noteclient.conf
var sampleNoteClientConf string

// NoteClient returns a string containing the commented example config for
// noteclient.
func NoteClient() string {
	return sampleNoteClientConf
}
