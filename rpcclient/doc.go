// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2016-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package rpcclient implements a websocket JSON-RPC client for ledger nodes.

The client keeps a single long-lived websocket connection to the node and
multiplexes every request over it.  Requests are matched to their replies by
the JSON-RPC id, so any number of requests may be outstanding at once.

By default, the client assumes the node has TLS enabled.  Set DisableTLS in
the connection configuration to talk to a node listening on a plain
connection, which should only be done on trusted networks since the
credentials are then sent in cleartext.

# Synchronous vs Asynchronous API

The client provides both a synchronous (blocking) and asynchronous API.

The synchronous (blocking) API is typically sufficient for most use cases.  It
works by issuing the RPC and blocking until the response is received or the
passed context is done.

The asynchronous API works on the concept of futures.  When you invoke the async
version of a command, it will quickly return an instance of a type that promises
to provide the result of the RPC at some future time.  Invoking the Receive
method on the returned instance will either return the result immediately if it
has already arrived, or block until it has.  This is useful since it provides
the caller with greater control over concurrency, for example when requesting
several block headers at once.

# Errors

There are 3 categories of errors that will be returned:

  - Errors related to the client connection such as authentication and
    shutdown
  - Errors that occur before communicating with the remote RPC server such as
    command creation and marshaling errors
  - Errors returned from the remote RPC server such as unknown blocks

The first category of errors are typically ErrInvalidAuth,
ErrClientDisconnect, or ErrClientShutdown.

The second category of errors typically indicates a programmer error and as
such the type can vary, but usually will be best handled by simply showing or
logging it.

The third category of errors, that is errors returned by the server, can be
detected by type asserting the error to a *dcrjson.RPCError.  For example, to
detect if a block does not exist:

	var rpcErr *dcrjson.RPCError
	if errors.As(err, &rpcErr) {
		// Inspect rpcErr.Code.
	}

# Ledger Methods

The node methods used by the header synchronizer are provided:

  - GetBlockHeaderByNumber and GetBlockHeaderWithProof fetch a block header,
    optionally along with the MMR proof of its commitment relative to the
    chain tip of the node
  - GetChainTip returns the latest block known to the node
  - SyncNotes returns the notes of a block that match a set of note tags
*/
package rpcclient
