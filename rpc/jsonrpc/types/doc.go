// Copyright (c) 2019-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package types implements concrete types for marshalling to and from the ledger
node JSON-RPC commands and return values.

When communicating via the JSON-RPC protocol, all requests and responses must be
marshalled to and from the wire in the appropriate format.  This package
provides data structures that are registered with dcrjson to ease this process.

Marshalling and Unmarshalling

The types in this package map to the required parts of the protocol as discussed
in the dcrjson documentation

  - Request Objects (type Request)
    - Commands (type <Foo>Cmd)
  - Response Objects (type Response)
    - Result (type <Foo>Result)

To simplify the marshalling of the requests and responses, the
dcrjson.MarshalCmd and dcrjson.MarshalResponse functions may be used.  They
return the raw bytes ready to be sent across the wire.

Unmarshalling a received Request object is a two step process:
  1) Unmarshal the raw bytes into a dcrjson.Request struct instance via
     json.Unmarshal
  2) Use dcrjson.ParseParams on the Method and Params fields of the unmarshalled
     Request to create a concrete command instance with all struct fields set
     accordingly.

Command Creation

The preferred method of creating a command is to use one of the New<Foo>Cmd
functions.  The dcrjson.NewCmd function may also be used with a method name and
variable arguments since this package registers all of its types with dcrjson.

Hashes and serialized ledger data such as block headers and notes are carried as
hex strings.
*/
package types
