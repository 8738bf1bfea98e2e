// Copyright (c) 2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/decred/dcrd/dcrjson/v4"
)

// TestNodeSvrCmds tests all of the node server commands marshal and unmarshal
// into valid results include handling of optional fields being omitted in the
// marshalled command, while optional fields with defaults have the default
// assigned on unmarshalled commands.
func TestNodeSvrCmds(t *testing.T) {
	t.Parallel()

	testID := int(1)
	tests := []struct {
		name         string
		newCmd       func() (interface{}, error)
		staticCmd    func() interface{}
		marshalled   string
		unmarshalled interface{}
	}{
		{
			name: "getblockheader",
			newCmd: func() (interface{}, error) {
				return dcrjson.NewCmd(Method("getblockheader"), 12)
			},
			staticCmd: func() interface{} {
				return NewGetBlockHeaderCmd(12, nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"getblockheader","params":[12],"id":1}`,
			unmarshalled: &GetBlockHeaderCmd{
				BlockNum:     12,
				IncludeProof: dcrjson.Bool(false),
			},
		},
		{
			name: "getblockheader with proof",
			newCmd: func() (interface{}, error) {
				return dcrjson.NewCmd(Method("getblockheader"), 12, true)
			},
			staticCmd: func() interface{} {
				return NewGetBlockHeaderCmd(12, dcrjson.Bool(true))
			},
			marshalled: `{"jsonrpc":"1.0","method":"getblockheader","params":[12,true],"id":1}`,
			unmarshalled: &GetBlockHeaderCmd{
				BlockNum:     12,
				IncludeProof: dcrjson.Bool(true),
			},
		},
		{
			name: "getchaintip",
			newCmd: func() (interface{}, error) {
				return dcrjson.NewCmd(Method("getchaintip"))
			},
			staticCmd: func() interface{} {
				return NewGetChainTipCmd()
			},
			marshalled:   `{"jsonrpc":"1.0","method":"getchaintip","params":[],"id":1}`,
			unmarshalled: &GetChainTipCmd{},
		},
		{
			name: "syncnotes",
			newCmd: func() (interface{}, error) {
				return dcrjson.NewCmd(Method("syncnotes"), 7, `[3221225473,5]`)
			},
			staticCmd: func() interface{} {
				return NewSyncNotesCmd(7, []uint32{3221225473, 5})
			},
			marshalled: `{"jsonrpc":"1.0","method":"syncnotes","params":[7,[3221225473,5]],"id":1}`,
			unmarshalled: &SyncNotesCmd{
				BlockNum: 7,
				NoteTags: []uint32{3221225473, 5},
			},
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Marshal the command as created by the new static command
		// creation function.
		marshalled, err := dcrjson.MarshalCmd("1.0", testID, test.staticCmd())
		if err != nil {
			t.Errorf("MarshalCmd #%d (%s) unexpected error: %v", i,
				test.name, err)
			continue
		}

		if !bytes.Equal(marshalled, []byte(test.marshalled)) {
			t.Errorf("Test #%d (%s) unexpected marshalled data - "+
				"got %s, want %s", i, test.name, marshalled,
				test.marshalled)
			continue
		}

		// Ensure the command is created without error via the generic
		// new command creation function.
		cmd, err := test.newCmd()
		if err != nil {
			t.Errorf("Test #%d (%s) unexpected dcrjson.NewCmd error: %v",
				i, test.name, err)
		}

		// Marshal the command as created by the generic new command
		// creation function.
		marshalled, err = dcrjson.MarshalCmd("1.0", testID, cmd)
		if err != nil {
			t.Errorf("MarshalCmd #%d (%s) unexpected error: %v", i,
				test.name, err)
			continue
		}

		if !bytes.Equal(marshalled, []byte(test.marshalled)) {
			t.Errorf("Test #%d (%s) unexpected marshalled data - "+
				"got %s, want %s", i, test.name, marshalled,
				test.marshalled)
			continue
		}

		var request dcrjson.Request
		if err := json.Unmarshal(marshalled, &request); err != nil {
			t.Errorf("Test #%d (%s) unexpected error while "+
				"unmarshalling JSON-RPC request: %v", i,
				test.name, err)
			continue
		}

		cmd, err = dcrjson.ParseParams(Method(request.Method), request.Params)
		if err != nil {
			t.Errorf("ParseParams #%d (%s) unexpected error: %v", i,
				test.name, err)
			continue
		}

		if !reflect.DeepEqual(cmd, test.unmarshalled) {
			t.Errorf("Test #%d (%s) unexpected unmarshalled command "+
				"- got %s, want %s", i, test.name,
				fmt.Sprintf("(%T) %+[1]v", cmd),
				fmt.Sprintf("(%T) %+[1]v\n", test.unmarshalled))
			continue
		}
	}
}

// TestNodeSvrResults ensures the result types unmarshal from the node
// responses.
func TestNodeSvrResults(t *testing.T) {
	t.Parallel()

	resp := `{"header":"00ff","proof":{"forest":7,"position":3,"path":["aa","bb"]}}`
	var result GetBlockHeaderResult
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := GetBlockHeaderResult{
		Header: "00ff",
		Proof: &MmrProofResult{
			Forest:   7,
			Position: 3,
			Path:     []string{"aa", "bb"},
		},
	}
	if !reflect.DeepEqual(result, want) {
		t.Fatalf("mismatched result -- got %+v, want %+v", result, want)
	}

	noProof, err := json.Marshal(GetBlockHeaderResult{Header: "00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(noProof) != `{"header":"00"}` {
		t.Fatalf("mismatched marshalled result -- got %s", noProof)
	}
}
