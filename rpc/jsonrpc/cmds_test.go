// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUnmarshalCmd checks positional parameter handling, including
// optional trailing parameters and required parameter enforcement.
func TestUnmarshalCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		request Request
		want    interface{}
		wantErr RPCErrorCode
	}{{
		name: "all parameters",
		request: Request{
			Method: "sendtoaddress",
			Params: []json.RawMessage{
				[]byte(`"fire00"`), []byte(`1.5`),
				[]byte(`"feed"`), []byte(`7`),
			},
		},
		want: &SendToAddressCmd{
			Address:   "fire00",
			Amount:    1.5,
			PaymentID: strPtr("feed"),
			Mixin:     uint8Ptr(7),
		},
	}, {
		name: "optional tail omitted",
		request: Request{
			Method: "sendtoaddress",
			Params: []json.RawMessage{
				[]byte(`"fire00"`), []byte(`1.5`),
			},
		},
		want: &SendToAddressCmd{Address: "fire00", Amount: 1.5},
	}, {
		name: "no parameters",
		request: Request{
			Method: "getbalance",
		},
		want: &GetBalanceCmd{},
	}, {
		name: "missing required parameter",
		request: Request{
			Method: "getblockinfo",
		},
		wantErr: ErrRPCInvalidParams,
	}, {
		name: "too many parameters",
		request: Request{
			Method: "walletlock",
			Params: []json.RawMessage{[]byte(`1`)},
		},
		wantErr: ErrRPCInvalidParams,
	}, {
		name: "wrong parameter type",
		request: Request{
			Method: "getblockinfo",
			Params: []json.RawMessage{[]byte(`"tall"`)},
		},
		wantErr: ErrRPCInvalidParams,
	}, {
		name: "unknown method",
		request: Request{
			Method: "importwallet",
		},
		wantErr: ErrRPCMethodNotFound,
	}}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cmd, err := UnmarshalCmd(&test.request)
			if test.wantErr != 0 {
				require.Error(t, err)
				rpcErr, ok := err.(*RPCError)
				require.True(t, ok)
				require.Equal(t, test.wantErr, rpcErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, cmd)
		})
	}
}

// TestMarshalCmd checks that unset optional parameters are dropped from
// the tail of the positional parameter list but kept when an optional
// parameter after them is set.
func TestMarshalCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  interface{}
		want string
	}{{
		name: "trailing optionals dropped",
		cmd:  &SendToAddressCmd{Address: "fire00", Amount: 2},
		want: `{"jsonrpc":"1.0","method":"sendtoaddress",` +
			`"params":["fire00",2],"id":1}`,
	}, {
		name: "inner optional kept",
		cmd: &SendToAddressCmd{
			Address: "fire00",
			Amount:  2,
			Mixin:   uint8Ptr(3),
		},
		want: `{"jsonrpc":"1.0","method":"sendtoaddress",` +
			`"params":["fire00",2,null,3],"id":1}`,
	}, {
		name: "no parameters",
		cmd:  &StopCmd{},
		want: `{"jsonrpc":"1.0","method":"stop","params":[],"id":1}`,
	}}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			b, err := MarshalCmd(1, test.cmd)
			require.NoError(t, err)
			require.JSONEq(t, test.want, string(b))
		})
	}
}

// TestMarshalCmdUnregistered checks that marshalling an unregistered
// command type fails rather than producing a bogus method name.
func TestMarshalCmdUnregistered(t *testing.T) {
	t.Parallel()

	type notACmd struct{ A int }
	_, err := MarshalCmd(1, &notACmd{A: 1})
	require.Error(t, err)
}

// TestMarshalResponse checks the result and error forms of a marshalled
// response.
func TestMarshalResponse(t *testing.T) {
	t.Parallel()

	b, err := MarshalResponse(5, "pong", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"result":"pong","error":null,"id":5}`, string(b))

	b, err = MarshalResponse(6, nil, NewRPCError(ErrRPCMisc, "boom"))
	require.NoError(t, err)
	require.JSONEq(t,
		`{"result":null,"error":{"code":-1,"message":"boom"},"id":6}`,
		string(b))

	_, err = MarshalResponse([]int{1}, nil, nil)
	require.Error(t, err)
}

// TestCmdMethod checks the concrete type to method lookup used by
// notification marshalling.
func TestCmdMethod(t *testing.T) {
	t.Parallel()

	method, err := CmdMethod(&SyncProgressNtfn{})
	require.NoError(t, err)
	require.Equal(t, "syncprogress", method)

	_, err = CmdMethod(struct{}{})
	require.Error(t, err)
}

func strPtr(s string) *string { return &s }
func uint8Ptr(v uint8) *uint8 { return &v }
