// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package legacyrpc

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/rpc/jsonrpc"
	"github.com/fuegosuite/fuegowallet/wallet"
)

func TestThrottle(t *testing.T) {
	const threshold = 1
	busy := make(chan struct{})

	srv := httptest.NewServer(throttledFn(threshold,
		func(w http.ResponseWriter, r *http.Request) {
			<-busy
		}),
	)
	defer srv.Close()

	codes := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < cap(codes); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := http.Get(srv.URL)
			if err != nil {
				t.Error(err)
				return
			}
			codes <- res.StatusCode
			res.Body.Close()
		}()
	}

	got := map[int]int{}
	for i := 0; i < cap(codes); i++ {
		code := <-codes
		got[code]++
		if code == 429 {
			close(busy)
		}
	}
	wg.Wait()

	want := map[int]int{200: 1, 429: 1}
	require.Equal(t, want, got)
}

func TestCheckAuthHeader(t *testing.T) {
	t.Parallel()

	s := &Server{
		authsha: sha256.Sum256(httpBasicAuth("user", "pass")),
	}

	r := httptest.NewRequest("POST", "/", nil)
	require.ErrorIs(t, s.checkAuthHeader(r), ErrNoAuth)

	r.SetBasicAuth("user", "pass")
	require.NoError(t, s.checkAuthHeader(r))

	r.SetBasicAuth("user", "wrong")
	err := s.checkAuthHeader(r)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoAuth)
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code jsonrpc.RPCErrorCode
	}{{
		name: "nil",
		err:  nil,
	}, {
		name: "rpc error passthrough",
		err:  &ErrNotConnected,
		code: jsonrpc.ErrRPCClientNotConnected,
	}, {
		name: "invalid parameter wrapper",
		err:  InvalidParameterError{errors.New("bad mixin")},
		code: jsonrpc.ErrRPCInvalidParameter,
	}, {
		name: "deserialization wrapper",
		err:  DeserializationError{errors.New("bad hex")},
		code: jsonrpc.ErrRPCDeserialization,
	}, {
		name: "wallet locked",
		err: wallet.Error{
			ErrorCode:   wallet.ErrLocked,
			Description: "wallet is locked",
		},
		code: jsonrpc.ErrRPCWalletUnlockNeeded,
	}, {
		name: "wallet insufficient funds",
		err: wallet.Error{
			ErrorCode:   wallet.ErrInsufficientFunds,
			Description: "broke",
		},
		code: jsonrpc.ErrRPCWalletInsufficientFunds,
	}, {
		name: "wallet bad address",
		err: wallet.Error{
			ErrorCode:   wallet.ErrBadAddress,
			Description: "not a fire address",
		},
		code: jsonrpc.ErrRPCInvalidParameter,
	}, {
		name: "unknown error falls back to wallet code",
		err:  errors.New("surprise"),
		code: jsonrpc.ErrRPCWallet,
	}}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			jsonErr := jsonError(test.err)
			if test.err == nil {
				require.Nil(t, jsonErr)
				return
			}
			require.NotNil(t, jsonErr)
			require.Equal(t, test.code, jsonErr.Code)
		})
	}
}

func TestLazyApplyHandler(t *testing.T) {
	t.Parallel()

	// Unknown methods resolve to a method-not-found error even with no
	// wallet loaded.
	resp, jsonErr := lazyApplyHandler(&jsonrpc.Request{
		Method: "frobnicate",
	}, nil)()
	require.Nil(t, resp)
	require.NotNil(t, jsonErr)
	require.Equal(t, jsonrpc.ErrRPCMethodNotFound, jsonErr.Code)

	// Wallet methods require a loaded wallet.
	resp, jsonErr = lazyApplyHandler(&jsonrpc.Request{
		Method: "getbalance",
	}, nil)()
	require.Nil(t, resp)
	require.Equal(t, &ErrUnloadedWallet, jsonErr)

	// Malformed parameters are reported before the handler runs.
	resp, jsonErr = lazyApplyHandler(&jsonrpc.Request{
		Method: "getblockinfo",
	}, nil)()
	require.Nil(t, resp)
	require.NotNil(t, jsonErr)
	require.Equal(t, jsonrpc.ErrRPCInvalidParams, jsonErr.Code)

	// Help does not require a wallet.
	resp, jsonErr = lazyApplyHandler(&jsonrpc.Request{
		Method: "help",
	}, nil)()
	require.Nil(t, jsonErr)
	require.NotEmpty(t, resp)
}

func TestSanitizeRequest(t *testing.T) {
	t.Parallel()

	req := &jsonrpc.Request{
		ID:     1,
		Method: "walletpassphrase",
		Params: []json.RawMessage{[]byte(`"hunter2"`)},
	}
	s := sanitizeRequest(req)
	require.NotContains(t, s, "hunter2")
	require.Contains(t, s, "walletpassphrase")

	req = &jsonrpc.Request{ID: 2, Method: "getbalance"}
	require.Contains(t, sanitizeRequest(req), "getbalance")
}
