// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.
package chainrpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taostack/stakecycle/pkg/chain"
	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/tao"
)

type serverRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type bridgeHandler func(method string, params json.RawMessage) (any, *rpcError)

// newTestBridge starts a fake wallet bridge and returns a client connected
// to it.
func newTestBridge(t *testing.T, handle bridgeHandler) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req serverRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			resp := response{JSONRPC: "2.0", ID: req.ID}
			result, rpcErr := handle(req.Method, req.Params)
			if rpcErr != nil {
				resp.Error = rpcErr
			} else {
				b, err := json.Marshal(result)
				if err != nil {
					return
				}
				resp.Result = b
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(context.Background(), endpoint, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDialUnreachable(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", zap.NewNop().Sugar())
	require.ErrorIs(t, err, chain.ErrConnection)
}

func TestBalanceAndHeight(t *testing.T) {
	client := newTestBridge(t, func(method string, _ json.RawMessage) (any, *rpcError) {
		switch method {
		case "wallet.balance":
			return map[string]uint64{"rao": 1_500_000_000}, nil
		case "chain.height":
			return map[string]uint64{"height": 4_269_001}, nil
		}
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	require.Equal(t, tao.FromTAO(1.5), balance)

	height, err := client.BlockHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(4_269_001), height)
}

func TestUnlockWallet(t *testing.T) {
	client := newTestBridge(t, func(method string, params json.RawMessage) (any, *rpcError) {
		require.Equal(t, "wallet.unlock", method)
		var p struct {
			Name     string `json:"name"`
			Hotkey   string `json:"hotkey"`
			Password string `json:"password"`
		}
		require.NoError(t, json.Unmarshal(params, &p))
		if p.Password != "hunter2" {
			return nil, &rpcError{Code: codeAuth, Message: "bad password"}
		}
		return map[string]string{
			"coldkey": "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1",
			"hotkey":  "5D7aRtpmVBKsQRzMA2ioUPL25onJPzBjiFVVt5uPZ3TDsn51",
		}, nil
	})

	_, err := client.UnlockWallet(context.Background(), "droplet", "default", "wrong")
	require.ErrorIs(t, err, chain.ErrAuth)

	session, err := client.UnlockWallet(context.Background(), "droplet", "default", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1", session.Coldkey)
}

func TestAddStakeRejected(t *testing.T) {
	client := newTestBridge(t, func(method string, params json.RawMessage) (any, *rpcError) {
		require.Equal(t, "stake.add", method)
		var p submitParams
		require.NoError(t, json.Unmarshal(params, &p))
		require.Equal(t, uint64(50_000_000), p.AmountRao)
		require.Equal(t, uint16(63), p.Netuid)
		return nil, &rpcError{Code: codeRejected, Message: "amount below minimum"}
	})

	err := client.AddStake(context.Background(), "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1", 63, tao.FromTAO(0.05))
	var rejected *chain.RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, "stake", rejected.Op)
	require.Equal(t, "amount below minimum", rejected.Reason)
}

func TestRemoveStakeOK(t *testing.T) {
	var got submitParams
	client := newTestBridge(t, func(method string, params json.RawMessage) (any, *rpcError) {
		require.Equal(t, "stake.remove", method)
		require.NoError(t, json.Unmarshal(params, &got))
		return map[string]bool{"ok": true}, nil
	})

	err := client.RemoveStake(context.Background(), "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1", 63, tao.FromTAO(0.7012))
	require.NoError(t, err)
	require.Equal(t, uint64(701_200_000), got.AmountRao)
}

func TestStakesList(t *testing.T) {
	client := newTestBridge(t, func(method string, _ json.RawMessage) (any, *rpcError) {
		require.Equal(t, "stake.list", method)
		return map[string]any{
			"entries": []map[string]any{
				{"validator": "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1", "netuid": 51, "rao": 701_200_000},
				{"validator": "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1", "netuid": 63, "rao": 50_000_000},
			},
		}, nil
	})

	entries, err := client.Stakes(context.Background(), "5E1nK3myeWNWrmffVaH76f2mCFCbe9VcHGwgkfdcD7k3E8D1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, uint16(51), entries[0].Subnet)
	require.Equal(t, tao.FromTAO(0.7012), entries[0].Amount)
}

func TestQueryErrorMapsToConnection(t *testing.T) {
	client := newTestBridge(t, func(string, json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "chain connection lost"}
	})

	_, err := client.Balance(context.Background())
	require.ErrorIs(t, err, chain.ErrConnection)
	require.False(t, errors.Is(err, chain.ErrAuth))
}

func TestConnect(t *testing.T) {
	client := newTestBridge(t, func(method string, params json.RawMessage) (any, *rpcError) {
		require.Equal(t, "chain.connect", method)
		var p struct {
			Network  string `json:"network"`
			Endpoint string `json:"endpoint"`
		}
		require.NoError(t, json.Unmarshal(params, &p))
		require.Equal(t, "finney", p.Network)
		require.Contains(t, p.Endpoint, "finney")
		return map[string]bool{"ok": true}, nil
	})

	require.NoError(t, client.Connect(context.Background(), models.Finney))
}
