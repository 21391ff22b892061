// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chainrpc implements chain.Client over a JSON-RPC 2.0 websocket
// connection to the wallet bridge daemon. The bridge owns wallet custody,
// extrinsic signing and the connection to the chain; this client is a thin
// synchronous call layer with one in-flight request at a time.
package chainrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taostack/stakecycle/pkg/chain"
	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/models"
	"github.com/taostack/stakecycle/pkg/tao"
)

// Application error codes returned by the wallet bridge.
const (
	codeAuth     = 1001 // wrong wallet credential
	codeRejected = 1002 // extrinsic refused by the chain
)

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type Client struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger

	mu     sync.Mutex
	nextID uint64
}

var _ chain.Client = (*Client)(nil)

// Dial connects to the wallet bridge. The returned client is safe for use
// from a single goroutine per call; calls are serialized internally.
func Dial(ctx context.Context, endpoint string, log *zap.SugaredLogger) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: constants.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing wallet bridge at %s: %v", chain.ErrConnection, endpoint, err)
	}
	log.Debugw("connected to wallet bridge", "endpoint", endpoint)
	return &Client{conn: conn, log: log}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs one request/response round trip. Transport failures map to
// chain.ErrConnection; bridge-level errors come back as *rpcError for the
// typed methods to translate.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	req := request{JSONRPC: "2.0", ID: c.nextID, Method: method, Params: params}

	deadline := time.Now().Add(constants.DialTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%w: %s: %v", chain.ErrConnection, method, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("%w: %s: %v", chain.ErrConnection, method, err)
	}
	if resp.Error != nil {
		c.log.Debugw("bridge returned error", "method", method, "code", resp.Error.Code, "message", resp.Error.Message)
		return resp.Error
	}
	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%w: %s: decoding result: %v", chain.ErrConnection, method, err)
		}
	}
	return nil
}

func (c *Client) Connect(ctx context.Context, network models.Network) error {
	params := struct {
		Network  string `json:"network"`
		Endpoint string `json:"endpoint"`
	}{network.String(), network.ChainEndpoint()}
	if err := c.call(ctx, "chain.connect", params, nil); err != nil {
		var rerr *rpcError
		if errors.As(err, &rerr) {
			return fmt.Errorf("%w: %s", chain.ErrConnection, rerr.Message)
		}
		return err
	}
	return nil
}

func (c *Client) UnlockWallet(ctx context.Context, name, hotkey, credential string) (chain.Session, error) {
	params := struct {
		Name     string `json:"name"`
		Hotkey   string `json:"hotkey"`
		Password string `json:"password,omitempty"`
	}{name, hotkey, credential}
	var result struct {
		Coldkey string `json:"coldkey"`
		Hotkey  string `json:"hotkey"`
	}
	if err := c.call(ctx, "wallet.unlock", params, &result); err != nil {
		var rerr *rpcError
		if errors.As(err, &rerr) {
			if rerr.Code == codeAuth {
				return chain.Session{}, fmt.Errorf("%w: %s", chain.ErrAuth, rerr.Message)
			}
			return chain.Session{}, fmt.Errorf("wallet.unlock: %w", err)
		}
		return chain.Session{}, err
	}
	return chain.Session{Coldkey: result.Coldkey, Hotkey: result.Hotkey}, nil
}

func (c *Client) Balance(ctx context.Context) (tao.Amount, error) {
	var result struct {
		Rao uint64 `json:"rao"`
	}
	if err := c.call(ctx, "wallet.balance", nil, &result); err != nil {
		return 0, queryErr("wallet.balance", err)
	}
	return tao.FromRao(result.Rao), nil
}

func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	var result struct {
		Height uint64 `json:"height"`
	}
	if err := c.call(ctx, "chain.height", nil, &result); err != nil {
		return 0, queryErr("chain.height", err)
	}
	return result.Height, nil
}

type stakeKey struct {
	Validator string `json:"validator"`
	Netuid    uint16 `json:"netuid"`
}

func (c *Client) Stake(ctx context.Context, validator string, subnet uint16) (tao.Amount, error) {
	var result struct {
		Rao uint64 `json:"rao"`
	}
	if err := c.call(ctx, "stake.get", stakeKey{validator, subnet}, &result); err != nil {
		return 0, queryErr("stake.get", err)
	}
	return tao.FromRao(result.Rao), nil
}

func (c *Client) Stakes(ctx context.Context, validator string) ([]chain.StakeEntry, error) {
	params := struct {
		Validator string `json:"validator"`
	}{validator}
	var result struct {
		Entries []struct {
			Validator string `json:"validator"`
			Netuid    uint16 `json:"netuid"`
			Rao       uint64 `json:"rao"`
		} `json:"entries"`
	}
	if err := c.call(ctx, "stake.list", params, &result); err != nil {
		return nil, queryErr("stake.list", err)
	}
	entries := make([]chain.StakeEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, chain.StakeEntry{
			Validator: e.Validator,
			Subnet:    e.Netuid,
			Amount:    tao.FromRao(e.Rao),
		})
	}
	return entries, nil
}

type submitParams struct {
	Validator string `json:"validator"`
	Netuid    uint16 `json:"netuid"`
	AmountRao uint64 `json:"amount_rao"`
}

func (c *Client) AddStake(ctx context.Context, validator string, subnet uint16, amount tao.Amount) error {
	err := c.call(ctx, "stake.add", submitParams{validator, subnet, amount.Rao()}, nil)
	return submitErr("stake", "stake.add", err)
}

func (c *Client) RemoveStake(ctx context.Context, validator string, subnet uint16, amount tao.Amount) error {
	err := c.call(ctx, "stake.remove", submitParams{validator, subnet, amount.Rao()}, nil)
	return submitErr("unstake", "stake.remove", err)
}

// queryErr translates bridge errors on read-only calls; any bridge-level
// failure on a query means the chain state is unreadable.
func queryErr(method string, err error) error {
	if err == nil {
		return nil
	}
	var rerr *rpcError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %s: %s", chain.ErrConnection, method, rerr.Message)
	}
	return err
}

// submitErr translates bridge errors on extrinsic submissions.
func submitErr(op, method string, err error) error {
	if err == nil {
		return nil
	}
	var rerr *rpcError
	if errors.As(err, &rerr) {
		if rerr.Code == codeRejected {
			return &chain.RejectedError{Op: op, Reason: rerr.Message}
		}
		return fmt.Errorf("%w: %s: %s", chain.ErrConnection, method, rerr.Message)
	}
	return err
}
