// Package chain talks JSON-RPC to an Ethereum node with unlocked
// accounts (a local dev chain or a managed signer). Approved land
// records are anchored by sending their content hash as call data to
// the registry contract.
package chain

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"landregistry/internal/domain"
)

type Config struct {
	RPCURL          string
	ContractAddress string
	AccountAddress  string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RPCURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}

// BlockNumber is used as a connectivity probe at startup.
func (c *Client) BlockNumber(ctx context.Context) (string, error) {
	raw, err := c.call(ctx, "eth_blockNumber")
	if err != nil {
		return "", err
	}
	var n string
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n, nil
}

// AnchorLand submits a transaction whose call data fingerprints the land
// record. Returns the transaction hash.
func (c *Client) AnchorLand(ctx context.Context, land *domain.Land) (string, error) {
	fingerprint := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%s",
		land.LandID, land.LandAddress, land.OwnerWalletAddress, land.DocumentHash)))

	raw, err := c.call(ctx, "eth_sendTransaction", map[string]string{
		"from": c.cfg.AccountAddress,
		"to":   c.cfg.ContractAddress,
		"data": "0x" + hex.EncodeToString(fingerprint[:]),
	})
	if err != nil {
		return "", err
	}
	var txHash string
	if err := json.Unmarshal(raw, &txHash); err != nil {
		return "", err
	}
	return txHash, nil
}
