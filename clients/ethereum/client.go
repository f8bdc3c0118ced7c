// Package ethereum reads the mint contract over JSON-RPC. It never signs or
// sends transactions.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"pfpMint/errs"
)

const (
	sigPublicMintingEnd = "PUBLIC_MINTING_END()"
	sigInitialMintPrice = "INITIAL_MINT_PRICE()"
	sigRolePrices       = "rolePrices(uint8)"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *RPCError `json:"error"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type callArgs struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// Contract reads the price policy of the deployed mint contract.
type Contract struct {
	http    *resty.Client
	rpcURL  string
	address string
}

func NewContract(client *resty.Client, rpcURL, address string) *Contract {
	return &Contract{
		http:    client,
		rpcURL:  rpcURL,
		address: address,
	}
}

func (c *Contract) Address() string {
	return c.address
}

func (c *Contract) call(ctx context.Context, method string, params ...any) (string, error) {
	if params == nil {
		params = []any{}
	}
	result := &rpcResponse{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1}).
		SetResult(result).
		Post(c.rpcURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", method, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s: unexpected status %s", method, resp.Status())
	}
	if result.Error != nil {
		return "", fmt.Errorf("%s: %w", method, result.Error)
	}
	return result.Result, nil
}

func (c *Contract) readUint(ctx context.Context, signature string, args ...*big.Int) (*big.Int, error) {
	data, err := EncodeCall(signature, args...)
	if err != nil {
		return nil, errs.E(errs.ContractRead, signature, err)
	}
	out, err := c.call(ctx, "eth_call", callArgs{To: c.address, Data: data}, "latest")
	if err != nil {
		return nil, errs.E(errs.ContractRead, signature, err)
	}
	v, err := DecodeUint(out)
	if err != nil {
		return nil, errs.E(errs.ContractRead, signature, err)
	}
	return v, nil
}

// PublicMintEnd is the last instant of the flat-rate sale.
func (c *Contract) PublicMintEnd(ctx context.Context) (time.Time, error) {
	v, err := c.readUint(ctx, sigPublicMintingEnd)
	if err != nil {
		return time.Time{}, err
	}
	if !v.IsInt64() {
		return time.Time{}, errs.New(errs.ContractRead, sigPublicMintingEnd, "timestamp out of range")
	}
	return time.Unix(v.Int64(), 0), nil
}

// InitialPrice is the public sale price in wei.
func (c *Contract) InitialPrice(ctx context.Context) (*big.Int, error) {
	return c.readUint(ctx, sigInitialMintPrice)
}

// RolePrice is the price in wei for a role tier. The contract rejects tiers
// it does not know.
func (c *Contract) RolePrice(ctx context.Context, tier int) (*big.Int, error) {
	return c.readUint(ctx, sigRolePrices, big.NewInt(int64(tier)))
}

// ChainID reports the network the RPC endpoint serves.
func (c *Contract) ChainID(ctx context.Context) (*big.Int, error) {
	out, err := c.call(ctx, "eth_chainId")
	if err != nil {
		return nil, errs.E(errs.ContractRead, "eth_chainId", err)
	}
	id, ok := new(big.Int).SetString(strings.TrimPrefix(out, "0x"), 16)
	if !ok {
		return nil, errs.New(errs.ContractRead, "eth_chainId", fmt.Sprintf("malformed chain id %q", out))
	}
	return id, nil
}
