package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is a read-only JSON-RPC client.
type Client struct {
	rpc     *ethclient.Client
	chainID *big.Int
}

func NewClient(ctx context.Context, rpcURL string, expectedChainID int64) (*Client, error) {
	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}

	id, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if expectedChainID != 0 && id.Int64() != expectedChainID {
		rpc.Close()
		return nil, fmt.Errorf("chain id mismatch: node reports %s, expected %d", id, expectedChainID)
	}

	return &Client{rpc: rpc, chainID: id}, nil
}

func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }
func (c *Client) Close()            { c.rpc.Close() }

// CallContract performs a read-only eth_call and returns the raw result.
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := map[string]interface{}{
		"to":   to.Hex(),
		"data": fmt.Sprintf("0x%x", data),
	}
	var result string
	err := c.rpc.Client().CallContext(ctx, &result, "eth_call", msg, "latest")
	if err != nil {
		return nil, err
	}
	return common.FromHex(result), nil
}
