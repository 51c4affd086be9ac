package ethereum

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kjannette/fourmeme-abis/internal/abis"
)

var ErrMethodNotFound = errors.New("method not found in ABI")

// Caller executes eth_call. *Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Contract binds a registry ABI to a deployed address.
type Contract struct {
	name    abis.Name
	address common.Address
	abi     abi.ABI
	caller  Caller
}

func NewContract(reg *abis.Registry, name abis.Name, address string, caller Caller) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%s: invalid address %q", name, address)
	}
	parsed, err := reg.ABI(name)
	if err != nil {
		return nil, err
	}
	return &Contract{
		name:    name,
		address: common.HexToAddress(address),
		abi:     parsed,
		caller:  caller,
	}, nil
}

func (c *Contract) Name() abis.Name         { return c.name }
func (c *Contract) Address() common.Address { return c.address }

func (c *Contract) HasMethod(method string) bool {
	_, ok := c.abi.Methods[method]
	return ok
}

// Methods returns the ABI's method names, sorted.
func (c *Contract) Methods() []string {
	out := make([]string, 0, len(c.abi.Methods))
	for m := range c.abi.Methods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Pack encodes calldata for method.
func (c *Contract) Pack(method string, args ...interface{}) ([]byte, error) {
	if !c.HasMethod(method) {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, ErrMethodNotFound)
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s.%s: %w", c.name, method, err)
	}
	return data, nil
}

// Call runs a read-only call of method and decodes its outputs.
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	if c.caller == nil {
		return nil, fmt.Errorf("%s.%s: no RPC client configured", c.name, method)
	}

	result, err := c.caller.CallContract(ctx, c.address, data)
	if err != nil {
		return nil, fmt.Errorf("%s.%s call: %w", c.name, method, err)
	}

	values, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("unpack %s.%s: %w", c.name, method, err)
	}
	return values, nil
}

// Addresses are the deployed contract addresses bound by NewContracts.
type Addresses struct {
	TokenManager  string
	Helper3       string
	PancakeRouter string
}

// Contracts holds the bindings for the fixed-address four.meme contracts.
// ERC20 tokens are bound on demand with ERC20At.
type Contracts struct {
	TokenManager  *Contract
	Helper3       *Contract
	PancakeRouter *Contract

	reg    *abis.Registry
	addrs  Addresses
	caller Caller
}

func NewContracts(reg *abis.Registry, addrs Addresses, caller Caller) (*Contracts, error) {
	tm, err := NewContract(reg, abis.TokenManager, addrs.TokenManager, caller)
	if err != nil {
		return nil, err
	}
	h3, err := NewContract(reg, abis.Helper3, addrs.Helper3, caller)
	if err != nil {
		return nil, err
	}
	router, err := NewContract(reg, abis.PancakeRouter, addrs.PancakeRouter, caller)
	if err != nil {
		return nil, err
	}
	return &Contracts{
		TokenManager:  tm,
		Helper3:       h3,
		PancakeRouter: router,
		reg:           reg,
		addrs:         addrs,
		caller:        caller,
	}, nil
}

// ERC20At binds the ERC20 ABI to a token address.
func (cs *Contracts) ERC20At(token string) (*Contract, error) {
	return NewContract(cs.reg, abis.ERC20, token, cs.caller)
}

// ByName returns the fixed-address binding for name.
func (cs *Contracts) ByName(name abis.Name) (*Contract, error) {
	switch name {
	case abis.TokenManager:
		return cs.TokenManager, nil
	case abis.Helper3:
		return cs.Helper3, nil
	case abis.PancakeRouter:
		return cs.PancakeRouter, nil
	}
	return nil, fmt.Errorf("%s has no fixed address; bind it with ERC20At", name)
}

// Rebind returns bindings for the same addresses and caller over reg.
// The receiver is left untouched.
func (cs *Contracts) Rebind(reg *abis.Registry) (*Contracts, error) {
	return NewContracts(reg, cs.addrs, cs.caller)
}
