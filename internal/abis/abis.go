// Package abis holds the contract ABIs used by the four.meme tooling:
// the TokenManager, a generic ERC20 token, the Helper3 utility contract and
// the PancakeSwap router.
//
// Each ABI is kept as a JSON constant so it can never be modified at
// runtime. The built-in values are empty sequences until the real ABI JSON
// is supplied; a Registry can overlay them with files from a directory.
package abis

import (
	"fmt"
	"strings"
)

// ABI JSON for each contract. Every value is a JSON array of fragment
// descriptors.
const (
	// TokenManagerABI is the four.meme TokenManager ABI.
	TokenManagerABI = `[]`

	// ERC20ABI is the generic ERC20 token ABI.
	ERC20ABI = `[]`

	// Helper3ABI is the four.meme Helper3 ABI.
	Helper3ABI = `[]`

	// PancakeRouterABI is the PancakeSwap router ABI.
	PancakeRouterABI = `[]`
)

// Name identifies one of the registered ABIs.
type Name string

const (
	TokenManager  Name = "TokenManager"
	ERC20         Name = "ERC20"
	Helper3       Name = "Helper3"
	PancakeRouter Name = "PancakeRouter"
)

var names = [...]Name{TokenManager, ERC20, Helper3, PancakeRouter}

// Names returns every registered name in declaration order.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names[:])
	return out
}

// Symbol returns the exported symbol for the ABI, e.g. TOKEN_MANAGER_ABI.
func (n Name) Symbol() string {
	switch n {
	case TokenManager:
		return "TOKEN_MANAGER_ABI"
	case ERC20:
		return "ERC20_ABI"
	case Helper3:
		return "HELPER3_ABI"
	case PancakeRouter:
		return "PANCAKE_ROUTER_ABI"
	}
	return ""
}

// FileName is the override file read by Load for this ABI.
func (n Name) FileName() string {
	switch n {
	case TokenManager:
		return "token_manager.json"
	case ERC20:
		return "erc20.json"
	case Helper3:
		return "helper3.json"
	case PancakeRouter:
		return "pancake_router.json"
	}
	return ""
}

func (n Name) builtin() string {
	switch n {
	case TokenManager:
		return TokenManagerABI
	case ERC20:
		return ERC20ABI
	case Helper3:
		return Helper3ABI
	case PancakeRouter:
		return PancakeRouterABI
	}
	return ""
}

// ParseName resolves a name or exported symbol, ignoring case.
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	for _, n := range names {
		if strings.EqualFold(s, string(n)) || strings.EqualFold(s, n.Symbol()) {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownABI, s)
}
