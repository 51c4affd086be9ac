package abis

import (
	"errors"
	"testing"
)

func TestBuiltinBindings(t *testing.T) {
	bindings := map[string]string{
		"TOKEN_MANAGER_ABI":  TokenManagerABI,
		"ERC20_ABI":          ERC20ABI,
		"HELPER3_ABI":        Helper3ABI,
		"PANCAKE_ROUTER_ABI": PancakeRouterABI,
	}
	for sym, data := range bindings {
		frags, err := decodeFragments(data)
		if err != nil {
			t.Fatalf("%s: %v", sym, err)
		}
		if frags == nil {
			t.Fatalf("%s: expected a non-nil sequence", sym)
		}
		if len(frags) != 0 {
			t.Fatalf("%s: expected empty sequence, got %d fragments", sym, len(frags))
		}
	}
}

func TestNames(t *testing.T) {
	got := Names()
	want := []Name{TokenManager, ERC20, Helper3, PancakeRouter}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("name %d: got %s, want %s", i, got[i], want[i])
		}
	}

	// mutating the returned slice must not leak
	got[0] = "Bogus"
	if Names()[0] != TokenManager {
		t.Fatal("Names() returned shared backing array")
	}
}

func TestSymbols(t *testing.T) {
	cases := map[Name]string{
		TokenManager:  "TOKEN_MANAGER_ABI",
		ERC20:         "ERC20_ABI",
		Helper3:       "HELPER3_ABI",
		PancakeRouter: "PANCAKE_ROUTER_ABI",
	}
	for n, sym := range cases {
		if n.Symbol() != sym {
			t.Fatalf("%s.Symbol() = %q, want %q", n, n.Symbol(), sym)
		}
	}
	if Name("Nope").Symbol() != "" {
		t.Fatal("unknown name should have no symbol")
	}
}

func TestParseName(t *testing.T) {
	cases := []struct {
		in   string
		want Name
	}{
		{"TokenManager", TokenManager},
		{"tokenmanager", TokenManager},
		{"TOKEN_MANAGER_ABI", TokenManager},
		{"erc20", ERC20},
		{"ERC20_ABI", ERC20},
		{" helper3 ", Helper3},
		{"pancake_router_abi", PancakeRouter},
	}
	for _, tc := range cases {
		got, err := ParseName(tc.in)
		if err != nil {
			t.Fatalf("ParseName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseName(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "router", "ERC721_ABI"} {
		if _, err := ParseName(bad); !errors.Is(err, ErrUnknownABI) {
			t.Fatalf("ParseName(%q): expected ErrUnknownABI, got %v", bad, err)
		}
	}
}
