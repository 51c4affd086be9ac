package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const erc20JSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"_owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"Approval","inputs":[
	 {"name":"owner","type":"address","indexed":true},
	 {"name":"spender","type":"address","indexed":true},
	 {"name":"value","type":"uint256","indexed":false}]}
]`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// reset flag state shared between runs
	abiDir, showFragments, showType = "", false, ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func overrideDir(t *testing.T, file, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, sym := range []string{"TOKEN_MANAGER_ABI", "ERC20_ABI", "HELPER3_ABI", "PANCAKE_ROUTER_ABI", "fingerprint"} {
		if !strings.Contains(out, sym) {
			t.Fatalf("list output missing %s:\n%s", sym, out)
		}
	}
}

func TestShow_Builtin(t *testing.T) {
	out, err := run(t, "show", "pancake_router_abi")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected [], got %q", out)
	}

	out, err = run(t, "show", "helper3", "--fragments")
	if err != nil {
		t.Fatalf("show --fragments: %v", err)
	}
	if !strings.Contains(out, "no fragments") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestShow_Override(t *testing.T) {
	dir := overrideDir(t, "erc20.json", erc20JSON)

	out, err := run(t, "--dir", dir, "show", "erc20", "--type", "event")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Approval(address,address,uint256)") {
		t.Fatalf("missing event signature:\n%s", out)
	}
	if strings.Contains(out, "balanceOf") {
		t.Fatalf("type filter ignored:\n%s", out)
	}

	out, err = run(t, "--dir", dir, "methods", "ERC20_ABI")
	if err != nil {
		t.Fatalf("methods: %v", err)
	}
	// keccak("balanceOf(address)")[:4]
	if !strings.Contains(out, "0x70a08231") {
		t.Fatalf("missing balanceOf selector:\n%s", out)
	}
}

func TestShow_UnknownName(t *testing.T) {
	if _, err := run(t, "show", "vault"); err == nil {
		t.Fatal("expected error for unknown ABI")
	}
}

func TestVerify(t *testing.T) {
	dir := overrideDir(t, "erc20.json", erc20JSON)
	out, err := run(t, "--dir", dir, "verify")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "1 methods, 1 events") {
		t.Fatalf("unexpected verify output:\n%s", out)
	}

	bad := overrideDir(t, "token_manager.json", `[{"type":"bogus"}]`)
	if _, err := run(t, "--dir", bad, "verify"); err == nil {
		t.Fatal("expected verify to fail on invalid ABI")
	}
}
