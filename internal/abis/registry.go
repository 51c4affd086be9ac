package abis

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrUnknownABI = errors.New("unknown ABI")
	ErrInvalidABI = errors.New("invalid ABI")
)

// SourceBuiltin marks an entry taken from the compiled-in constants.
const SourceBuiltin = "builtin"

// Entry is one ABI held by a Registry.
type Entry struct {
	Name          Name        `json:"name"`
	Source        string      `json:"source"`
	JSON          string      `json:"-"`
	Hash          common.Hash `json:"hash"`
	FragmentCount int         `json:"fragmentCount"`

	parsed abi.ABI
}

// Symbol is the exported symbol of the entry.
func (e Entry) Symbol() string { return e.Name.Symbol() }

// Registry maps each Name to its ABI. A Registry is never modified after
// it is built, so it is safe for concurrent use.
type Registry struct {
	entries map[Name]Entry
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the registry of built-in ABIs. Every call returns the
// same instance.
func Default() *Registry {
	return defaultRegistry()
}

// New builds a registry from the built-in ABI constants.
func New() (*Registry, error) {
	r := &Registry{entries: make(map[Name]Entry, len(names))}
	for _, n := range names {
		e, err := newEntry(n, SourceBuiltin, n.builtin())
		if err != nil {
			return nil, err
		}
		r.entries[n] = e
	}
	return r, nil
}

// Load builds a registry from the built-in ABIs and replaces each one for
// which dir holds an override file (see Name.FileName). An empty dir
// yields the built-ins.
func Load(dir string) (*Registry, error) {
	r, err := New()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return r, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ABI dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ABI dir: %s is not a directory", dir)
	}

	for _, n := range names {
		path := filepath.Join(dir, n.FileName())
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		e, err := newEntry(n, path, string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r.entries[n] = e
	}
	return r, nil
}

func newEntry(n Name, source, data string) (Entry, error) {
	data = strings.TrimSpace(data)
	frags, err := decodeFragments(data)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", n, err)
	}
	normalized, err := withDefaultTypes(data)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", n, err)
	}
	parsed, err := abi.JSON(bytes.NewReader(normalized))
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w: %v", n, ErrInvalidABI, err)
	}
	return Entry{
		Name:          n,
		Source:        source,
		JSON:          data,
		Hash:          crypto.Keccak256Hash([]byte(data)),
		FragmentCount: len(frags),
		parsed:        parsed,
	}, nil
}

// Entry returns the entry for n.
func (r *Registry) Entry(n Name) (Entry, error) {
	e, ok := r.entries[n]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownABI, string(n))
	}
	return e, nil
}

// Entries returns all entries in name order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, r.entries[n])
	}
	return out
}

// JSON returns the ABI JSON for n.
func (r *Registry) JSON(n Name) (string, error) {
	e, err := r.Entry(n)
	if err != nil {
		return "", err
	}
	return e.JSON, nil
}

// Fragments decodes the ABI for n. Each call returns a new slice; changing
// it does not affect the registry.
func (r *Registry) Fragments(n Name) ([]Fragment, error) {
	e, err := r.Entry(n)
	if err != nil {
		return nil, err
	}
	return decodeFragments(e.JSON)
}

// ABI returns the parsed go-ethereum ABI for n. The returned value shares
// its method and event maps with the registry and must not be modified.
func (r *Registry) ABI(n Name) (abi.ABI, error) {
	e, err := r.Entry(n)
	if err != nil {
		return abi.ABI{}, err
	}
	return e.parsed, nil
}

// Fingerprint hashes the content hashes of all entries in name order.
func (r *Registry) Fingerprint() common.Hash {
	buf := make([]byte, 0, len(names)*common.HashLength)
	for _, n := range names {
		h := r.entries[n].Hash
		buf = append(buf, h[:]...)
	}
	return crypto.Keccak256Hash(buf)
}

// Diff returns the names whose content differs between r and other.
func (r *Registry) Diff(other *Registry) []Name {
	var out []Name
	for _, n := range names {
		if other == nil || r.entries[n].Hash != other.entries[n].Hash {
			out = append(out, n)
		}
	}
	return out
}
