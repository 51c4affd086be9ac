package abis

import (
	"encoding/json"
	"fmt"
)

// Fragment types accepted in an ABI.
const (
	TypeFunction    = "function"
	TypeEvent       = "event"
	TypeError       = "error"
	TypeConstructor = "constructor"
	TypeFallback    = "fallback"
	TypeReceive     = "receive"
)

// Fragment describes one function, event, error or constructor of an ABI.
type Fragment struct {
	Type            string  `json:"type"`
	Name            string  `json:"name,omitempty"`
	Inputs          []Param `json:"inputs,omitempty"`
	Outputs         []Param `json:"outputs,omitempty"`
	StateMutability string  `json:"stateMutability,omitempty"`
	Anonymous       bool    `json:"anonymous,omitempty"`
}

// Param is a typed argument or return value.
type Param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType string  `json:"internalType,omitempty"`
	Indexed      bool    `json:"indexed,omitempty"`
	Components   []Param `json:"components,omitempty"`
}

// Signature returns the canonical form, e.g. transfer(address,uint256).
func (f Fragment) Signature() string {
	out := f.Name + "("
	for i, p := range f.Inputs {
		if i > 0 {
			out += ","
		}
		out += p.canonicalType()
	}
	return out + ")"
}

func (p Param) canonicalType() string {
	if len(p.Components) == 0 || len(p.Type) < 5 || p.Type[:5] != "tuple" {
		return p.Type
	}
	out := "("
	for i, c := range p.Components {
		if i > 0 {
			out += ","
		}
		out += c.canonicalType()
	}
	// keep array suffixes such as tuple[] or tuple[2]
	return out + ")" + p.Type[5:]
}

// ValidFragmentType reports whether t is a recognized fragment type.
func ValidFragmentType(t string) bool {
	switch t {
	case TypeFunction, TypeEvent, TypeError, TypeConstructor, TypeFallback, TypeReceive:
		return true
	}
	return false
}

// decodeFragments parses ABI JSON into a freshly allocated, non-nil slice.
// A fragment without "type" is a function, as older compilers emit it.
func decodeFragments(data string) ([]Fragment, error) {
	raw, err := splitFragments(data)
	if err != nil {
		return nil, err
	}

	out := make([]Fragment, 0, len(raw))
	for i, r := range raw {
		var f Fragment
		if err := json.Unmarshal(r, &f); err != nil {
			return nil, fmt.Errorf("%w: fragment %d: %v", ErrInvalidABI, i, err)
		}
		if f.Type == "" {
			f.Type = TypeFunction
		}
		if !ValidFragmentType(f.Type) {
			return nil, fmt.Errorf("%w: fragment %d has unknown type %q", ErrInvalidABI, i, f.Type)
		}
		out = append(out, f)
	}
	return out, nil
}

// splitFragments requires data to be a JSON array. "null" unmarshals into
// a nil slice without error, so it is rejected explicitly.
func splitFragments(data string) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array: %v", ErrInvalidABI, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not a JSON array: got %s", ErrInvalidABI, data)
	}
	for i, r := range raw {
		if len(r) == 0 || r[0] != '{' {
			return nil, fmt.Errorf("%w: fragment %d is not an object", ErrInvalidABI, i)
		}
	}
	return raw, nil
}

// withDefaultTypes returns data with "type":"function" filled in on every
// fragment that omits it. Other fields are kept verbatim. go-ethereum
// rejects fragments without a type.
func withDefaultTypes(data string) ([]byte, error) {
	raw, err := splitFragments(data)
	if err != nil {
		return nil, err
	}

	patched := false
	objs := make([]map[string]json.RawMessage, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &objs[i]); err != nil {
			return nil, fmt.Errorf("%w: fragment %d: %v", ErrInvalidABI, i, err)
		}
		if t, ok := objs[i]["type"]; !ok || string(t) == `""` {
			objs[i]["type"] = json.RawMessage(`"` + TypeFunction + `"`)
			patched = true
		}
	}
	if !patched {
		return []byte(data), nil
	}
	return json.Marshal(objs)
}

// FilterFragments returns the fragments of the given type. An empty type
// returns a copy of all fragments.
func FilterFragments(frags []Fragment, typ string) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if typ == "" || f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}
