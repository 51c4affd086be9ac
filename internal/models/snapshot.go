package models

import (
	"encoding/json"
	"time"
)

// ABISnapshot is a recorded version of one registry entry.
type ABISnapshot struct {
	ID            int64           `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	Source        string          `json:"source"`
	ContentHash   string          `json:"contentHash"`
	FragmentCount int             `json:"fragmentCount"`
	ABIJSON       json.RawMessage `json:"abi"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SameContent reports whether s and previous hold the same ABI.
func (s *ABISnapshot) SameContent(previous *ABISnapshot) bool {
	return previous != nil && previous.ContentHash == s.ContentHash
}
