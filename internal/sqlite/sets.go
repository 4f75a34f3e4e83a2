// JSON encoding for set-valued task columns. Sets are persisted as sorted
// string arrays so identical sets always produce identical column text.
package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// encodeSet serializes an id set to its column representation.
func encodeSet(s types.IDSet) (string, error) {
	raw, err := json.Marshal(s.Sorted())
	if err != nil {
		return "", fmt.Errorf("encode id set: %w", err)
	}
	return string(raw), nil
}

// decodeSet parses a set column back into an id set. An empty column is
// an empty set.
func decodeSet(raw string) (types.IDSet, error) {
	if raw == "" {
		return types.NewIDSet(), nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode id set: %w", err)
	}
	return types.NewIDSet(ids...), nil
}
