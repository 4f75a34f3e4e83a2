package types

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// DefaultPageSize applies when a caller does not specify a page size.
const DefaultPageSize = 10

// EncodePageToken packs the id of a page's last row into an opaque
// continuation token. The token is only handed out when a full page was
// returned; decoding it back yields the exclusive upper bound for the
// next descending scan.
func EncodePageToken(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// DecodePageToken unpacks a continuation token into the entity id it
// carries. An empty token means "start from the newest row".
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	id := string(raw)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: not an entity id", ErrInvalidPageToken)
	}
	return id, nil
}
