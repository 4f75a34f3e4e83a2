package types

import (
	"sort"

	"github.com/google/uuid"
)

// NewID generates a new UUID v7 for entity identities. UUID v7 is
// time-ordered, so lexicographic comparison on id columns gives
// creation-order cursor pagination for free.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// IDSet is an unordered set of entity identities. The zero value (nil) is
// an empty set usable for reads; call NewIDSet or Add on a made map to
// build one.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids, dropping duplicates.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set. Idempotent.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Remove deletes id from the set. Removing a non-member is a no-op.
func (s IDSet) Remove(id string) {
	delete(s, id)
}

// Sorted returns the members in lexicographic order. Returns an empty
// slice (not nil) for an empty set so JSON output is always an array.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
