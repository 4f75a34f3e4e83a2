package types

import "fmt"

// Field names a task column for projection. Callers request a subset of
// fields; unknown names are rejected at the boundary rather than silently
// ignored.
type Field string

const (
	FieldOwnerID   Field = "uid"
	FieldTaskID    Field = "id"
	FieldGroupID   Field = "gid"
	FieldStatus    Field = "status"
	FieldKind      Field = "kind"
	FieldCreatedAt Field = "created_at"
	FieldUpdatedAt Field = "updated_at"
	FieldDueDate   Field = "duedate"
	FieldThreshold Field = "threshold"
	FieldApprovers Field = "approvers"
	FieldAssignees Field = "assignees"
	FieldResolved  Field = "resolved"
	FieldRejected  Field = "rejected"
	FieldMessage   Field = "message"
	FieldPayload   Field = "payload"
)

// taskFieldOrder is the canonical column order for queries, matching the
// schema layout. Projections preserve this order so generated SQL is
// deterministic.
var taskFieldOrder = []Field{
	FieldOwnerID, FieldTaskID, FieldGroupID, FieldStatus, FieldKind,
	FieldCreatedAt, FieldUpdatedAt, FieldDueDate, FieldThreshold,
	FieldApprovers, FieldAssignees, FieldResolved, FieldRejected,
	FieldMessage, FieldPayload,
}

var validTaskFields = func() map[Field]bool {
	m := make(map[Field]bool, len(taskFieldOrder))
	for _, f := range taskFieldOrder {
		m[f] = true
	}
	return m
}()

// FieldSet is a task column projection. A nil or empty FieldSet selects
// every column.
type FieldSet map[Field]struct{}

// AllTaskFields returns a projection of every task column.
func AllTaskFields() FieldSet {
	fs := make(FieldSet, len(taskFieldOrder))
	for _, f := range taskFieldOrder {
		fs[f] = struct{}{}
	}
	return fs
}

// ParseFields builds a FieldSet from raw field names. Unknown names are a
// validation error; an empty list selects all columns.
func ParseFields(names []string) (FieldSet, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fs := make(FieldSet, len(names))
	for _, name := range names {
		f := Field(name)
		if !validTaskFields[f] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, name)
		}
		fs[f] = struct{}{}
	}
	return fs, nil
}

// Has reports whether f is selected. An empty projection selects all.
func (fs FieldSet) Has(f Field) bool {
	if len(fs) == 0 {
		return true
	}
	_, ok := fs[f]
	return ok
}

// WithDefaults returns a copy of the projection with the always-included
// columns added: gid, status, kind, and the primary key when withPK is
// set. An empty projection stays empty (all columns).
func (fs FieldSet) WithDefaults(withPK bool) FieldSet {
	if len(fs) == 0 {
		return nil
	}
	out := make(FieldSet, len(fs)+5)
	for f := range fs {
		out[f] = struct{}{}
	}
	out[FieldGroupID] = struct{}{}
	out[FieldStatus] = struct{}{}
	out[FieldKind] = struct{}{}
	if withPK {
		out[FieldOwnerID] = struct{}{}
		out[FieldTaskID] = struct{}{}
	}
	return out
}

// Columns returns the selected column names in canonical order. An empty
// projection returns every column.
func (fs FieldSet) Columns() []string {
	cols := make([]string, 0, len(taskFieldOrder))
	for _, f := range taskFieldOrder {
		if fs.Has(f) {
			cols = append(cols, string(f))
		}
	}
	return cols
}
