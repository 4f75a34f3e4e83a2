package types

import "errors"

// Store operation errors. The storage layer returns these as sentinels;
// call sites wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound reports that the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports that a conditional write's precondition failed:
	// a stale updated_at token, or an insert against an existing key.
	// The caller must re-fetch current state before retrying.
	ErrConflict = errors.New("conflict, please retry with fresh state")

	// ErrPermissionDenied reports that a voter is outside the task's
	// approver and assignee membership.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidField reports an unrecognized field name in a projection
	// or scalar update request.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidStatus reports a status value outside {-1, 0, 1}.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPageToken reports a page token that does not decode to an
	// entity id.
	ErrInvalidPageToken = errors.New("invalid page token")

	// ErrValidation reports an out-of-range input value.
	ErrValidation = errors.New("validation failed")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
