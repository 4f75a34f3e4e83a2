package types

import "context"

// Store is the backend-agnostic storage entry point. Callers attach with a
// Config, obtain the per-entity stores, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the data directory if it does not exist. Returns
	// ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, entity store operations return
	// ErrStoreDetached.
	Detach() error

	// Tasks returns the task store.
	Tasks() (TaskStore, error)

	// Notifications returns the per-recipient notification store.
	Notifications() (NotificationStore, error)

	// GroupNotifications returns the group notification store.
	GroupNotifications() (GroupNotificationStore, error)
}

// TaskStore provides the task aggregate operations. Every mutation
// re-reads the fields it needs immediately before deciding to write; no
// row state is cached across calls.
type TaskStore interface {
	// Create inserts a new task if no row exists at its identity.
	// Returns ErrConflict on an identity collision; the caller should
	// retry with a fresh id, not the same one.
	Create(ctx context.Context, task *Task) error

	// Get reads a task projected to the requested fields. The gid,
	// status, and kind columns are always included. Returns ErrNotFound
	// if the row is absent.
	Get(ctx context.Context, ownerID, taskID string, fields FieldSet) (*Task, error)

	// UpdateScalars applies a duedate/message patch under the optimistic
	// version token. Returns the new updated_at on success so the caller
	// can chain further updates, or ErrConflict when the token is stale.
	UpdateScalars(ctx context.Context, ownerID, taskID string, patch TaskPatch, expectedUpdatedAt int64) (int64, error)

	// UpdateAssignees removes then adds assignee ids, each phase under
	// the version token. If removal succeeds and addition fails the set
	// is left partially updated; there is no rollback.
	UpdateAssignees(ctx context.Context, ownerID, taskID string, remove, add []string, expectedUpdatedAt int64) (int64, error)

	// Resolve casts an approve vote: moves voter from the rejected set
	// to the resolved set, then evaluates the approval rule and writes
	// status=approved when it holds. Returns ErrPermissionDenied when
	// voter is outside a non-empty membership.
	Resolve(ctx context.Context, ownerID, taskID, voter string) error

	// Reject is the mirror of Resolve for the rejected outcome.
	Reject(ctx context.Context, ownerID, taskID, voter string) error

	// Delete removes the task row. Returns false (not an error) when the
	// row is already gone.
	Delete(ctx context.Context, ownerID, taskID string) (bool, error)

	// List scans an owner's tasks newest-first. pageToken is the
	// exclusive upper bound id from a previous page; status narrows the
	// scan when non-nil.
	List(ctx context.Context, ownerID string, fields FieldSet, pageSize int, pageToken string, status *Status) ([]*Task, error)
}

// NotificationStore provides per-recipient ack record operations.
type NotificationStore interface {
	// Create inserts a notification row if absent. Returns ErrConflict
	// when the row already exists.
	Create(ctx context.Context, n *Notification) error

	// Get reads one notification. Returns ErrNotFound if absent.
	Get(ctx context.Context, recipientID, taskID, ownerID string) (*Notification, error)

	// SetAck overwrites the recipient's ack status and message. The
	// write is existence-checked, not version-checked; ErrConflict means
	// the row vanished.
	SetAck(ctx context.Context, recipientID, taskID, ownerID string, status Status, message string) error

	// Delete removes one notification row unconditionally.
	Delete(ctx context.Context, recipientID, taskID, ownerID string) error

	// DeleteByTask purges every notification row for a task. Used at
	// task teardown.
	DeleteByTask(ctx context.Context, taskID string) error

	// DeleteByRecipient purges a recipient's notifications, optionally
	// narrowed to one ack status.
	DeleteByRecipient(ctx context.Context, recipientID string, status *Status) error

	// List scans a recipient's notifications newest-first by task id.
	List(ctx context.Context, recipientID string, pageSize int, pageToken string, status *Status) ([]*Notification, error)
}

// GroupNotificationStore provides the group-visibility records. CRUD only;
// no voting semantics.
type GroupNotificationStore interface {
	Create(ctx context.Context, n *GroupNotification) error
	Get(ctx context.Context, groupID, taskID, ownerID string) (*GroupNotification, error)
	Delete(ctx context.Context, groupID, taskID, ownerID string) error
	List(ctx context.Context, groupID string, pageSize int, pageToken string, role *int8) ([]*GroupNotification, error)
}
