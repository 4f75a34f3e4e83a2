// Notification table accessor. Rows are disposable projections of a
// task's fan-out; every write here is either insert-if-absent or
// existence-checked, never version-checked.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// Compile-time interface check: NotificationTable must implement
// NotificationStore.
var _ types.NotificationStore = (*NotificationTable)(nil)

// NotificationTable implements the per-recipient ack record operations.
type NotificationTable struct {
	backend *Backend
}

// Create inserts a notification row if absent.
func (nt *NotificationTable) Create(ctx context.Context, n *types.Notification) error {
	applied, err := nt.backend.execCond(ctx,
		`INSERT INTO notification (uid, tid, sender, status, message)
		VALUES (?,?,?,?,?) ON CONFLICT DO NOTHING`,
		n.RecipientID, n.TaskID, n.OwnerID, int64(n.Status), n.Message,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if !applied {
		return fmt.Errorf("notification %s/%s/%s already exists: %w",
			n.RecipientID, n.TaskID, n.OwnerID, types.ErrConflict)
	}
	return nil
}

// Get reads one notification row.
func (nt *NotificationTable) Get(ctx context.Context, recipientID, taskID, ownerID string) (*types.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	n := &types.Notification{}
	var status int64
	err := nt.backend.db.QueryRowContext(ctx,
		"SELECT uid, tid, sender, status, message FROM notification WHERE uid=? AND tid=? AND sender=? LIMIT 1",
		recipientID, taskID, ownerID,
	).Scan(&n.RecipientID, &n.TaskID, &n.OwnerID, &status, &n.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s/%s/%s: %w", recipientID, taskID, ownerID, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n.Status = types.Status(status)
	return n, nil
}

// SetAck overwrites the recipient's ack status and message. The write is
// existence-checked only; a vanished row is ErrConflict.
func (nt *NotificationTable) SetAck(ctx context.Context, recipientID, taskID, ownerID string, status types.Status, message string) error {
	applied, err := nt.backend.execCond(ctx,
		"UPDATE notification SET status=?, message=? WHERE uid=? AND tid=? AND sender=?",
		int64(status), message, recipientID, taskID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if !applied {
		return fmt.Errorf("notification %s/%s/%s vanished: %w", recipientID, taskID, ownerID, types.ErrConflict)
	}
	return nil
}

// Delete removes one notification row. Deleting an absent row succeeds.
func (nt *NotificationTable) Delete(ctx context.Context, recipientID, taskID, ownerID string) error {
	_, err := nt.backend.db.ExecContext(ctx,
		"DELETE FROM notification WHERE uid=? AND tid=? AND sender=?",
		recipientID, taskID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// DeleteByTask purges every notification row for a task, via the task-id
// index. Used at task teardown.
func (nt *NotificationTable) DeleteByTask(ctx context.Context, taskID string) error {
	_, err := nt.backend.db.ExecContext(ctx, "DELETE FROM notification WHERE tid=?", taskID)
	if err != nil {
		return fmt.Errorf("purge notifications for task %s: %w", taskID, err)
	}
	return nil
}

// DeleteByRecipient purges a recipient's notifications, optionally
// narrowed to one ack status. Unconditional and not reversible.
func (nt *NotificationTable) DeleteByRecipient(ctx context.Context, recipientID string, status *types.Status) error {
	var err error
	if status != nil {
		_, err = nt.backend.db.ExecContext(ctx,
			"DELETE FROM notification WHERE uid=? AND status=?", recipientID, int64(*status))
	} else {
		_, err = nt.backend.db.ExecContext(ctx,
			"DELETE FROM notification WHERE uid=?", recipientID)
	}
	if err != nil {
		return fmt.Errorf("purge notifications for recipient %s: %w", recipientID, err)
	}
	return nil
}

// List scans a recipient's notifications newest-first by task id with
// descending cursor pagination.
func (nt *NotificationTable) List(ctx context.Context, recipientID string, pageSize int, pageToken string, status *types.Status) ([]*types.Notification, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := "SELECT uid, tid, sender, status, message FROM notification WHERE uid=?"
	args := []any{recipientID}
	if status != nil {
		query += " AND status=?"
		args = append(args, int64(*status))
	}
	if pageToken != "" {
		query += " AND tid<?"
		args = append(args, pageToken)
	}
	query += " ORDER BY tid DESC LIMIT ?"
	args = append(args, pageSize)

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	rows, err := nt.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*types.Notification
	for rows.Next() {
		n := &types.Notification{}
		var st int64
		if err := rows.Scan(&n.RecipientID, &n.TaskID, &n.OwnerID, &st, &n.Message); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Status = types.Status(st)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}
