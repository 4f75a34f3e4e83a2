// Group notification table accessor. Existence records only; shares the
// conditional-insert and paged-scan shape of the other two tables.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// Compile-time interface check.
var _ types.GroupNotificationStore = (*GroupNotificationTable)(nil)

// GroupNotificationTable implements the group-visibility records.
type GroupNotificationTable struct {
	backend *Backend
}

// Create inserts a group notification row if absent.
func (gt *GroupNotificationTable) Create(ctx context.Context, n *types.GroupNotification) error {
	applied, err := gt.backend.execCond(ctx,
		`INSERT INTO group_notification (gid, tid, sender, role)
		VALUES (?,?,?,?) ON CONFLICT DO NOTHING`,
		n.GroupID, n.TaskID, n.OwnerID, int64(n.Role),
	)
	if err != nil {
		return fmt.Errorf("insert group notification: %w", err)
	}
	if !applied {
		return fmt.Errorf("group notification %s/%s/%s already exists: %w",
			n.GroupID, n.TaskID, n.OwnerID, types.ErrConflict)
	}
	return nil
}

// Get reads one group notification row.
func (gt *GroupNotificationTable) Get(ctx context.Context, groupID, taskID, ownerID string) (*types.GroupNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	n := &types.GroupNotification{}
	var role int64
	err := gt.backend.db.QueryRowContext(ctx,
		"SELECT gid, tid, sender, role FROM group_notification WHERE gid=? AND tid=? AND sender=? LIMIT 1",
		groupID, taskID, ownerID,
	).Scan(&n.GroupID, &n.TaskID, &n.OwnerID, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group notification %s/%s/%s: %w", groupID, taskID, ownerID, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group notification: %w", err)
	}
	n.Role = int8(role)
	return n, nil
}

// Delete removes one group notification row. Deleting an absent row
// succeeds.
func (gt *GroupNotificationTable) Delete(ctx context.Context, groupID, taskID, ownerID string) error {
	_, err := gt.backend.db.ExecContext(ctx,
		"DELETE FROM group_notification WHERE gid=? AND tid=? AND sender=?",
		groupID, taskID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete group notification: %w", err)
	}
	return nil
}

// List scans a group's notifications newest-first by task id, optionally
// narrowed to one role.
func (gt *GroupNotificationTable) List(ctx context.Context, groupID string, pageSize int, pageToken string, role *int8) ([]*types.GroupNotification, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := "SELECT gid, tid, sender, role FROM group_notification WHERE gid=?"
	args := []any{groupID}
	if role != nil {
		query += " AND role=?"
		args = append(args, int64(*role))
	}
	if pageToken != "" {
		query += " AND tid<?"
		args = append(args, pageToken)
	}
	query += " ORDER BY tid DESC LIMIT ?"
	args = append(args, pageSize)

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	rows, err := gt.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list group notifications: %w", err)
	}
	defer rows.Close()

	var out []*types.GroupNotification
	for rows.Next() {
		n := &types.GroupNotification{}
		var r int64
		if err := rows.Scan(&n.GroupID, &n.TaskID, &n.OwnerID, &r); err != nil {
			return nil, fmt.Errorf("scan group notification: %w", err)
		}
		n.Role = int8(r)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list group notifications: %w", err)
	}
	return out, nil
}
