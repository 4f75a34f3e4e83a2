// Task table accessor: the voting engine's storage protocol. Scalar
// mutation is linearized by the updated_at version token; vote mutation is
// a commutative set merge with no version check; the status transition
// after a vote is only existence-checked, so two voters crossing the
// threshold together both write the same target value.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// Compile-time interface check: TaskTable must implement TaskStore.
var _ types.TaskStore = (*TaskTable)(nil)

// TaskTable implements the task aggregate operations.
type TaskTable struct {
	backend *Backend
}

// scanTask builds a Task from a row projected to cols. Columns absent
// from the projection keep their zero values.
func scanTask(cols []string, scan func(dest ...any) error) (*types.Task, error) {
	t := &types.Task{}
	var status, threshold int64
	var approvers, assignees, resolved, rejected string

	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "uid":
			dest[i] = &t.OwnerID
		case "id":
			dest[i] = &t.TaskID
		case "gid":
			dest[i] = &t.GroupID
		case "status":
			dest[i] = &status
		case "kind":
			dest[i] = &t.Kind
		case "created_at":
			dest[i] = &t.CreatedAt
		case "updated_at":
			dest[i] = &t.UpdatedAt
		case "duedate":
			dest[i] = &t.DueDate
		case "threshold":
			dest[i] = &threshold
		case "approvers":
			dest[i] = &approvers
		case "assignees":
			dest[i] = &assignees
		case "resolved":
			dest[i] = &resolved
		case "rejected":
			dest[i] = &rejected
		case "message":
			dest[i] = &t.Message
		case "payload":
			dest[i] = &t.Payload
		default:
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidField, col)
		}
	}

	if err := scan(dest...); err != nil {
		return nil, err
	}

	t.Status = types.Status(status)
	t.Threshold = int(threshold)

	var err error
	if approvers != "" {
		if t.Approvers, err = decodeSet(approvers); err != nil {
			return nil, err
		}
	}
	if assignees != "" {
		if t.Assignees, err = decodeSet(assignees); err != nil {
			return nil, err
		}
	}
	if resolved != "" {
		if t.Resolved, err = decodeSet(resolved); err != nil {
			return nil, err
		}
	}
	if rejected != "" {
		if t.Rejected, err = decodeSet(rejected); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Create inserts the task if no row exists at (uid, id). Stamps
// created_at/updated_at, forces status to pending, and normalizes the
// vote sets to empty. An identity collision is ErrConflict; the caller
// retries with a fresh id.
func (tt *TaskTable) Create(ctx context.Context, task *types.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	now := unixMS()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Status = types.StatusPending
	task.Resolved = types.NewIDSet()
	task.Rejected = types.NewIDSet()

	approvers, err := encodeSet(task.Approvers)
	if err != nil {
		return err
	}
	assignees, err := encodeSet(task.Assignees)
	if err != nil {
		return err
	}

	applied, err := tt.backend.execCond(ctx,
		`INSERT INTO task
			(uid, id, gid, status, kind, created_at, updated_at, duedate, threshold,
			 approvers, assignees, resolved, rejected, message, payload)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT DO NOTHING`,
		task.OwnerID, task.TaskID, task.GroupID, int64(task.Status), task.Kind,
		task.CreatedAt, task.UpdatedAt, task.DueDate, int64(task.Threshold),
		approvers, assignees, "[]", "[]", task.Message, task.Payload,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if !applied {
		return fmt.Errorf("task %s/%s already exists: %w", task.OwnerID, task.TaskID, types.ErrConflict)
	}

	task.Fields = types.AllTaskFields()
	return nil
}

// Get reads a task projected to the requested fields plus the always-on
// gid/status/kind columns.
func (tt *TaskTable) Get(ctx context.Context, ownerID, taskID string, fields types.FieldSet) (*types.Task, error) {
	fs := fields.WithDefaults(false)
	cols := fs.Columns()

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM task WHERE uid=? AND id=? LIMIT 1", strings.Join(cols, ","))
	row := tt.backend.db.QueryRowContext(ctx, query, ownerID, taskID)

	t, err := scanTask(cols, row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s/%s: %w", ownerID, taskID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	t.OwnerID = ownerID
	t.TaskID = taskID
	t.Fields = fs
	return t, nil
}

// UpdateScalars applies a duedate/message patch under the optimistic
// version token: re-reads the current token, rejects a stale expectation
// with ErrConflict, then compare-and-swaps the row with a fresh token.
// Returns the new updated_at for chaining.
func (tt *TaskTable) UpdateScalars(ctx context.Context, ownerID, taskID string, patch types.TaskPatch, expectedUpdatedAt int64) (int64, error) {
	if patch.Empty() {
		return 0, fmt.Errorf("%w: empty patch", types.ErrValidation)
	}

	cur, err := tt.Get(ctx, ownerID, taskID, types.FieldSet{
		types.FieldStatus:    {},
		types.FieldUpdatedAt: {},
	})
	if err != nil {
		return 0, err
	}
	if cur.UpdatedAt != expectedUpdatedAt {
		return 0, fmt.Errorf("task updated_at %w: expected %d, got %d",
			types.ErrConflict, cur.UpdatedAt, expectedUpdatedAt)
	}

	now := unixMS()
	sets := []string{"updated_at=?"}
	args := []any{now}
	if patch.DueDate != nil {
		sets = append(sets, "duedate=?")
		args = append(args, *patch.DueDate)
	}
	if patch.Message != nil {
		sets = append(sets, "message=?")
		args = append(args, *patch.Message)
	}
	args = append(args, ownerID, taskID, expectedUpdatedAt)

	query := fmt.Sprintf("UPDATE task SET %s WHERE uid=? AND id=? AND updated_at=?", strings.Join(sets, ","))
	applied, err := tt.backend.execCond(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update task: %w", err)
	}
	if !applied {
		return 0, fmt.Errorf("task update lost the race: %w", types.ErrConflict)
	}
	return now, nil
}

// UpdateAssignees validates the version token once, then runs the removal
// mutation followed by the addition mutation, each re-stamping
// updated_at. If removal succeeds and addition fails the assignee set is
// left partially updated; there is no rollback.
func (tt *TaskTable) UpdateAssignees(ctx context.Context, ownerID, taskID string, remove, add []string, expectedUpdatedAt int64) (int64, error) {
	cur, err := tt.Get(ctx, ownerID, taskID, types.FieldSet{types.FieldUpdatedAt: {}})
	if err != nil {
		return 0, err
	}
	if cur.UpdatedAt != expectedUpdatedAt {
		return 0, fmt.Errorf("task updated_at %w: expected %d, got %d",
			types.ErrConflict, cur.UpdatedAt, expectedUpdatedAt)
	}

	token := expectedUpdatedAt
	now := unixMS()
	if len(remove) > 0 {
		if err := tt.mutateAssignees(ctx, ownerID, taskID, nil, remove, token, now); err != nil {
			return 0, err
		}
		token = now
	}
	if len(add) > 0 {
		if err := tt.mutateAssignees(ctx, ownerID, taskID, add, nil, token, now); err != nil {
			return 0, err
		}
		token = now
	}
	return token, nil
}

// mutateAssignees applies one set-algebra step to the assignees column
// under the expected version token, stamping newUpdatedAt on success.
func (tt *TaskTable) mutateAssignees(ctx context.Context, ownerID, taskID string, add, remove []string, expectedUpdatedAt, newUpdatedAt int64) error {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	return tt.backend.withTx(ctx, func(tx *sql.Tx) error {
		var raw string
		var updatedAt int64
		err := tx.QueryRowContext(ctx,
			"SELECT assignees, updated_at FROM task WHERE uid=? AND id=?",
			ownerID, taskID,
		).Scan(&raw, &updatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s/%s: %w", ownerID, taskID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read assignees: %w", err)
		}
		if updatedAt != expectedUpdatedAt {
			return fmt.Errorf("task update lost the race: %w", types.ErrConflict)
		}

		assignees, err := decodeSet(raw)
		if err != nil {
			return err
		}
		for _, id := range remove {
			assignees.Remove(id)
		}
		for _, id := range add {
			assignees.Add(id)
		}
		encoded, err := encodeSet(assignees)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE task SET assignees=?, updated_at=? WHERE uid=? AND id=? AND updated_at=?",
			encoded, newUpdatedAt, ownerID, taskID, expectedUpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("write assignees: %w", err)
		}
		return nil
	})
}

// Resolve casts an approve vote for voter and evaluates the approval
// rule.
func (tt *TaskTable) Resolve(ctx context.Context, ownerID, taskID, voter string) error {
	return tt.castVote(ctx, ownerID, taskID, voter, types.StatusApproved)
}

// Reject casts a reject vote for voter and evaluates the rejection rule.
func (tt *TaskTable) Reject(ctx context.Context, ownerID, taskID, voter string) error {
	return tt.castVote(ctx, ownerID, taskID, voter, types.StatusRejected)
}

// castVote is the shared vote path: membership check, commutative
// set-merge of the vote, then re-read and threshold evaluation. The
// status write is independent of the vote write; same-direction races
// converge on the same target value.
func (tt *TaskTable) castVote(ctx context.Context, ownerID, taskID, voter string, target types.Status) error {
	memb, err := tt.Get(ctx, ownerID, taskID, types.FieldSet{
		types.FieldApprovers: {},
		types.FieldAssignees: {},
	})
	if err != nil {
		return err
	}
	if !memb.CanVote(voter) {
		return fmt.Errorf("%s may not vote on task %s/%s: %w",
			voter, ownerID, taskID, types.ErrPermissionDenied)
	}

	if err := tt.moveVote(ctx, ownerID, taskID, voter, target); err != nil {
		return err
	}

	cur, err := tt.Get(ctx, ownerID, taskID, types.FieldSet{
		types.FieldThreshold: {},
		types.FieldStatus:    {},
		types.FieldResolved:  {},
		types.FieldRejected:  {},
	})
	if err != nil {
		return err
	}
	// Decision authority comes from the pre-vote membership read.
	cur.Approvers = memb.Approvers

	crossed := cur.ApprovalReached()
	if target == types.StatusRejected {
		crossed = cur.RejectionReached()
	}
	if !cur.CanDecide(voter) || !crossed {
		return nil
	}

	applied, err := tt.backend.execCond(ctx,
		"UPDATE task SET status=? WHERE uid=? AND id=?",
		int64(target), ownerID, taskID,
	)
	if err != nil {
		return fmt.Errorf("transition task status: %w", err)
	}
	if !applied {
		return fmt.Errorf("task status transition: %w", types.ErrConflict)
	}
	return nil
}

// moveVote atomically removes voter from the opposite vote set and adds
// it to the target set, keeping the two sets exclusive per voter. No
// version check: the merge is commutative, so concurrent voters never
// conflict.
func (tt *TaskTable) moveVote(ctx context.Context, ownerID, taskID, voter string, target types.Status) error {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	return tt.backend.withTx(ctx, func(tx *sql.Tx) error {
		var resolvedRaw, rejectedRaw string
		err := tx.QueryRowContext(ctx,
			"SELECT resolved, rejected FROM task WHERE uid=? AND id=?",
			ownerID, taskID,
		).Scan(&resolvedRaw, &rejectedRaw)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("cast vote on task %s/%s: %w", ownerID, taskID, types.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("read vote sets: %w", err)
		}

		resolved, err := decodeSet(resolvedRaw)
		if err != nil {
			return err
		}
		rejected, err := decodeSet(rejectedRaw)
		if err != nil {
			return err
		}

		if target == types.StatusApproved {
			rejected.Remove(voter)
			resolved.Add(voter)
		} else {
			resolved.Remove(voter)
			rejected.Add(voter)
		}

		resolvedEnc, err := encodeSet(resolved)
		if err != nil {
			return err
		}
		rejectedEnc, err := encodeSet(rejected)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE task SET resolved=?, rejected=? WHERE uid=? AND id=?",
			resolvedEnc, rejectedEnc, ownerID, taskID,
		)
		if err != nil {
			return fmt.Errorf("write vote sets: %w", err)
		}
		return nil
	})
}

// Delete removes the task row. Returns false when the row is already
// gone, which is not an error.
func (tt *TaskTable) Delete(ctx context.Context, ownerID, taskID string) (bool, error) {
	if _, err := tt.Get(ctx, ownerID, taskID, types.FieldSet{types.FieldGroupID: {}}); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return false, nil // already deleted
		}
		return false, err
	}

	if _, err := tt.backend.db.ExecContext(ctx, "DELETE FROM task WHERE uid=? AND id=?", ownerID, taskID); err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return true, nil
}

// List scans an owner's tasks newest-first with descending cursor
// pagination on the task id.
func (tt *TaskTable) List(ctx context.Context, ownerID string, fields types.FieldSet, pageSize int, pageToken string, status *types.Status) ([]*types.Task, error) {
	fs := fields.WithDefaults(true)
	cols := fs.Columns()
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := fmt.Sprintf("SELECT %s FROM task WHERE uid=?", strings.Join(cols, ","))
	args := []any{ownerID}
	if status != nil {
		query += " AND status=?"
		args = append(args, int64(*status))
	}
	if pageToken != "" {
		query += " AND id<?"
		args = append(args, pageToken)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, pageSize)

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	rows, err := tt.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []*types.Task
	for rows.Next() {
		t, err := scanTask(cols, rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Fields = fs
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}
