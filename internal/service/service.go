// Package service orchestrates the task approval workflows on top of the
// store: task creation with notification fan-out, the idempotent ack path
// that turns a recipient's acknowledgement into a vote, cascade deletion,
// and the list operations callers page through.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// Service wires the entity stores together. All cross-request coordination
// happens inside the storage layer; Service holds no mutable state.
type Service struct {
	store  types.Store
	logger *slog.Logger
}

// New creates a Service over an attached store.
func New(store types.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// CreateTaskInput carries the task creation parameters. GroupRole, when
// set, additionally records a group notification with that role.
type CreateTaskInput struct {
	OwnerID   string
	GroupID   string
	Kind      string
	Threshold int
	Approvers []string
	Assignees []string
	Message   string
	Payload   []byte
	GroupRole *int8
}

// CreateTask creates a task under a fresh id and fans out one
// notification per approver/assignee, plus a group notification when a
// group role is given. Fan-out writes are best-effort: a failed write is
// logged and skipped, and only degrades that recipient's ability to
// discover the task through the ack path. The task itself remains the
// source of truth.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*types.Task, error) {
	if in.GroupRole != nil && !types.ValidGroupRole(*in.GroupRole) {
		return nil, fmt.Errorf("%w: group role %d out of range", types.ErrValidation, *in.GroupRole)
	}

	tasks, err := s.store.Tasks()
	if err != nil {
		return nil, err
	}

	task := &types.Task{
		OwnerID:   in.OwnerID,
		TaskID:    types.NewID(),
		GroupID:   in.GroupID,
		Kind:      in.Kind,
		Threshold: in.Threshold,
		Approvers: types.NewIDSet(in.Approvers...),
		Assignees: types.NewIDSet(in.Assignees...),
		Message:   in.Message,
		Payload:   in.Payload,
	}
	if err := tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if in.GroupRole != nil {
		groups, err := s.store.GroupNotifications()
		if err != nil {
			return nil, err
		}
		gn := &types.GroupNotification{
			GroupID: task.GroupID,
			TaskID:  task.TaskID,
			OwnerID: task.OwnerID,
			Role:    *in.GroupRole,
		}
		if err := groups.Create(ctx, gn); err != nil {
			s.logger.Warn("group notification fan-out failed",
				slog.String("gid", task.GroupID),
				slog.String("tid", task.TaskID),
				slog.Any("err", err))
		}
	}

	notifs, err := s.store.Notifications()
	if err != nil {
		return nil, err
	}
	recipients := task.Approvers.Clone()
	for id := range task.Assignees {
		recipients.Add(id)
	}
	for _, id := range recipients.Sorted() {
		n := &types.Notification{
			RecipientID: id,
			TaskID:      task.TaskID,
			OwnerID:     task.OwnerID,
			Status:      types.StatusPending,
		}
		if err := notifs.Create(ctx, n); err != nil && !errors.Is(err, types.ErrConflict) {
			s.logger.Warn("notification fan-out failed",
				slog.String("recipient", id),
				slog.String("tid", task.TaskID),
				slog.Any("err", err))
		}
	}

	return task, nil
}

// GetTask reads a task projected to the requested fields.
func (s *Service) GetTask(ctx context.Context, ownerID, taskID string, fields types.FieldSet) (*types.Task, error) {
	tasks, err := s.store.Tasks()
	if err != nil {
		return nil, err
	}
	return tasks.Get(ctx, ownerID, taskID, fields)
}

// UpdateTask applies a duedate/message patch under the version token and
// returns the new token.
func (s *Service) UpdateTask(ctx context.Context, ownerID, taskID string, patch types.TaskPatch, expectedUpdatedAt int64) (int64, error) {
	tasks, err := s.store.Tasks()
	if err != nil {
		return 0, err
	}
	return tasks.UpdateScalars(ctx, ownerID, taskID, patch, expectedUpdatedAt)
}

// UpdateAssignees removes then adds assignee ids under the version token.
func (s *Service) UpdateAssignees(ctx context.Context, ownerID, taskID string, remove, add []string, expectedUpdatedAt int64) (int64, error) {
	tasks, err := s.store.Tasks()
	if err != nil {
		return 0, err
	}
	return tasks.UpdateAssignees(ctx, ownerID, taskID, remove, add, expectedUpdatedAt)
}

// AckInput identifies a notification and the recipient's vote on it.
// Status must be approved (+1) or rejected (-1).
type AckInput struct {
	RecipientID string
	TaskID      string
	OwnerID     string
	Status      types.Status
	Message     string
}

// Ack records a recipient's acknowledgement. Idempotent: when the stored
// ack status already equals the requested one it returns false without
// writing. Otherwise the vote is applied to the task first and the
// notification's own status second, so a crash between the two leaves the
// vote counted and only the personal ack state stale.
func (s *Service) Ack(ctx context.Context, in AckInput) (bool, error) {
	if !in.Status.Terminal() {
		return false, fmt.Errorf("%w: ack status must be -1 or 1, got %d", types.ErrValidation, in.Status)
	}

	notifs, err := s.store.Notifications()
	if err != nil {
		return false, err
	}
	n, err := notifs.Get(ctx, in.RecipientID, in.TaskID, in.OwnerID)
	if err != nil {
		return false, err
	}
	if n.Status == in.Status {
		return false, nil // repeated ack is a no-op
	}

	tasks, err := s.store.Tasks()
	if err != nil {
		return false, err
	}
	if in.Status == types.StatusApproved {
		err = tasks.Resolve(ctx, n.OwnerID, n.TaskID, n.RecipientID)
	} else {
		err = tasks.Reject(ctx, n.OwnerID, n.TaskID, n.RecipientID)
	}
	if err != nil {
		return false, err
	}

	if err := notifs.SetAck(ctx, in.RecipientID, in.TaskID, in.OwnerID, in.Status, in.Message); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteTask removes a task and tears down its fan-out. Returns false
// when the task is already gone. The group notification delete and the
// notification purge are best-effort: failures are logged and the task
// delete still counts, since the task row is the source of truth.
func (s *Service) DeleteTask(ctx context.Context, ownerID, taskID string) (bool, error) {
	tasks, err := s.store.Tasks()
	if err != nil {
		return false, err
	}

	task, err := tasks.Get(ctx, ownerID, taskID, types.FieldSet{types.FieldGroupID: {}})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if _, err := tasks.Delete(ctx, ownerID, taskID); err != nil {
		return false, err
	}

	groups, err := s.store.GroupNotifications()
	if err != nil {
		return false, err
	}
	if err := groups.Delete(ctx, task.GroupID, taskID, ownerID); err != nil {
		s.logger.Warn("group notification teardown failed",
			slog.String("gid", task.GroupID),
			slog.String("tid", taskID),
			slog.Any("err", err))
	}

	notifs, err := s.store.Notifications()
	if err != nil {
		return false, err
	}
	if err := notifs.DeleteByTask(ctx, taskID); err != nil {
		s.logger.Warn("notification teardown failed",
			slog.String("tid", taskID),
			slog.Any("err", err))
	}

	return true, nil
}

// ListTasks pages through an owner's tasks newest-first. Returns the page
// and a continuation token, empty when the listing is exhausted.
func (s *Service) ListTasks(ctx context.Context, ownerID string, fields types.FieldSet, pageSize int, pageToken string, status *types.Status) ([]*types.Task, string, error) {
	tasks, err := s.store.Tasks()
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	cursor, err := types.DecodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	res, err := tasks.List(ctx, ownerID, fields, pageSize, cursor, status)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(res) >= pageSize {
		next = types.EncodePageToken(res[len(res)-1].TaskID)
	}
	return res, next, nil
}

// NotificationView is one row of a recipient's inbox: the task projected
// to the requested fields joined with the recipient's own ack status.
type NotificationView struct {
	Task      *types.Task
	AckStatus types.Status
	AckMsg    string
}

// ListNotifications pages through a recipient's notifications and joins
// each row with its task projection. A notification whose task has since
// been deleted is skipped with a log line; the row is a stale projection,
// not an error.
func (s *Service) ListNotifications(ctx context.Context, recipientID string, fields types.FieldSet, pageSize int, pageToken string, status *types.Status) ([]NotificationView, string, error) {
	notifs, err := s.store.Notifications()
	if err != nil {
		return nil, "", err
	}
	tasks, err := s.store.Tasks()
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	cursor, err := types.DecodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	res, err := notifs.List(ctx, recipientID, pageSize, cursor, status)
	if err != nil {
		return nil, "", err
	}

	views := make([]NotificationView, 0, len(res))
	for _, n := range res {
		task, err := tasks.Get(ctx, n.OwnerID, n.TaskID, fields)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				s.logger.Info("skipping notification for deleted task",
					slog.String("recipient", recipientID),
					slog.String("tid", n.TaskID))
				continue
			}
			return nil, "", err
		}
		views = append(views, NotificationView{Task: task, AckStatus: n.Status, AckMsg: n.Message})
	}

	next := ""
	if len(res) >= pageSize {
		next = types.EncodePageToken(res[len(res)-1].TaskID)
	}
	return views, next, nil
}

// DeleteNotification removes a single notification row.
func (s *Service) DeleteNotification(ctx context.Context, recipientID, taskID, ownerID string) error {
	notifs, err := s.store.Notifications()
	if err != nil {
		return err
	}
	return notifs.Delete(ctx, recipientID, taskID, ownerID)
}

// PurgeNotifications removes a recipient's notifications, optionally only
// those with the given ack status.
func (s *Service) PurgeNotifications(ctx context.Context, recipientID string, status *types.Status) error {
	notifs, err := s.store.Notifications()
	if err != nil {
		return err
	}
	return notifs.DeleteByRecipient(ctx, recipientID, status)
}

// ListGroupNotifications pages through a group's task notifications,
// optionally narrowed to one role.
func (s *Service) ListGroupNotifications(ctx context.Context, groupID string, pageSize int, pageToken string, role *int8) ([]*types.GroupNotification, string, error) {
	groups, err := s.store.GroupNotifications()
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	cursor, err := types.DecodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	res, err := groups.List(ctx, groupID, pageSize, cursor, role)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(res) >= pageSize {
		next = types.EncodePageToken(res[len(res)-1].TaskID)
	}
	return res, next, nil
}
