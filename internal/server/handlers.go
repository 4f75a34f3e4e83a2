// HTTP handlers for the Taskbase API. Handlers decode, validate, annotate
// the request log context, delegate to the service, and map sentinel
// errors onto HTTP statuses.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// httpStatus maps sentinel errors onto response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrInvalidField),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidPageToken):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrStoreDetached):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeResult(w http.ResponseWriter, result any, nextPageToken string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(apiResponse{Result: result, NextPageToken: nextPageToken})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(err))
	_ = json.NewEncoder(w).Encode(apiError{Error: err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(types.ErrValidation, err)
	}
	return nil
}

// statusFilter converts an optional raw status into a typed filter.
func statusFilter(raw *int8) (*types.Status, error) {
	if raw == nil {
		return nil, nil
	}
	st := types.Status(*raw)
	if !st.Valid() {
		return nil, types.ErrInvalidStatus
	}
	return &st, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, map[string]string{"name": "taskbased", "version": s.version}, "")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeResult(w, true, "")
}

type createTaskRequest struct {
	UID       string   `json:"uid"`
	GID       string   `json:"gid"`
	Kind      string   `json:"kind"`
	Threshold int      `json:"threshold"`
	Approvers []string `json:"approvers"`
	Assignees []string `json:"assignees"`
	Message   string   `json:"message"`
	Payload   []byte   `json:"payload"`
	GroupRole *int8    `json:"group_role"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.UID == "" {
		s.writeError(w, errors.Join(types.ErrValidation, errors.New("missing required field `uid`")))
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "create_task")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "gid", req.GID)
	logKV(ctx, "kind", req.Kind)

	task, err := s.svc.CreateTask(ctx, service.CreateTaskInput{
		OwnerID:   req.UID,
		GroupID:   req.GID,
		Kind:      req.Kind,
		Threshold: req.Threshold,
		Approvers: req.Approvers,
		Assignees: req.Assignees,
		Message:   req.Message,
		Payload:   req.Payload,
		GroupRole: req.GroupRole,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, newTaskOutput(task), "")
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	uid, id := q.Get("uid"), q.Get("id")
	if uid == "" || id == "" {
		s.writeError(w, errors.Join(types.ErrValidation, errors.New("missing required `uid` or `id`")))
		return
	}
	fields, err := parseFieldsParam(q.Get("fields"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "get_task")
	logKV(ctx, "uid", uid)
	logKV(ctx, "id", id)

	task, err := s.svc.GetTask(ctx, uid, id, fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, newTaskOutput(task), "")
}

type updateTaskRequest struct {
	UID       string  `json:"uid"`
	ID        string  `json:"id"`
	UpdatedAt int64   `json:"updated_at"`
	DueDate   *int64  `json:"duedate"`
	Message   *string `json:"message"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "update_task")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "id", req.ID)

	patch := types.TaskPatch{DueDate: req.DueDate, Message: req.Message}
	updatedAt, err := s.svc.UpdateTask(ctx, req.UID, req.ID, patch, req.UpdatedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, map[string]int64{"updated_at": updatedAt}, "")
}

type updateAssigneesRequest struct {
	UID       string   `json:"uid"`
	ID        string   `json:"id"`
	UpdatedAt int64    `json:"updated_at"`
	Remove    []string `json:"remove"`
	Add       []string `json:"add"`
}

func (s *Server) handleUpdateAssignees(w http.ResponseWriter, r *http.Request) {
	var req updateAssigneesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "update_assignees")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "id", req.ID)

	updatedAt, err := s.svc.UpdateAssignees(ctx, req.UID, req.ID, req.Remove, req.Add, req.UpdatedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, map[string]int64{"updated_at": updatedAt}, "")
}

type ackRequest struct {
	UID     string `json:"uid"`
	TID     string `json:"tid"`
	Sender  string `json:"sender"`
	Status  int8   `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var req ackRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "ack_task")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "tid", req.TID)
	logKV(ctx, "sender", req.Sender)

	changed, err := s.svc.Ack(ctx, service.AckInput{
		RecipientID: req.UID,
		TaskID:      req.TID,
		OwnerID:     req.Sender,
		Status:      types.Status(req.Status),
		Message:     req.Message,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, changed, "")
}

type listTasksRequest struct {
	UID       string   `json:"uid"`
	PageSize  int      `json:"page_size"`
	PageToken string   `json:"page_token"`
	Status    *int8    `json:"status"`
	Fields    []string `json:"fields"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var req listTasksRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	fields, err := types.ParseFields(req.Fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status, err := statusFilter(req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "list_task")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "page_size", req.PageSize)

	tasks, next, err := s.svc.ListTasks(ctx, req.UID, fields, req.PageSize, req.PageToken, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]taskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskOutput(t))
	}
	s.writeResult(w, out, next)
}

type deleteTaskRequest struct {
	UID string `json:"uid"`
	ID  string `json:"id"`
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	var req deleteTaskRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ID == "" {
		s.writeError(w, errors.Join(types.ErrValidation, errors.New("missing required field `id`")))
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "delete_task")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "id", req.ID)

	deleted, err := s.svc.DeleteTask(ctx, req.UID, req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, deleted, "")
}

type listNotificationsRequest struct {
	UID       string   `json:"uid"`
	PageSize  int      `json:"page_size"`
	PageToken string   `json:"page_token"`
	Status    *int8    `json:"status"`
	Fields    []string `json:"fields"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	var req listNotificationsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	fields, err := types.ParseFields(req.Fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status, err := statusFilter(req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "list_notification")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "page_size", req.PageSize)

	views, next, err := s.svc.ListNotifications(ctx, req.UID, fields, req.PageSize, req.PageToken, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]notificationOutput, 0, len(views))
	for _, v := range views {
		out = append(out, newNotificationOutput(v))
	}
	s.writeResult(w, out, next)
}

type deleteNotificationRequest struct {
	UID    string `json:"uid"`
	TID    string `json:"tid"`
	Sender string `json:"sender"`
	Status *int8  `json:"status"`
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	var req deleteNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.TID == "" || req.Sender == "" {
		s.writeError(w, errors.Join(types.ErrValidation, errors.New("missing required `tid` or `sender`")))
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "delete_notification")
	logKV(ctx, "uid", req.UID)
	logKV(ctx, "tid", req.TID)
	logKV(ctx, "sender", req.Sender)

	if err := s.svc.DeleteNotification(ctx, req.UID, req.TID, req.Sender); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, true, "")
}

func (s *Server) handleBatchDeleteNotifications(w http.ResponseWriter, r *http.Request) {
	var req deleteNotificationRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	status, err := statusFilter(req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "batch_delete_notification")
	logKV(ctx, "uid", req.UID)
	if status != nil {
		logKV(ctx, "status", int(*status))
	}

	if err := s.svc.PurgeNotifications(ctx, req.UID, status); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResult(w, true, "")
}

type listGroupNotificationsRequest struct {
	GID       string `json:"gid"`
	PageSize  int    `json:"page_size"`
	PageToken string `json:"page_token"`
	Role      *int8  `json:"role"`
}

func (s *Server) handleListGroupNotifications(w http.ResponseWriter, r *http.Request) {
	var req listGroupNotificationsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	logKV(ctx, "action", "list_group_notification")
	logKV(ctx, "gid", req.GID)

	res, next, err := s.svc.ListGroupNotifications(ctx, req.GID, req.PageSize, req.PageToken, req.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]groupNotificationOutput, 0, len(res))
	for _, n := range res {
		out = append(out, groupNotificationOutput{
			GID:    n.GroupID,
			TID:    n.TaskID,
			Sender: n.OwnerID,
			Role:   n.Role,
		})
	}
	s.writeResult(w, out, next)
}

// parseFieldsParam splits a comma-separated field list into a projection.
func parseFieldsParam(raw string) (types.FieldSet, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return types.ParseFields(names)
}
