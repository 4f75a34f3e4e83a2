// JSON output shaping for the API. Optional task fields appear only when
// the caller's projection selected them, mirroring the store-side column
// subsetting.
package server

import (
	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// apiResponse is the common success envelope.
type apiResponse struct {
	Result        any    `json:"result"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// apiError is the common error envelope.
type apiError struct {
	Error string `json:"error"`
}

// optionalTaskFields is the projection-dependent tail shared by task and
// notification outputs.
type optionalTaskFields struct {
	CreatedAt *int64   `json:"created_at,omitempty"`
	UpdatedAt *int64   `json:"updated_at,omitempty"`
	DueDate   *int64   `json:"duedate,omitempty"`
	Threshold *int     `json:"threshold,omitempty"`
	Approvers []string `json:"approvers,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Resolved  []string `json:"resolved,omitempty"`
	Rejected  []string `json:"rejected,omitempty"`
	Message   *string  `json:"message,omitempty"`
	Payload   []byte   `json:"payload,omitempty"`
}

func optionalFieldsFrom(t *types.Task) optionalTaskFields {
	var out optionalTaskFields
	fs := t.Fields
	if fs.Has(types.FieldCreatedAt) {
		out.CreatedAt = &t.CreatedAt
	}
	if fs.Has(types.FieldUpdatedAt) {
		out.UpdatedAt = &t.UpdatedAt
	}
	if fs.Has(types.FieldDueDate) {
		out.DueDate = &t.DueDate
	}
	if fs.Has(types.FieldThreshold) {
		out.Threshold = &t.Threshold
	}
	if fs.Has(types.FieldApprovers) {
		out.Approvers = t.Approvers.Sorted()
	}
	if fs.Has(types.FieldAssignees) {
		out.Assignees = t.Assignees.Sorted()
	}
	if fs.Has(types.FieldResolved) {
		out.Resolved = t.Resolved.Sorted()
	}
	if fs.Has(types.FieldRejected) {
		out.Rejected = t.Rejected.Sorted()
	}
	if fs.Has(types.FieldMessage) {
		out.Message = &t.Message
	}
	if fs.Has(types.FieldPayload) {
		out.Payload = t.Payload
	}
	return out
}

// taskOutput is the task projection returned to owners.
type taskOutput struct {
	UID    string       `json:"uid"`
	ID     string       `json:"id"`
	GID    string       `json:"gid"`
	Status types.Status `json:"status"`
	Kind   string       `json:"kind"`
	optionalTaskFields
}

func newTaskOutput(t *types.Task) taskOutput {
	return taskOutput{
		UID:                t.OwnerID,
		ID:                 t.TaskID,
		GID:                t.GroupID,
		Status:             t.Status,
		Kind:               t.Kind,
		optionalTaskFields: optionalFieldsFrom(t),
	}
}

// notificationOutput is a recipient's inbox row: the sender's task joined
// with the recipient's own ack status.
type notificationOutput struct {
	Sender     string       `json:"sender"`
	TID        string       `json:"tid"`
	GID        string       `json:"gid"`
	Status     types.Status `json:"status"`
	AckStatus  types.Status `json:"ack_status"`
	AckMessage string       `json:"ack_message,omitempty"`
	Kind       string       `json:"kind"`
	optionalTaskFields
}

func newNotificationOutput(v service.NotificationView) notificationOutput {
	return notificationOutput{
		Sender:             v.Task.OwnerID,
		TID:                v.Task.TaskID,
		GID:                v.Task.GroupID,
		Status:             v.Task.Status,
		AckStatus:          v.AckStatus,
		AckMessage:         v.AckMsg,
		Kind:               v.Task.Kind,
		optionalTaskFields: optionalFieldsFrom(v.Task),
	}
}

// groupNotificationOutput mirrors the group notification row.
type groupNotificationOutput struct {
	GID    string `json:"gid"`
	TID    string `json:"tid"`
	Sender string `json:"sender"`
	Role   int8   `json:"role"`
}
