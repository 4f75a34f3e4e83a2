package types

// Notification is one recipient's private ack record for a task: one row
// per (recipient, task, task owner). Its status tracks the recipient's
// personal vote independently of the task's aggregate status. Losing a
// notification never corrupts the task; it only breaks that recipient's
// ability to discover the task through the ack path.
type Notification struct {
	RecipientID string `json:"uid"`
	TaskID      string `json:"tid"`
	OwnerID     string `json:"sender"`
	Status      Status `json:"status"`
	Message     string `json:"message"`
}

// GroupNotification marks a task as visible to a whole group with a role
// marker. Pure existence record; it carries no voting semantics.
type GroupNotification struct {
	GroupID string `json:"gid"`
	TaskID  string `json:"tid"`
	OwnerID string `json:"sender"`
	Role    int8   `json:"role"`
}

// ValidGroupRole reports whether role is in the recognized range.
func ValidGroupRole(role int8) bool {
	return role >= GroupRoleMin && role <= GroupRoleMax
}
