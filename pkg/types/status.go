package types

// Status is the tri-state ack/aggregate status shared by tasks and
// notifications.
type Status int8

const (
	StatusRejected Status = -1
	StatusPending  Status = 0
	StatusApproved Status = 1
)

// Valid reports whether s is one of the three recognized statuses.
func (s Status) Valid() bool {
	return s == StatusRejected || s == StatusPending || s == StatusApproved
}

// Terminal reports whether s is a vote outcome rather than pending.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusApproved
}

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusApproved:
		return "approved"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Group role bounds for group notifications. Roles are opaque small ints;
// the recognized range follows the API contract.
const (
	GroupRoleMin = -1
	GroupRoleMax = 2
)
