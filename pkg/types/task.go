package types

// Input bounds for task creation, matching the API contract.
const (
	MaxThreshold = 256
	MaxApprovers = 4
	MaxAssignees = 256
)

// Task is the owning aggregate of an approval round: identity, membership,
// vote sets, threshold, and the derived status. UpdatedAt doubles as the
// optimistic-concurrency version token for scalar mutation.
type Task struct {
	OwnerID   string `json:"uid"`
	TaskID    string `json:"id"`
	GroupID   string `json:"gid"`
	Status    Status `json:"status"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at,omitempty"` // ms epoch
	UpdatedAt int64  `json:"updated_at,omitempty"` // ms epoch, version token
	DueDate   int64  `json:"duedate,omitempty"`    // ms epoch
	Threshold int    `json:"threshold,omitempty"`
	Approvers IDSet  `json:"-"`
	Assignees IDSet  `json:"-"`
	Resolved  IDSet  `json:"-"`
	Rejected  IDSet  `json:"-"`
	Message   string `json:"message,omitempty"`
	Payload   []byte `json:"payload,omitempty"`

	// Fields records which optional columns were selected when this task
	// was read, so output shaping includes only what the caller asked for.
	Fields FieldSet `json:"-"`
}

// CanVote reports whether voter may cast a vote on this task. A task with
// no approvers and no assignees is open to anyone; otherwise the voter
// must belong to one of the two sets.
func (t *Task) CanVote(voter string) bool {
	if len(t.Approvers) == 0 && len(t.Assignees) == 0 {
		return true
	}
	return t.Approvers.Contains(voter) || t.Assignees.Contains(voter)
}

// CanDecide reports whether voter carries decision authority: every voter
// does when approvers is empty, otherwise only approvers do.
func (t *Task) CanDecide(voter string) bool {
	return len(t.Approvers) == 0 || t.Approvers.Contains(voter)
}

// ApprovalReached evaluates the approval rule against the current vote
// sets: the task is not already approved, the resolve count meets the
// threshold, and resolves strictly outnumber rejects. The strict majority
// prevents a task from being eligible for both outcomes at equal counts.
func (t *Task) ApprovalReached() bool {
	return t.Status != StatusApproved &&
		len(t.Resolved) >= t.Threshold &&
		len(t.Resolved) > len(t.Rejected)
}

// RejectionReached is the mirrored rule for the rejected outcome.
func (t *Task) RejectionReached() bool {
	return t.Status != StatusRejected &&
		len(t.Rejected) >= t.Threshold &&
		len(t.Rejected) > len(t.Resolved)
}

// Validate checks creation-time bounds on the task.
func (t *Task) Validate() error {
	if t.Threshold < 0 || t.Threshold > MaxThreshold {
		return ErrValidation
	}
	if len(t.Approvers) > MaxApprovers {
		return ErrValidation
	}
	if len(t.Assignees) > MaxAssignees {
		return ErrValidation
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// TaskPatch carries the only two task scalars mutable after creation.
// A nil field is left untouched. Any other mutation goes through the
// dedicated membership or voting operations.
type TaskPatch struct {
	DueDate *int64  `json:"duedate,omitempty"`
	Message *string `json:"message,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.DueDate == nil && p.Message == nil
}
