package models

import "time"

type Status string

const (
	StatusDone       Status = "done"
	StatusInProgress Status = "in-progress"
	StatusPending    Status = "pending"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every valid priority in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Task belongs to a list. OwnerID caches the list owner so ownership checks
// and per-user title uniqueness do not need a join.
type Task struct {
	ID          string
	ListID      string
	OwnerID     string
	Title       string
	Description string
	CreatedAt   time.Time
	DueDate     time.Time
	CompletedAt *time.Time
	Completed   bool
	Status      Status
	Priority    Priority
}

// ApplyStatus sets Status and keeps Completed/CompletedAt consistent with it.
// Moving into done stamps CompletedAt with now; staying in done keeps the
// original stamp; any other status clears both.
func (t *Task) ApplyStatus(s Status, now time.Time) {
	if s == StatusDone {
		if t.Status != StatusDone || t.CompletedAt == nil {
			ts := now
			t.CompletedAt = &ts
		}
		t.Completed = true
	} else {
		t.Completed = false
		t.CompletedAt = nil
	}
	t.Status = s
}
