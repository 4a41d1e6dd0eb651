// Package task defines the task record and its lifecycle transitions.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Status represents a task status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
)

// Valid returns true if the status is one of the known tags.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a single tracked task.
//
// CompletedAt is nil unless the task has been completed; it serializes
// to JSON null so the on-disk record always carries the field.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// New creates a pending task with a fresh random id and the given title.
func New(title string) Task {
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Start marks the task as in progress. No transition restriction is
// enforced: starting a completed task simply overwrites its status.
func (t *Task) Start() {
	t.Status = StatusInProgress
}

// Complete marks the task as completed and stamps CompletedAt.
// Completing an already-completed task restamps the timestamp.
func (t *Task) Complete() {
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}
