// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusApproved  TaskStatus = "approved"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusApproved:
		return true
	}
	return false
}

// Task represents the structure of a task in the system.
type Task struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Link        string        `json:"link"`
	AssignedTo  string        `json:"assigned_to"`
	CreatedBy   string        `json:"created_by"`
	Status      TaskStatus    `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	ApprovedAt  *time.Time    `json:"approved_at"`
	Errors      []ErrorReport `json:"errors"`
}

// TaskFilter is what the store needs to pick candidate tasks.
// Requester drives the ownership override.
type TaskFilter struct {
	AssignedTo *string
	Requester  Requester
}
