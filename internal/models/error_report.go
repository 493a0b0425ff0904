package models

import "time"

// ErrorReport is a defect note an admin logs against a task.
type ErrorReport struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Description string    `json:"description"`
	ReportedBy  string    `json:"reported_by"`
	ReportedAt  time.Time `json:"reported_at"`
}
