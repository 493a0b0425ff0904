package services

import (
	"strings"
	"time"

	"taskflow/internal/models"
)

// candidateFilter builds the store filter for list and stats reads. The
// store applies the ownership override on top of it.
func candidateFilter(requester models.Requester, assignee string) models.TaskFilter {
	f := models.TaskFilter{Requester: requester}
	if assignee != "" {
		f.AssignedTo = &assignee
	}
	return f
}

// inPeriod reports whether the task was created in the given calendar month
// (0-indexed, January = 0) and year, in server local time. A nil bound
// matches anything.
func inPeriod(t models.Task, month, year *int) bool {
	created := t.CreatedAt.In(time.Local)
	if month != nil && int(created.Month())-1 != *month {
		return false
	}
	if year != nil && created.Year() != *year {
		return false
	}
	return true
}

func matchesSearch(t models.Task, needle string) bool {
	needle = strings.ToLower(needle)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle)
}
