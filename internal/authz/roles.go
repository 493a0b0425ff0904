package authz

import (
	"errors"
	"fmt"

	"taskflow/internal/models"
)

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrForbidden     = errors.New("forbidden")
	// ErrNotOwner is a forbidden decision caused only by ownership.
	ErrNotOwner = fmt.Errorf("%w: task is not assigned to requester", ErrForbidden)
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleWorker
}

func CanCreateTask(role string) bool {
	return role == RoleAdmin
}

func CanRegisterUser(role string) bool {
	return role == RoleAdmin
}

func CanReportError(role string) bool {
	return role == RoleAdmin
}

func CanViewAllTasks(role string) bool {
	return role == RoleAdmin
}

// CanTransition decides whether role may move a task to target.
// current is accepted but never restricts the decision: admins may move
// a task to any status, including backwards.
func CanTransition(role string, current, target models.TaskStatus, isOwner bool) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	switch role {
	case RoleAdmin:
		return nil
	case RoleWorker:
		if target != models.StatusCompleted {
			return ErrForbidden
		}
		if !isOwner {
			return ErrNotOwner
		}
		return nil
	}
	return ErrForbidden
}

// OwnerScope returns the user id reads and writes must be restricted to,
// or "" when the role is not restricted.
func OwnerScope(role, requesterID string) string {
	if CanViewAllTasks(role) {
		return ""
	}
	return requesterID
}
