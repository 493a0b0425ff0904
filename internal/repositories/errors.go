package repositories

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrUnknownAssignee = errors.New("assignee does not exist")
)
