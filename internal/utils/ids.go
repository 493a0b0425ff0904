package utils

import "github.com/google/uuid"

// NewID returns "<prefix>_<uuid>", e.g. task_0b6f....
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
