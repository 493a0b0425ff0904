package utils

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	a := NewID("task")
	b := NewID("task")
	if !strings.HasPrefix(a, "task_") {
		t.Fatalf("id=%q, want task_ prefix", a)
	}
	if a == b {
		t.Fatalf("ids must differ, got %q twice", a)
	}
}
