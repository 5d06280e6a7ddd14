package model

import (
	"testing"
	"time"
)

func TestNewTaskIsUnpersisted(t *testing.T) {
	task := NewTask("write report", "", false)
	if task.IsPersisted() || !task.CreatedAt.IsZero() || !task.UpdatedAt.IsZero() {
		t.Fatalf("new task should have zero id and timestamps: %+v", task)
	}
	if task.Completed {
		t.Fatalf("completed should default to false")
	}
}

func TestEqualComparesInstants(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := &Task{ID: 1, Title: "a", CreatedAt: at, UpdatedAt: at}
	b := a.Clone()
	b.CreatedAt = at.In(time.FixedZone("UTC+8", 8*3600))
	if !a.Equal(b) {
		t.Fatalf("same instant in another zone should be equal")
	}
	b.Completed = true
	if a.Equal(b) {
		t.Fatalf("different completed flag should not be equal")
	}
	var nilTask *Task
	if !nilTask.Equal(nil) || a.Equal(nil) {
		t.Fatalf("nil handling wrong")
	}
}
