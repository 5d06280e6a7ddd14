package model

import "time"

// Task is a single tracked work item.
//
// ID 0 and zero timestamps mean the record was never persisted. gorm's
// automatic time tracking is off: the store sets CreatedAt/UpdatedAt itself.
type Task struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Description string    `gorm:"type:text;not null;column:description" json:"description"`
	Completed   bool      `gorm:"not null;default:false;column:completed" json:"completed"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// NewTask builds an unpersisted task.
func NewTask(title, description string, completed bool) *Task {
	return &Task{Title: title, Description: description, Completed: completed}
}

func (t *Task) IsPersisted() bool { return t != nil && t.ID != 0 }

// Equal compares all fields; timestamps compare by instant.
func (t *Task) Equal(o *Task) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		t.Completed == o.Completed &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}

// Clone returns a shallow copy.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
