package domain

import "time"

// Task is a unit of scheduled work inside a project. It belongs to exactly one
// project and exactly one task type.
type Task struct {
	ID         string     `validate:"required"`
	ProjectID  string     `validate:"required"`
	TaskTypeID string     `validate:"required"`
	Status     TaskStatus `validate:"required,task_status"`
	TaskIndex  int        `validate:"gte=0"`
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayID returns the first 8 characters of the ID for compact display.
func (t *Task) DisplayID() string {
	return shortID(t.ID)
}
