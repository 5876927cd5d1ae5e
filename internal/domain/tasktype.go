package domain

import (
	"regexp"
	"time"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TaskType categorizes tasks ("Quote", "Install", "Inspection") and carries
// the color tasks of that type are rendered with.
type TaskType struct {
	ID           string `validate:"required"`
	Display      string `validate:"required,max=100"`
	Color        string `validate:"required,hex_color"`
	Icon         string
	IsDefault    bool
	DisplayOrder int `validate:"gte=0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayID returns the first 8 characters of the ID for compact display.
func (t *TaskType) DisplayID() string {
	return shortID(t.ID)
}
