package domain

import "time"

// CalendarEvent is a schedule entry. Task events set TaskID; project-level
// events set only ProjectID.
type CalendarEvent struct {
	ID        string
	ProjectID *string
	TaskID    *string
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Color     string
	CreatedAt time.Time
}
