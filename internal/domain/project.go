package domain

import "time"

type Project struct {
	ID        string        `validate:"required"`
	ClientID  string        `validate:"required"`
	Title     string        `validate:"required,max=200"`
	Status    ProjectStatus `validate:"required,project_status"`
	Address   string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID returns the first 8 characters of the ID for compact display.
func (p *Project) DisplayID() string {
	return shortID(p.ID)
}

// IsOpen reports whether the project still has work scheduled against it.
func (p *Project) IsOpen() bool {
	switch p.Status {
	case ProjectCompleted, ProjectClosed, ProjectArchived:
		return false
	default:
		return true
	}
}
