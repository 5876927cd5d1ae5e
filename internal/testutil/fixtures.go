package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

var testColorCounter atomic.Int64

// Client options
type ClientOption func(*domain.Client)

func WithClientEmail(email string) ClientOption {
	return func(c *domain.Client) {
		c.Email = email
	}
}

func WithClientID(id string) ClientOption {
	return func(c *domain.Client) {
		c.ID = id
	}
}

func NewTestClient(name string, opts ...ClientOption) *domain.Client {
	now := time.Now().UTC()
	c := &domain.Client{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func WithProjectDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &start
		p.EndDate = &end
	}
}

func NewTestProject(clientID, title string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Title:     title,
		Status:    domain.ProjectAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TaskType options
type TaskTypeOption func(*domain.TaskType)

func WithTaskTypeColor(color string) TaskTypeOption {
	return func(t *domain.TaskType) {
		t.Color = color
	}
}

func WithDisplayOrder(i int) TaskTypeOption {
	return func(t *domain.TaskType) {
		t.DisplayOrder = i
	}
}

func NewTestTaskType(display string, opts ...TaskTypeOption) *domain.TaskType {
	now := time.Now().UTC()
	n := testColorCounter.Add(1)
	t := &domain.TaskType{
		ID:        uuid.New().String(),
		Display:   display,
		Color:     fmt.Sprintf("#%06X", (n*0x1F3A5)%0xFFFFFF),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.TaskIndex = i
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func NewTestTask(projectID, taskTypeID string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		TaskTypeID: taskTypeID,
		Status:     domain.TaskBooked,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestProjectEvent returns a project-level calendar event.
func NewTestProjectEvent(projectID string) *domain.CalendarEvent {
	now := time.Now().UTC()
	return &domain.CalendarEvent{
		ID:        uuid.New().String(),
		ProjectID: &projectID,
		Title:     "Site visit",
		StartDate: now,
		EndDate:   now.Add(2 * time.Hour),
		CreatedAt: now,
	}
}

// NewTestTaskEvent returns a calendar event scheduled for the task.
func NewTestTaskEvent(projectID, taskID string) *domain.CalendarEvent {
	e := NewTestProjectEvent(projectID)
	e.TaskID = &taskID
	e.Title = "Task slot"
	return e
}
