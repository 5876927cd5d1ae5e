package repository

import (
	"context"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

// ProjectQuery filters List on the project repository. Zero values match all.
type ProjectQuery struct {
	ClientID string
	Statuses []domain.ProjectStatus
}

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, q ProjectQuery) ([]*domain.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	ReassignClient(ctx context.Context, ids []string, clientID string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type TaskTypeRepo interface {
	Create(ctx context.Context, t *domain.TaskType) error
	GetByID(ctx context.Context, id string) (*domain.TaskType, error)
	List(ctx context.Context) ([]*domain.TaskType, error)
	Update(ctx context.Context, t *domain.TaskType) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByTaskType(ctx context.Context, taskTypeID string) ([]*domain.Task, error)
	ListIDsByProjects(ctx context.Context, projectIDs []string) ([]string, error)
	NextIndex(ctx context.Context, projectID string) (int, error)
	ReassignTaskType(ctx context.Context, ids []string, taskTypeID string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

type CalendarEventRepo interface {
	Create(ctx context.Context, e *domain.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.CalendarEvent, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.CalendarEvent, error)
	DeleteByTaskIDs(ctx context.Context, taskIDs []string) (int64, error)
	DeleteByProjectIDs(ctx context.Context, projectIDs []string) (int64, error)
}
