package service

import (
	"context"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
)

// ClientFilter narrows ClientService.List. Query matches name, email or
// phone, case-insensitively.
type ClientFilter struct {
	Query string
}

// ProjectFilter narrows ProjectService.List. Zero values match all.
type ProjectFilter struct {
	ClientID string
	Statuses []domain.ProjectStatus
	// Query matches title or address, case-insensitively.
	Query string
}

// ClientGroup is one section of the alphabetic client index.
type ClientGroup struct {
	Initial string
	Clients []*domain.Client
}

type ClientService interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, f ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	FindSimilar(ctx context.Context, name string) ([]dupcheck.Match, error)
	GroupByInitial(clients []*domain.Client) []ClientGroup
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type TaskTypeService interface {
	Create(ctx context.Context, t *domain.TaskType) error
	GetByID(ctx context.Context, id string) (*domain.TaskType, error)
	List(ctx context.Context) ([]*domain.TaskType, error)
	FindSimilar(ctx context.Context, display string) ([]dupcheck.Match, error)
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListByTaskType(ctx context.Context, taskTypeID string) ([]*domain.Task, error)
}
