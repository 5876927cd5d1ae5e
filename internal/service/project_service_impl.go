package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", time.Now().UTC(),
		map[string]any{"client_id": p.ClientID, "title": p.Title}, &err)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.ProjectRFQ
	}
	p.Title = strings.TrimSpace(p.Title)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err = domain.Validate(p); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteClientRepo(tx).GetByID(ctx, p.ClientID); err != nil {
			return fmt.Errorf("client %s: %w", p.ClientID, err)
		}
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, f ProjectFilter) ([]*domain.Project, error) {
	all, err := s.projects.List(ctx, repository.ProjectQuery{ClientID: f.ClientID, Statuses: f.Statuses})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Query) == "" {
		return all, nil
	}
	var out []*domain.Project
	for _, p := range all {
		if containsFold(f.Query, p.Title, p.Address) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	if err := domain.Validate(p); err != nil {
		return err
	}
	return s.projects.Update(ctx, p)
}
