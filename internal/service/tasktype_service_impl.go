package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
)

type taskTypeService struct {
	taskTypes repository.TaskTypeRepo
	matcher   dupcheck.Matcher
	observer  UseCaseObserver
}

func NewTaskTypeService(taskTypes repository.TaskTypeRepo, matcher dupcheck.Matcher, observers ...UseCaseObserver) TaskTypeService {
	return &taskTypeService{
		taskTypes: taskTypes,
		matcher:   matcherOrDefault(matcher),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *taskTypeService) Create(ctx context.Context, t *domain.TaskType) (err error) {
	defer observe(ctx, s.observer, "create-task-type", time.Now().UTC(), map[string]any{"display": t.Display}, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Display = strings.TrimSpace(t.Display)
	t.Color = strings.ToUpper(strings.TrimSpace(t.Color))
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err = domain.Validate(t); err != nil {
		return err
	}
	return s.taskTypes.Create(ctx, t)
}

func (s *taskTypeService) GetByID(ctx context.Context, id string) (*domain.TaskType, error) {
	return s.taskTypes.GetByID(ctx, id)
}

func (s *taskTypeService) List(ctx context.Context) ([]*domain.TaskType, error) {
	return s.taskTypes.List(ctx)
}

func (s *taskTypeService) FindSimilar(ctx context.Context, display string) ([]dupcheck.Match, error) {
	all, err := s.taskTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]dupcheck.Candidate, len(all))
	for i, t := range all {
		candidates[i] = dupcheck.Candidate{ID: t.ID, Name: t.Display}
	}
	return s.matcher.Similar(display, candidates), nil
}
