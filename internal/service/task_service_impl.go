package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create appends the task to its project: TaskIndex is assigned inside the
// transaction as one past the project's highest index.
func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "create-task", time.Now().UTC(),
		map[string]any{"project_id": t.ProjectID, "task_type_id": t.TaskTypeID}, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskBooked
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err = domain.Validate(t); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, t.ProjectID); err != nil {
			return fmt.Errorf("project %s: %w", t.ProjectID, err)
		}
		if _, err := repository.NewSQLiteTaskTypeRepo(tx).GetByID(ctx, t.TaskTypeID); err != nil {
			return fmt.Errorf("task type %s: %w", t.TaskTypeID, err)
		}
		txTasks := repository.NewSQLiteTaskRepo(tx)
		next, err := txTasks.NextIndex(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		t.TaskIndex = next
		return txTasks.Create(ctx, t)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) ListByTaskType(ctx context.Context, taskTypeID string) ([]*domain.Task, error) {
	return s.tasks.ListByTaskType(ctx, taskTypeID)
}
