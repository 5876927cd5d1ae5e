package reassign

import (
	"context"
	"fmt"

	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/remote"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
)

// Hierarchy is the local store view of one parent/child relation. Every
// method runs against the given transaction.
type Hierarchy interface {
	Kind() domain.ParentKind
	// Parent wraps repository.ErrNotFound when the id is unknown.
	Parent(ctx context.Context, tx db.DBTX, id string) (Parent, error)
	// Children returns the parent's children in stable session order.
	Children(ctx context.Context, tx db.DBTX, parentID string) ([]Child, error)
	// Parents returns every parent of the kind, ordered by name.
	Parents(ctx context.Context, tx db.DBTX) ([]Parent, error)
	Repoint(ctx context.Context, tx db.DBTX, childIDs []string, targetID string) (int64, error)
	DeleteChildren(ctx context.Context, tx db.DBTX, childIDs []string, removed map[string]int64) error
	DeleteParent(ctx context.Context, tx db.DBTX, parentID string) error
}

// ClientHierarchy relates clients to their projects.
type ClientHierarchy struct{}

func (ClientHierarchy) Kind() domain.ParentKind { return domain.KindClient }

func (ClientHierarchy) Parent(ctx context.Context, tx db.DBTX, id string) (Parent, error) {
	c, err := repository.NewSQLiteClientRepo(tx).GetByID(ctx, id)
	if err != nil {
		return Parent{}, err
	}
	return clientParent(c), nil
}

func (ClientHierarchy) Children(ctx context.Context, tx db.DBTX, parentID string) ([]Child, error) {
	projects, err := repository.NewSQLiteProjectRepo(tx).ListByClient(ctx, parentID)
	if err != nil {
		return nil, err
	}
	children := make([]Child, len(projects))
	for i, p := range projects {
		children[i] = Child{ID: p.ID, Label: p.Title}
	}
	return children, nil
}

func (ClientHierarchy) Parents(ctx context.Context, tx db.DBTX) ([]Parent, error) {
	clients, err := repository.NewSQLiteClientRepo(tx).List(ctx)
	if err != nil {
		return nil, err
	}
	parents := make([]Parent, len(clients))
	for i, c := range clients {
		parents[i] = clientParent(c)
	}
	return parents, nil
}

func (ClientHierarchy) Repoint(ctx context.Context, tx db.DBTX, childIDs []string, targetID string) (int64, error) {
	return repository.NewSQLiteProjectRepo(tx).ReassignClient(ctx, childIDs, targetID)
}

func (ClientHierarchy) DeleteChildren(ctx context.Context, tx db.DBTX, childIDs []string, removed map[string]int64) error {
	return projectCascade.run(ctx, tx, childIDs, removed)
}

func (ClientHierarchy) DeleteParent(ctx context.Context, tx db.DBTX, parentID string) error {
	return repository.NewSQLiteClientRepo(tx).Delete(ctx, parentID)
}

func clientParent(c *domain.Client) Parent {
	return Parent{ID: c.ID, Name: c.Name, Aux: remote.Aux{remote.AuxClientName: c.Name}}
}

// TaskTypeHierarchy relates task types to their tasks.
type TaskTypeHierarchy struct{}

func (TaskTypeHierarchy) Kind() domain.ParentKind { return domain.KindTaskType }

func (TaskTypeHierarchy) Parent(ctx context.Context, tx db.DBTX, id string) (Parent, error) {
	t, err := repository.NewSQLiteTaskTypeRepo(tx).GetByID(ctx, id)
	if err != nil {
		return Parent{}, err
	}
	return taskTypeParent(t), nil
}

func (TaskTypeHierarchy) Children(ctx context.Context, tx db.DBTX, parentID string) ([]Child, error) {
	tasks, err := repository.NewSQLiteTaskRepo(tx).ListByTaskType(ctx, parentID)
	if err != nil {
		return nil, err
	}
	children := make([]Child, len(tasks))
	for i, t := range tasks {
		children[i] = Child{ID: t.ID, Label: fmt.Sprintf("#%d %s", t.TaskIndex, t.DisplayID())}
	}
	return children, nil
}

func (TaskTypeHierarchy) Parents(ctx context.Context, tx db.DBTX) ([]Parent, error) {
	types, err := repository.NewSQLiteTaskTypeRepo(tx).List(ctx)
	if err != nil {
		return nil, err
	}
	parents := make([]Parent, len(types))
	for i, t := range types {
		parents[i] = taskTypeParent(t)
	}
	return parents, nil
}

func (TaskTypeHierarchy) Repoint(ctx context.Context, tx db.DBTX, childIDs []string, targetID string) (int64, error) {
	return repository.NewSQLiteTaskRepo(tx).ReassignTaskType(ctx, childIDs, targetID)
}

func (TaskTypeHierarchy) DeleteChildren(ctx context.Context, tx db.DBTX, childIDs []string, removed map[string]int64) error {
	return taskCascade.run(ctx, tx, childIDs, removed)
}

func (TaskTypeHierarchy) DeleteParent(ctx context.Context, tx db.DBTX, parentID string) error {
	return repository.NewSQLiteTaskTypeRepo(tx).Delete(ctx, parentID)
}

func taskTypeParent(t *domain.TaskType) Parent {
	return Parent{ID: t.ID, Name: t.Display, Aux: remote.Aux{remote.AuxTaskColor: t.Color}}
}
