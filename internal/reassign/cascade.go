package reassign

import (
	"context"
	"fmt"

	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
)

// Foreign keys are RESTRICT, so every dependent of a deleted child must be
// listed here. A missing rule fails the delete instead of losing data.

// cascade deletes rows of one entity together with their dependents.
type cascade struct {
	entity string
	rules  []cascadeRule
	delete func(ctx context.Context, tx db.DBTX, ids []string) (int64, error)
}

// cascadeRule removes one kind of dependent of the owner rows. Direct rules
// delete by owner id; nested rules list dependent ids and recurse.
type cascadeRule struct {
	direct func(ctx context.Context, tx db.DBTX, ownerIDs []string) (int64, error)
	entity string

	list   func(ctx context.Context, tx db.DBTX, ownerIDs []string) ([]string, error)
	nested *cascade
}

var taskCascade = &cascade{
	entity: "tasks",
	rules: []cascadeRule{
		{
			entity: "calendar_events",
			direct: func(ctx context.Context, tx db.DBTX, taskIDs []string) (int64, error) {
				return repository.NewSQLiteCalendarEventRepo(tx).DeleteByTaskIDs(ctx, taskIDs)
			},
		},
	},
	delete: func(ctx context.Context, tx db.DBTX, ids []string) (int64, error) {
		return repository.NewSQLiteTaskRepo(tx).DeleteByIDs(ctx, ids)
	},
}

var projectCascade = &cascade{
	entity: "projects",
	rules: []cascadeRule{
		{
			entity: "calendar_events",
			direct: func(ctx context.Context, tx db.DBTX, projectIDs []string) (int64, error) {
				return repository.NewSQLiteCalendarEventRepo(tx).DeleteByProjectIDs(ctx, projectIDs)
			},
		},
		{
			list: func(ctx context.Context, tx db.DBTX, projectIDs []string) ([]string, error) {
				return repository.NewSQLiteTaskRepo(tx).ListIDsByProjects(ctx, projectIDs)
			},
			nested: taskCascade,
		},
	},
	delete: func(ctx context.Context, tx db.DBTX, ids []string) (int64, error) {
		return repository.NewSQLiteProjectRepo(tx).DeleteByIDs(ctx, ids)
	},
}

// run deletes ids and their dependents, adding per-entity row counts to removed.
func (c *cascade) run(ctx context.Context, tx db.DBTX, ids []string, removed map[string]int64) error {
	if len(ids) == 0 {
		return nil
	}
	for _, r := range c.rules {
		if r.nested != nil {
			depIDs, err := r.list(ctx, tx, ids)
			if err != nil {
				return fmt.Errorf("listing %s of %s: %w", r.nested.entity, c.entity, err)
			}
			if err := r.nested.run(ctx, tx, depIDs, removed); err != nil {
				return err
			}
			continue
		}
		n, err := r.direct(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("deleting %s of %s: %w", r.entity, c.entity, err)
		}
		removed[r.entity] += n
	}
	n, err := c.delete(ctx, tx, ids)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", c.entity, err)
	}
	removed[c.entity] += n
	return nil
}
