package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/jackson-sweet/opsapp-sub001/internal/db"
)

// RecordingUoW is a test UoW that records every statement executed through
// ExecContext inside its transactions, so tests can assert how many writes
// an operation issued.
type RecordingUoW struct {
	DB *sql.DB

	mu    sync.Mutex
	execs []string
}

func (u *RecordingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if fnErr := fn(ctx, &recordingExec{DBTX: tx, uow: u}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Execs returns the recorded statements in order.
func (u *RecordingUoW) Execs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.execs))
	copy(out, u.execs)
	return out
}

// CountExecs returns how many recorded statements start with prefix.
func (u *RecordingUoW) CountExecs(prefix string) int {
	n := 0
	for _, q := range u.Execs() {
		if strings.HasPrefix(q, prefix) {
			n++
		}
	}
	return n
}

// Reset forgets recorded statements.
func (u *RecordingUoW) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.execs = nil
}

type recordingExec struct {
	db.DBTX
	uow *RecordingUoW
}

func (r *recordingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.uow.mu.Lock()
	r.uow.execs = append(r.uow.execs, strings.TrimSpace(query))
	r.uow.mu.Unlock()
	return r.DBTX.ExecContext(ctx, query, args...)
}
