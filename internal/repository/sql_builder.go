package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// sq renders SQLite-compatible statements with ? placeholders.
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// buildRepoint builds a single UPDATE that moves every row in ids to a new
// parent. This is the batched re-point used by bulk reassignment.
func buildRepoint(table, fkColumn, parentID string, ids []string) (string, []any, error) {
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("no ids specified for %s re-point", table)
	}
	if parentID == "" {
		return "", nil, fmt.Errorf("no parent specified for %s re-point", table)
	}
	return sq.Update(table).
		Set(fkColumn, parentID).
		Set("updated_at", nowUTC()).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
}

// buildDeleteIn builds a DELETE restricted to rows whose column is in values.
func buildDeleteIn(table, column string, values []string) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("no values specified for %s delete", table)
	}
	return sq.Delete(table).Where(squirrel.Eq{column: values}).ToSql()
}

// buildSelectIDsIn builds a SELECT of ids whose column is in values.
func buildSelectIDsIn(table, column string, values []string) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, fmt.Errorf("no values specified for %s lookup", table)
	}
	return sq.Select("id").From(table).Where(squirrel.Eq{column: values}).OrderBy("id").ToSql()
}
