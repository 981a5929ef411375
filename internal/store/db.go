// internal/store/db.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Generic query/insert/update primitives shared by all Postgres storages.
// Every helper takes an sqlx execution context so the same code runs against
// both *sqlx.DB and *sqlx.Tx; aggregate writes pass a transaction.

// queryOne runs a single-row query and maps it into T. A query that matches
// no rows returns (nil, nil): the caller decides which not-found error that
// means. Store-level faults propagate as errors.
func queryOne[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (*T, error) {
	var entity T
	if err := sqlx.GetContext(ctx, q, &entity, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// queryMany runs a query and maps every row into T.
func queryMany[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]T, error) {
	var entities []T
	if err := sqlx.SelectContext(ctx, q, &entities, query, args...); err != nil {
		return nil, err
	}
	return entities, nil
}

// queryManyIn expands an `IN (?)` placeholder over ids and runs the query.
// Given no ids it returns nil without touching the database.
func queryManyIn[T any](ctx context.Context, q sqlx.QueryerContext, query string, ids []int) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	expanded, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to expand IN query: %w", err)
	}
	return queryMany[T](ctx, q, sqlx.Rebind(sqlx.DOLLAR, expanded), args...)
}

// insertReturningID executes an `INSERT ... RETURNING id` and returns the
// generated primary key.
func insertReturningID(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (int, error) {
	var id int
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// execAffecting executes an update/delete and returns the affected-row count.
func execAffecting(ctx context.Context, e sqlx.ExecerContext, query string, args ...interface{}) (int64, error) {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// batchInsert executes one parameterized insert over a batch of row structs.
// sqlx expands the named VALUES clause into a single multi-row statement, so
// relation rows cost one round trip regardless of batch size.
func batchInsert[T any](ctx context.Context, e sqlx.ExtContext, query string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, e, query, rows)
	return err
}

// withTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation checks for PostgreSQL error 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation checks for PostgreSQL error 23503
// (foreign_key_violation).
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// violatedConstraint returns the name of the violated constraint, if the
// error carries one. Used to tell which foreign key of a two-column relation
// row failed.
func violatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// constraintMentions reports whether the violated constraint name references
// the given column.
func constraintMentions(err error, column string) bool {
	return strings.Contains(violatedConstraint(err), column)
}
