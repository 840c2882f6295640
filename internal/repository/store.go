// Package repository persists users, tasks, events and files through sqlx.
// Queries are written with '?' placeholders and rebound for the active driver,
// so the same code runs on PostgreSQL and SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store groups the per-entity repositories over one database handle.
type Store struct {
	db *sqlx.DB

	users  *UserRepo
	tasks  *TaskRepo
	events *EventRepo
	files  *FileRepo
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:     db,
		users:  &UserRepo{db: db},
		tasks:  &TaskRepo{db: db},
		events: &EventRepo{db: db},
		files:  &FileRepo{db: db},
	}
}

// Users returns the user repository.
func (s *Store) Users() *UserRepo { return s.users }

// Tasks returns the task repository.
func (s *Store) Tasks() *TaskRepo { return s.tasks }

// Events returns the event repository.
func (s *Store) Events() *EventRepo { return s.events }

// Files returns the file repository.
func (s *Store) Files() *FileRepo { return s.files }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// withTx runs fn inside a transaction and commits when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// deleteReturning removes one row by id and returns the requested column of the removed row.
func deleteReturning(ctx context.Context, db *sqlx.DB, table, column string, id int64) (string, bool, error) {
	var name string
	q := db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ? RETURNING %s`, table, column))
	err := db.GetContext(ctx, &name, q, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return name, true, nil
}
