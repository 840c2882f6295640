package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/domain"
)

// TaskRepo stores tasks owned by registered users.
type TaskRepo struct {
	db *sqlx.DB
}

// Create inserts a task after checking that its owner exists.
func (r *TaskRepo) Create(ctx context.Context, in domain.NewTask) (domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" || in.DueDate.IsZero() {
		return domain.Task{}, domain.Validation("tasks.create", "title and due date are required", nil)
	}
	task := domain.Task{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	}
	err := withTx(ctx, r.db, "create task", func(tx *sqlx.Tx) error {
		var owners int
		if err := tx.GetContext(ctx, &owners, tx.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), in.UserID); err != nil {
			return fmt.Errorf("create task: owner lookup: %w", err)
		}
		if owners == 0 {
			return domain.Validation("tasks.create", fmt.Sprintf("owner %d does not exist", in.UserID), nil)
		}
		if err := tx.GetContext(ctx, &task.ID,
			tx.Rebind(`INSERT INTO tasks (user_id, title, description, due_date) VALUES (?, ?, ?, ?) RETURNING id`),
			in.UserID, in.Title, in.Description, in.DueDate,
		); err != nil {
			return fmt.Errorf("create task: insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	logger.Debug(ctx, "service.tasks", "task.created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID),
	)
	return task, nil
}

// List returns all tasks in creation order.
func (r *TaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := r.db.SelectContext(ctx, &tasks,
		`SELECT id, user_id, title, description, due_date FROM tasks ORDER BY id`,
	); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes a task and returns its title.
func (r *TaskRepo) Delete(ctx context.Context, id int64) (string, error) {
	title, ok, err := deleteReturning(ctx, r.db, "tasks", "title", id)
	if err != nil {
		return "", fmt.Errorf("delete task: %w", err)
	}
	if !ok {
		return "", domain.NotFound("tasks.delete", fmt.Sprintf("id %d", id))
	}
	logger.Debug(ctx, "service.tasks", "task.deleted", slog.Int64("task_id", id))
	return title, nil
}
