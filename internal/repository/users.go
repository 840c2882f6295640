package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/domain"
)

// UserRepo stores chats registered through /start.
type UserRepo struct {
	db *sqlx.DB
}

// Register inserts the chat if it is unseen and returns the stored user.
// created reports whether this call inserted the row.
func (r *UserRepo) Register(ctx context.Context, chatID int64, name string) (domain.User, bool, error) {
	var (
		user    domain.User
		created bool
	)
	err := withTx(ctx, r.db, "register user", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO users (telegram_id, name) VALUES (?, ?) ON CONFLICT (telegram_id) DO NOTHING`),
			chatID, name,
		)
		if err != nil {
			return fmt.Errorf("register user: insert: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("register user: rows affected: %w", err)
		}
		created = n > 0
		if err := tx.GetContext(ctx, &user,
			tx.Rebind(`SELECT id, telegram_id, name FROM users WHERE telegram_id = ?`), chatID,
		); err != nil {
			return fmt.Errorf("register user: select: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, false, err
	}
	if created {
		logger.Info(ctx, "service.users", "user.registered",
			slog.Int64("user_id", user.ID),
			slog.Int64("chat_id", chatID),
		)
	}
	return user, created, nil
}

// FindByChatID resolves the user registered for a chat.
func (r *UserRepo) FindByChatID(ctx context.Context, chatID int64) (domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		r.db.Rebind(`SELECT id, telegram_id, name FROM users WHERE telegram_id = ?`), chatID,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.User{}, domain.NotFound("users.find", fmt.Sprintf("chat %d", chatID))
	case err != nil:
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// List returns every registered user in registration order.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT id, telegram_id, name FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
