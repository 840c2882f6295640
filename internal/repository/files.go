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

// FileRepo stores references to uploaded attachments.
type FileRepo struct {
	db *sqlx.DB
}

// Create records a file. A non-nil owner must reference an existing user.
func (r *FileRepo) Create(ctx context.Context, in domain.NewFile) (domain.File, error) {
	if strings.TrimSpace(in.FileID) == "" {
		return domain.File{}, domain.Validation("files.create", "file id is required", nil)
	}
	f := domain.File{FileID: in.FileID, FileName: in.FileName, UserID: in.UserID}
	err := withTx(ctx, r.db, "create file", func(tx *sqlx.Tx) error {
		if in.UserID != nil {
			var owners int
			if err := tx.GetContext(ctx, &owners, tx.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), *in.UserID); err != nil {
				return fmt.Errorf("create file: owner lookup: %w", err)
			}
			if owners == 0 {
				return domain.Validation("files.create", fmt.Sprintf("owner %d does not exist", *in.UserID), nil)
			}
		}
		if err := tx.GetContext(ctx, &f.ID,
			tx.Rebind(`INSERT INTO files (file_id, file_name, user_id) VALUES (?, ?, ?) RETURNING id`),
			in.FileID, in.FileName, in.UserID,
		); err != nil {
			return fmt.Errorf("create file: insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.File{}, err
	}
	logger.Debug(ctx, "service.files", "file.created",
		slog.Int64("file_id", f.ID),
		slog.Bool("owned", in.UserID != nil),
	)
	return f, nil
}

// List returns all files in upload order.
func (r *FileRepo) List(ctx context.Context) ([]domain.File, error) {
	files := []domain.File{}
	if err := r.db.SelectContext(ctx, &files, `SELECT id, file_id, file_name, user_id FROM files ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Delete removes a file record and returns its file name.
func (r *FileRepo) Delete(ctx context.Context, id int64) (string, error) {
	name, ok, err := deleteReturning(ctx, r.db, "files", "file_name", id)
	if err != nil {
		return "", fmt.Errorf("delete file: %w", err)
	}
	if !ok {
		return "", domain.NotFound("files.delete", fmt.Sprintf("id %d", id))
	}
	logger.Debug(ctx, "service.files", "file.deleted", slog.Int64("file_id", id))
	return name, nil
}
