package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/planbot/core/database"
	"github.com/m3rciful/planbot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "planbot.db")}
	require.NoError(t, database.RunMigrations(cfg))
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func mustDate(t *testing.T, layout, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(layout, s)
	require.NoError(t, err)
	return d
}

func TestUsersRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, created, err := s.Users().Register(ctx, 100, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(100), u.ChatID)

	again, created, err := s.Users().Register(ctx, 100, "alice again")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "alice", again.Name)

	_, err = s.Users().FindByChatID(ctx, 200)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, _, err = s.Users().Register(ctx, 200, "bob")
	require.NoError(t, err)
	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(100), users[0].ChatID)
	assert.Equal(t, int64(200), users[1].ChatID)
}

func TestTasksCreateRequiresOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Tasks().Create(ctx, domain.NewTask{
		UserID:  42,
		Title:   "X",
		DueDate: mustDate(t, domain.TaskDateLayout, "2099.12.31"),
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	tasks, err := s.Tasks().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTasksCreateListDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u, _, err := s.Users().Register(ctx, 1, "owner")
	require.NoError(t, err)

	task, err := s.Tasks().Create(ctx, domain.NewTask{
		UserID:      u.ID,
		Title:       "Write report",
		Description: "quarterly",
		DueDate:     mustDate(t, domain.TaskDateLayout, "2099.12.31"),
	})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)

	tasks, err := s.Tasks().List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, "2099-12-31", tasks[0].DueDate.String())

	title, err := s.Tasks().Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", title)

	_, err = s.Tasks().Delete(ctx, task.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestEventsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ev, err := s.Events().Create(ctx, domain.NewEvent{Title: "Meetup", Date: mustDate(t, domain.EventDateLayout, "2025-03-10")})
	require.NoError(t, err)

	events, err := s.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
	assert.Equal(t, "2025-03-10", events[0].Date.String())

	title, err := s.Events().Delete(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meetup", title)

	events, err = s.Events().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFilesOwnerIsOptional(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u, _, err := s.Users().Register(ctx, 5, "uploader")
	require.NoError(t, err)

	owned, err := s.Files().Create(ctx, domain.NewFile{FileID: "AgAD1", FileName: "photo", UserID: &u.ID})
	require.NoError(t, err)
	_, err = s.Files().Create(ctx, domain.NewFile{FileID: "BQAD2", FileName: "report.pdf"})
	require.NoError(t, err)

	missing := int64(999)
	_, err = s.Files().Create(ctx, domain.NewFile{FileID: "BQAD3", FileName: "x", UserID: &missing})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	files, err := s.Files().List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.NotNil(t, files[0].UserID)
	assert.Equal(t, u.ID, *files[0].UserID)
	assert.Nil(t, files[1].UserID)

	name, err := s.Files().Delete(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, "photo", name)
}
