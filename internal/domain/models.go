// Package domain holds the records managed by the bot and the error taxonomy
// shared by the store, the dispatcher and the broadcaster.
package domain

// User is a chat that registered itself with /start.
type User struct {
	ID     int64  `db:"id"`
	ChatID int64  `db:"telegram_id"`
	Name   string `db:"name"`
}

// Task belongs to the user that created it.
type Task struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	DueDate     Date   `db:"due_date"`
}

// Event is a shared record without an owner.
type Event struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
	Date  Date   `db:"date"`
}

// File references an attachment stored by the messaging channel.
// UserID is nil for files uploaded through the explicit /upload_file command.
type File struct {
	ID       int64  `db:"id"`
	FileID   string `db:"file_id"`
	FileName string `db:"file_name"`
	UserID   *int64 `db:"user_id"`
}

// NewTask carries the validated fields of a task to be created.
type NewTask struct {
	UserID      int64
	Title       string
	Description string
	DueDate     Date
}

// NewEvent carries the validated fields of an event to be created.
type NewEvent struct {
	Title string
	Date  Date
}

// NewFile carries the fields of a file record to be created.
type NewFile struct {
	FileID   string
	FileName string
	UserID   *int64
}
