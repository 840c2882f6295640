package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/planbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

var errNoBot = errors.New("telegram bot is not running")

// channel is the outbound side of the messaging channel used outside a
// handler's own update: broadcasts and file downloads. The bot is attached
// once the runtime has built it.
type channel struct {
	bot      atomic.Pointer[tele.Bot]
	filesDir string
}

func newChannel(filesDir string) *channel {
	return &channel{filesDir: filesDir}
}

func (ch *channel) attach(b *tele.Bot) { ch.bot.Store(b) }

// SendText sends plain text to chatID. telebot calls are not cancellable, so
// ctx only bounds how long the caller waits.
func (ch *channel) SendText(ctx context.Context, chatID int64, text string) error {
	b := ch.bot.Load()
	if b == nil {
		return errNoBot
	}
	done := make(chan error, 1)
	go func() {
		_, err := b.Send(tele.ChatID(chatID), text)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Download saves the channel file into filesDir under a unique name and
// returns the stored path.
func (ch *channel) Download(ctx context.Context, fileID, fileName string) (string, error) {
	b := ch.bot.Load()
	if b == nil {
		return "", errNoBot
	}
	if err := os.MkdirAll(ch.filesDir, 0o750); err != nil {
		return "", fmt.Errorf("files dir: %w", err)
	}
	dst := filepath.Join(ch.filesDir, storedName(fileName))

	start := time.Now()
	if err := b.Download(&tele.File{FileID: fileID}, dst); err != nil {
		return "", fmt.Errorf("download %s: %w", fileID, err)
	}
	logger.Info(ctx, "service.files", "file.downloaded",
		slog.String("path", dst),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return dst, nil
}

// storedName prefixes the original base name with a uuid so uploads with the
// same name never overwrite each other.
func storedName(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "file"
	}
	return uuid.NewString() + "_" + base
}
