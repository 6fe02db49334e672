package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the root logger for the given environment. Local runs
// log readable text to stdout, dev and prod log JSON to a file under logPath
// (falling back to stdout when the file cannot be opened).
func SetupLogger(env, logPath string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(logFile(logPath), &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(logFile(logPath), &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func logFile(logPath string) *os.File {
	file, err := os.OpenFile(filepath.Join(logPath, "linklet.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		return os.Stdout
	}
	return file
}

// AdminNotifier forwards a log line to the bot admin chat.
type AdminNotifier interface {
	SendMessage(msg string)
}

// telegramHandler tees records at or above its level to the admin chat
// while delegating everything to the wrapped handler.
type telegramHandler struct {
	next     slog.Handler
	notifier AdminNotifier
	level    slog.Level
}

// SetupTelegramHandler wraps the logger so records at or above level are
// also sent to the bot admin.
func SetupTelegramHandler(log *slog.Logger, notifier AdminNotifier, level slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:     log.Handler(),
		notifier: notifier,
		level:    level,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError && record.Level >= h.level && h.notifier != nil {
		text := fmt.Sprintf("⚠️ %s: %s", record.Level, record.Message)
		record.Attrs(func(a slog.Attr) bool {
			text += fmt.Sprintf("\n%s: %s", a.Key, a.Value)
			return true
		})
		h.notifier.SendMessage(text)
	}
	return h.next.Handle(ctx, record)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{next: h.next.WithAttrs(attrs), notifier: h.notifier, level: h.level}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{next: h.next.WithGroup(name), notifier: h.notifier, level: h.level}
}
