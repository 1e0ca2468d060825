package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger writes one JSON object per line, tagged with the service it belongs to.
type Logger struct {
	sl *slog.Logger
}

var (
	outMu sync.Mutex
	out   io.Writer = os.Stderr
	level           = new(slog.LevelVar)
)

// SetOutput redirects every logger created afterwards
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

// SetDebug toggles debug lines for all loggers
func SetDebug(on bool) {
	if on {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

func New(service string) *Logger {
	outMu.Lock()
	w := out
	outMu.Unlock()
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{sl: slog.New(h).With("service", service, "hostname", hostname())}
}

func (l *Logger) log(lvl slog.Level, action string, fields map[string]any, err error) {
	attrs := make([]any, 0, 2*len(fields)+4)
	attrs = append(attrs, "action", action)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	l.sl.Log(context.Background(), lvl, action, attrs...)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(slog.LevelInfo, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(slog.LevelDebug, action, fields, nil) }
func (l *Logger) Warn(action string, err error, fields map[string]any) {
	l.log(slog.LevelWarn, action, fields, err)
}
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, fields, err)
}

func hostname() string { h, _ := os.Hostname(); return h }
