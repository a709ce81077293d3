package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Level  string
	Format string // "console", "text" or "json"
	Output io.Writer
}

var (
	once  sync.Once
	lg    *slog.Logger
	level slog.LevelVar
)

// Init installs the process logger. Only the first call takes effect; use
// SetLevel to change verbosity afterwards.
func Init(cfg Config) {
	once.Do(func() {
		lg = New(cfg, &level)
		slog.SetDefault(lg)
	})
}

// New builds a logger without installing it.
func New(cfg Config, lv *slog.LevelVar) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if lv == nil {
		lv = &slog.LevelVar{}
	}
	lv.Set(parseLevel(cfg.Level))
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(cfg.Output, &slog.HandlerOptions{Level: lv})
	case "text":
		handler = slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: lv})
	default:
		handler = &consoleHandler{w: cfg.Output, level: lv, mu: &sync.Mutex{}}
	}
	return slog.New(handler)
}

func L() *slog.Logger {
	if lg == nil {
		Init(Config{Level: "info", Format: "console"})
	}
	return lg
}

// SetLevel changes the level of the installed logger.
func SetLevel(s string) {
	level.Set(parseLevel(s))
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleHandler writes one short line per record:
//
//	12:00:00 INFO  target spawned  at=(0, 4, 20) respawns=1
type consoleHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	// pre holds attrs added through WithAttrs, already formatted with the
	// group that was open at the time.
	pre   string
	group string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	b.WriteString(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(formatAttr(h.group, a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	pre := h.pre
	for _, a := range attrs {
		pre += formatAttr(h.group, a)
	}
	return &consoleHandler{
		w:     h.w,
		mu:    h.mu,
		level: h.level,
		pre:   pre,
		group: h.group,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	prefix := name
	if h.group != "" {
		prefix = h.group + "." + name
	}
	return &consoleHandler{
		w:     h.w,
		mu:    h.mu,
		level: h.level,
		pre:   h.pre,
		group: prefix,
	}
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return fmt.Sprintf("  %s=%v", key, a.Value)
}
