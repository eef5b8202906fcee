package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/tumbluv/tumbluv-api/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	mu       sync.RWMutex
)

// Init builds the process-wide logger. Release mode with a file path writes
// JSON lines to a rotated file, everything else goes to stdout as text.
func Init(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.GinMode == config.ModeRelease,
		Level:     parseLevel(cfg.Log.Level),
	}

	var handler slog.Handler
	if cfg.GinMode == config.ModeRelease && cfg.Log.FilePath != "" {
		handler = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	l := slog.New(handler).With(
		"app_name", "tumbluv-api",
		"env", string(cfg.GinMode),
	)

	mu.Lock()
	instance = l
	mu.Unlock()

	return l
}

// Get returns the process-wide logger, or a discarding logger when Init has
// not run (tests).
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return instance
}

// New returns a logger tagged with the module name.
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
