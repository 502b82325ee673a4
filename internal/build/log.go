// Package build holds the process-wide logging setup and build metadata.
package build

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// LogConfig describes where and how verbosely to log.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error, critical or off.
	Level string

	// LogDir enables the rotating file log when non-empty.
	LogDir string

	MaxLogFiles    int
	MaxLogFileSize int

	// Console is where console output goes. Nil means stderr.
	Console io.Writer
}

// DefaultLogConfig returns console-only logging at the info level.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:          "info",
		MaxLogFiles:    DefaultMaxLogFiles,
		MaxLogFileSize: DefaultMaxLogFileSize,
	}
}

// ErrUnknownLevel is returned for level names btclog does not recognize.
var ErrUnknownLevel = errors.New("unknown log level")

// NewLogger builds the process logger. The returned closer flushes and
// closes the log file, if any, and must be called on exit.
func NewLogger(cfg *LogConfig) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}

	level, ok := btclog.LevelFromString(strings.ToLower(cfg.Level))
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownLevel, cfg.Level)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []btclogv2.Handler{btclogv2.NewDefaultHandler(console)}
	closer := func() error { return nil }

	if cfg.LogDir != "" {
		file, err := NewRotatingLogWriter(
			cfg.LogDir, DefaultLogFilename, cfg.MaxLogFiles,
			cfg.MaxLogFileSize,
		)
		if err != nil {
			return nil, nil, err
		}

		handlers = append(handlers, btclogv2.NewDefaultHandler(file))
		closer = file.Close
	}

	set := NewHandlerSet(handlers...)
	set.SetLevel(level)

	return slog.New(set), closer, nil
}
