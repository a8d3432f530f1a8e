package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/pod/internal/clock"
	"github.com/danieljhkim/pod/internal/config"
	"github.com/danieljhkim/pod/internal/engine"
	"github.com/danieljhkim/pod/internal/fsops"
	"github.com/danieljhkim/pod/internal/hash"
	"github.com/danieljhkim/pod/internal/ignore"
	"github.com/danieljhkim/pod/internal/lock"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	lockTimeout    = 2 * time.Second
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, *config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	fs := fsops.NewRealFS(cfg.Root)
	skip, err := ignore.Load(fs, cfg)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(
		fs,
		skip,
		hash.NewSHA256Hasher(),
		&clock.RealClock{},
		lock.NewFileLocker(cfg.LockPath(), lockRetryDelay, lockTimeout),
		*cfg,
		logger.WithField("root", cfg.Root),
	)
	return eng, cfg, nil
}

// newLogger returns a text logger at the named level writing to w.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return logger, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
