// Package config manages pod configuration.
//
// Configuration covers the reserved names inside the working tree (snapshot
// root, commit log root, ignore file, scratch and lock names), the operating
// mode and the log level. Values start from defaults, may be overridden by an
// optional YAML file named by POD_CONFIG, and finally by environment variables:
//   - POD_ROOT: working tree root (default: current directory)
//   - POD_LOG_LEVEL: logrus level name (default: warn)
//   - MODE: INIT or COMMIT, selects the operation when no subcommand is given
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvRoot     = "POD_ROOT"
	EnvConfig   = "POD_CONFIG"
	EnvLogLevel = "POD_LOG_LEVEL"
	EnvMode     = "MODE"
)

// Mode selects the operation run by the MODE dispatcher.
type Mode string

const (
	ModeInit   Mode = "INIT"
	ModeCommit Mode = "COMMIT"
)

// ErrUnknownMode is returned when MODE is unset or not a known value.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode validates a MODE value. Matching is exact.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInit, ModeCommit:
		return Mode(s), nil
	case "":
		return "", fmt.Errorf("%w: %s not provided", ErrUnknownMode, EnvMode)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Config contains everything the engine needs to locate its state.
type Config struct {
	// Root is the absolute path of the working tree.
	Root string `yaml:"-"`

	// SnapshotDir is the reserved name of the initial snapshot root.
	SnapshotDir string `yaml:"snapshot_dir"`

	// CommitsDir is the reserved name of the commit log root.
	CommitsDir string `yaml:"commits_dir"`

	// IgnoreFile is the name of the ignore file at the working tree root.
	IgnoreFile string `yaml:"ignore_file"`

	// ScratchDir is the name of the scratch directory inside CommitsDir.
	ScratchDir string `yaml:"scratch_dir"`

	// LockFile is the name of the lock file inside CommitsDir.
	LockFile string `yaml:"lock_file"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`

	// Mode is the raw MODE value; parse with ParseMode.
	Mode string `yaml:"-"`
}

// Default returns the default configuration rooted at root.
func Default(root string) *Config {
	return &Config{
		Root:        root,
		SnapshotDir: ".pod",
		CommitsDir:  ".commits",
		IgnoreFile:  ".podignore",
		ScratchDir:  ".scratch",
		LockFile:    ".lock",
		LogLevel:    "warn",
	}
}

// Load builds the configuration for a process started in cwd.
func Load(cwd string) (*Config, error) {
	root := cwd
	if envRoot := os.Getenv(EnvRoot); envRoot != "" {
		root = envRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	cfg := Default(abs)

	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	cfg.Mode = os.Getenv(EnvMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the non-empty values of a YAML file onto cfg.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for _, f := range []struct {
		dst *string
		src string
	}{
		{&c.SnapshotDir, file.SnapshotDir},
		{&c.CommitsDir, file.CommitsDir},
		{&c.IgnoreFile, file.IgnoreFile},
		{&c.ScratchDir, file.ScratchDir},
		{&c.LockFile, file.LockFile},
		{&c.LogLevel, file.LogLevel},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return nil
}

// Validate checks that every reserved name is a plain basename.
func (c *Config) Validate() error {
	names := map[string]string{
		"snapshot_dir": c.SnapshotDir,
		"commits_dir":  c.CommitsDir,
		"ignore_file":  c.IgnoreFile,
		"scratch_dir":  c.ScratchDir,
		"lock_file":    c.LockFile,
	}
	for key, name := range names {
		if name == "" || name == "." || name == ".." {
			return fmt.Errorf("invalid config: %s must be a file name, got %q", key, name)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("invalid config: %s must not contain path separators, got %q", key, name)
		}
	}
	if c.SnapshotDir == c.CommitsDir {
		return fmt.Errorf("invalid config: snapshot_dir and commits_dir are both %q", c.SnapshotDir)
	}
	if c.ScratchDir == c.LockFile {
		return fmt.Errorf("invalid config: scratch_dir and lock_file are both %q", c.ScratchDir)
	}
	return nil
}

// ReservedNames returns the names the enumerator must never visit.
func (c *Config) ReservedNames() []string {
	return []string{c.SnapshotDir, c.CommitsDir}
}

// ScratchPath returns the scratch directory relative to the root.
func (c *Config) ScratchPath() string {
	return c.CommitsDir + "/" + c.ScratchDir
}

// LockPath returns the absolute path of the repository lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Root, c.CommitsDir, c.LockFile)
}
