// Package config provides configuration management for the BeatCut Agent.
// Configuration is loaded from environment variables with sensible defaults,
// plus an optional YAML profile carrying default scheduling knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultPort      = 8691
	DefaultLogLevel  = "info"
	DefaultDataDir   = ".beatcut"
	DefaultTargetFPS = 30.0

	// Environment variable names
	EnvPort      = "BEATCUT_PORT"
	EnvLogLevel  = "BEATCUT_LOG_LEVEL"
	EnvDataDir   = "BEATCUT_DATA_DIR"
	EnvTargetFPS = "BEATCUT_TARGET_FPS"
	EnvProfile   = "BEATCUT_PROFILE"
	EnvHeadless  = "BEATCUT_HEADLESS"

	// Database filename
	DBFilename = "beatcut.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	TargetFPS() float64
	Profile() Profile
	Headless() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port      int
	logLevel  string
	dataDir   string
	targetFPS float64
	profile   Profile
	headless  bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		dataDir:   defaultDataDir(),
		targetFPS: DefaultTargetFPS,
		profile:   DefaultProfile(),
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if fps := os.Getenv(EnvTargetFPS); fps != "" {
		parsed, err := strconv.ParseFloat(fps, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTargetFPS, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("invalid %s: frame rate must be positive", EnvTargetFPS)
		}
		cfg.targetFPS = parsed
	}

	if hl := os.Getenv(EnvHeadless); hl != "" {
		parsed, err := strconv.ParseBool(hl)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = parsed
	}

	if pp := os.Getenv(EnvProfile); pp != "" {
		profile, err := LoadProfile(pp)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvProfile, err)
		}
		cfg.profile = profile
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// TargetFPS returns the default output frame rate for plans
func (c *EnvConfig) TargetFPS() float64 {
	return c.targetFPS
}

// Profile returns the default scheduling profile
func (c *EnvConfig) Profile() Profile {
	return c.profile
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
