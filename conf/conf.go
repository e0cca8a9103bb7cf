// Package conf holds tool-level configuration for ucsync.
//
// This is configuration about HOW the tool runs (paths, logging, watch
// behavior), loaded from ucsync.toml files and UCSYNC_* environment
// variables. The version manifest describing WHAT to sync lives inside
// the spec root and is handled by the chain package.
package conf

import (
	"path/filepath"
	"time"
)

// Config represents the ucsync tool configuration
type Config struct {
	Spec  SpecConfig  `mapstructure:"spec"`
	Log   LogConfig   `mapstructure:"log"`
	Watch WatchConfig `mapstructure:"watch"`
	Lock  LockConfig  `mapstructure:"lock"`
}

// SpecConfig locates the versioned fixture tree
type SpecConfig struct {
	Root     string `mapstructure:"root"`     // Directory containing the manifest and version dirs (default: "specs")
	Manifest string `mapstructure:"manifest"` // Manifest filename within the root (default: "ucspec.yaml")
}

// LogConfig configures console log rendering
type LogConfig struct {
	Theme string `mapstructure:"theme"` // Color theme: gruvbox, everforest
}

// WatchConfig tunes the watch-mode resync loop
type WatchConfig struct {
	DebounceMs         int `mapstructure:"debounce_ms"`          // Quiet period after the last event before a resync (default: 400)
	MinIntervalSeconds int `mapstructure:"min_interval_seconds"` // Floor between consecutive resyncs (default: 2)
}

// LockConfig tunes advisory lock behavior
type LockConfig struct {
	BreakStale bool `mapstructure:"break_stale"` // Remove a lock whose holder PID is dead (default: true)
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// LockFileName is the advisory lock file created inside the spec root
// while a write pass is running.
const LockFileName = ".ucsync.lock"

// ManifestPath returns the full path to the version manifest
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Spec.Root, c.Spec.Manifest)
}

// LockPath returns the full path to the advisory lock file
func (c *Config) LockPath() string {
	return filepath.Join(c.Spec.Root, LockFileName)
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return "everforest"
	}
	return c.Log.Theme
}

// DebounceDuration returns the watch debounce window
func (c *Config) DebounceDuration() time.Duration {
	if c.Watch.DebounceMs <= 0 {
		return 400 * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// MinSyncInterval returns the floor between consecutive watch resyncs
func (c *Config) MinSyncInterval() time.Duration {
	if c.Watch.MinIntervalSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.Watch.MinIntervalSeconds) * time.Second
}
