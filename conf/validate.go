package conf

import (
	"strings"

	"github.com/ucspec/ucsync/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Spec.Root == "" {
		return errors.New("spec.root cannot be empty (omit for default \"specs\")")
	}

	if c.Spec.Manifest == "" {
		return errors.New("spec.manifest cannot be empty (omit for default \"ucspec.yaml\")")
	}
	// The manifest is always directly inside the spec root
	if strings.ContainsAny(c.Spec.Manifest, `/\`) {
		return errors.Newf("spec.manifest must be a bare filename, got %q", c.Spec.Manifest)
	}

	// Theme: empty falls back to everforest
	if c.Log.Theme != "" && c.Log.Theme != "gruvbox" && c.Log.Theme != "everforest" {
		return errors.Newf("log.theme must be gruvbox or everforest, got %q", c.Log.Theme)
	}

	// Watch intervals: 0 = use default, negative = invalid
	if c.Watch.DebounceMs < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}
	if c.Watch.MinIntervalSeconds < 0 {
		return errors.Newf("watch.min_interval_seconds must be >= 0, got %d", c.Watch.MinIntervalSeconds)
	}

	return nil
}
