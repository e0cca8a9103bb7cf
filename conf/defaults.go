package conf

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Spec tree defaults
	v.SetDefault("spec.root", "specs")
	v.SetDefault("spec.manifest", "ucspec.yaml")

	// Logging defaults
	v.SetDefault("log.theme", "everforest")

	// Watch-mode defaults
	v.SetDefault("watch.debounce_ms", 400)
	v.SetDefault("watch.min_interval_seconds", 2)

	// Lock defaults
	v.SetDefault("lock.break_stale", true)
}

// BindExplicitEnvVars binds configuration keys that are commonly set per-shell
// rather than per-project, so they work even without AutomaticEnv.
func BindExplicitEnvVars(v *viper.Viper) {
	v.BindEnv("spec.root", "UCSYNC_SPEC_ROOT")
	v.BindEnv("spec.manifest", "UCSYNC_SPEC_MANIFEST")
	v.BindEnv("log.theme", "UCSYNC_LOG_THEME")
}
