// Package config loads runtime configuration — discovery roots,
// security level, resource defaults, and audit sink selection — from
// ~/.openskills/config.yaml (or an explicit --config path) via viper,
// the same loading shape as the teacher's cmd/reglet initConfig.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// RuntimeConfig is the resolved set of options the CLI and runtime
// facade read at startup.
type RuntimeConfig struct {
	PersonalRoot     string   `mapstructure:"personal_root"`
	ProjectRoot      string   `mapstructure:"project_root"`
	CustomRoots      []string `mapstructure:"custom_roots"`
	MaxDiscoveryDepth int     `mapstructure:"max_discovery_depth"`

	SecurityLevel string `mapstructure:"security_level"` // trust_skill | host_managed | prompt_always

	DefaultTimeoutMS int64 `mapstructure:"default_timeout_ms"`
	DefaultMemoryMB  int64 `mapstructure:"default_memory_mb"`

	HostPolicyPath string `mapstructure:"host_policy_path"`

	AuditSinkKind string `mapstructure:"audit_sink"` // none | file | sarif
	AuditPath     string `mapstructure:"audit_path"`
}

// applyDefaults seeds viper with the values used when a key is absent
// from both the config file and the environment.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("project_root", "./.openskills/skills")
	v.SetDefault("max_discovery_depth", 4)
	v.SetDefault("security_level", "host_managed")
	v.SetDefault("default_timeout_ms", 30_000)
	v.SetDefault("default_memory_mb", 128)
	v.SetDefault("audit_sink", "none")
}

// Load reads configuration from cfgFile if set, else from
// $HOME/.openskills/config.yaml if present, applying OPENSKILLS_* env
// overrides on top either way. A missing default config file is not an
// error; an explicitly-named one that cannot be read is.
func Load(cfgFile string) (RuntimeConfig, error) {
	v := viper.New()
	applyDefaults(v)
	v.SetEnvPrefix("OPENSKILLS")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return RuntimeConfig{}, fmt.Errorf("reading config file %q: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home + "/.openskills")
			v.SetConfigType("yaml")
			v.SetConfigName("config")
			_ = v.ReadInConfig() // optional; silently continue if absent
		}
	}

	home, _ := os.UserHomeDir()
	if home != "" && v.GetString("personal_root") == "" {
		v.SetDefault("personal_root", home+"/.openskills/skills")
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("unmarshaling runtime config: %w", err)
	}
	return cfg, nil
}
