// Package config holds run settings: code defaults, overridden by an optional
// config file, overridden by PARAPING_* environment variables; command-line
// flags win over all of these (applied by the CLI layer).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/icecake0141/paraping/internal/errors"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".paraping.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/paraping"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"

	envPrefix = "PARAPING"
)

// Settings holds every tunable of a probing run.
type Settings struct {
	Timeout       time.Duration // per-attempt probe timeout
	Count         int           // attempts per host
	SlowThreshold time.Duration // replies at or above this are "slow"
	MaxParallel   int           // concurrently probing hosts
	Verbose       bool

	ASN ASNSettings
}

// ASNSettings holds the ASN enrichment tunables.
type ASNSettings struct {
	Enabled    bool
	Workers    int
	Timeout    time.Duration
	FailureTTL time.Duration // cooldown before a failed lookup is retried
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Timeout:       1 * time.Second,
		Count:         4,
		SlowThreshold: 500 * time.Millisecond,
		MaxParallel:   10,
		ASN: ASNSettings{
			Enabled:    false,
			Workers:    2,
			Timeout:    3 * time.Second,
			FailureTTL: 60 * time.Second,
		},
	}
}

// Load builds Settings from defaults, an optional config file, and the
// environment. An explicit path must exist; the implicit search locations
// (./.paraping.yaml, ~/.config/paraping/config.yaml) are skipped silently
// when absent.
func Load(explicit string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := find(explicit)
	if err != nil {
		return Settings{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file "+path,
				"Check the file is valid YAML")
		}
	}

	return Settings{
		Timeout:       v.GetDuration("timeout"),
		Count:         v.GetInt("count"),
		SlowThreshold: v.GetDuration("slow_threshold"),
		MaxParallel:   v.GetInt("max_parallel"),
		Verbose:       v.GetBool("verbose"),
		ASN: ASNSettings{
			Enabled:    v.GetBool("asn.enabled"),
			Workers:    v.GetInt("asn.workers"),
			Timeout:    v.GetDuration("asn.timeout"),
			FailureTTL: v.GetDuration("asn.failure_ttl"),
		},
	}, nil
}

// Validate checks the pre-flight user errors that must abort before any
// probing starts.
func Validate(s Settings, hosts []string) error {
	if s.Count <= 0 {
		return errors.New(errors.ErrConfig,
			"Count must be a positive number",
			"Pass -c with a value greater than zero.")
	}
	if len(hosts) == 0 {
		return errors.New(errors.ErrConfig,
			"No hosts specified",
			"Provide hosts as arguments or use -f/--input.")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("count", d.Count)
	v.SetDefault("slow_threshold", d.SlowThreshold)
	v.SetDefault("max_parallel", d.MaxParallel)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("asn.enabled", d.ASN.Enabled)
	v.SetDefault("asn.workers", d.ASN.Workers)
	v.SetDefault("asn.timeout", d.ASN.Timeout)
	v.SetDefault("asn.failure_ttl", d.ASN.FailureTTL)
}

// find locates the config file: explicit path first, then the current
// directory, then the global location. Empty string means "no config file".
func find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}
