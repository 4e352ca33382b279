package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/icecake0141/paraping/internal/config"
	"github.com/icecake0141/paraping/internal/errors"
)

var initForce bool

// initCmd creates a new .paraping.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .paraping.yaml configuration",
	Long: `Write a .paraping.yaml file with the default settings to the current
directory. Edit it to change the defaults for runs started from here.

Examples:
  paraping init
  paraping init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(filepath.Join(".", config.ConfigFileName), initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
}

// fileSettings mirrors config.Settings with the keys the config file uses.
type fileSettings struct {
	Timeout       string `yaml:"timeout"`
	Count         int    `yaml:"count"`
	SlowThreshold string `yaml:"slow_threshold"`
	MaxParallel   int    `yaml:"max_parallel"`
	Verbose       bool   `yaml:"verbose"`
	ASN           struct {
		Enabled    bool   `yaml:"enabled"`
		Workers    int    `yaml:"workers"`
		Timeout    string `yaml:"timeout"`
		FailureTTL string `yaml:"failure_ttl"`
	} `yaml:"asn"`
}

// initConfig writes the default settings to path, refusing to overwrite an
// existing file unless force is set.
func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite")
	}

	d := config.Default()
	fs := fileSettings{
		Timeout:       d.Timeout.String(),
		Count:         d.Count,
		SlowThreshold: d.SlowThreshold.String(),
		MaxParallel:   d.MaxParallel,
		Verbose:       d.Verbose,
	}
	fs.ASN.Enabled = d.ASN.Enabled
	fs.ASN.Workers = d.ASN.Workers
	fs.ASN.Timeout = d.ASN.Timeout.String()
	fs.ASN.FailureTTL = d.ASN.FailureTTL.String()

	body, err := yaml.Marshal(fs)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize default config", "")
	}

	header := "# paraping configuration. Every key here can also be set with a\n" +
		"# PARAPING_ environment variable (e.g., PARAPING_SLOW_THRESHOLD=200ms)\n" +
		"# or overridden per run with command-line flags.\n"

	if err := os.WriteFile(path, []byte(header+string(body)), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check directory permissions")
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
