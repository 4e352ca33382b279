// Package cli wires the cobra commands together: the root command runs a
// probing session, with init and version as subcommands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/icecake0141/paraping/internal/config"
	"github.com/icecake0141/paraping/internal/errors"
)

// Root command flags
var (
	flagConfig        string
	flagTimeout       string
	flagSlowThreshold string
	flagCount         int
	flagMaxParallel   int
	flagVerbose       bool
	flagInput         string
	flagASN           bool
)

// rootCmd probes every host argument in parallel and draws the live dashboard.
var rootCmd = &cobra.Command{
	Use:   "paraping [flags] [hosts...]",
	Short: "Ping many hosts in parallel with a live dashboard",
	Long: `Probe a set of hosts concurrently and show a live per-host timeline of
replies: '.' for a reply, '!' for a slow reply, 'x' for no reply.

Hosts come from the command line, from a file (-f), or both. When stdout
is a terminal the dashboard redraws after every observation; arrow keys
scroll the host list and q quits early. A summary is printed at the end
either way.

Examples:
  paraping 8.8.8.8 1.1.1.1
  paraping -c 10 -t 2s example.com
  paraping -f hosts.txt --asn
  paraping --slow-threshold 200ms 10.0.0.1 10.0.0.2`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbes(cmd, args)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./.paraping.yaml, then ~/.config/paraping/config.yaml)")

	rootCmd.Flags().StringVarP(&flagTimeout, "timeout", "t", "", "per-probe timeout (e.g., 1s, 500ms)")
	rootCmd.Flags().StringVar(&flagSlowThreshold, "slow-threshold", "", "replies at or above this count as slow (e.g., 500ms)")
	rootCmd.Flags().IntVarP(&flagCount, "count", "c", 0, "probes per host")
	rootCmd.Flags().IntVar(&flagMaxParallel, "max-parallel", 0, "hosts probed concurrently")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print one line per observation when there is no dashboard")
	rootCmd.Flags().StringVarP(&flagInput, "input", "f", "", "file with one host per line ('#' comments allowed)")
	rootCmd.Flags().BoolVar(&flagASN, "asn", false, "look up each host's AS number via whois")
}

// applyFlagOverrides copies explicitly-set flags over the loaded settings.
// Unset flags leave the config/env/default value alone.
func applyFlagOverrides(cmd *cobra.Command, s *config.Settings) error {
	if cmd.Flags().Changed("timeout") {
		d, err := parseDurationFlag("timeout", flagTimeout)
		if err != nil {
			return err
		}
		s.Timeout = d
	}
	if cmd.Flags().Changed("slow-threshold") {
		d, err := parseDurationFlag("slow-threshold", flagSlowThreshold)
		if err != nil {
			return err
		}
		s.SlowThreshold = d
	}
	if cmd.Flags().Changed("count") {
		s.Count = flagCount
	}
	if cmd.Flags().Changed("max-parallel") {
		s.MaxParallel = flagMaxParallel
	}
	if cmd.Flags().Changed("verbose") {
		s.Verbose = flagVerbose
	}
	if cmd.Flags().Changed("asn") {
		s.ASN.Enabled = flagASN
	}
	return nil
}

// parseDurationFlag parses a duration-valued flag into a time.Duration.
func parseDurationFlag(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 5s, 2m, or 500ms.")
	}
	return d, nil
}
