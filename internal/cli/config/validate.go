package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// outputModes are the accepted values of the output key.
var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.OutputFormat != "" && !slices.Contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of %v)", c.OutputFormat, outputModes)
	}
	if len(c.ManifestNames) == 0 {
		return fmt.Errorf("manifest_names must name at least one file")
	}

	s := c.External.Script
	if s.Timeout < 0 {
		return fmt.Errorf("external.script.timeout must not be negative, got %s", s.Timeout)
	}
	if s.MaxProcs < 0 {
		return fmt.Errorf("external.script.max_procs must not be negative, got %d", s.MaxProcs)
	}

	// Selection entries are checked here so a bad config file fails before
	// any path is touched.
	if _, err := lint.ParseRuleSet(c.Enable); err != nil {
		return fmt.Errorf("enable: %w", err)
	}
	if _, err := lint.ParseRuleSet(c.Disable); err != nil {
		return fmt.Errorf("disable: %w", err)
	}
	return nil
}
