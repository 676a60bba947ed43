// Package config provides configuration management for the modlint CLI.
//
// Values are layered with koanf: built-in defaults, then modlint.yaml,
// then MODLINT_* environment variables, then explicitly set flags.
package config

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/discover"
	"github.com/leapstack-labs/modlint/pkg/lint/external"
)

// Config holds all CLI configuration options.
type Config struct {
	Enable        []string                `koanf:"enable"`
	Disable       []string                `koanf:"disable"`
	Workers       int                     `koanf:"workers"`
	Verbose       bool                    `koanf:"verbose"`
	OutputFormat  string                  `koanf:"output"`
	ManifestNames []string                `koanf:"manifest_names"`
	External      ExternalConfig          `koanf:"external"`
	Rules         map[string]lint.Options `koanf:"rules"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. Not loaded from any source.
	ProjectRoot string `koanf:"-"`
}

// ExternalConfig groups the settings of external checkers.
type ExternalConfig struct {
	Script ScriptConfig `koanf:"script"`
}

// ScriptConfig configures the script linter subprocess.
type ScriptConfig struct {
	Binary      string        `koanf:"binary"`
	Args        []string      `koanf:"args"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxProcs    int           `koanf:"max_procs"`
	OkExitCodes []int         `koanf:"ok_exit_codes"`
}

// Default configuration values.
const (
	DefaultWorkers       = 1
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultScriptTimeout = 30 * time.Second
	DefaultScriptProcs   = 4
)

// DefaultOkExitCodes are the script linter statuses meaning "ran to completion".
var DefaultOkExitCodes = []int{0, 1}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Workers:       DefaultWorkers,
		OutputFormat:  DefaultOutput,
		ManifestNames: append([]string(nil), discover.DefaultManifestNames...),
		External: ExternalConfig{Script: ScriptConfig{
			Binary:      external.DefaultBinary,
			Timeout:     DefaultScriptTimeout,
			MaxProcs:    DefaultScriptProcs,
			OkExitCodes: append([]int(nil), DefaultOkExitCodes...),
		}},
	}
}

// Selection builds the rule selection. An empty enable list selects the
// rules that are enabled by default in reg.
func (c *Config) Selection(reg *lint.Registry) (lint.Selection, error) {
	enable, err := lint.ParseRuleSet(c.Enable)
	if err != nil {
		return lint.Selection{}, err
	}
	disable, err := lint.ParseRuleSet(c.Disable)
	if err != nil {
		return lint.Selection{}, err
	}
	if enable.IsEmpty() {
		enable = lint.RuleIDs(reg.DefaultEnabledIDs()...)
	}
	return lint.Selection{Enable: enable, Disable: disable}, nil
}

// ScriptChecker builds the external script linter from the config. A nil
// resolver searches the host PATH.
func (c *Config) ScriptChecker(resolver external.Resolver, logger *slog.Logger) *external.ScriptChecker {
	s := c.External.Script
	return external.NewScriptChecker(external.Config{
		Binary:      s.Binary,
		Args:        s.Args,
		Timeout:     s.Timeout,
		MaxProcs:    s.MaxProcs,
		OkExitCodes: s.OkExitCodes,
		Resolver:    resolver,
		Logger:      logger,
	})
}
