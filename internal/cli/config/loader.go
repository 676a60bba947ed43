package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey stores the run logger in a command context.
type loggerKey struct{}

// EnvPrefix prefixes every environment variable read by the loader.
// A double underscore separates nested keys:
// MODLINT_EXTERNAL__SCRIPT__BINARY sets external.script.binary.
const EnvPrefix = "MODLINT_"

const maxUpwardSearchLevels = 10

// configNames are the file names searched for, in order.
var configNames = []string{"modlint.yaml", "modlint.yml"}

// Flags that never map to a config key.
var ignoredFlags = map[string]bool{
	"config": true,
	"watch":  true,
	"format": true,
}

var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// configIn returns the config file in dir, or "" when there is none.
func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward returns the nearest config file at or above dir.
func findConfigUpward(dir string) string {
	for range maxUpwardSearchLevels {
		if found := configIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo anchors a relative tool path at baseDir. Bare
// command names are left for PATH lookup.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || !strings.ContainsRune(path, '/') {
		return path
	}
	return filepath.Join(baseDir, filepath.FromSlash(path))
}

// ResetConfig forgets the last load.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"enable":                        []string{},
		"disable":                       []string{},
		"workers":                       d.Workers,
		"verbose":                       false,
		"output":                        d.OutputFormat,
		"manifest_names":                d.ManifestNames,
		"external.script.binary":        d.External.Script.Binary,
		"external.script.args":          []string{},
		"external.script.timeout":       d.External.Script.Timeout.String(),
		"external.script.max_procs":     d.External.Script.MaxProcs,
		"external.script.ok_exit_codes": d.External.Script.OkExitCodes,
	}
}

// envKey maps MODLINT_EXTERNAL__SCRIPT__MAX_PROCS to external.script.max_procs.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// LoadConfig merges defaults, the config file, MODLINT_ environment
// variables and changed flags, later sources winning. Without cfgFile the
// nearest modlint.yaml or modlint.yml at or above the working directory is
// used.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	}
	configFileUsed = cfgFile
	projectRoot := cwd
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || ignoredFlags[f.Name] {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot

	// ${VAR} references are expanded before the binary is anchored.
	script := &cfg.External.Script
	script.Binary = resolvePathRelativeTo(expandEnvVars(script.Binary), projectRoot)
	for i, arg := range script.Args {
		script.Args[i] = expandEnvVars(arg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the result of the last LoadConfig, or nil.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key root.go stores the logger under.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with its value. Unset variables are kept
// verbatim.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}
