package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/modlint/internal/cli/config"
)

// configField describes one key of modlint.yaml.
type configField struct {
	Key         string
	Type        string
	Default     string
	Description string
}

func configSchema() []configField {
	d := config.Default()
	codes := make([]string, len(d.External.Script.OkExitCodes))
	for i, c := range d.External.Script.OkExitCodes {
		codes[i] = fmt.Sprint(c)
	}
	return []configField{
		{Key: "enable", Type: "[]string", Default: "-", Description: "Rule ids, group names or `all`; empty runs the default-enabled rules"},
		{Key: "disable", Type: "[]string", Default: "-", Description: "Rule ids, group names or `all`; always wins over enable"},
		{Key: "workers", Type: "int", Default: fmt.Sprint(d.Workers), Description: "Artifacts checked in parallel; values below 2 run sequentially"},
		{Key: "verbose", Type: "bool", Default: "false", Description: "Debug logging on stderr"},
		{Key: "output", Type: "string", Default: d.OutputFormat, Description: "auto, text, markdown or json"},
		{Key: "manifest_names", Type: "[]string", Default: strings.Join(d.ManifestNames, ", "), Description: "File names that mark a directory as a module"},
		{Key: "external.script.binary", Type: "string", Default: d.External.Script.Binary, Description: "Script linter executable; `${VAR}` is expanded"},
		{Key: "external.script.args", Type: "[]string", Default: "-", Description: "Extra arguments placed before the file path"},
		{Key: "external.script.timeout", Type: "duration", Default: d.External.Script.Timeout.String(), Description: "Per-file time limit"},
		{Key: "external.script.max_procs", Type: "int", Default: fmt.Sprint(d.External.Script.MaxProcs), Description: "Concurrent linter processes"},
		{Key: "external.script.ok_exit_codes", Type: "[]int", Default: strings.Join(codes, ", "), Description: "Exit codes that are not a crash"},
		{Key: "rules.<id>", Type: "map", Default: "-", Description: "Options for one rule, see the rule reference"},
	}
}

// generateConfigDocs writes configuration.md.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "modlint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("modlint reads `modlint.yaml` (or `modlint.yml`) from the working directory or the nearest parent. `--config` names a file explicitly.")

	var rows [][]string
	for _, f := range configSchema() {
		def := f.Default
		if def != "-" && def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, def, f.Description})
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Built-in defaults",
		"The config file",
		"Environment variables prefixed with " + InlineCode(config.EnvPrefix),
		"Command-line flags",
	})
	w.Paragraph("Nested keys use a double underscore in environment variables, for example `MODLINT_EXTERNAL__SCRIPT__BINARY`.")

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
