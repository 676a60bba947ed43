package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display modlint version and the number of registered rules.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "modlint v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Static checks for Odoo modules (%d rules)\n", lint.Default().Count())
		},
	}
}
