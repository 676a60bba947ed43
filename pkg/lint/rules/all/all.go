// Package all registers every built-in rule with the global registry.
//
//	import _ "github.com/leapstack-labs/modlint/pkg/lint/rules/all"
package all

import (
	// Blank imports trigger init() functions that register rules with the global registry.
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/catalog"    // po-*
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/code"       // Python source rules
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/extrafiles" // raw data file rules
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/manifest"   // manifest-*, license-allowed
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/markup"     // XML data rules
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/module"     // missing-readme, file-not-used
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/script"     // javascript-lint
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/syntax"     // *-syntax-error
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/tabular"    // duplicate-id-csv
)
