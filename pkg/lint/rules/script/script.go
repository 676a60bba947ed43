// Package script registers the external script linter rule and its
// failure rule.
package script

import (
	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/external"
)

func init() {
	for _, def := range external.ScriptRules("odoolint", external.DefaultRuleID, external.DefaultErrorRuleID) {
		lint.Register(def)
	}
}
