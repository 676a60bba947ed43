package lint

import "context"

// ExternalChecker evaluates an External rule by delegating to a tool outside
// the process.
type ExternalChecker interface {
	// RuleID is the registered External rule this checker evaluates.
	RuleID() string

	// Available resolves the tool. It returns an error wrapping
	// ErrToolNotFound when the tool is not installed; the rule is then
	// skipped for the whole run.
	Available() error

	// Check runs the tool against one artifact. Tool failures are reported
	// as a single synthetic violation rather than an error.
	Check(ctx context.Context, a *Artifact) []Violation
}
