// Package external adapts command-line linters to the lint.ExternalChecker
// contract.
package external

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// Rule ids evaluated by the default script checker.
const (
	DefaultRuleID      = "javascript-lint"
	DefaultErrorRuleID = "javascript-lint-error"
	DefaultBinary      = "eslint"
)

// Resolver finds an executable by name.
type Resolver interface {
	LookPath(name string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (string, error)

// LookPath calls f(name).
func (f ResolverFunc) LookPath(name string) (string, error) {
	return f(name)
}

// PathResolver resolves executables on the host search path.
var PathResolver Resolver = ResolverFunc(exec.LookPath)

// Config configures a ScriptChecker.
type Config struct {
	Binary      string        // executable name, default "eslint"
	Args        []string      // arguments placed before the artifact path
	Timeout     time.Duration // per-invocation limit; zero means none
	MaxProcs    int           // concurrent subprocesses, default 4
	OkExitCodes []int         // exit codes that mean "ran normally", default 0 and 1

	RuleID      string // default DefaultRuleID
	ErrorRuleID string // default DefaultErrorRuleID

	Resolver Resolver // default PathResolver
	Logger   *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.MaxProcs <= 0 {
		c.MaxProcs = 4
	}
	if len(c.OkExitCodes) == 0 {
		c.OkExitCodes = []int{0, 1}
	}
	if c.RuleID == "" {
		c.RuleID = DefaultRuleID
	}
	if c.ErrorRuleID == "" {
		c.ErrorRuleID = DefaultErrorRuleID
	}
	if c.Resolver == nil {
		c.Resolver = PathResolver
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// ScriptChecker runs a script linter as a subprocess, one invocation per
// artifact, and maps its "file:line[:col]: message" output to violations.
type ScriptChecker struct {
	cfg Config
	sem *semaphore.Weighted

	once sync.Once
	path string
	err  error
}

var _ lint.ExternalChecker = (*ScriptChecker)(nil)

// NewScriptChecker creates a checker. The executable is resolved lazily,
// once, on the first call to Available or Check.
func NewScriptChecker(cfg Config) *ScriptChecker {
	cfg = cfg.withDefaults()
	return &ScriptChecker{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.MaxProcs)),
	}
}

// RuleID returns the External rule this checker evaluates.
func (c *ScriptChecker) RuleID() string {
	return c.cfg.RuleID
}

// ErrorRuleID returns the synthetic rule used for subprocess failures.
func (c *ScriptChecker) ErrorRuleID() string {
	return c.cfg.ErrorRuleID
}

// Available reports whether the executable can be resolved.
func (c *ScriptChecker) Available() error {
	c.once.Do(func() {
		c.path, c.err = c.cfg.Resolver.LookPath(c.cfg.Binary)
		if c.err != nil {
			c.err = fmt.Errorf("%w: %s: %v", lint.ErrToolNotFound, c.cfg.Binary, c.err)
			return
		}
		c.cfg.Logger.Debug("resolved script linter", "binary", c.cfg.Binary, "path", c.path)
	})
	return c.err
}

var diagnosticPattern = regexp.MustCompile(`^(.+?):(\d+)(?::\d+)?:\s*(.+)$`)

// Check lints one artifact. Every failure to run the tool or to make sense
// of its output yields exactly one violation under ErrorRuleID.
func (c *ScriptChecker) Check(ctx context.Context, a *lint.Artifact) []lint.Violation {
	if err := c.Available(); err != nil {
		return nil
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer c.sem.Release(1)

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	args := append(slices.Clone(c.cfg.Args), a.Path)
	cmd := exec.CommandContext(ctx, c.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	c.cfg.Logger.Debug("script linter finished",
		"path", a.RelPath,
		"duration", time.Since(start),
		"error", err)

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			return c.failure(a, fmt.Sprintf("%s did not finish: %v", c.cfg.Binary, ctx.Err()))
		case errors.As(err, &exitErr):
			code = exitErr.ExitCode()
		default:
			return c.failure(a, fmt.Sprintf("%s could not be started: %v", c.cfg.Binary, err))
		}
	}
	if !slices.Contains(c.cfg.OkExitCodes, code) {
		return c.failure(a, fmt.Sprintf("%s exited with status %d%s", c.cfg.Binary, code, firstLine(stderr.String())))
	}

	violations, unread := c.parse(a, &stdout)
	switch {
	case len(violations) > 0:
		return violations
	case code != 0:
		return c.failure(a, fmt.Sprintf("%s exited with status %d without diagnostics%s", c.cfg.Binary, code, firstLine(stderr.String())))
	case unread != "":
		return c.failure(a, fmt.Sprintf("%s produced unreadable output: %s", c.cfg.Binary, unread))
	}
	return nil
}

// parse maps diagnostic lines to violations. unread is the first non-blank
// line that is not a diagnostic.
func (c *ScriptChecker) parse(a *lint.Artifact, out io.Reader) (violations []lint.Violation, unread string) {
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		m := diagnosticPattern.FindStringSubmatch(text)
		if m == nil {
			if unread == "" {
				unread = text
			}
			continue
		}
		line, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		violations = append(violations, lint.Violation{
			RuleID:  c.cfg.RuleID,
			Path:    a.Path,
			Line:    line,
			Detail:  m[3],
			Message: m[3],
		})
	}
	return violations, unread
}

func (c *ScriptChecker) failure(a *lint.Artifact, detail string) []lint.Violation {
	c.cfg.Logger.Warn("script linter failed", "path", a.RelPath, "detail", detail)
	return []lint.Violation{{
		RuleID:  c.cfg.ErrorRuleID,
		Path:    a.Path,
		Detail:  detail,
		Message: detail,
	}}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	line, _, _ := strings.Cut(s, "\n")
	return ": " + line
}

// ScriptRules returns the rule definitions a ScriptChecker with the given
// ids evaluates: the External rule, in group, and its synthetic failure
// rule in the syntax group.
func ScriptRules(group, ruleID, errorRuleID string) []lint.RuleDef {
	return []lint.RuleDef{
		{
			ID:             ruleID,
			Group:          group,
			Description:    "Script linter diagnostics",
			Severity:       lint.SeverityWarning,
			Formats:        []lint.Format{lint.FormatScript},
			Message:        "{detail}",
			DefaultEnabled: true,
			External:       true,
		},
		{
			ID:             errorRuleID,
			Group:          lint.SyntaxGroup,
			Description:    "The script linter crashed or produced unreadable output",
			Severity:       lint.SeverityError,
			Formats:        []lint.Format{lint.FormatScript},
			Message:        "{detail}",
			DefaultEnabled: true,
			Synthetic:      true,
		},
	}
}
