// Package parse turns artifact bytes into the parsed trees rules consume.
//
// Every parser reports malformed input as a *Error; the dispatcher converts
// it into exactly one synthetic syntax-error violation for the artifact.
package parse

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// Error is a parse failure for one artifact.
type Error struct {
	Format lint.Format
	Path   string
	Line   int // 0 when the failure has no position
	Err    error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Violation converts the failure into the synthetic violation for its format.
func (e *Error) Violation() lint.Violation {
	return lint.Violation{
		RuleID:  lint.SyntaxErrorRuleID(e.Format),
		Path:    e.Path,
		Line:    e.Line,
		Detail:  e.Err.Error(),
		Message: e.Err.Error(),
	}
}

// Parse parses an artifact according to its format. Module artifacts are
// assembled by the engine and are not handled here.
func Parse(a *lint.Artifact) (lint.Tree, error) {
	var (
		tree lint.Tree
		err  error
	)
	switch a.Format {
	case lint.FormatCode:
		tree, err = nonNil(Code(a.Path, a.Content))
	case lint.FormatMarkup:
		tree, err = nonNil(Markup(a.Path, a.Content))
	case lint.FormatTabular:
		tree, err = nonNil(Tabular(a.Path, a.Content))
	case lint.FormatCatalog:
		tree, err = nonNil(Catalog(a.Path, a.Content))
	case lint.FormatManifest:
		tree, err = nonNil(Manifest(a.Path, a.Content))
	case lint.FormatScript:
		tree, err = nonNil(Script(a.Path, a.Content))
	default:
		return nil, fmt.Errorf("no parser for format %q of %s", a.Format, filepath.Base(a.Path))
	}
	return tree, err
}

// nonNil keeps a failed parse from leaking a typed nil pointer into the
// Tree interface.
func nonNil[T lint.Tree](tree T, err error) (lint.Tree, error) {
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func newError(f lint.Format, path string, line int, err error) *Error {
	return &Error{Format: f, Path: path, Line: line, Err: err}
}
