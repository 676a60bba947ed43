package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/parse"
)

// workItem is one artifact to dispatch, with the module that owns it.
type workItem struct {
	module   *lint.Module
	artifact *lint.Artifact
}

// workItems flattens modules into dispatch order: modules as classified,
// each module's pseudo-artifact first, then its files by relative path.
// Ignored files are left out.
func workItems(modules []*lint.Module) []workItem {
	var items []workItem
	for _, m := range modules {
		items = append(items, workItem{
			module: m,
			artifact: &lint.Artifact{
				Module: m.Name,
				Path:   m.Dir,
				Format: lint.FormatModule,
			},
		})
		for _, a := range m.Artifacts {
			if a.Format == lint.FormatIgnored {
				continue
			}
			items = append(items, workItem{module: m, artifact: a})
		}
	}
	return items
}

// run is the state of one RunRoots call.
type run struct {
	engine    *Engine
	effective lint.SelectionSet
	stats     *lint.Stats
	logger    *slog.Logger
}

// check runs every candidate rule against one artifact.
func (r *run) check(ctx context.Context, item workItem) {
	reg := r.engine.registry
	candidates := r.effective.Intersect(reg.IDsForFormat(item.artifact.Format))
	if len(candidates) == 0 {
		return
	}

	art := *item.artifact
	if err := r.load(item.module, &art); err != nil {
		r.logger.Warn("cannot read artifact", "path", art.Path, "error", err)
		r.synthetic(item.module, lint.SyntaxErrorRuleID(art.Format), lint.Violation{
			Path:   art.Path,
			Detail: err.Error(),
		})
		return
	}

	parsed := true
	if art.Tree == nil && r.needsTree(art.Format, candidates) {
		tree, err := parse.Parse(&art)
		if err != nil {
			parsed = false
			r.logger.Debug("parse failed", "path", art.Path, "error", err)
			r.synthetic(item.module, lint.SyntaxErrorRuleID(art.Format), parseViolation(&art, err))
		}
		art.Tree = tree
	}

	for _, id := range candidates {
		def, _ := reg.Get(id)
		switch {
		case def.Synthetic:
			continue
		case def.External:
			r.external(ctx, item.module, def, &art)
		case def.Raw || parsed:
			// A shallow copy per rule. Content and Tree stay shared read-only.
			view := art
			for _, v := range def.Check(&view, r.engine.ruleOptions[id]) {
				v.RuleID = id
				r.record(item.module, def, &art, v)
			}
		}
	}
}

// load fills the artifact's content, or its tree for the module
// pseudo-artifact.
func (r *run) load(m *lint.Module, a *lint.Artifact) error {
	if a.Format == lint.FormatModule {
		a.Tree = moduleTree(m)
		return nil
	}
	content, err := os.ReadFile(a.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", a.RelPath, err)
	}
	a.Content = content
	return nil
}

// needsTree reports whether any candidate requires a parse. A selected
// syntax-error rule counts, so the format is validated even when no other
// rule inspects the tree.
func (r *run) needsTree(f lint.Format, candidates []string) bool {
	syntaxID := lint.SyntaxErrorRuleID(f)
	for _, id := range candidates {
		if id == syntaxID {
			return true
		}
		def, _ := r.engine.registry.Get(id)
		if !def.Raw && !def.Synthetic && !def.External {
			return true
		}
	}
	return false
}

func (r *run) external(ctx context.Context, m *lint.Module, def lint.RuleDef, a *lint.Artifact) {
	checker, ok := r.engine.externals[def.ID]
	if !ok {
		return
	}
	view := *a
	for _, v := range checker.Check(ctx, &view) {
		if v.RuleID == "" {
			v.RuleID = def.ID
		}
		if v.RuleID == def.ID {
			r.record(m, def, a, v)
			continue
		}
		r.synthetic(m, v.RuleID, v)
	}
}

// synthetic records an engine-made violation when its rule is selected.
func (r *run) synthetic(m *lint.Module, id string, v lint.Violation) {
	if id == "" || !r.effective.Has(id) {
		return
	}
	def, ok := r.engine.registry.Get(id)
	if !ok {
		return
	}
	v.RuleID = id
	r.record(m, def, nil, v)
}

func (r *run) record(m *lint.Module, def lint.RuleDef, a *lint.Artifact, v lint.Violation) {
	if v.Path == "" && a != nil {
		v.Path = a.Path
	}
	v.Severity = def.Severity
	if sev, ok := r.engine.severities[def.ID]; ok {
		v.Severity = sev
	}
	if v.Message == "" {
		v.Message = strings.TrimSpace(lint.RenderMessage(def.Message, v, m.Name))
	}
	if v.Message == "" {
		v.Message = def.Description
	}
	r.stats.Record(v)
}

func parseViolation(a *lint.Artifact, err error) lint.Violation {
	var perr *parse.Error
	if errors.As(err, &perr) {
		return perr.Violation()
	}
	return lint.Violation{Path: a.Path, Detail: err.Error()}
}

// moduleTree builds the module pseudo-artifact's tree. The manifest is the
// first recognized manifest file at the module root; a manifest that fails
// to parse is left nil and reported by its own artifact.
func moduleTree(m *lint.Module) *lint.ModuleTree {
	tree := &lint.ModuleTree{Name: m.Name, Dir: m.Dir}
	for _, a := range m.Artifacts {
		tree.Files = append(tree.Files, lint.ModuleFile{RelPath: a.RelPath, Format: a.Format})
		if a.Format != lint.FormatManifest || tree.Manifest != nil || strings.Contains(a.RelPath, "/") {
			continue
		}
		content, err := os.ReadFile(a.Path)
		if err != nil {
			continue
		}
		if manifest, err := parse.Manifest(a.Path, content); err == nil {
			tree.Manifest = manifest
			tree.ManifestPath = a.RelPath
		}
	}
	return tree
}
