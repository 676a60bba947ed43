// Package discover enumerates the modules under a scan root and tags each
// file with the format the dispatcher routes it by.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// DefaultManifestNames are the file names recognized as module manifests.
var DefaultManifestNames = []string{"__manifest__.py", "__openerp__.py", "__terp__.py"}

// DefaultExtensions maps lower-cased file extensions to formats.
var DefaultExtensions = map[string]lint.Format{
	".py":   lint.FormatCode,
	".xml":  lint.FormatMarkup,
	".csv":  lint.FormatTabular,
	".po":   lint.FormatCatalog,
	".pot":  lint.FormatCatalog,
	".js":   lint.FormatScript,
	".mjs":  lint.FormatScript,
	".jsx":  lint.FormatScript,
	".ts":   lint.FormatScript,
	".css":  lint.FormatScript,
	".scss": lint.FormatScript,
	".less": lint.FormatScript,
}

// Classifier assigns formats to files. The zero value uses the defaults.
type Classifier struct {
	ManifestNames []string
	Extensions    map[string]lint.Format
}

// Classify discovers modules under root with the default classifier.
func Classify(root string) ([]*lint.Module, error) {
	return (&Classifier{}).Classify(root)
}

// FormatOf returns the format for a file path.
func (c *Classifier) FormatOf(path string) lint.Format {
	base := filepath.Base(path)
	names := c.ManifestNames
	if len(names) == 0 {
		names = DefaultManifestNames
	}
	for _, name := range names {
		if base == name {
			return lint.FormatManifest
		}
	}

	exts := c.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	if f, ok := exts[strings.ToLower(filepath.Ext(base))]; ok {
		return f
	}
	return lint.FormatIgnored
}

// Classify walks every immediate subdirectory of root. The root must exist;
// a missing root is reported before any traversal begins.
func (c *Classifier) Classify(root string) ([]*lint.Module, error) {
	return c.ClassifyRoots([]string{root})
}

// ClassifyRoots discovers the modules of several roots. Every root is
// checked before any of them is walked. Modules are ordered by name, then
// directory; artifacts within a module by relative path.
func (c *Classifier) ClassifyRoots(roots []string) ([]*lint.Module, error) {
	for _, root := range roots {
		if err := checkRoot(root); err != nil {
			return nil, err
		}
	}

	var modules []*lint.Module
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read root %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || isHidden(entry.Name()) {
				continue
			}
			mod, err := c.classifyModule(root, entry.Name())
			if err != nil {
				return nil, err
			}
			modules = append(modules, mod)
		}
	}

	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].Name != modules[j].Name {
			return modules[i].Name < modules[j].Name
		}
		return modules[i].Dir < modules[j].Dir
	})
	return modules, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lint.PathNotFound(root)
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", lint.ErrPathNotFound, root)
	}
	return nil
}

func (c *Classifier) classifyModule(root, name string) (*lint.Module, error) {
	dir := filepath.Join(root, name)
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	mod := &lint.Module{Name: name, Dir: absDir}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		mod.Artifacts = append(mod.Artifacts, &lint.Artifact{
			Module:  name,
			Path:    filepath.Join(absDir, rel),
			RelPath: filepath.ToSlash(rel),
			Format:  c.FormatOf(path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk module %s: %w", name, err)
	}

	sort.Slice(mod.Artifacts, func(i, j int) bool {
		return mod.Artifacts[i].RelPath < mod.Artifacts[j].RelPath
	})
	return mod, nil
}

// isHidden reports dot-directories such as .git, which are never modules
// and never walked.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
