package commands

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/modlint/internal/cli/output"
	"github.com/leapstack-labs/modlint/pkg/lint"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

func watchLint(cmd *cobra.Command, paths []string, opts *LintOptions) error {
	if err := checkFormat(opts.Format, lintFormats...); err != nil {
		return err
	}
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	pass := func(ctx context.Context) error {
		result, err := executeLint(ctx, cmdCtx, paths)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A root removed while watching waits for the next change.
			if errors.Is(err, lint.ErrPathNotFound) {
				cmdCtx.Logger.Warn("lint pass failed", "error", err)
				return nil
			}
			return err
		}
		if err := renderLintResult(r, result); err != nil {
			return err
		}
		if r.EffectiveMode() != output.ModeJSON {
			r.Println(r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)..."))
		}
		return nil
	}

	return watchLoop(cmd.Context(), paths, watchDebounce, cmdCtx.Logger, pass)
}

// watchLoop runs pass once, then again after each quiet period following a
// file change under roots. It returns nil when ctx is cancelled and the
// first error pass returns otherwise.
func watchLoop(ctx context.Context, roots []string, debounce time.Duration, logger *slog.Logger, pass func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range roots {
		if err := watchDirRecursive(watcher, root); err != nil {
			return err
		}
	}

	if err := pass(ctx); err != nil {
		return ignoreCancel(ctx, err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || isHidden(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			if err := pass(ctx); err != nil {
				return ignoreCancel(ctx, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func ignoreCancel(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// watchDirRecursive adds a directory and all non-hidden subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
