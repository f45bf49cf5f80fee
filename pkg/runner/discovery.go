package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds markup and header files matching opts. It returns a
// sorted, duplicate-free list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		ctx:        ctx,
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		exclude:    exclude,
		include:    include,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		if err := d.addInput(inputPath); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

type discoverer struct {
	ctx        context.Context
	opts       Options
	workDir    string
	extensions []string
	exclude    matcher
	include    matcher
	seen       map[string]struct{}
	files      []string
}

// addInput adds one command-line path: a directory is walked, a file is
// checked against the filters.
func (d *discoverer) addInput(inputPath string) error {
	absPath := inputPath
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(d.workDir, absPath)
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", inputPath, err)
	}

	if info.IsDir() {
		return d.walk(absPath)
	}

	rel := d.rel(absPath)
	if d.opts.AnyExtensionWhenExplicit {
		if !d.exclude.match(rel) {
			d.add(absPath)
		}
		return nil
	}
	if d.accepts(absPath, rel) {
		d.add(absPath)
	}
	return nil
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// rel returns path relative to the working directory with forward slashes,
// or the slashed absolute path when it lies elsewhere.
func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// accepts applies the extension, exclude, and include filters to a file.
func (d *discoverer) accepts(path, rel string) bool {
	if !hasExtension(path, d.extensions) || d.exclude.match(rel) {
		return false
	}
	return d.include.empty() || d.include.match(rel)
}

// walk collects files under root. Hidden entries are skipped, unreadable
// directories are ignored, and directory symlinks are followed only with
// FollowSymlinks.
func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		rel := d.rel(path)

		if entry.IsDir() {
			if hidden || d.exclude.matchDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.visitSymlink(path, rel)
		}

		if d.accepts(path, rel) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// visitSymlink handles a symlink met during a walk. Broken links are
// skipped. A directory target is walked at its real path, which cannot
// recurse into itself because WalkDir does not follow the root's links.
func (d *discoverer) visitSymlink(path, rel string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Unreadable targets are skipped.
	}

	if info.IsDir() {
		if !d.opts.FollowSymlinks {
			return nil
		}
		return d.walk(target)
	}

	if d.accepts(path, rel) {
		d.add(path)
	}
	return nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// matcher matches slash-separated relative paths against a set of globs.
// "*" stops at "/" and "**" spans directories. A pattern with no "/" is
// also tried against the base name, so "*.uix" matches at any depth.
type matcher struct {
	full []glob.Glob
	base []glob.Glob
}

func compileGlobs(patterns []string) (matcher, error) {
	var m matcher
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return matcher{}, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		m.full = append(m.full, g)
		if !strings.Contains(pattern, "/") {
			m.base = append(m.base, g)
		}
	}
	return m, nil
}

func (m matcher) empty() bool {
	return len(m.full) == 0
}

func (m matcher) match(rel string) bool {
	for _, g := range m.full {
		if g.Match(rel) {
			return true
		}
	}
	if len(m.base) == 0 {
		return false
	}
	base := rel[strings.LastIndexByte(rel, '/')+1:]
	for _, g := range m.base {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// matchDir reports whether a directory is excluded; "dir/**" excludes dir
// itself.
func (m matcher) matchDir(rel string) bool {
	return m.match(rel) || m.match(rel+"/")
}
