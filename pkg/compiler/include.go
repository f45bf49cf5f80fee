package compiler

import (
	"os"
	"path/filepath"

	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/source"
)

// AttrResolved is set on Include nodes whose target was found.
const AttrResolved = "Resolved"

// Include is an #include directive and the file it names. Targets are
// located but never compiled.
type Include struct {
	// Node is the Include node in the tree.
	Node *parsetree.Node

	// Path is the name as written.
	Path string

	// Style is preprocessor.IncludeQuoted or preprocessor.IncludeSystem.
	Style string

	// Resolved is the identity of the target, or "" if not found.
	Resolved string

	// Note is set for quoted includes that could not be found.
	Note *diag.Error
}

// resolveIncludes locates each include target. Quoted names are searched
// next to the including file first, then in IncludeDirs; system names
// only in IncludeDirs.
func (e *Engine) resolveIncludes(src source.Provider, world *parsetree.Node) []Include {
	nodes := parsetree.FindByName(world, preprocessor.NameInclude)
	if len(nodes) == 0 {
		return nil
	}

	baseDir := ""
	if path := source.PathOf(src); path != "" {
		baseDir = filepath.Dir(path)
	}

	includes := make([]Include, 0, len(nodes))
	for _, n := range nodes {
		name, _ := n.Attribute(preprocessor.AttrPath)
		style, _ := n.Attribute(preprocessor.AttrStyle)

		inc := Include{Node: n, Path: name, Style: style}

		var dirs []string
		if style == preprocessor.IncludeQuoted && baseDir != "" {
			dirs = append(dirs, baseDir)
		}
		dirs = append(dirs, e.opts.IncludeDirs...)

		if resolved, ok := findInclude(name, dirs); ok {
			inc.Resolved = resolved
			n.SetAttribute(AttrResolved, resolved)
		} else if style == preprocessor.IncludeQuoted {
			inc.Note = diag.Notef(diag.ErrIncludeNotFound, n.Origin(), name,
				"cannot find %q in the include search path", name)
		}

		includes = append(includes, inc)
	}

	return includes
}

// findInclude returns the identity of the first regular file named name
// under dirs. Absolute names are checked as-is.
func findInclude(name string, dirs []string) (string, bool) {
	candidates := dirs
	if filepath.IsAbs(name) {
		candidates = []string{""}
	}

	for _, dir := range candidates {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		identity, err := fsutil.Identity(path)
		if err != nil {
			continue
		}
		return identity, true
	}

	return "", false
}
