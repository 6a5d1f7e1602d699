// FILE: layerconf/resolve.go
package layerconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrPathNotFound is returned by the path resolvers when a reference
// cannot be resolved and was not marked optional.
var ErrPathNotFound = errors.New("path not found")

// entryPointName is excluded from script listings; it is the directory's
// designated entry point, not an auxiliary script.
const entryPointName = "index.js"

// ResolveOptions configures ResolvePath.
type ResolveOptions struct {
	// Strict requires the resolved path to exist even for plain
	// relative or absolute references. Module-style references always
	// require existence, since resolving them is a search.
	Strict bool

	// Optional suppresses ErrPathNotFound; an unresolvable reference
	// yields an empty path instead.
	Optional bool

	// FullResolve returns an absolute path with symlinks evaluated.
	FullResolve bool

	// SearchPaths is the module-search-path chain consulted for
	// references that are neither relative nor absolute. Defaults to
	// the root directory alone.
	SearchPaths []string
}

// ResolvePath resolves a possibly-relative, possibly-module-style path
// reference against a root directory. References starting with "./",
// "../", or an absolute path resolve directly; anything else is looked
// up along the search-path chain.
func ResolvePath(root, ref string, opts ResolveOptions) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty path reference: %w", ErrPathNotFound)
	}

	if isDirectRef(ref) {
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if opts.Strict && !fileOrDirExists(path) {
			return notFound(ref, opts)
		}
		return finalize(path, opts), nil
	}

	searchPaths := opts.SearchPaths
	if len(searchPaths) == 0 {
		searchPaths = []string{root}
	}
	for _, dir := range searchPaths {
		path := filepath.Join(dir, ref)
		if fileOrDirExists(path) {
			return finalize(path, opts), nil
		}
	}
	return notFound(ref, opts)
}

// ResolveScriptPath resolves ref like ResolvePath, but when the
// reference carries no extension it prefers a sibling script file over
// a same-named data file: "tasks/build" finds "tasks/build.js" before
// "tasks/build.json".
func ResolveScriptPath(root, ref string) (string, error) {
	if filepath.Ext(ref) != "" {
		return ResolvePath(root, ref, ResolveOptions{Strict: true})
	}

	candidates := make([]string, 0, len(DataExtensions)+2)
	candidates = append(candidates, ref+ScriptExtension, ref)
	for _, ext := range DataExtensions {
		candidates = append(candidates, ref+ext)
	}

	for _, candidate := range candidates {
		path, err := ResolvePath(root, candidate, ResolveOptions{Strict: true, Optional: true})
		if err == nil && path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("cannot resolve script reference '%s': %w", ref, ErrPathNotFound)
}

// ListScripts lists the immediate script files in dir, excluding the
// entry point and any name starting with an underscore. Data and
// native-binary extensions are filtered out; the result is sorted
// case-insensitively.
func ListScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts in '%s': %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == entryPointName || strings.HasPrefix(name, "_") {
			continue
		}
		if strings.ToLower(filepath.Ext(name)) != ScriptExtension {
			continue
		}
		names = append(names, name)
	}

	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names, nil
}

// isDirectRef reports whether ref addresses the filesystem directly
// rather than naming a module-style reference.
func isDirectRef(ref string) bool {
	if filepath.IsAbs(ref) {
		return true
	}
	return ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../")
}

// notFound applies the Optional policy for an unresolvable reference.
func notFound(ref string, opts ResolveOptions) (string, error) {
	if opts.Optional {
		return "", nil
	}
	return "", fmt.Errorf("cannot resolve path reference '%s': %w", ref, ErrPathNotFound)
}

// finalize applies FullResolve to a resolved path.
func finalize(path string, opts ResolveOptions) string {
	if !opts.FullResolve {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path
}

// fileOrDirExists reports whether path names an existing file or
// directory. The resolver accepts directories; the loader's default
// predicate does not.
func fileOrDirExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
