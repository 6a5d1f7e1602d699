// FILE: layerconf/discovery.go
package layerconf

import (
	"path/filepath"
)

// Layer identifies where in the precedence order a configuration source
// sits. Layers are merged lowest to highest: master, local, environment,
// overrides.
type Layer string

const (
	// LayerMaster is the base configuration file for a name. It
	// establishes the shape the other layers must conform to.
	LayerMaster Layer = "master"

	// LayerLocal is a machine-local override, conventionally kept out
	// of version control.
	LayerLocal Layer = "local"

	// LayerEnvironment is selected by the environment tag supplied at
	// load time (e.g. "production").
	LayerEnvironment Layer = "environment"

	// LayerOverrides is the final, unconditional override layer.
	LayerOverrides Layer = "overrides"
)

// Source is a discovered configuration file. Value is populated once the
// file has been parsed; the path is provenance only and never appears as
// a key of the merged configuration.
type Source struct {
	Path  string
	Layer Layer
	Value map[string]any
}

// ScriptExtension is the extension of executable configuration sources.
// Files with this extension are only discovered when a script loader has
// been registered; the library never evaluates code itself.
const ScriptExtension = ".js"

// DataExtensions lists the recognized data-file extensions in master
// fallback order. The first extension that exists wins; coexisting
// variants of the same name are not merged together.
var DataExtensions = []string{".json", ".json5", ".toml", ".yaml", ".yml"}

// Discover returns the ordered set of configuration sources for name,
// lowest precedence first. When no master file exists the result is
// empty; if override layers are present anyway, a warning is logged and
// they are dropped, since there is no base shape to merge them into.
func (l *Loader) Discover(name string) []Source {
	master, ok := l.findFirst(name, l.dataExtensions())
	if !ok {
		if p, found := l.findOverrideLayers(name); found {
			l.opts.Logger.Warn().
				Str("name", name).
				Str("found", p).
				Msg("override configuration present but master file is missing")
		}
		return nil
	}

	sources := []Source{{Path: master, Layer: LayerMaster}}

	if p, found := l.findFirst(name+".local", l.overrideExtensions()); found {
		sources = append(sources, Source{Path: p, Layer: LayerLocal})
	}
	if l.opts.Environment != "" {
		if p, found := l.findFirst(name+"."+l.opts.Environment, l.overrideExtensions()); found {
			sources = append(sources, Source{Path: p, Layer: LayerEnvironment})
		}
	}
	if p, found := l.findFirst(name+".overrides", l.overrideExtensions()); found {
		sources = append(sources, Source{Path: p, Layer: LayerOverrides})
	}

	return sources
}

// findFirst tries each extension in order and returns the first path
// that exists under the root directory.
func (l *Loader) findFirst(base string, extensions []string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(l.root, base+ext)
		if l.opts.Exists(path) {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			return path, true
		}
	}
	return "", false
}

// findOverrideLayers reports whether any non-master layer exists for
// name, returning the first path found.
func (l *Loader) findOverrideLayers(name string) (string, bool) {
	candidates := []string{name + ".local"}
	if l.opts.Environment != "" {
		candidates = append(candidates, name+"."+l.opts.Environment)
	}
	candidates = append(candidates, name+".overrides")

	for _, base := range candidates {
		if p, found := l.findFirst(base, l.overrideExtensions()); found {
			return p, true
		}
	}
	return "", false
}

// dataExtensions returns the master-file extension search order.
func (l *Loader) dataExtensions() []string {
	return DataExtensions
}

// overrideExtensions returns the extension search order for the local,
// environment, and overrides layers. Script sources are preferred, but
// only when the host registered a loader for them.
func (l *Loader) overrideExtensions() []string {
	if _, ok := l.parsers[ScriptExtension]; ok {
		return append([]string{ScriptExtension}, DataExtensions...)
	}
	return DataExtensions
}
