// FILE: layerconf/loader.go
package layerconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// ErrNoScriptLoader is returned when a discovered source has the script
// extension but no script loader was registered.
var ErrNoScriptLoader = errors.New("no script loader registered")

// ParseFunc turns the raw contents of a configuration file into a
// structured value. The path is provided for error reporting; it must
// not leak into the returned mapping.
type ParseFunc func(path string, data []byte) (map[string]any, error)

// LoadOptions configures how a Loader discovers and merges sources.
type LoadOptions struct {
	// Environment selects the <name>.<env> layer. Empty disables it.
	Environment string

	// Merge folds each subsequent source into the accumulator.
	// Defaults to MergeObjects; MergeExisting and Overwrite are the
	// built-in alternatives.
	Merge MergeFunc

	// ScriptLoader evaluates executable configuration sources (the
	// ".js" layer variants). When nil, script files are excluded from
	// discovery entirely.
	ScriptLoader ParseFunc

	// Logger receives non-essential tracing and warnings.
	Logger zerolog.Logger

	// Exists is the filesystem existence predicate. Defaults to a
	// stat-based check that rejects directories.
	Exists func(path string) bool

	// ReadFile reads a source file. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// DefaultLoadOptions returns the standard load options: deep merge, no
// environment layer, no script loading, discarded diagnostics.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Merge:  MergeObjects,
		Logger: zerolog.Nop(),
	}
}

// Loader discovers, parses, and merges layered configuration files for
// names under a single root directory. It is stateless across Load
// calls; every call produces a fresh accumulator.
type Loader struct {
	root    string
	opts    LoadOptions
	parsers map[string]ParseFunc
}

// NewLoader creates a Loader rooted at dir. Zero-valued options are
// filled with the defaults from DefaultLoadOptions.
func NewLoader(dir string, opts LoadOptions) *Loader {
	if opts.Merge == nil {
		opts.Merge = MergeObjects
	}
	if opts.Exists == nil {
		opts.Exists = fileExists
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}

	l := &Loader{
		root: dir,
		opts: opts,
		parsers: map[string]ParseFunc{
			".json":  parseJSON,
			".json5": parseJSON5,
			".toml":  parseTOML,
			".yaml":  parseYAML,
			".yml":   parseYAML,
		},
	}
	if opts.ScriptLoader != nil {
		l.parsers[ScriptExtension] = opts.ScriptLoader
	}
	return l
}

// RegisterParser installs or replaces the parser for an extension
// (including the leading dot). Registering a parser for
// ScriptExtension enables script sources in discovery.
func (l *Loader) RegisterParser(ext string, fn ParseFunc) {
	l.parsers[strings.ToLower(ext)] = fn
}

// Load discovers the layered sources for name, parses each, and folds
// them through the merge function in precedence order (master, local,
// environment, overrides). A parse failure or a merge incompatibility
// aborts the whole load; no partial result is returned. When no master
// file exists the returned configuration is empty.
//
// The accumulator starts from a deep copy of the first source, so the
// parsed source values are never aliased by the returned configuration.
func (l *Loader) Load(name string) (*Config, error) {
	sources := l.Discover(name)
	if len(sources) == 0 {
		return &Config{values: make(map[string]any)}, nil
	}

	var acc map[string]any
	for i := range sources {
		value, err := l.parseFile(sources[i].Path)
		if err != nil {
			return nil, err
		}
		sources[i].Value = value

		l.opts.Logger.Debug().
			Str("path", sources[i].Path).
			Str("layer", string(sources[i].Layer)).
			Msg("applying configuration source")

		if acc == nil {
			acc = deepCopy(value).(map[string]any)
			continue
		}
		if err := l.opts.Merge(acc, value); err != nil {
			return nil, fmt.Errorf("Cannot apply %s: %w", sources[i].Path, err)
		}
	}

	return &Config{values: acc, sources: sources}, nil
}

// parseFile reads a source and dispatches to the parser registered for
// its extension.
func (l *Loader) parseFile(path string) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parser, ok := l.parsers[ext]
	if !ok {
		if ext == ScriptExtension {
			return nil, fmt.Errorf("cannot load script source '%s': %w", path, ErrNoScriptLoader)
		}
		return nil, fmt.Errorf("unsupported configuration format %q for file '%s'", ext, path)
	}

	data, err := l.opts.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	value, err := parser(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	if value == nil {
		value = make(map[string]any)
	}
	return normalize(value).(map[string]any), nil
}

// fileExists is the default existence predicate.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseJSON(_ string, data []byte) (map[string]any, error) {
	value := make(map[string]any)
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func parseJSON5(_ string, data []byte) (map[string]any, error) {
	value := make(map[string]any)
	if err := json5.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func parseTOML(_ string, data []byte) (map[string]any, error) {
	value := make(map[string]any)
	if err := toml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func parseYAML(_ string, data []byte) (map[string]any, error) {
	value := make(map[string]any)
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}
