// FILE: layerconf/builder.go
package layerconf

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ValidatorFunc validates a loaded Config. It receives the fully merged
// configuration and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for configuring and running a
// load.
type Builder struct {
	root       string
	name       string
	opts       LoadOptions
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder with default load
// options.
func NewBuilder() *Builder {
	return &Builder{
		opts: DefaultLoadOptions(),
	}
}

// WithRoot sets the directory the layered files are discovered in.
func (b *Builder) WithRoot(dir string) *Builder {
	b.root = dir
	return b
}

// WithName sets the configuration name (the shared basename of the
// layered files).
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithEnvironment enables the <name>.<env> layer.
func (b *Builder) WithEnvironment(env string) *Builder {
	b.opts.Environment = env
	return b
}

// WithMerge substitutes the merge strategy. MergeObjects is the
// default; MergeExisting restricts merging to keys present in the
// master shape, Overwrite disables the compatibility rules.
func (b *Builder) WithMerge(fn MergeFunc) *Builder {
	if fn != nil {
		b.opts.Merge = fn
	}
	return b
}

// WithLogger sets the diagnostic sink.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithScriptLoader registers an evaluator for executable configuration
// sources, enabling the ".js" layer variants in discovery.
func (b *Builder) WithScriptLoader(fn ParseFunc) *Builder {
	b.opts.ScriptLoader = fn
	return b
}

// WithValidator adds a validation function that runs after a
// successful load. Multiple validators run in the order they were
// added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build runs the load and the validators.
func (b *Builder) Build() (*Config, error) {
	if b.name == "" {
		return nil, fmt.Errorf("configuration name is required")
	}

	cfg, err := NewLoader(b.root, b.opts).Load(b.name)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and decodes the merged configuration into the
// provided target struct pointer.
func (b *Builder) BuildAndScan(target any) error {
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	if err := cfg.Scan("", target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return nil
}
