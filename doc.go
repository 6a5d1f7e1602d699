// FILE: layerconf/doc.go

// Package layerconf loads a named application configuration from a
// directory of layered files and deep-merges them into a single value.
//
// A configuration name maps to up to four files inside a root
// directory, merged lowest to highest precedence:
//
//  1. <name>.json (master; .json5/.toml/.yaml/.yml as fallback)
//  2. <name>.local.{js|json|json5|toml|yaml|yml}
//  3. <name>.<env>.{...}  (only when an environment tag is supplied)
//  4. <name>.overrides.{...}
//
// Later layers win on conflict, but the merge engine enforces the shape
// the master file establishes: a key must keep its kind (object, array,
// or scalar) across layers, and arrays merged together must have equal
// length. A violation aborts the whole load with an error naming the
// offending file and the dotted/bracketed key path.
//
// Quick Start:
//
//	cfg, err := layerconf.NewBuilder().
//	    WithRoot("config").
//	    WithName("app").
//	    WithEnvironment("production").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.String("server.host")
//	port, _ := cfg.Int64("server.port")
//
// Merge Strategies:
//
// The merge function is pluggable. MergeObjects (the default) applies
// the full compatibility rules; MergeExisting additionally ignores keys
// a later layer introduces that the base shape does not have; Overwrite
// replaces without checks.
//
// Script Sources:
//
// Files with the ".js" extension can define configuration
// programmatically, but the library never evaluates code itself: such
// sources are only discovered when the host registers an evaluator via
// WithScriptLoader or LoadOptions.ScriptLoader.
//
// The package also resolves script path references against a root
// directory (ResolvePath, ResolveScriptPath, ListScripts) for locating
// auxiliary scripts next to the configuration.
//
// All operations are synchronous and allocate per call; a Loader can be
// shared freely as long as its options are not mutated concurrently.
package layerconf
