// FILE: layerconf/value.go
package layerconf

// Kind classifies a configuration value for merge dispatch.
// Parsed configuration data is plain structured data: mappings
// (map[string]any), sequences ([]any), scalars, and nil.
type Kind int

const (
	// KindNull is a nil value or an absent key.
	KindNull Kind = iota
	// KindScalar is a string, number, boolean, or any other leaf value.
	KindScalar
	// KindArray is an ordered sequence ([]any).
	KindArray
	// KindObject is a keyed mapping (map[string]any).
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// kindOf returns the Kind discriminant for a parsed configuration value.
// Anything that is not nil, a mapping, or a sequence counts as a scalar.
func kindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindScalar
	}
}

// normalize rewrites parser-specific container types into the canonical
// map[string]any / []any shapes the merge engine dispatches on. TOML
// arrays of tables, for instance, decode as []map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			val[k] = normalize(elem)
		}
		return val
	case []any:
		for i, elem := range val {
			val[i] = normalize(elem)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	default:
		return val
	}
}

// deepCopy returns a structural copy of a configuration value.
// Mappings and sequences are copied recursively; scalars are shared,
// as they are never mutated by the merge engine.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = deepCopy(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = deepCopy(elem)
		}
		return out
	default:
		return val
	}
}
