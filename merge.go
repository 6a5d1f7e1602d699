// FILE: layerconf/merge.go
package layerconf

import (
	"fmt"
	"sort"

	"dario.cat/mergo"
)

// MergeFunc folds the values of src into dst in place. Implementations
// must not mutate src. The loader accepts any MergeFunc; MergeObjects is
// the default.
type MergeFunc func(dst, src map[string]any) error

// MergeObjects deep-merges src into dst, enforcing structural
// compatibility: a key present in both sides must keep its kind
// (object stays object, array stays array, scalar stays scalar), and
// arrays merged together must have equal length. A nil (or absent)
// value on the dst side accepts any incoming value. The first
// incompatibility aborts the merge with a descriptive error naming the
// dotted/bracketed key path (e.g. "a.b[2].c").
//
// dst is mutated in place and may be left partially merged when an
// error is returned. src is never mutated; structured values taken
// from src are copied before being attached to dst.
func MergeObjects(dst, src map[string]any) error {
	return mergeObjects(dst, src, "", false)
}

// MergeExisting is the strict variant of MergeObjects: it only merges
// into keys already present in dst and silently ignores keys that src
// introduces. The deep-merge compatibility rules are unchanged.
func MergeExisting(dst, src map[string]any) error {
	return mergeObjects(dst, src, "", true)
}

// Overwrite merges src into dst with plain replacement semantics and no
// compatibility checks. Useful when a layer is allowed to reshape the
// configuration entirely.
func Overwrite(dst, src map[string]any) error {
	return mergo.Merge(&dst, src, mergo.WithOverride)
}

// mergeObjects walks the keys of src in sorted order so that the
// fail-fast error is deterministic across runs.
func mergeObjects(dst, src map[string]any, prefix string, existingOnly bool) error {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if existingOnly {
			if _, ok := dst[k]; !ok {
				continue
			}
		}
		merged, err := mergeValue(dst[k], src[k], joinKey(prefix, k), existingOnly)
		if err != nil {
			return err
		}
		dst[k] = merged
	}
	return nil
}

// mergeValue merges a single incoming value against the existing value
// at the same key path and returns the value dst should hold. The
// existing value's kind decides the strategy: nil accepts anything,
// arrays merge positionally, objects recurse, scalars are replaced.
func mergeValue(existing, incoming any, path string, existingOnly bool) (any, error) {
	ek, ik := kindOf(existing), kindOf(incoming)
	if !compatibleKind(ek, ik) {
		return nil, fmt.Errorf("Cannot merge values of incompatible types for the option '%s'.", path)
	}

	switch ek {
	case KindNull:
		// Nothing structural to merge into; adopt a copy of the
		// incoming value.
		return deepCopy(incoming), nil

	case KindArray:
		dstArr := existing.([]any)
		srcArr := incoming.([]any)
		if err := mergeArrays(dstArr, srcArr, path, existingOnly); err != nil {
			return nil, err
		}
		return dstArr, nil

	case KindObject:
		if ik == KindNull {
			// An explicit null wipes the whole subtree.
			return nil, nil
		}
		dstObj := existing.(map[string]any)
		if err := mergeObjects(dstObj, incoming.(map[string]any), path, existingOnly); err != nil {
			return nil, err
		}
		return dstObj, nil

	default:
		// Scalar: unconditional replacement, including replacement
		// by an explicit null.
		return incoming, nil
	}
}

// mergeArrays merges src into dst index by index. The arrays must have
// exactly the same length; element paths get a bracketed index suffix.
func mergeArrays(dst, src []any, path string, existingOnly bool) error {
	if len(dst) != len(src) {
		return fmt.Errorf("Cannot merge array values of different length for the option '%s'.", path)
	}
	for i := range dst {
		merged, err := mergeValue(dst[i], src[i], fmt.Sprintf("%s[%d]", path, i), existingOnly)
		if err != nil {
			return err
		}
		dst[i] = merged
	}
	return nil
}

// compatibleKind reports whether a value of kind incoming may be merged
// over a value of kind existing. A nil existing value accepts anything;
// arrays only accept arrays; objects accept objects or an explicit
// null; scalars accept anything that is not structured.
func compatibleKind(existing, incoming Kind) bool {
	switch existing {
	case KindNull:
		return true
	case KindArray:
		return incoming == KindArray
	case KindObject:
		return incoming == KindObject || incoming == KindNull
	default:
		return incoming != KindObject && incoming != KindArray
	}
}

// joinKey extends a dotted key path with one more object key.
func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
