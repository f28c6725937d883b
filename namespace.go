// File: confkit/namespace.go
package confkit

import (
	"fmt"
	"strings"
	"time"
)

// Namespace is a nested string-keyed mapping of scalars and sub-namespaces.
// It is the unit of configuration data: files, environment captures, and
// defaults all load into a Namespace, and Configuration layers Namespaces
// into a single merged view.
//
// Values are scalars (string, int64, float64, bool, nil) or nested
// Namespace sections. Construction normalizes foreign map types so the
// tree is uniform regardless of which parser produced it.
type Namespace map[string]any

// NewNamespace builds a Namespace from an existing map, recursively
// coercing nested maps into Namespace sections. The input is not retained;
// nested maps are copied.
func NewNamespace(data map[string]any) Namespace {
	ns := make(Namespace, len(data))
	for k, v := range data {
		ns[k] = normalize(v)
	}
	return ns
}

// normalize coerces parser output into the canonical tree shape: nested
// maps become Namespace, json.Number becomes int64 or float64, and
// []any elements are normalized in place.
func normalize(v any) any {
	switch val := v.(type) {
	case Namespace:
		return NewNamespace(val)
	case map[string]any:
		return NewNamespace(val)
	case map[any]any:
		m := make(Namespace, len(val))
		for k, sub := range val {
			m[fmt.Sprintf("%v", k)] = normalize(sub)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case interface{ Int64() (int64, error) }:
		// json.Number: prefer integer representation when exact.
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, ok := val.(interface{ Float64() (float64, error) }); ok {
			if fv, err := f.Float64(); err == nil {
				return fv
			}
		}
		return fmt.Sprintf("%v", val)
	default:
		return v
	}
}

// Clone returns a deep copy of the namespace. Nested sections and slices
// are copied; scalar values are shared (they are immutable).
func (ns Namespace) Clone() Namespace {
	out := make(Namespace, len(ns))
	for k, v := range ns {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Namespace:
		return val.Clone()
	case map[string]any:
		return NewNamespace(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Merge combines two namespaces depth-first and returns a new Namespace.
// Neither input is mutated. For each key in override: if both sides hold a
// section, the sections are merged recursively; otherwise the override
// value wins, including when it is nil. Keys present only in base are
// retained; keys present only in override are added.
//
// A nil override value replaces the base value; deletion-by-nil is not
// supported.
func Merge(base, override Namespace) Namespace {
	merged := base.Clone()
	merged.Update(override)
	return merged
}

// Update applies other onto ns in place with the same depth-first
// semantics as Merge. Values taken from other are deep-copied, so later
// mutation of other cannot alias into ns.
func (ns Namespace) Update(other Namespace) {
	for key, value := range other {
		section, baseIsSection := asNamespace(ns[key])
		overrideSection, overrideIsSection := asNamespace(value)
		if baseIsSection && overrideIsSection {
			section.Update(overrideSection)
			ns[key] = section
			continue
		}
		ns[key] = cloneValue(value)
	}
}

// asNamespace reports whether v is a section, coercing raw map values
// that bypassed normalization.
func asNamespace(v any) (Namespace, bool) {
	switch val := v.(type) {
	case Namespace:
		return val, true
	case map[string]any:
		return Namespace(val), true
	default:
		return nil, false
	}
}

// Get traverses a dotted path ("a.b.c") and returns the value at its end,
// applying deferred _env / _eval expansion to the final segment with the
// default timeout. A missing segment yields ErrNotFound; traversing
// through a scalar yields ErrTypeMismatch.
func (ns Namespace) Get(path string) (any, error) {
	return ns.get(path, DefaultEvalTimeout)
}

func (ns Namespace) get(path string, timeout time.Duration) (any, error) {
	segments := strings.Split(path, ".")
	current := ns
	for i, segment := range segments {
		if i == len(segments)-1 {
			return resolveKey(current, segment, timeout)
		}
		next, exists := current[segment]
		if !exists {
			return nil, fmt.Errorf("%w: %q (segment %q)", ErrNotFound, path, segment)
		}
		sub, isSection := asNamespace(next)
		if !isSection {
			return nil, fmt.Errorf("%w: %q is not a section in path %q", ErrTypeMismatch, segment, path)
		}
		current = sub
	}
	return nil, fmt.Errorf("%w: empty path", ErrNotFound)
}

// Lookup is like Get but without deferred expansion: it returns the raw
// stored value for the path.
func (ns Namespace) Lookup(path string) (any, error) {
	segments := strings.Split(path, ".")
	current := any(ns)
	for _, segment := range segments {
		sub, isSection := asNamespace(current)
		if !isSection {
			return nil, fmt.Errorf("%w: %q is not a section in path %q", ErrTypeMismatch, segment, path)
		}
		value, exists := sub[segment]
		if !exists {
			return nil, fmt.Errorf("%w: %q (segment %q)", ErrNotFound, path, segment)
		}
		current = value
	}
	return current, nil
}

// Set assigns a value at a dotted path, creating intermediate sections as
// needed. A scalar in the way of an intermediate segment is replaced by a
// section.
func (ns Namespace) Set(path string, value any) {
	segments := strings.Split(path, ".")
	current := ns
	for _, segment := range segments[:len(segments)-1] {
		next, exists := current[segment]
		if exists {
			if sub, isSection := asNamespace(next); isSection {
				current = sub
				continue
			}
		}
		sub := make(Namespace)
		current[segment] = sub
		current = sub
	}
	current[segments[len(segments)-1]] = normalize(value)
}

// Has reports whether a literal value exists at the dotted path.
func (ns Namespace) Has(path string) bool {
	_, err := ns.Lookup(path)
	return err == nil
}

// Flatten collapses the namespace into a flat map of dot-notation paths
// to leaf values.
func (ns Namespace) Flatten() map[string]any {
	flat := make(map[string]any)
	ns.flattenInto(flat, "")
	return flat
}

func (ns Namespace) flattenInto(flat map[string]any, prefix string) {
	for key, value := range ns {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, isSection := asNamespace(value); isSection {
			sub.flattenInto(flat, path)
		} else {
			flat[path] = value
		}
	}
}

// ToMap converts the namespace back to plain nested map[string]any values,
// suitable for handing to encoders or callers outside this package.
func (ns Namespace) ToMap() map[string]any {
	out := make(map[string]any, len(ns))
	for k, v := range ns {
		if sub, isSection := asNamespace(v); isSection {
			out[k] = sub.ToMap()
		} else {
			out[k] = v
		}
	}
	return out
}

// Whereis returns the section paths that contain a leaf named key whose
// value satisfies match. A nil match accepts any value. Each result is the
// path of parent segments, excluding the leaf itself.
func (ns Namespace) Whereis(key string, match func(any) bool) [][]string {
	if match == nil {
		match = func(any) bool { return true }
	}
	var found [][]string
	for _, lf := range leaves(ns, nil) {
		if lf.stem[len(lf.stem)-1] == key && match(lf.value) {
			found = append(found, lf.stem[:len(lf.stem)-1])
		}
	}
	return found
}

type leaf struct {
	stem  []string
	value any
}

func leaves(ns Namespace, stem []string) []leaf {
	var out []leaf
	for key, value := range ns {
		branch := append(append([]string{}, stem...), key)
		if sub, isSection := asNamespace(value); isSection {
			out = append(out, leaves(sub, branch)...)
		} else {
			out = append(out, leaf{stem: branch, value: value})
		}
	}
	return out
}
