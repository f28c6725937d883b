// File: confkit/configuration.go
package confkit

import (
	"fmt"
	"time"
)

// localSource is the reserved tag for direct updates applied to a
// Configuration after construction. Tracking them as their own layer
// preserves provenance: Which reports "_" for values set in place.
const localSource = "_"

// Source is one named, ordered contributor to a Configuration.
type Source struct {
	Name      string
	Namespace Namespace
}

// Configuration is an ordered sequence of named Namespaces plus a merged
// view derived by depth-first-merging the sources in order: later sources
// override earlier ones at the leaf level, while untouched sibling keys
// survive. The merged view is recomputed from the source list whenever the
// list changes, so it is always re-derivable and deterministic.
//
// A Configuration performs no internal locking; callers sharing one across
// goroutines must serialize mutation themselves.
type Configuration struct {
	sources     []Source
	local       Namespace
	merged      Namespace
	evalTimeout time.Duration
}

// NewConfiguration assembles a configuration from ordered sources. Each
// source namespace is deep-copied at entry, so later changes to the caller's
// maps cannot retroactively alter the merged view.
func NewConfiguration(sources ...Source) *Configuration {
	c := &Configuration{
		local:       make(Namespace),
		evalTimeout: DefaultEvalTimeout,
	}
	for _, src := range sources {
		c.Extend(src.Name, src.Namespace)
	}
	return c
}

// Extend appends a source layer and recomputes the merged view. Extending
// with the name of an existing source merges into that layer in place
// (keeping its position in the precedence order). The reserved name "_"
// routes to the local override layer. Extending after construction is
// equivalent to having included the source in the original ordered list.
func (c *Configuration) Extend(name string, ns Namespace) {
	if name == localSource {
		c.local.Update(ns)
		c.recompute()
		return
	}
	for i, src := range c.sources {
		if src.Name == name {
			c.sources[i].Namespace.Update(ns)
			c.recompute()
			return
		}
	}
	c.sources = append(c.sources, Source{Name: name, Namespace: ns.Clone()})
	c.recompute()
}

// Update applies direct overrides. They land in the local "_" layer, which
// takes precedence over every named source.
func (c *Configuration) Update(ns Namespace) {
	c.local.Update(ns)
	c.recompute()
}

// Set assigns a single dotted path in the local override layer.
func (c *Configuration) Set(path string, value any) {
	c.local.Set(path, value)
	c.recompute()
}

// SetEvalTimeout bounds _eval shell commands resolved through Get.
func (c *Configuration) SetEvalTimeout(d time.Duration) {
	c.evalTimeout = d
}

// recompute derives the merged view from the ordered source list plus the
// local layer.
func (c *Configuration) recompute() {
	merged := make(Namespace)
	for _, src := range c.sources {
		merged.Update(src.Namespace)
	}
	merged.Update(c.local)
	c.merged = merged
}

// Merged returns the merged view. Callers must treat it as read-only;
// mutating it directly bypasses provenance tracking and is unsupported.
// Use Update or Extend instead.
func (c *Configuration) Merged() Namespace {
	return c.merged
}

// Get reads a dotted path from the merged view, resolving deferred
// _env / _eval variants at the leaf.
func (c *Configuration) Get(path string) (any, error) {
	return c.merged.get(path, c.evalTimeout)
}

// Lookup reads a dotted path from the merged view without deferred
// expansion.
func (c *Configuration) Lookup(path string) (any, error) {
	return c.merged.Lookup(path)
}

// SourceNames returns the ordered source tags, lowest precedence first.
// The local layer is included as "_" when non-empty.
func (c *Configuration) SourceNames() []string {
	names := make([]string, 0, len(c.sources)+1)
	for _, src := range c.sources {
		names = append(names, src.Name)
	}
	if len(c.local) > 0 {
		names = append(names, localSource)
	}
	return names
}

// Source returns the namespace contributed under a tag.
func (c *Configuration) Source(name string) (Namespace, bool) {
	if name == localSource {
		return c.local, len(c.local) > 0
	}
	for _, src := range c.sources {
		if src.Name == name {
			return src.Namespace, true
		}
	}
	return nil, false
}

// Which reports the tag of the source that wins the given dotted path in
// the merged view. Values set through Update belong to the "_" layer.
// Only literal keys participate; deferred variants are a property of the
// value, not of precedence.
func (c *Configuration) Which(path string) (string, error) {
	if c.local.Has(path) {
		return localSource, nil
	}
	for i := len(c.sources) - 1; i >= 0; i-- {
		if c.sources[i].Namespace.Has(path) {
			return c.sources[i].Name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, path)
}

// Duplicates reports every source tag that defines the given dotted path,
// in precedence order (lowest first). The last entry is the winner in the
// merged view.
func (c *Configuration) Duplicates(path string) []string {
	var tags []string
	for _, src := range c.sources {
		if src.Namespace.Has(path) {
			tags = append(tags, src.Name)
		}
	}
	if c.local.Has(path) {
		tags = append(tags, localSource)
	}
	return tags
}

// Whereis locates a leaf key in every member source, returning the parent
// section paths per source tag. Used for diagnostics; tags with no match
// map to an empty list.
func (c *Configuration) Whereis(key string, match func(any) bool) map[string][][]string {
	found := make(map[string][][]string, len(c.sources))
	for _, src := range c.sources {
		found[src.Name] = src.Namespace.Whereis(key, match)
	}
	if len(c.local) > 0 {
		found[localSource] = c.local.Whereis(key, match)
	}
	return found
}

// LocalOptions configures FromLocal. Any candidate path may be empty or
// absent on disk; both are skipped silently. A malformed existing file is
// an error.
type LocalOptions struct {
	// Default holds registered default values, lowest precedence.
	Default Namespace

	// System, User, Local are candidate file paths in ascending
	// precedence. Format is inferred from extension with a content
	// sniff fallback.
	System string
	User   string
	Local  string

	// EnvPrefix enables environment capture as the highest-precedence
	// source when non-empty (e.g. "MYAPP" captures MYAPP_*).
	EnvPrefix string

	// EnvConvert overrides the value converter used when expanding
	// captured environment variables. Nil selects Coerce.
	EnvConvert ConvertFunc
}

// FromLocal builds a configuration from the conventional cascade:
// default, then system, user, and local files, then environment capture.
// Absent files are skipped; a file that exists but fails to parse aborts
// with an error wrapping ErrParse and naming the path.
func FromLocal(opts LocalOptions) (*Configuration, error) {
	cfg := NewConfiguration()
	if opts.Default != nil {
		cfg.Extend("default", opts.Default)
	}

	files := []struct {
		tag  string
		path string
	}{
		{"system", opts.System},
		{"user", opts.User},
		{"local", opts.Local},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		ns, found, err := fromFileOptional(f.path)
		if err != nil {
			return nil, err
		}
		if found {
			cfg.Extend(f.tag, ns)
		}
	}

	if opts.EnvPrefix != "" {
		convert := opts.EnvConvert
		if convert == nil {
			convert = Coerce
		}
		captured := CaptureEnv(opts.EnvPrefix)
		if len(captured.Vars) > 0 {
			cfg.Extend("env", captured.ExpandWith(convert))
		}
	}

	return cfg, nil
}
