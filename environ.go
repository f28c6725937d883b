// File: confkit/environ.go
package confkit

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environ is a flat view over process environment variables captured under
// a prefix. Values are kept as raw strings at this layer; coercion happens
// in Expand, at the point the flat names are melted into a Namespace.
type Environ struct {
	// Prefix is the capture filter, without the trailing underscore
	// (e.g. "MYAPP" captures MYAPP_*).
	Prefix string

	// Vars maps full variable names to their raw string values.
	Vars map[string]string
}

// CaptureEnv snapshots all environment variables whose names start with
// prefix followed by an underscore.
func CaptureEnv(prefix string) *Environ {
	e := &Environ{Prefix: prefix, Vars: make(map[string]string)}
	lead := prefix + "_"
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, lead) {
			continue
		}
		e.Vars[name] = value
	}
	return e
}

// ConvertFunc coerces a raw environment string into a typed value during
// Expand.
type ConvertFunc func(string) any

// Expand de-normalizes the flat variables into a nested Namespace: the
// prefix is stripped, structure derives from splitting on underscores, and
// segments are lower-cased. Values pass through the default converter
// ("" and "null" become nil, "true"/"false" become bool, then integer,
// then float, otherwise the string is kept).
func (e *Environ) Expand() Namespace {
	return e.ExpandWith(Coerce)
}

// ExpandWith is Expand with a caller-supplied converter. A nil converter
// keeps raw strings.
func (e *Environ) ExpandWith(convert ConvertFunc) Namespace {
	if convert == nil {
		convert = func(s string) any { return s }
	}
	ns := make(Namespace)
	lead := e.Prefix + "_"
	for name, value := range e.Vars {
		trimmed := strings.TrimPrefix(name, lead)
		if trimmed == name || trimmed == "" {
			continue
		}
		path := strings.ToLower(strings.ReplaceAll(trimmed, "_", "."))
		partial := make(Namespace)
		partial.Set(path, convert(value))
		ns.Update(partial)
	}
	return ns
}

// FlattenEnv is the inverse of Expand: it collapses a Namespace into flat
// PREFIX_SECTION_KEY variable names with canonical string values
// (nil becomes "null", booleans are lowercase). For namespaces produced by
// Expand, FlattenEnv reproduces the original variables.
func FlattenEnv(ns Namespace, prefix string) *Environ {
	e := &Environ{Prefix: prefix, Vars: make(map[string]string)}
	for path, value := range ns.Flatten() {
		name := strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
		if prefix != "" {
			name = prefix + "_" + name
		}
		e.Vars[name] = Decoerce(value)
	}
	return e
}

// Export writes the captured variables into the process environment.
func (e *Environ) Export() error {
	for name, value := range e.Vars {
		if err := os.Setenv(name, value); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return nil
}

// Coerce is the default environment value converter.
func Coerce(s string) any {
	switch strings.ToLower(s) {
	case "", "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Decoerce renders a typed value back to its canonical environment string.
func Decoerce(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// EnvStruct captures environment variables through a tagged struct and
// returns the result as a Namespace. The struct uses `env` tags as
// understood by the caarlos0/env parser; this suits applications that
// declare their environment contract as a typed struct rather than a
// prefix convention.
func EnvStruct(v any) (Namespace, error) {
	if err := env.Parse(v); err != nil {
		return nil, fmt.Errorf("failed to parse environment into %T: %w", v, err)
	}
	ns, err := FromStruct(v)
	if err != nil {
		return nil, err
	}
	return ns, nil
}
