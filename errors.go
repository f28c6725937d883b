// File: confkit/errors.go
package confkit

import "errors"

// Sentinel errors for the four failure kinds surfaced by this package.
// All errors returned from lookup, loading, and expansion wrap one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrParse indicates a configuration file exists but could not be
	// parsed. The wrapping error names the offending path.
	ErrParse = errors.New("config parse error")

	// ErrNotFound indicates a dotted path segment is missing.
	ErrNotFound = errors.New("config key not found")

	// ErrResolution indicates a deferred _env or _eval expansion failed:
	// the environment variable is unset, the shell command failed, or a
	// key carries more than one deferred variant.
	ErrResolution = errors.New("config resolution error")

	// ErrTypeMismatch indicates a dotted path traversed through a scalar
	// where a section was expected.
	ErrTypeMismatch = errors.New("config type mismatch")
)
