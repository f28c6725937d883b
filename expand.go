// File: confkit/expand.go
package confkit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Deferred value variants. A key "password" may be stored literally, or as
// "password_env" naming an environment variable, or as "password_eval"
// holding a shell command. Resolution happens at read time, at any nesting
// depth, and is never cached: each access observes the current environment
// and command output.
const (
	envSuffix  = "_env"
	evalSuffix = "_eval"
)

// variantKind tags how a value is resolved on read.
type variantKind int

const (
	literal variantKind = iota
	envRef
	evalRef
)

// resolveKey reads key from ns, expanding a deferred variant if the
// literal key is absent. Precedence: a literal key always wins over its
// variants. Exactly one variant may be present; two variants for the same
// base name fail with ErrResolution.
func resolveKey(ns Namespace, key string, timeout time.Duration) (any, error) {
	if value, exists := ns[key]; exists {
		return value, nil
	}

	kind := literal
	var ref string
	found := 0
	if v, exists := ns[key+envSuffix]; exists {
		kind, ref = envRef, asString(v)
		found++
	}
	if v, exists := ns[key+evalSuffix]; exists {
		kind, ref = evalRef, asString(v)
		found++
	}

	switch {
	case found == 0:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	case found > 1:
		return nil, fmt.Errorf("%w: %q has more than one deferred variant", ErrResolution, key)
	}

	switch kind {
	case envRef:
		return expandEnv(key, ref)
	default:
		return expandEval(key, ref, timeout)
	}
}

// expandEnv resolves a _env reference against the current process
// environment.
func expandEnv(key, name string) (any, error) {
	value, exists := os.LookupEnv(name)
	if !exists {
		return nil, fmt.Errorf("%w: %q: environment variable %q is not set", ErrResolution, key, name)
	}
	return value, nil
}

// expandEval resolves a _eval reference by running the command through the
// shell and taking trimmed standard output. The command is bounded by
// timeout; overrun, non-zero exit, and spawn failure all surface as
// ErrResolution wrapping the cause.
func expandEval(key, command string, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		timeout = DefaultEvalTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "sh", "-c", command).Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %q: command timed out after %s", ErrResolution, key, timeout)
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrResolution, key, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
