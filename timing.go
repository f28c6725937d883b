// File: confkit/timing.go
package confkit

import "time"

// Core timing constants for production use.
const (
	// DefaultEvalTimeout bounds the runtime of a single _eval shell
	// command. Expansion fails with ErrResolution when exceeded.
	DefaultEvalTimeout = 10 * time.Second
)
