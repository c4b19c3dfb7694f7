package model

import "github.com/pkg/errors"

// ErrNotFound is returned by providers when a queried entity is absent.
// Callers use errors.Is(err, ErrNotFound); the core treats it as a
// domain signal, never as a reason to crash.
var ErrNotFound = errors.New("not found")

// IsNotFound is a convenience wrapper over errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
