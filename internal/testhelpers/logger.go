// Package testhelpers provides shared helpers for tests.
package testhelpers

import "github.com/jonesrussell/gonotes/internal/logger"

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}
