//go:build !linux && !darwin && !windows

package logger

// Color output is disabled on platforms without a known terminal probe.
func isTerminal(uintptr) bool { return false }
