//go:build !windows

package main

import "syscall"

func init() {
	// SIGTERM is the standard signal sent to cancel a foreground command on
	// Linux/macOS (e.g. from a process supervisor). Windows has no
	// equivalent signal, so this is only registered here.
	shutdownSignals = append(shutdownSignals, syscall.SIGTERM)
}
