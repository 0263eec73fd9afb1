// Copyright (c) 2024 Neomantra Corp

//go:build !linux

package main

import "log/slog"

// lockMemory is a no-op outside Linux; memory locking is a best-effort
// optimization, not a correctness requirement.
func lockMemory(logger *slog.Logger) {
	if logger != nil {
		logger.Info("memory locking not supported on this platform, skipping")
	}
}

// pinCPU is a no-op outside Linux.
func pinCPU(cpu int, logger *slog.Logger) {
	if logger != nil {
		logger.Info("CPU affinity pinning not supported on this platform, skipping", "cpu", cpu)
	}
}
