// Copyright (c) 2024 Neomantra Corp

//go:build linux

package main

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// lockMemory pins the process's pages against paging, per spec.md §5's
// low-latency posture. Best-effort: a failure (commonly missing
// CAP_IPC_LOCK) is logged, not fatal.
func lockMemory(logger *slog.Logger) {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		if logger != nil {
			logger.Warn("mlockall failed, continuing without memory locking", "error", err)
		}
		return
	}
	if logger != nil {
		logger.Info("locked process memory")
	}
}

// pinCPU binds the calling OS thread to cpu. Best-effort: an invalid or
// unavailable CPU is logged, not fatal.
func pinCPU(cpu int, logger *slog.Logger) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		if logger != nil {
			logger.Warn("CPU affinity pin failed, continuing unpinned", "cpu", cpu, "error", err)
		}
		return
	}
	if logger != nil {
		logger.Info("pinned process to CPU", "cpu", cpu)
	}
}
