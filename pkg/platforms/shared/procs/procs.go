// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Local Games.
//
// Zaparoo Local Games is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Local Games is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Local Games.  If not, see <http://www.gnu.org/licenses/>.

// Package procs is a thin handle over OS processes. Handles are snapshots:
// any call can fail because the process went away or is owned by someone
// else, and callers are expected to treat both as "does not count".
package procs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
)

var (
	// ErrVanished is returned when the process no longer exists.
	ErrVanished = errors.New("process vanished")
	// ErrAccessDenied is returned when the OS refuses to inspect the process.
	ErrAccessDenied = errors.New("process access denied")
)

// Status is the coarse run state of a process.
type Status int

const (
	StatusOther Status = iota
	StatusRunning
	StatusZombie
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusZombie:
		return "zombie"
	default:
		return "other"
	}
}

// Process is a handle to a single OS process.
type Process interface {
	PID() int32
	// IsRunning is the freshness check; it never returns an error, a
	// process that cannot be queried is reported as not running.
	IsRunning() bool
	Status() (Status, error)
	// Exe returns the absolute path of the process executable. Processes
	// hosted by the Wine loader report their Windows image path instead.
	Exe() (string, error)
	// Children lists child processes, walking the whole subtree when
	// recursive is set. Children are fetched fresh on every call.
	Children(recursive bool) ([]Process, error)
}

// Lister enumerates every process on the machine.
type Lister interface {
	Processes(ctx context.Context) ([]Process, error)
}

// IsGone reports whether err means the process should be treated as gone.
func IsGone(err error) bool {
	return errors.Is(err, ErrVanished) || errors.Is(err, ErrAccessDenied)
}

// classify maps platform and gopsutil errors onto the package sentinels.
// Anything it does not recognise is returned wrapped but unclassified.
func classify(pid int32, op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, syscall.ESRCH),
		errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%s pid %d: %w: %w", op, pid, ErrVanished, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%s pid %d: %w: %w", op, pid, ErrAccessDenied, err)
	default:
		return fmt.Errorf("%s pid %d: %w", op, pid, err)
	}
}
