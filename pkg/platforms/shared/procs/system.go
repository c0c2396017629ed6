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

package procs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// System lists real OS processes through gopsutil.
type System struct{}

// Processes returns a handle for every process currently in the process
// table. Processes that exit during enumeration show up later as not
// running.
func (System) Processes(ctx context.Context) ([]Process, error) {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]Process, 0, len(ps))
	for _, p := range ps {
		out = append(out, &sysProcess{p: p})
	}
	return out, nil
}

type sysProcess struct {
	p *process.Process
}

func (s *sysProcess) PID() int32 {
	return s.p.Pid
}

func (s *sysProcess) String() string {
	return fmt.Sprintf("process(%d)", s.p.Pid)
}

func (s *sysProcess) IsRunning() bool {
	running, err := s.p.IsRunning()
	if err != nil {
		log.Trace().Err(err).Int32("pid", s.p.Pid).Msg("liveness check failed")
		return false
	}
	return running
}

func (s *sysProcess) Status() (Status, error) {
	states, err := s.p.Status()
	if err != nil {
		return StatusOther, classify(s.p.Pid, "status", err)
	}
	for _, st := range states {
		switch st {
		case process.Zombie:
			return StatusZombie, nil
		case process.Running:
			return StatusRunning, nil
		}
	}
	return StatusOther, nil
}

func (s *sysProcess) Exe() (string, error) {
	exe, err := s.p.Exe()
	if err != nil {
		return "", classify(s.p.Pid, "exe", err)
	}
	if !isWineLoader(exe) {
		return exe, nil
	}
	// Wine keeps the Windows image path in argv[0]
	args, err := s.p.CmdlineSlice()
	if err != nil || len(args) == 0 || args[0] == "" {
		log.Trace().Err(err).Int32("pid", s.p.Pid).Msg("no windows image path for wine process")
		return exe, nil
	}
	return args[0], nil
}

func isWineLoader(exe string) bool {
	switch filepath.Base(exe) {
	case "wine", "wine64", "wine-preloader", "wine64-preloader":
		return true
	default:
		return false
	}
}

func (s *sysProcess) Children(recursive bool) ([]Process, error) {
	direct, err := children(s.p)
	if err != nil {
		return nil, err
	}
	if !recursive {
		return direct, nil
	}

	var out []Process
	seen := make(map[int32]struct{})
	queue := direct
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := seen[next.PID()]; ok {
			continue
		}
		seen[next.PID()] = struct{}{}
		out = append(out, next)

		sp, ok := next.(*sysProcess)
		if !ok {
			continue
		}
		grand, err := children(sp.p)
		if err != nil {
			// a child exiting mid-walk only loses its own subtree
			log.Trace().Err(err).Int32("pid", sp.p.Pid).Msg("skipping children of vanished process")
			continue
		}
		queue = append(queue, grand...)
	}
	return out, nil
}

func children(p *process.Process) ([]Process, error) {
	ps, err := p.Children()
	if errors.Is(err, process.ErrorNoChildren) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(p.Pid, "children", err)
	}
	out := make([]Process, 0, len(ps))
	for _, c := range ps {
		out = append(out, &sysProcess{p: c})
	}
	return out, nil
}
