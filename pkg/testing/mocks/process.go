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

package mocks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ZaparooProject/localgames/pkg/helpers/syncutil"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procs"
)

// FakeProcess is an in-memory procs.Process. All setters are safe to call
// while a watcher goroutine is inspecting the process.
//
// Example:
//
//	launcher := mocks.NewFakeProcess(100, `C:\Epic\EpicGamesLauncher.exe`)
//	game := mocks.NewFakeProcess(101, `C:\Games\Fortnite\bin\game.exe`)
//	launcher.AddChild(game)
type FakeProcess struct {
	exeErr        error
	statusErr     error
	childrenErr   error
	exe           string
	children      []*FakeProcess
	childrenCalls atomic.Int32
	pid           int32
	status        procs.Status
	mu            syncutil.Mutex
	dead          bool
}

// NewFakeProcess returns a running process with the given executable path.
func NewFakeProcess(pid int32, exe string) *FakeProcess {
	return &FakeProcess{
		pid:    pid,
		exe:    exe,
		status: procs.StatusRunning,
	}
}

func (p *FakeProcess) String() string {
	return fmt.Sprintf("fake(%d)", p.pid)
}

func (p *FakeProcess) PID() int32 {
	return p.pid
}

// Kill marks the process as exited.
func (p *FakeProcess) Kill() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dead = true
}

// SetZombie leaves the process in the table as a zombie.
func (p *FakeProcess) SetZombie() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = procs.StatusZombie
}

// SetExeErr makes Exe fail with err.
func (p *FakeProcess) SetExeErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exeErr = err
}

// SetStatusErr makes Status fail with err while the process stays alive.
func (p *FakeProcess) SetStatusErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statusErr = err
}

// SetChildrenErr makes Children fail with err.
func (p *FakeProcess) SetChildrenErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.childrenErr = err
}

// AddChild attaches c as a direct child.
func (p *FakeProcess) AddChild(c *FakeProcess) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = append(p.children, c)
}

// ChildrenCalls returns how many times Children has been called.
func (p *FakeProcess) ChildrenCalls() int {
	return int(p.childrenCalls.Load())
}

func (p *FakeProcess) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.dead
}

func (p *FakeProcess) Status() (procs.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return procs.StatusOther, fmt.Errorf("status pid %d: %w", p.pid, procs.ErrVanished)
	}
	if p.statusErr != nil {
		return procs.StatusOther, p.statusErr
	}
	return p.status, nil
}

func (p *FakeProcess) Exe() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exeErr != nil {
		return "", p.exeErr
	}
	if p.dead {
		return "", fmt.Errorf("exe pid %d: %w", p.pid, procs.ErrVanished)
	}
	return p.exe, nil
}

func (p *FakeProcess) Children(recursive bool) ([]procs.Process, error) {
	p.childrenCalls.Add(1)

	p.mu.Lock()
	if p.childrenErr != nil {
		err := p.childrenErr
		p.mu.Unlock()
		return nil, err
	}
	direct := make([]*FakeProcess, 0, len(p.children))
	for _, c := range p.children {
		if c.IsRunning() {
			direct = append(direct, c)
		}
	}
	p.mu.Unlock()

	out := make([]procs.Process, 0, len(direct))
	for _, c := range direct {
		out = append(out, c)
		if recursive {
			grand, err := c.Children(true)
			if err != nil {
				continue
			}
			out = append(out, grand...)
		}
	}
	return out, nil
}

// FakeLister is an in-memory process table.
type FakeLister struct {
	err   error
	procs []*FakeProcess
	calls atomic.Int32
	mu    syncutil.Mutex
}

// NewFakeLister returns a process table holding ps.
func NewFakeLister(ps ...*FakeProcess) *FakeLister {
	return &FakeLister{procs: ps}
}

// Add appends processes to the table.
func (l *FakeLister) Add(ps ...*FakeProcess) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.procs = append(l.procs, ps...)
}

// SetErr makes Processes fail with err.
func (l *FakeLister) SetErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// Calls returns how many full enumerations have been requested.
func (l *FakeLister) Calls() int {
	return int(l.calls.Load())
}

// Processes returns every process in the table that is still running.
func (l *FakeLister) Processes(_ context.Context) ([]procs.Process, error) {
	l.calls.Add(1)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	out := make([]procs.Process, 0, len(l.procs))
	for _, p := range l.procs {
		if p.IsRunning() {
			out = append(out, p)
		}
	}
	return out, nil
}
