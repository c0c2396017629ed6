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

// Package procwatcher maps OS processes to watched applications by their
// install directory. The launcher itself is watched like any other app so
// its children can be scanned cheaply instead of the whole process table.
package procwatcher

import (
	"maps"
	"slices"
	"time"

	"github.com/ZaparooProject/localgames/pkg/helpers/syncutil"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procs"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// LauncherID is the registry key of the launcher entry.
const LauncherID = "__launcher__"

// DefaultSlowScanInterval is the pause between processes in SearchAllSlowly.
const DefaultSlowScanInterval = 10 * time.Millisecond

// App is a watched application. Two Apps are the same app when their IDs
// match; Dir can change between cycles.
type App struct {
	ID     string
	Dir    string
	IsGame bool
}

type entry struct {
	procs map[int32]procs.Process
	app   App
}

// Watcher owns the watched application registry and the processes matched
// to each application.
type Watcher struct {
	lister procs.Lister
	clock  clockwork.Clock
	apps   map[string]*entry
	// order is registry insertion order; matching walks it so the first
	// app registered wins a contested process.
	order []string
	mu    syncutil.Mutex
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock sets the clock used for scan and wait delays.
func WithClock(c clockwork.Clock) Option {
	return func(w *Watcher) {
		w.clock = c
	}
}

// New creates a watcher with the launcher registered. launcherIdentity is
// matched against executable paths exactly like a game install dir.
func New(launcherIdentity string, lister procs.Lister, opts ...Option) *Watcher {
	w := &Watcher{
		lister: lister,
		clock:  clockwork.NewRealClock(),
		apps:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.apps[LauncherID] = &entry{
		app:   App{ID: LauncherID, Dir: launcherIdentity, IsGame: false},
		procs: make(map[int32]procs.Process),
	}
	w.order = append(w.order, LauncherID)

	return w
}

// SetWatchedGames replaces the set of watched games. Games missing from
// games are dropped along with their matched processes; games already
// watched keep their processes even if their dir changed.
func (w *Watcher) SetWatchedGames(games map[string]string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	kept := w.order[:0]
	for _, id := range w.order {
		e := w.apps[id]
		if _, ok := games[id]; e.app.IsGame && !ok {
			log.Debug().Str("id", id).Int("procs", len(e.procs)).Msg("no longer watching app")
			delete(w.apps, id)
			continue
		}
		kept = append(kept, id)
	}
	w.order = kept

	for _, id := range slices.Sorted(maps.Keys(games)) {
		dir := games[id]
		if id == LauncherID {
			log.Warn().Str("id", id).Msg("ignoring app using reserved launcher id")
			continue
		}
		if dir == "" {
			// "" is a substring of every path
			log.Warn().Str("id", id).Msg("ignoring app with empty install dir")
			if e, ok := w.apps[id]; ok && e.app.IsGame {
				w.removeLocked(id)
			}
			continue
		}
		if e, ok := w.apps[id]; ok {
			if e.app.Dir != dir {
				log.Debug().Str("id", id).Str("old", e.app.Dir).Str("new", dir).Msg("app install dir changed")
			}
			w.apps[id] = &entry{app: App{ID: id, Dir: dir, IsGame: true}, procs: e.procs}
			continue
		}
		w.apps[id] = &entry{
			app:   App{ID: id, Dir: dir, IsGame: true},
			procs: make(map[int32]procs.Process),
		}
		w.order = append(w.order, id)
	}
}

func (w *Watcher) removeLocked(id string) {
	delete(w.apps, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			return
		}
	}
}

// Apps returns the registry in matching order, launcher included.
func (w *Watcher) Apps() []App {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]App, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.apps[id].app)
	}
	return out
}

// PruneDead drops matched processes that have exited or turned zombie.
func (w *Watcher) PruneDead() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pruneLocked()
}

func (w *Watcher) pruneLocked() {
	for _, id := range w.order {
		e := w.apps[id]
		for pid, p := range e.procs {
			if !p.IsRunning() {
				log.Debug().Str("id", id).Int32("pid", pid).Msg("process is dead")
				delete(e.procs, pid)
				continue
			}
			// a status the platform cannot report keeps the process
			status, err := p.Status()
			if procs.IsGone(err) || status == procs.StatusZombie {
				log.Debug().Err(err).Str("id", id).Int32("pid", pid).Msg("process is dead")
				delete(e.procs, pid)
			} else if err != nil {
				log.Trace().Err(err).Str("id", id).Int32("pid", pid).Msg("process status unavailable")
			}
		}
	}
}

// RunningGames prunes dead processes and returns the IDs of games with at
// least one matched process.
func (w *Watcher) RunningGames() map[string]struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked()
	running := make(map[string]struct{})
	for _, id := range w.order {
		e := w.apps[id]
		if e.app.IsGame && len(e.procs) > 0 {
			running[id] = struct{}{}
		}
	}
	return running
}

// IsTrackedAndRunning reports whether id has a matched process that is
// still alive. It never scans.
func (w *Watcher) IsTrackedAndRunning(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.apps[id]
	if !ok {
		return false
	}
	for _, p := range e.procs {
		if p.IsRunning() {
			return true
		}
	}
	return false
}

// IsLauncherRunning is the cheap launcher check; it does not scan.
func (w *Watcher) IsLauncherRunning() bool {
	return w.IsTrackedAndRunning(LauncherID)
}

// LauncherProcesses returns a copy of the launcher's matched processes.
func (w *Watcher) LauncherProcesses() []procs.Process {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := w.apps[LauncherID]
	out := make([]procs.Process, 0, len(e.procs))
	for _, p := range e.procs {
		out = append(out, p)
	}
	return out
}

// Processes returns the PIDs matched to id.
func (w *Watcher) Processes(id string) []int32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.apps[id]
	if !ok {
		return nil
	}
	out := make([]int32, 0, len(e.procs))
	for pid := range e.procs {
		out = append(out, pid)
	}
	return out
}
