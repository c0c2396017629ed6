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

package procwatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procs"
	"github.com/rs/zerolog/log"
)

// matchLocked assigns p to the first watched app whose dir is contained in
// the process executable path. A process already held by an app stays
// with it. Callers must hold w.mu.
func (w *Watcher) matchLocked(p procs.Process) bool {
	pid := p.PID()
	for _, id := range w.order {
		if _, ok := w.apps[id].procs[pid]; ok {
			return true
		}
	}

	exe, err := p.Exe()
	if err != nil {
		if !procs.IsGone(err) {
			log.Debug().Err(err).Int32("pid", pid).Msg("unable to read process executable")
		}
		return false
	}

	for _, id := range w.order {
		e := w.apps[id]
		if e.app.Dir == "" || !strings.Contains(exe, e.app.Dir) {
			continue
		}
		e.procs[pid] = p
		log.Debug().Str("id", id).Int32("pid", pid).Str("exe", exe).Msg("matched process to app")
		return true
	}
	return false
}

// SearchAll enumerates the whole process table once and matches every
// process against the registry.
func (w *Watcher) SearchAll(ctx context.Context) error {
	ps, err := w.lister.Processes(ctx)
	if err != nil {
		return fmt.Errorf("full process scan: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	matched := 0
	for _, p := range ps {
		if w.matchLocked(p) {
			matched++
		}
	}
	log.Trace().Int("procs", len(ps)).Int("matched", matched).Msg("full process scan done")
	return nil
}

// SearchAllSlowly is SearchAll with a pause between processes, to spread
// the cost of a full scan over time. An interval of zero or less means
// no pause. The registry lock is not held while pausing.
func (w *Watcher) SearchAllSlowly(ctx context.Context, interval time.Duration) error {
	ps, err := w.lister.Processes(ctx)
	if err != nil {
		return fmt.Errorf("slow process scan: %w", err)
	}

	for i, p := range ps {
		w.mu.Lock()
		w.matchLocked(p)
		w.mu.Unlock()

		if i == len(ps)-1 {
			break
		}
		if !w.sleep(ctx, interval) {
			return fmt.Errorf("slow process scan: %w", ctx.Err())
		}
	}
	return nil
}

// SearchChildren matches the descendants of anchors only. It reports
// whether anything under the anchors matched. Anchors that fail to list
// their children are skipped.
func (w *Watcher) SearchChildren(anchors []procs.Process, recursive bool) bool {
	found := false
	for _, a := range anchors {
		kids, err := a.Children(recursive)
		if err != nil {
			log.Debug().Err(err).Int32("pid", a.PID()).Msg("unable to list child processes")
			continue
		}

		w.mu.Lock()
		for _, k := range kids {
			if w.matchLocked(k) {
				found = true
			}
		}
		w.mu.Unlock()
	}
	return found
}

// sleep waits d on the watcher clock. It returns false if ctx ended first.
func (w *Watcher) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-w.clock.After(d):
		return true
	}
}
