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
	"time"

	"github.com/rs/zerolog/log"
)

// Default timings for WaitUntilRunning.
const (
	DefaultWaitTimeout       = 30 * time.Second
	DefaultWaitShortInterval = 500 * time.Millisecond
	DefaultWaitLongInterval  = 2 * time.Second
)

// WaitUntilRunning blocks until game id has a live matched process, the
// timeout passes or ctx is cancelled.
//
// While the launcher is not running it runs full scans every long
// interval to find it. Once the launcher is known only its subtree is
// scanned, every short interval. When the timeout passes one last full
// scan is made in case the game was started outside the launcher.
// Non-positive intervals are replaced by the defaults.
func (w *Watcher) WaitUntilRunning(
	ctx context.Context,
	id string,
	timeout, short, long time.Duration,
) bool {
	if short <= 0 {
		short = DefaultWaitShortInterval
	}
	if long <= 0 {
		long = DefaultWaitLongInterval
	}

	start := w.clock.Now()
	deadline := start.Add(timeout)
	log.Info().Str("id", id).Dur("timeout", timeout).Msg("waiting for game to start")

	for w.clock.Now().Before(deadline) {
		if w.IsTrackedAndRunning(id) {
			log.Info().Str("id", id).Dur("elapsed", w.clock.Since(start)).Msg("game is running")
			return true
		}
		if !w.waitForLauncher(ctx, id, deadline, long) {
			break
		}

		w.SearchChildren(w.LauncherProcesses(), true)
		if w.IsTrackedAndRunning(id) {
			log.Info().Str("id", id).Dur("elapsed", w.clock.Since(start)).Msg("game is running")
			return true
		}
		if !w.sleep(ctx, min(short, deadline.Sub(w.clock.Now()))) {
			break
		}
	}

	if ctx.Err() != nil {
		log.Debug().Str("id", id).Msg("wait for game cancelled")
		return false
	}

	if err := w.SearchAll(ctx); err != nil {
		log.Warn().Err(err).Msg("final scan for game failed")
		return false
	}
	if w.IsTrackedAndRunning(id) {
		log.Info().Str("id", id).Msg("game found running outside the launcher")
		return true
	}

	log.Info().Str("id", id).Dur("timeout", timeout).Msg("timed out waiting for game")
	return false
}

// waitForLauncher full-scans every long interval until the launcher has a
// live process. A full scan can also turn up the game itself, which ends
// the wait early. It returns false on deadline or cancellation.
func (w *Watcher) waitForLauncher(ctx context.Context, id string, deadline time.Time, long time.Duration) bool {
	for {
		if w.IsLauncherRunning() {
			return true
		}
		if err := w.SearchAll(ctx); err != nil {
			log.Warn().Err(err).Msg("scan for launcher failed")
		}
		if w.IsLauncherRunning() {
			log.Debug().Msg("launcher found")
			return true
		}
		if w.IsTrackedAndRunning(id) {
			return true
		}

		left := deadline.Sub(w.clock.Now())
		if left <= 0 {
			return false
		}
		if !w.sleep(ctx, min(long, left)) {
			return false
		}
	}
}
