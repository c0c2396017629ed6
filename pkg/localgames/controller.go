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

// Package localgames tracks which launcher-managed games are installed and
// which are running. A background loop polls install sources and the
// process table and turns the differences between cycles into a set of
// updated game IDs for the embedding application to drain.
package localgames

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/localgames/pkg/helpers/syncutil"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procs"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procwatcher"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrAlreadyStarted is returned by Setup when called more than once.
var ErrAlreadyStarted = errors.New("local games controller already started")

const (
	DefaultPollInterval  = time.Second
	DefaultFullScanEvery = 7
)

// Source reports installed games and where they live on disk.
type Source interface {
	Name() string
	// HasChanged is a cheap check for whether Mapping would return
	// something different from the last call.
	HasChanged() bool
	// Mapping returns game ID to install directory. A source that cannot
	// read its data returns an empty map and logs why.
	Mapping() map[string]string
}

// Controller runs the polling loop and holds the resulting game states.
type Controller struct {
	clock   clockwork.Clock
	lister  procs.Lister
	watcher *procwatcher.Watcher
	wakeup  <-chan struct{}
	loopCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	states        map[string]State
	updated       map[string]struct{}
	prevInstalled map[string]struct{}
	prevRunning   map[string]struct{}

	// cycleHook is called after every loop cycle, abandoned or not.
	cycleHook func(n int)

	launcherIdentity string
	sources          []Source
	// cached holds the last mapping of each source, by source index. Only
	// touched by Setup and then by the loop goroutine.
	cached []map[string]string

	pollInterval     time.Duration
	slowScanInterval time.Duration
	fullScanEvery    int
	counter          int

	mu       syncutil.RWMutex
	firstRun bool
	started  bool
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(c clockwork.Clock) Option {
	return func(lg *Controller) {
		lg.clock = c
	}
}

// WithLister replaces the OS process table, mostly for tests.
func WithLister(l procs.Lister) Option {
	return func(lg *Controller) {
		lg.lister = l
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(lg *Controller) {
		if d > 0 {
			lg.pollInterval = d
		}
	}
}

// WithFullScanEvery sets how many cycles pass between full process scans
// while the launcher is running.
func WithFullScanEvery(n int) Option {
	return func(lg *Controller) {
		if n > 0 {
			lg.fullScanEvery = n
		}
	}
}

// WithSlowScanInterval sets the pause between processes during the
// initial scan made by Setup. Zero disables the pause.
func WithSlowScanInterval(d time.Duration) Option {
	return func(lg *Controller) {
		if d >= 0 {
			lg.slowScanInterval = d
		}
	}
}

// WithWakeup runs an extra cycle whenever ch receives, on top of the
// regular poll interval. Used to react to install changes on disk
// without waiting for the next tick.
func WithWakeup(ch <-chan struct{}) Option {
	return func(lg *Controller) {
		lg.wakeup = ch
	}
}

// New creates a controller. Sources earlier in the list win when two
// sources report the same game ID. Nothing runs until Setup.
func New(launcherIdentity string, sources []Source, opts ...Option) *Controller {
	lg := &Controller{
		clock:            clockwork.NewRealClock(),
		lister:           procs.System{},
		launcherIdentity: launcherIdentity,
		sources:          sources,
		cached:           make([]map[string]string, len(sources)),
		states:           make(map[string]State),
		updated:          make(map[string]struct{}),
		prevInstalled:    make(map[string]struct{}),
		prevRunning:      make(map[string]struct{}),
		pollInterval:     DefaultPollInterval,
		slowScanInterval: procwatcher.DefaultSlowScanInterval,
		fullScanEvery:    DefaultFullScanEvery,
		firstRun:         true,
	}
	for _, opt := range opts {
		opt(lg)
	}
	lg.watcher = procwatcher.New(launcherIdentity, lg.lister, procwatcher.WithClock(lg.clock))
	return lg
}

// Setup seeds the initial state and starts the background loop. The
// initial scan goes through the whole process table slowly and produces
// no update events. The loop runs until Stop is called or ctx is done.
func (lg *Controller) Setup(ctx context.Context) (err error) {
	lg.mu.Lock()
	if lg.started {
		lg.mu.Unlock()
		return ErrAlreadyStarted
	}
	lg.started = true
	lg.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic during local games setup")
			err = fmt.Errorf("local games setup: panic: %v", r)
		}
	}()

	log.Info().
		Str("launcher", lg.launcherIdentity).
		Int("sources", len(lg.sources)).
		Msg("setting up local games tracking")

	lg.refreshSources()
	installed := lg.installedGames()
	lg.watcher.SetWatchedGames(installed)

	if len(installed) > 0 {
		start := lg.clock.Now()
		scanErr := lg.watcher.SearchAllSlowly(ctx, lg.slowScanInterval)
		switch {
		case ctx.Err() != nil:
			return fmt.Errorf("initial process scan: %w", ctx.Err())
		case scanErr != nil:
			log.Warn().Err(scanErr).Msg("initial process scan failed")
		default:
			log.Debug().Dur("took", lg.clock.Since(start)).Msg("initial process scan done")
		}
	} else {
		log.Info().Msg("no installed games, skipping initial process scan")
	}

	lg.publish(installed, lg.watcher.RunningGames())

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	lg.mu.Lock()
	lg.firstRun = false
	lg.loopCtx = loopCtx
	lg.cancel = cancel
	lg.done = done
	lg.counter = 1
	lg.mu.Unlock()

	go lg.loop(loopCtx, done)
	return nil
}

// Stop cancels the background loop and waits for it to exit. Safe to call
// more than once and before Setup.
func (lg *Controller) Stop() {
	lg.mu.RLock()
	cancel, done := lg.cancel, lg.done
	lg.mu.RUnlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (lg *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := lg.clock.NewTicker(lg.pollInterval)
	defer ticker.Stop()

	wakeup := lg.wakeup
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("local games loop stopped")
			return
		case <-ticker.Chan():
		case _, ok := <-wakeup:
			if !ok {
				wakeup = nil
				continue
			}
			log.Debug().Msg("install change detected, running early cycle")
		}

		n := lg.counter
		lg.counter++
		lg.tick(ctx, n)
	}
}

// tick runs one cycle and absorbs any panic so the loop keeps going.
func (lg *Controller) tick(ctx context.Context, n int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("cycle", n).Msg("panic in local games cycle")
		}
		if lg.cycleHook != nil {
			lg.cycleHook(n)
		}
	}()

	if err := lg.cycle(ctx, n); err != nil {
		log.Debug().Err(err).Msg("local games cycle abandoned")
	}
}

func (lg *Controller) cycle(ctx context.Context, n int) error {
	lg.refreshSources()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cycle %d: %w", n, err)
	}

	installed := lg.installedGames()
	lg.watcher.SetWatchedGames(installed)
	lg.watcher.PruneDead()

	if n%lg.fullScanEvery == 0 || !lg.watcher.IsLauncherRunning() {
		log.Trace().Int("cycle", n).Msg("running full process scan")
		if err := lg.watcher.SearchAll(ctx); err != nil {
			log.Warn().Err(err).Msg("full process scan failed")
		}
	} else {
		lg.watcher.SearchChildren(lg.watcher.LauncherProcesses(), true)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cycle %d: %w", n, err)
	}

	lg.publish(installed, lg.watcher.RunningGames())
	return nil
}

func (lg *Controller) refreshSources() {
	for i, src := range lg.sources {
		if !src.HasChanged() {
			continue
		}
		m := src.Mapping()
		log.Debug().Str("source", src.Name()).Int("games", len(m)).Msg("install source changed")
		lg.cached[i] = m
	}
}

// installedGames merges the cached source mappings. The first source to
// report an ID decides its install dir.
func (lg *Controller) installedGames() map[string]string {
	out := make(map[string]string)
	for _, m := range lg.cached {
		for id, dir := range m {
			if _, ok := out[id]; !ok {
				out[id] = dir
			}
		}
	}
	return out
}

// publish diffs the current sets against the previous cycle and updates
// states and the pending set in one step.
func (lg *Controller) publish(installed map[string]string, running map[string]struct{}) {
	current := make(map[string]struct{}, len(installed))
	for id := range installed {
		current[id] = struct{}{}
	}

	lg.mu.Lock()
	defer lg.mu.Unlock()

	lg.applyDiff(lg.prevInstalled, current, StateInstalled)
	lg.applyDiff(lg.prevRunning, running, StateRunning)
	lg.prevInstalled = current
	lg.prevRunning = running
}

// applyDiff sets flag for IDs that joined and clears it for IDs that left.
// Bits are only cleared for IDs that were in prev, so a bit is never
// cleared that this diff did not set. Callers must hold lg.mu.
func (lg *Controller) applyDiff(prev, cur map[string]struct{}, flag State) {
	for id := range cur {
		if _, ok := prev[id]; ok {
			continue
		}
		lg.states[id] = lg.states[id].With(flag)
		lg.markLocked(id)
	}
	for id := range prev {
		if _, ok := cur[id]; ok {
			continue
		}
		lg.states[id] = lg.states[id].Without(flag)
		lg.markLocked(id)
	}
}

func (lg *Controller) markLocked(id string) {
	if lg.firstRun {
		return
	}
	lg.updated[id] = struct{}{}
}

// ConsumeUpdated returns the IDs whose state changed since the last call
// and clears them.
func (lg *Controller) ConsumeUpdated() map[string]struct{} {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	out := lg.updated
	lg.updated = make(map[string]struct{})
	return out
}

// IsInstalled reports whether any source listed id in the last cycle.
func (lg *Controller) IsInstalled(id string) bool {
	return lg.State(id).Has(StateInstalled)
}

// IsRunning reports whether id has a live process right now. It only
// checks processes already matched, it never scans.
func (lg *Controller) IsRunning(id string) bool {
	return lg.watcher.IsTrackedAndRunning(id)
}

// State returns the last published state of id.
func (lg *Controller) State(id string) State {
	lg.mu.RLock()
	defer lg.mu.RUnlock()
	return lg.states[id]
}

// Games returns a copy of every state seen so far. Games that were
// uninstalled stay in the map with StateNone.
func (lg *Controller) Games() map[string]State {
	lg.mu.RLock()
	defer lg.mu.RUnlock()

	out := make(map[string]State, len(lg.states))
	for id, s := range lg.states {
		out[id] = s
	}
	return out
}

// FirstRun reports whether Setup has not finished yet.
func (lg *Controller) FirstRun() bool {
	lg.mu.RLock()
	defer lg.mu.RUnlock()
	return lg.firstRun
}

// WaitUntilRunning blocks until a process of game id shows up, see
// procwatcher.Watcher.WaitUntilRunning. It also gives up when the
// controller is stopped.
func (lg *Controller) WaitUntilRunning(
	ctx context.Context,
	id string,
	timeout, short, long time.Duration,
) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lg.mu.RLock()
	loopCtx := lg.loopCtx
	lg.mu.RUnlock()
	if loopCtx != nil {
		stop := context.AfterFunc(loopCtx, cancel)
		defer stop()
	}

	return lg.watcher.WaitUntilRunning(ctx, id, timeout, short, long)
}
