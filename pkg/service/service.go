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

// Package service wires the platform, config and Epic install sources into
// a running localgames controller and forwards state changes to a callback.
package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/ZaparooProject/localgames/internal/telemetry"
	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/localgames"
	"github.com/ZaparooProject/localgames/pkg/platforms"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procs"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// NotifyFunc receives the new state of every game that changed since the
// last drain.
type NotifyFunc func(id string, state localgames.State)

type options struct {
	fs     afero.Fs
	clock  clockwork.Clock
	lister procs.Lister
}

type Option func(*options)

func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithLister(l procs.Lister) Option {
	return func(o *options) {
		o.lister = l
	}
}

// Service is a started controller plus the goroutines feeding it.
type Service struct {
	ctrl       *localgames.Controller
	notifier   *epic.Notifier
	thirdParty *epic.ThirdPartySource
	cfg        *config.Instance
	group      *errgroup.Group
	cancel     context.CancelFunc
	done       chan struct{}
	paths      epic.Paths
	fs         afero.Fs
}

// Start builds the install sources for pl, runs the controller's setup
// and starts forwarding changes to notify every poll interval. notify may
// be nil.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
	notify NotifyFunc,
	opts ...Option,
) (*Service, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	o := options{
		fs:     afero.NewOsFs(),
		clock:  clockwork.NewRealClock(),
		lister: procs.System{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if installed, known := pl.LauncherInstalled(); known && !installed {
		log.Warn().Msg("epic games launcher does not appear to be installed")
	}

	paths := epic.Paths{ProgramData: cfg.ProgramData(pl.ProgramDataDir())}
	log.Info().Str("path", paths.ProgramData).Msg("using launcher data root")
	thirdPartyDir := paths.ThirdPartyDir(o.fs)

	thirdParty := epic.NewThirdPartySource(o.fs, thirdPartyDir, pl.LocateThirdParty)
	sources := []localgames.Source{
		epic.NewInstalledSource(o.fs, paths.LauncherInstalled()),
		thirdParty,
	}

	ctrlOpts := []localgames.Option{
		localgames.WithClock(o.clock),
		localgames.WithLister(o.lister),
		localgames.WithPollInterval(cfg.PollInterval()),
		localgames.WithFullScanEvery(cfg.FullScanEvery()),
		localgames.WithSlowScanInterval(cfg.SlowScanInterval()),
	}

	var notifier *epic.Notifier
	if cfg.WatchFiles() {
		n, err := epic.NewNotifier(paths.WatchDirs(thirdPartyDir)...)
		if err != nil {
			log.Warn().Err(err).Msg("file watching unavailable, relying on polling")
		} else {
			notifier = n
			ctrlOpts = append(ctrlOpts, localgames.WithWakeup(n.Changes()))
		}
	}

	ctrl := localgames.New(cfg.LauncherIdentifier(pl.LauncherIdentity()), sources, ctrlOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	if err := ctrl.Setup(ctx); err != nil {
		cancel()
		if notifier != nil {
			_ = notifier.Close()
		}
		return nil, fmt.Errorf("controller setup failed: %w", err)
	}
	games := len(ctrl.Games())
	log.Info().Int("games", games).Msg("local games tracking started")
	telemetry.SetTracking(paths.ProgramData, games)

	g, gctx := errgroup.WithContext(ctx)
	svc := &Service{
		ctrl:       ctrl,
		notifier:   notifier,
		thirdParty: thirdParty,
		cfg:        cfg,
		group:      g,
		cancel:     cancel,
		done:       make(chan struct{}),
		paths:      paths,
		fs:         o.fs,
	}

	g.Go(func() error {
		svc.drain(gctx, o.clock, notify)
		return nil
	})
	go func() {
		_ = g.Wait()
		close(svc.done)
	}()

	return svc, nil
}

func (s *Service) drain(ctx context.Context, clock clockwork.Clock, notify NotifyFunc) {
	ticker := clock.NewTicker(s.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}

		updated := s.ctrl.ConsumeUpdated()
		if len(updated) == 0 || notify == nil {
			continue
		}
		for _, id := range slices.Sorted(maps.Keys(updated)) {
			state := s.ctrl.State(id)
			log.Debug().Str("id", id).Stringer("state", state).Msg("game state changed")
			notify(id, state)
		}
	}
}

// Stop shuts down the controller and the drain loop. Safe to call more
// than once.
func (s *Service) Stop() {
	s.cancel()
	s.ctrl.Stop()
	<-s.done
	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing file watcher")
		}
	}
}

// Done is closed once the service has stopped.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

func (s *Service) Controller() *localgames.Controller {
	return s.ctrl
}

// Games returns the tracked state of every known game.
func (s *Service) Games() map[string]localgames.State {
	return s.ctrl.Games()
}

// WaitUntilRunning waits for game id using the configured wait timings.
func (s *Service) WaitUntilRunning(ctx context.Context, id string) bool {
	timeout, short, long := s.cfg.WaitTimings()
	return s.ctrl.WaitUntilRunning(ctx, id, timeout, short, long)
}

// WaitUntilRunningFor is WaitUntilRunning with an explicit timeout.
func (s *Service) WaitUntilRunningFor(ctx context.Context, id string, timeout time.Duration) bool {
	_, short, long := s.cfg.WaitTimings()
	return s.ctrl.WaitUntilRunning(ctx, id, timeout, short, long)
}

// Titles reads display names from the launcher's item manifests. Games
// without a manifest are left out.
func (s *Service) Titles() map[string]epic.ItemManifest {
	items, err := epic.ReadItemManifests(s.fs, s.paths.ManifestsDir())
	if err != nil {
		log.Debug().Err(err).Msg("no item manifests")
		return map[string]epic.ItemManifest{}
	}
	return items
}

// IsThirdParty reports whether id is installed through a third party
// installer rather than the launcher itself.
func (s *Service) IsThirdParty(id string) bool {
	return s.thirdParty.Has(id)
}
