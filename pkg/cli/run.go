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

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/localgames"
	"github.com/ZaparooProject/localgames/pkg/platforms"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/ZaparooProject/localgames/pkg/service"
	"github.com/rs/zerolog/log"
)

// ErrNotRunning is returned when -wait gives up before the game starts.
var ErrNotRunning = errors.New("game did not start")

// Mode selects what RunApp does once the service is up.
type Mode struct {
	Wait    string
	Timeout time.Duration
	Daemon  bool
	List    bool
}

// RunApp starts tracking and then lists games, waits for one to start or
// runs until interrupted, printing state changes to out.
func RunApp(
	pl platforms.Platform,
	cfg *config.Instance,
	mode Mode,
	out io.Writer,
	opts ...service.Option,
) (returnErr error) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
			log.Error().Msgf("panic recovered: %v", r)
			returnErr = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var notify service.NotifyFunc
	if !mode.List && mode.Wait == "" {
		notify = func(id string, s localgames.State) {
			_, _ = fmt.Fprintf(out, "%s\t%s\n", id, s)
		}
	}

	svc, err := service.Start(pl, cfg, notify, opts...)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}
	defer svc.Stop()

	switch {
	case mode.List:
		return printGames(out, svc.Games(), svc.Titles(), svc.IsThirdParty)
	case mode.Wait != "":
		return waitFor(ctx, svc, mode, out)
	}

	log.Info().Bool("daemon", mode.Daemon).Msg("tracking local games")
	select {
	case <-ctx.Done():
		log.Info().Msg("interrupted, shutting down")
	case <-svc.Done():
		log.Info().Msg("service shut down internally")
	}
	return nil
}

func waitFor(ctx context.Context, svc *service.Service, mode Mode, out io.Writer) error {
	if !svc.Controller().IsInstalled(mode.Wait) {
		log.Warn().Str("id", mode.Wait).Msg("game is not installed, waiting anyway")
	}

	var running bool
	if mode.Timeout > 0 {
		running = svc.WaitUntilRunningFor(ctx, mode.Wait, mode.Timeout)
	} else {
		running = svc.WaitUntilRunning(ctx, mode.Wait)
	}
	if !running {
		return fmt.Errorf("%s: %w", mode.Wait, ErrNotRunning)
	}

	_, _ = fmt.Fprintf(out, "%s is running\n", mode.Wait)
	return nil
}

func printGames(
	out io.Writer,
	games map[string]localgames.State,
	titles map[string]epic.ItemManifest,
	thirdParty func(id string) bool,
) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "APP NAME\tTITLE\tSTATE\tSIZE\tSOURCE")
	for _, id := range slices.Sorted(maps.Keys(games)) {
		state := games[id]
		if state == localgames.StateNone {
			continue
		}
		title, size := "-", "-"
		if item, ok := titles[id]; ok {
			if item.DisplayName != "" {
				title = item.DisplayName
			}
			if item.InstallSize > 0 {
				size = formatSize(item.InstallSize)
			}
		}
		source := "epic"
		if thirdParty != nil && thirdParty(id) {
			source = "third-party"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, title, state, size, source)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("error writing game list: %w", err)
	}
	return nil
}

func formatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
