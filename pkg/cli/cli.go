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
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaparooProject/localgames/internal/telemetry"
	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/helpers"
	"github.com/ZaparooProject/localgames/pkg/platforms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Version *bool
	Daemon  *bool
	List    *bool
	Wait    *string
	Timeout *time.Duration
	Config  *string
	Debug   *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return &Flags{
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Daemon: flag.Bool(
			"daemon",
			false,
			"run in the foreground, logging to stderr as well as the log file",
		),
		List: flag.Bool(
			"list",
			false,
			"print installed and running games and exit",
		),
		Wait: flag.String(
			"wait",
			"",
			"wait for the game with this app name to start running",
		),
		Timeout: flag.Duration(
			"timeout",
			0,
			"how long -wait waits before giving up (default from config)",
		),
		Config: flag.String(
			"config",
			"",
			"path to the config file",
		),
		Debug: flag.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(pl platforms.Platform) {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("Zaparoo Local Games v%s (%s)\n", config.AppVersion, pl.ID())
		os.Exit(0)
	}
}

// Mode converts the parsed flags into what Run should do.
func (f *Flags) Mode() Mode {
	return Mode{
		Daemon:  *f.Daemon,
		List:    *f.List,
		Wait:    *f.Wait,
		Timeout: *f.Timeout,
	}
}

// Writers returns the extra log writers the flags ask for.
func (f *Flags) Writers() []io.Writer {
	if *f.Daemon {
		return []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}
	return nil
}

// Setup initializes the user config and logging. Returns a user config
// object. An empty cfgPath uses the platform config directory.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
	cfgPath string,
) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(pl); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(pl, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	var (
		cfg *config.Instance
		err error
	)
	if cfgPath != "" {
		cfg, err = config.NewConfigAt(cfgPath, defaultConfig)
	} else {
		cfg, err = config.NewConfig(pl.Settings().ConfigDir, defaultConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	enabled, dsn := cfg.ErrorReporting()
	err = telemetry.Init(telemetry.Options{
		Enabled:    enabled,
		DSN:        dsn,
		DeviceID:   cfg.DeviceID(),
		PlatformID: pl.ID(),
		Launcher:   cfg.LauncherIdentifier(pl.LauncherIdentity()),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
