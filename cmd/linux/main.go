//go:build linux

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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ZaparooProject/localgames/internal/telemetry"
	"github.com/ZaparooProject/localgames/pkg/cli"
	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/platforms/linux"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		telemetry.Flush()
		if errors.Is(err, cli.ErrNotRunning) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	pl := linux.NewPlatform()
	flags := cli.SetupFlags()

	flags.Pre(pl)

	if os.Geteuid() == 0 {
		return errors.New("localgames cannot be run as root")
	}

	cfg, err := cli.Setup(pl, config.BaseDefaults, flags.Writers(), *flags.Config)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	if *flags.Debug {
		cfg.SetDebugLogging(true)
	}

	return cli.RunApp(pl, cfg, flags.Mode(), os.Stdout)
}
