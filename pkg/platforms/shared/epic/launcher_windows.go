//go:build windows

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

package epic

import (
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

// LauncherInstalled checks the launcher's URL handler registration. On
// Windows the answer is always known.
func LauncherInstalled() (installed, known bool) {
	key, err := registry.OpenKey(registry.CLASSES_ROOT, launcherProtocolKey, registry.QUERY_VALUE)
	if err != nil {
		log.Debug().Err(err).Msg("launcher protocol handler not registered")
		return false, true
	}

	cmd, _, err := key.GetStringValue("")
	if closeErr := key.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("error closing registry key")
	}
	if err != nil {
		return false, true
	}

	path := commandPath(cmd)
	if _, err := os.Stat(path); err != nil {
		log.Debug().Str("path", path).Msg("registered launcher executable is missing")
		return false, true
	}
	return true, true
}
