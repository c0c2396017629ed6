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

// RegistryLocator looks up a third party app's install dir in HKLM. The
// app counts as installed only if the dir exists.
func RegistryLocator(m ThirdPartyManifest) (string, bool) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, m.RegistryPath, registry.QUERY_VALUE)
	if err != nil {
		log.Trace().Err(err).Str("app", m.AppName).Msg("third party registry key not found")
		return "", false
	}

	location, _, err := key.GetStringValue(m.RegistryKey)
	if closeErr := key.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("error closing registry key")
	}
	if err != nil {
		log.Trace().Err(err).Str("app", m.AppName).Msg("third party registry value not found")
		return "", false
	}

	if _, err := os.Stat(location); err != nil {
		return "", false
	}
	return location, true
}
