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

import "strings"

// launcherProtocolKey is the HKCR key of the launcher's URL handler.
const launcherProtocolKey = `com.epicgames.launcher\shell\open\command`

// MacLauncherApp is the default macOS install location of the launcher.
const MacLauncherApp = "/Applications/Epic Games Launcher.app"

// commandPath extracts the executable from a shell open command such as
// `"C:\...\EpicGamesLauncher.exe" %1`.
func commandPath(cmd string) string {
	cmd = strings.ReplaceAll(cmd, `"`, "")
	if i := strings.Index(cmd, "%"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.TrimSpace(cmd)
}
