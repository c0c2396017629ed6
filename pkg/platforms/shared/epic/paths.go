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

// Package epic reads the Epic Games Launcher's on-disk install state and
// knows how to recognise the launcher process.
package epic

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Launcher process identities. These are matched as substrings of
// executable paths, same as game install dirs.
const (
	WindowsLauncherIdentity = "EpicGamesLauncher.exe"
	MacLauncherIdentity     = "Epic Games Launcher"
)

const (
	thirdPartyDirName    = "ThirPartyManagedApps"
	thirdPartyDirNameAlt = "ThirdPartyManagedApps"
)

// Paths resolves launcher data locations under a program data root
// (%PROGRAMDATA% on Windows, ~/Library/Application Support on macOS).
type Paths struct {
	ProgramData string
}

func (p Paths) launcherData() string {
	return filepath.Join(p.ProgramData, "Epic", "EpicGamesLauncher", "Data")
}

// LauncherInstalled is the launcher's persisted list of installed apps.
func (p Paths) LauncherInstalled() string {
	return filepath.Join(p.ProgramData, "Epic", "UnrealEngineLauncher", "LauncherInstalled.dat")
}

// ManifestsDir holds one .item manifest per installed app.
func (p Paths) ManifestsDir() string {
	return filepath.Join(p.launcherData(), "Manifests")
}

// ThirdPartyDir holds manifests of apps installed by third party
// installers. The launcher spells the directory wrong; the corrected
// name is used only when it is the one that exists on fs.
func (p Paths) ThirdPartyDir(fs afero.Fs) string {
	for _, name := range []string{thirdPartyDirName, thirdPartyDirNameAlt} {
		dir := filepath.Join(p.launcherData(), name)
		if ok, err := afero.DirExists(fs, dir); err == nil && ok {
			return dir
		}
	}
	return filepath.Join(p.launcherData(), thirdPartyDirName)
}

// WatchDirs returns the directories holding the install list and third
// party manifests.
func (p Paths) WatchDirs(thirdPartyDir string) []string {
	return []string{filepath.Dir(p.LauncherInstalled()), thirdPartyDir}
}
