//go:build darwin

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

package mac

import (
	"os"
	"path/filepath"

	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/platforms"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/adrg/xdg"
)

type Platform struct{}

func NewPlatform() *Platform {
	return &Platform{}
}

func (*Platform) ID() string {
	return platforms.PlatformIDMac
}

func (*Platform) Settings() platforms.Settings {
	dataDir := filepath.Join(xdg.DataHome, config.AppName)
	return platforms.Settings{
		DataDir:   dataDir,
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
		LogDir:    filepath.Join(dataDir, "logs"),
	}
}

// ProgramDataDir is ~/Library/Application Support, where the launcher
// keeps the same Epic/ tree it uses under ProgramData on Windows.
func (*Platform) ProgramDataDir() string {
	return xdg.DataHome
}

func (*Platform) LauncherIdentity() string {
	return epic.MacLauncherIdentity
}

// LocateThirdParty always reports not installed, third-party managed apps
// are only resolved through the Windows registry.
func (*Platform) LocateThirdParty(epic.ThirdPartyManifest) (string, bool) {
	return "", false
}

func (*Platform) LauncherInstalled() (installed, known bool) {
	return epic.LauncherInstalled()
}
