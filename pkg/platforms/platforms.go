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

// Package platforms describes the host operating system integration needed
// to track Epic Games Store titles: where files live, what the launcher
// process is called and how to resolve third-party managed installs.
package platforms

import (
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
)

const (
	PlatformIDWindows = "windows"
	PlatformIDMac     = "mac"
	PlatformIDLinux   = "linux"
)

// Settings defines all simple settings/configuration values available for a
// platform.
type Settings struct {
	// DataDir is the root folder for anything stored permanently.
	DataDir string
	// ConfigDir is the directory where the config file is stored.
	ConfigDir string
	// TempDir is a scratch directory. Expect it to be deleted.
	TempDir string
	// LogDir is where the rotating log files are written.
	LogDir string
}

// Platform is the central interface that defines how the tracker interacts
// with a supported operating system.
type Platform interface {
	// ID returns the unique ID of this platform.
	ID() string
	// Settings returns all simple platform-specific settings such as paths.
	Settings() Settings
	// ProgramDataDir returns the machine-wide data root the Epic launcher
	// keeps its catalogue under. Empty when there is no sensible default.
	ProgramDataDir() string
	// LauncherIdentity returns the string matched against process
	// executables to find the Epic launcher.
	LauncherIdentity() string
	// LocateThirdParty resolves the install directory of a third-party
	// managed app, reporting false when it is not installed.
	LocateThirdParty(m epic.ThirdPartyManifest) (string, bool)
	// LauncherInstalled reports whether the Epic launcher itself is
	// installed. known is false when the platform cannot tell.
	LauncherInstalled() (installed, known bool)
}
