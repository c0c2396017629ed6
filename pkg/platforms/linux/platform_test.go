//go:build linux

// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package linux

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/platforms"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/stretchr/testify/assert"
)

func TestPlatform(t *testing.T) {
	t.Parallel()

	pl := &Platform{prefix: "/home/user/Games/epic"}

	assert.Equal(t, platforms.PlatformIDLinux, pl.ID())
	assert.Equal(t, "/home/user/Games/epic/drive_c/ProgramData", pl.ProgramDataDir())
	assert.Equal(t, epic.WindowsLauncherIdentity, pl.LauncherIdentity())

	_, ok := pl.LocateThirdParty(epic.ThirdPartyManifest{AppName: "x"})
	assert.False(t, ok)
	installed, known := pl.LauncherInstalled()
	assert.False(t, installed)
	assert.False(t, known)
}

func TestSettings(t *testing.T) {
	t.Parallel()

	s := NewPlatform().Settings()
	for _, dir := range []string{s.DataDir, s.ConfigDir, s.TempDir, s.LogDir} {
		assert.NotEmpty(t, dir)
		assert.Equal(t, config.AppName, filepath.Base(dir))
	}
}
