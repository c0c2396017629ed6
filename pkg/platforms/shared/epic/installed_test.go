// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package epic_test

import (
	"testing"
	"time"

	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/ZaparooProject/localgames/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPaths = epic.Paths{ProgramData: "/ProgramData"}

func TestInstalledSource_MissingFile(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	src := epic.NewInstalledSource(h.Fs, testPaths.LauncherInstalled())

	assert.Equal(t, epic.InstalledSourceName, src.Name())
	assert.False(t, src.HasChanged())
	assert.Empty(t, src.Mapping())
}

func TestInstalledSource_Lifecycle(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	path := testPaths.LauncherInstalled()
	src := epic.NewInstalledSource(h.Fs, path)

	require.NoError(t, h.WriteLauncherInstalled(path, map[string]string{
		"Fortnite": `C:\Program Files\Epic Games\Fortnite`,
		"UE_5.3":   `C:\Program Files\Epic Games\UE_5.3`,
		"Sugar":    `D:\Games\Sugar`,
		"":         `D:\Games\Nameless`,
	}))
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.Touch(path, t1))

	assert.True(t, src.HasChanged())
	assert.Equal(t, map[string]string{
		"Fortnite": `C:\Program Files\Epic Games\Fortnite`,
		"Sugar":    `D:\Games\Sugar`,
	}, src.Mapping())
	assert.False(t, src.HasChanged(), "unchanged file")

	require.NoError(t, h.WriteLauncherInstalled(path, map[string]string{"Sugar": `D:\Games\Sugar`}))
	require.NoError(t, h.Touch(path, t1.Add(time.Minute)))
	assert.True(t, src.HasChanged())
	assert.Equal(t, map[string]string{"Sugar": `D:\Games\Sugar`}, src.Mapping())

	require.NoError(t, h.Remove(path))
	assert.True(t, src.HasChanged(), "deleted file is a change")
	assert.Empty(t, src.Mapping())
	assert.False(t, src.HasChanged())
}

func TestInstalledSource_Corrupt(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	path := testPaths.LauncherInstalled()
	require.NoError(t, h.WriteFile(path, []byte(`{"InstallationList": [`)))

	src := epic.NewInstalledSource(h.Fs, path)
	assert.True(t, src.HasChanged())
	assert.Empty(t, src.Mapping())
}
