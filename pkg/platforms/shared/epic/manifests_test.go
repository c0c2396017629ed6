// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package epic_test

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/ZaparooProject/localgames/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadItemManifests(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	dir := testPaths.ManifestsDir()
	require.NoError(t, h.WriteJSON(filepath.Join(dir, "A1B2.item"), map[string]any{
		"AppName":         "Fortnite",
		"DisplayName":     "Fortnite",
		"InstallLocation": `C:\Program Files\Epic Games\Fortnite`,
		"InstallSize":     int64(35_000_000_000),
	}))
	require.NoError(t, h.WriteJSON(filepath.Join(dir, "C3D4.item"), map[string]any{
		"AppName":     "Sugar",
		"DisplayName": "Rocket League",
	}))
	require.NoError(t, h.WriteFile(filepath.Join(dir, "bad.item"), []byte("{")))
	require.NoError(t, h.WriteFile(filepath.Join(dir, "notes.txt"), []byte("{}")))
	require.NoError(t, h.Fs.MkdirAll(filepath.Join(dir, "Pending"), 0o750))

	got, err := epic.ReadItemManifests(h.Fs, dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Rocket League", got["Sugar"].DisplayName)
	assert.Equal(t, int64(35_000_000_000), got["Fortnite"].InstallSize)
	assert.Equal(t, []string{"Fortnite", "Sugar"}, epic.SortedAppNames(got))
}

func TestReadItemManifests_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := epic.ReadItemManifests(helpers.NewMemoryFS().Fs, testPaths.ManifestsDir())
	require.Error(t, err)
}
