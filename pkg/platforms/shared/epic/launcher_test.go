// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package epic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  string
		want string
	}{
		{
			cmd:  `"C:\Program Files (x86)\Epic Games\Launcher\Portal\Binaries\Win64\EpicGamesLauncher.exe" %1`,
			want: `C:\Program Files (x86)\Epic Games\Launcher\Portal\Binaries\Win64\EpicGamesLauncher.exe`,
		},
		{
			cmd:  `C:\Epic\EpicGamesLauncher.exe`,
			want: `C:\Epic\EpicGamesLauncher.exe`,
		},
		{cmd: `  "%1"`, want: ""},
		{cmd: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, commandPath(tt.cmd), tt.cmd)
	}
}
