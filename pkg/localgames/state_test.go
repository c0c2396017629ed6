// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package localgames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	t.Parallel()

	s := StateNone
	assert.False(t, s.Has(StateInstalled))

	s = s.With(StateInstalled)
	assert.True(t, s.Has(StateInstalled))
	assert.False(t, s.Has(StateRunning))

	s = s.With(StateRunning)
	assert.True(t, s.Has(StateInstalled|StateRunning))

	s = s.Without(StateInstalled)
	assert.Equal(t, StateRunning, s)

	// clearing an unset bit must not flip it on
	assert.Equal(t, StateRunning, s.Without(StateInstalled))
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want  string
		state State
	}{
		{state: StateNone, want: "None"},
		{state: StateInstalled, want: "Installed"},
		{state: StateRunning, want: "Running"},
		{state: StateInstalled | StateRunning, want: "Installed|Running"},
		{state: State(8), want: "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}
