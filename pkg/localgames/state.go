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

package localgames

import "strings"

// State is the install and run state of a game as a bit set. The values
// match what consumers of the event stream already expect on the wire.
type State uint8

const (
	StateNone      State = 0
	StateInstalled State = 1
	StateRunning   State = 2
)

// Has reports whether every bit of flag is set in s.
func (s State) Has(flag State) bool {
	return s&flag == flag
}

// With returns s with flag set.
func (s State) With(flag State) State {
	return s | flag
}

// Without returns s with flag cleared. Clearing a bit that is not set
// leaves s unchanged.
func (s State) Without(flag State) State {
	return s &^ flag
}

func (s State) String() string {
	if s == StateNone {
		return "None"
	}
	var parts []string
	if s.Has(StateInstalled) {
		parts = append(parts, "Installed")
	}
	if s.Has(StateRunning) {
		parts = append(parts, "Running")
	}
	if rest := s.Without(StateInstalled | StateRunning); rest != 0 {
		parts = append(parts, "Unknown")
	}
	return strings.Join(parts, "|")
}
