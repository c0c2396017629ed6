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

package mocks

import (
	"maps"

	"github.com/ZaparooProject/localgames/pkg/helpers/syncutil"
	"github.com/stretchr/testify/mock"
)

// MockSource is a testify mock for localgames.Source.
//
// Example:
//
//	src := &mocks.MockSource{}
//	src.On("Name").Return("installed").Maybe()
//	src.On("HasChanged").Return(true).Once()
//	src.On("Mapping").Return(map[string]string{"Fortnite": `D:\Games\Fortnite`}).Once()
//	src.On("HasChanged").Return(false)
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	return m.Called().String(0)
}

func (m *MockSource) HasChanged() bool {
	return m.Called().Bool(0)
}

func (m *MockSource) Mapping() map[string]string {
	args := m.Called()
	if v, ok := args.Get(0).(map[string]string); ok {
		return v
	}
	return nil
}

// StaticSource is a localgames.Source whose mapping is set directly. It
// reports a change once after every Set.
type StaticSource struct {
	mapping map[string]string
	name    string
	mu      syncutil.Mutex
	changed bool
}

// NewStaticSource returns a source that reports mapping on the first cycle.
func NewStaticSource(name string, mapping map[string]string) *StaticSource {
	return &StaticSource{name: name, mapping: maps.Clone(mapping), changed: true}
}

// Set replaces the mapping returned by the next Mapping call.
func (s *StaticSource) Set(mapping map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapping = maps.Clone(mapping)
	s.changed = true
}

func (s *StaticSource) Name() string {
	return s.name
}

func (s *StaticSource) HasChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *StaticSource) Mapping() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = false
	return maps.Clone(s.mapping)
}
