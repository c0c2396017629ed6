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
	"github.com/ZaparooProject/localgames/pkg/platforms"
	"github.com/ZaparooProject/localgames/pkg/platforms/shared/epic"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of the Platform interface using testify/mock
type MockPlatform struct {
	mock.Mock
}

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{}
}

// SetupBasicMock configures the mock with typical default values, rooting
// every directory under root.
func (m *MockPlatform) SetupBasicMock(root string) {
	m.On("ID").Return("mock-platform").Maybe()
	m.On("Settings").Return(platforms.Settings{
		DataDir:   root + "/data",
		ConfigDir: root + "/config",
		TempDir:   root + "/temp",
		LogDir:    root + "/logs",
	}).Maybe()
	m.On("ProgramDataDir").Return(root + "/ProgramData").Maybe()
	m.On("LauncherIdentity").Return(epic.WindowsLauncherIdentity).Maybe()
	m.On("LocateThirdParty", mock.Anything).Return("", false).Maybe()
	m.On("LauncherInstalled").Return(true, true).Maybe()
}

// ID returns the unique ID of this platform
func (m *MockPlatform) ID() string {
	args := m.Called()
	return args.String(0)
}

// Settings returns all simple platform-specific settings such as paths
func (m *MockPlatform) Settings() platforms.Settings {
	args := m.Called()
	if settings, ok := args.Get(0).(platforms.Settings); ok {
		return settings
	}
	return platforms.Settings{}
}

func (m *MockPlatform) ProgramDataDir() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlatform) LauncherIdentity() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlatform) LocateThirdParty(manifest epic.ThirdPartyManifest) (string, bool) {
	args := m.Called(manifest)
	return args.String(0), args.Bool(1)
}

func (m *MockPlatform) LauncherInstalled() (installed, known bool) {
	args := m.Called()
	return args.Bool(0), args.Bool(1)
}
