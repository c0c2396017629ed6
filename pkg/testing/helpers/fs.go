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

package helpers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// FSHelper builds launcher data layouts on an afero filesystem for tests.
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// WriteFile writes content to path, creating parent directories.
func (h *FSHelper) WriteFile(path string, content []byte) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// WriteJSON marshals v into path.
func (h *FSHelper) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return h.WriteFile(path, data)
}

// WriteLauncherInstalled writes a LauncherInstalled.dat listing installs,
// a map of AppName to InstallLocation.
func (h *FSHelper) WriteLauncherInstalled(path string, installs map[string]string) error {
	type entry struct {
		InstallLocation string `json:"InstallLocation"`
		AppName         string `json:"AppName"`
		AppID           int    `json:"AppID"`
	}
	list := make([]entry, 0, len(installs))
	for name, loc := range installs {
		list = append(list, entry{InstallLocation: loc, AppName: name})
	}
	return h.WriteJSON(path, map[string]any{"InstallationList": list})
}

// WriteThirdPartyManifest writes a third party app manifest into dir.
func (h *FSHelper) WriteThirdPartyManifest(dir, appName, regPath, regKey string) error {
	return h.WriteJSON(filepath.Join(dir, appName+".json"), map[string]string{
		"AppName":      appName,
		"RegistryPath": regPath,
		"RegistryKey":  regKey,
	})
}

// Touch sets the modification time of path.
func (h *FSHelper) Touch(path string, t time.Time) error {
	if err := h.Fs.Chtimes(path, t, t); err != nil {
		return fmt.Errorf("failed to touch %s: %w", path, err)
	}
	return nil
}

// Remove deletes path.
func (h *FSHelper) Remove(path string) error {
	if err := h.Fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists
func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	if err != nil {
		return false
	}
	return exists
}
