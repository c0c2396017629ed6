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

package epic

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ItemManifest is the subset of a launcher .item manifest used for
// display.
type ItemManifest struct {
	AppName         string `json:"AppName"`
	DisplayName     string `json:"DisplayName"`
	InstallLocation string `json:"InstallLocation"`
	InstallSize     int64  `json:"InstallSize"`
}

// ReadItemManifests parses every .item file in dir, keyed by AppName.
// Unreadable files are logged and skipped.
func ReadItemManifests(fs afero.Fs, dir string) (map[string]ItemManifest, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list item manifests: %w", err)
	}

	out := make(map[string]ItemManifest)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".item") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("unable to read item manifest")
			continue
		}
		var m ItemManifest
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("unable to parse item manifest")
			continue
		}
		if m.AppName == "" {
			continue
		}
		out[m.AppName] = m
	}
	return out, nil
}

// SortedAppNames returns the keys of ms in order.
func SortedAppNames(ms map[string]ItemManifest) []string {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
