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
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/ZaparooProject/localgames/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// InstalledSourceName is the Name of InstalledSource.
const InstalledSourceName = "launcher_installed"

type launcherInstalled struct {
	InstallationList []struct {
		AppName         string `json:"AppName"`
		InstallLocation string `json:"InstallLocation"`
	} `json:"InstallationList"`
}

type fingerprint struct {
	modTime time.Time
	size    int64
	exists  bool
}

// InstalledSource reports the games listed in LauncherInstalled.dat.
type InstalledSource struct {
	fs   afero.Fs
	last fingerprint
	path string
	mu   syncutil.Mutex
	seen bool
}

// NewInstalledSource reads the install list at path.
func NewInstalledSource(fs afero.Fs, path string) *InstalledSource {
	return &InstalledSource{fs: fs, path: path}
}

func (*InstalledSource) Name() string {
	return InstalledSourceName
}

func (s *InstalledSource) stat() fingerprint {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("unable to stat launcher install list")
		}
		return fingerprint{}
	}
	return fingerprint{exists: true, modTime: info.ModTime(), size: info.Size()}
}

// HasChanged compares the file's stat against the last check. A file that
// appears or disappears counts as a change.
func (s *InstalledSource) HasChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := s.stat()
	if s.seen && fp.exists == s.last.exists && fp.size == s.last.size && fp.modTime.Equal(s.last.modTime) {
		return false
	}
	if !s.seen && !fp.exists {
		// nothing reported yet and nothing to report
		s.seen = true
		return false
	}
	s.seen = true
	s.last = fp
	return true
}

// Mapping parses the install list. A missing or corrupt file maps to no
// games. Engine installs are skipped.
func (s *InstalledSource) Mapping() map[string]string {
	out := make(map[string]string)

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("unable to read launcher install list")
		return out
	}

	var li launcherInstalled
	if err := json.Unmarshal(data, &li); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("unable to parse launcher install list")
		return out
	}

	for _, e := range li.InstallationList {
		if e.AppName == "" || strings.HasPrefix(e.AppName, "UE") {
			continue
		}
		out[e.AppName] = e.InstallLocation
	}
	return out
}
