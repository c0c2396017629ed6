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
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/localgames/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ThirdPartySourceName is the Name of ThirdPartySource.
const ThirdPartySourceName = "third_party"

// ThirdPartyManifest points at the registry value holding the install
// location of an app managed by a third party installer.
type ThirdPartyManifest struct {
	AppName      string `json:"AppName"`
	RegistryPath string `json:"RegistryPath"`
	RegistryKey  string `json:"RegistryKey"`
}

// Locator resolves the install dir of a third party app. It returns false
// when the app is not installed.
type Locator func(ThirdPartyManifest) (string, bool)

type fileStat struct {
	modTime time.Time
	size    int64
	mode    fs.FileMode
}

// ThirdPartySource reports third party managed apps that are installed.
// Manifests are re-read only when the directory listing or a file's stat
// changes, but install locations are looked up on every check since they
// can change without the manifest changing.
type ThirdPartySource struct {
	fs        afero.Fs
	locate    Locator
	stats     map[string]fileStat
	manifests map[string]ThirdPartyManifest
	last      map[string]string
	dir       string
	mu        syncutil.Mutex
	reported  bool
}

// NewThirdPartySource reads manifests from dir and resolves them with
// locate. A nil locate treats every app as not installed.
func NewThirdPartySource(fs afero.Fs, dir string, locate Locator) *ThirdPartySource {
	if locate == nil {
		locate = func(ThirdPartyManifest) (string, bool) { return "", false }
	}
	return &ThirdPartySource{
		fs:        fs,
		dir:       dir,
		locate:    locate,
		manifests: make(map[string]ThirdPartyManifest),
	}
}

func (*ThirdPartySource) Name() string {
	return ThirdPartySourceName
}

func (s *ThirdPartySource) readStats() map[string]fileStat {
	stats := make(map[string]fileStat)
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("dir", s.dir).Msg("unable to list third party manifests")
		}
		return stats
	}
	for _, e := range entries {
		stats[filepath.Join(s.dir, e.Name())] = fileStat{
			modTime: e.ModTime(),
			size:    e.Size(),
			mode:    e.Mode(),
		}
	}
	return stats
}

// refreshLocked re-parses manifests if the directory changed.
func (s *ThirdPartySource) refreshLocked() {
	stats := s.readStats()
	if s.stats != nil && maps.EqualFunc(stats, s.stats, func(a, b fileStat) bool {
		return a.size == b.size && a.mode == b.mode && a.modTime.Equal(b.modTime)
	}) {
		return
	}
	s.stats = stats

	manifests := make(map[string]ThirdPartyManifest, len(stats))
	for path, st := range stats {
		if st.mode.IsDir() {
			continue
		}
		m, err := s.load(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("unable to parse third party manifest")
			continue
		}
		if m.RegistryPath == "" || m.RegistryKey == "" {
			log.Warn().Str("path", path).Str("app", m.AppName).
				Msg("third party manifest has no registry location, treating as not installed")
		}
		manifests[m.AppName] = m
	}
	s.manifests = manifests
	log.Debug().Int("manifests", len(manifests)).Msg("third party manifests reloaded")
}

func (s *ThirdPartySource) load(path string) (ThirdPartyManifest, error) {
	var m ThirdPartyManifest
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	if m.AppName == "" {
		return m, errors.New("manifest has no AppName")
	}
	return m, nil
}

func (s *ThirdPartySource) resolveLocked() map[string]string {
	out := make(map[string]string)
	for id, m := range s.manifests {
		if m.RegistryPath == "" || m.RegistryKey == "" {
			continue
		}
		if dir, ok := s.locate(m); ok {
			out[id] = dir
		}
	}
	return out
}

// HasChanged reports whether the installed apps differ from the last
// Mapping call.
func (s *ThirdPartySource) HasChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	return !s.reported || !maps.Equal(s.resolveLocked(), s.last)
}

// Mapping returns installed third party apps and their install dirs.
func (s *ThirdPartySource) Mapping() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	s.last = s.resolveLocked()
	s.reported = true
	return maps.Clone(s.last)
}

// Has reports whether id has a third party manifest, installed or not.
func (s *ThirdPartySource) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked()
	_, ok := s.manifests[id]
	return ok
}
