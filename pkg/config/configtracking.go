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

package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultPollInterval     = time.Second
	DefaultFullScanEvery    = 7
	DefaultSlowScanInterval = 10 * time.Millisecond
	DefaultWaitTimeout      = 30 * time.Second
	DefaultWaitShort        = 500 * time.Millisecond
	DefaultWaitLong         = 2 * time.Second
)

// Tracking configures install and process tracking.
type Tracking struct {
	WatchFiles         *bool        `toml:"watch_files,omitempty"`
	FullScanEvery      *int         `toml:"full_scan_every,omitempty"`
	PollInterval       string       `toml:"poll_interval,omitempty"`
	SlowScanInterval   string       `toml:"slow_scan_interval,omitempty"`
	LauncherIdentifier string       `toml:"launcher_identifier,omitempty"`
	ProgramData        string       `toml:"program_data,omitempty"`
	Wait               TrackingWait `toml:"wait,omitempty"`
}

// TrackingWait configures how long to wait for a launched game to appear.
type TrackingWait struct {
	Timeout       string `toml:"timeout,omitempty"`
	ShortInterval string `toml:"short_interval,omitempty"`
	LongInterval  string `toml:"long_interval,omitempty"`
}

// parseDuration returns def when s is empty, malformed or negative.
func parseDuration(name, s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		log.Warn().Str("key", name).Str("value", s).Msg("invalid duration in config, using default")
		return def
	}
	return d
}

// parseInterval is parseDuration for polling intervals, where zero would
// turn the poll into a busy loop.
func parseInterval(name, s string, def time.Duration) time.Duration {
	d := parseDuration(name, s, def)
	if d <= 0 {
		log.Warn().Str("key", name).Str("value", s).Msg("interval must be positive, using default")
		return def
	}
	return d
}

// PollInterval returns the delay between tracking cycles. Defaults to 1s.
func (c *Instance) PollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseInterval("tracking.poll_interval", c.vals.Tracking.PollInterval, DefaultPollInterval)
}

// FullScanEvery returns how many cycles pass between full process scans.
func (c *Instance) FullScanEvery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Tracking.FullScanEvery == nil || *c.vals.Tracking.FullScanEvery < 1 {
		return DefaultFullScanEvery
	}
	return *c.vals.Tracking.FullScanEvery
}

func (c *Instance) SetFullScanEvery(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tracking.FullScanEvery = &n
}

// SlowScanInterval returns the pause between processes during the initial
// scan. "0" disables the pause.
func (c *Instance) SlowScanInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration("tracking.slow_scan_interval", c.vals.Tracking.SlowScanInterval, DefaultSlowScanInterval)
}

// LauncherIdentifier returns the configured launcher process identity, or
// def if unset.
func (c *Instance) LauncherIdentifier(def string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Tracking.LauncherIdentifier == "" {
		return def
	}
	return c.vals.Tracking.LauncherIdentifier
}

// ProgramData returns the configured launcher data root, or def if unset.
func (c *Instance) ProgramData(def string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Tracking.ProgramData == "" {
		return def
	}
	return c.vals.Tracking.ProgramData
}

// WatchFiles returns whether install data is watched for changes between
// polls. Enabled by default.
func (c *Instance) WatchFiles() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Tracking.WatchFiles == nil {
		return true
	}
	return *c.vals.Tracking.WatchFiles
}

func (c *Instance) SetWatchFiles(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tracking.WatchFiles = &enabled
}

// WaitTimings returns the timeout and poll intervals used when waiting
// for a launched game to start.
func (c *Instance) WaitTimings() (timeout, short, long time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w := c.vals.Tracking.Wait
	timeout = parseDuration("tracking.wait.timeout", w.Timeout, DefaultWaitTimeout)
	short = parseInterval("tracking.wait.short_interval", w.ShortInterval, DefaultWaitShort)
	long = parseInterval("tracking.wait.long_interval", w.LongInterval, DefaultWaitLong)
	return timeout, short, long
}
