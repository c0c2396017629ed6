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


// Package telemetry reports tracker failures to Sentry when the user opts
// in. Error-level log lines become events, tagged with the launcher being
// tracked and the install data root. User names are stripped from every
// path before an event leaves the machine.
package telemetry

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/ZaparooProject/localgames/pkg/config"
	"github.com/ZaparooProject/localgames/pkg/helpers"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const flushTimeout = 2 * time.Second

// ErrNoDSN is returned by Init when reporting is enabled without a DSN.
var ErrNoDSN = errors.New("error reporting enabled but no dsn configured")

// Options identify the install an event came from.
type Options struct {
	DSN        string
	DeviceID   string
	PlatformID string
	// Launcher is the process identity the tracker matches.
	Launcher string
	Enabled  bool
}

var (
	mu           sync.Mutex
	enabled      bool
	sentryWriter *sentryzerolog.Writer

	homePathRe    = regexp.MustCompile(`(?i)/home/[^/]+/`)
	usersPathRe   = regexp.MustCompile(`(?i)/Users/[^/]+/`)
	windowsUserRe = regexp.MustCompile(`(?i)[a-zA-Z]:\\Users\\[^\\]+\\`)
	// Wine prefixes carry their own user profile dirs
	wineUserRe = regexp.MustCompile(`(?i)drive_c/users/[^/]+/`)
)

// Init starts Sentry and tees the global logger into it, so error-level
// lines such as recovered cycle panics are reported. It is a no-op unless
// opts.Enabled is set.
func Init(opts Options) error {
	if !opts.Enabled {
		log.Debug().Msg("error reporting disabled")
		return nil
	}
	if opts.DSN == "" {
		return ErrNoDSN
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Release:          config.AppName + "@" + config.AppVersion,
		Environment:      opts.PlatformID,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: opts.DeviceID})
		scope.SetTag("platform", opts.PlatformID)
		scope.SetTag("launcher", opts.Launcher)
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	w, err := sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:       []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout: flushTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		w,
	)).With().Timestamp().Caller().Logger()

	mu.Lock()
	sentryWriter = w
	enabled = true
	mu.Unlock()

	log.Info().Str("launcher", opts.Launcher).Msg("error reporting enabled")
	return nil
}

// SetTracking attaches the current tracking setup to future events.
func SetTracking(programData string, games int) {
	if !Enabled() {
		return
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetContext("tracking", trackingContext(programData, games))
	})
}

func trackingContext(programData string, games int) sentry.Context {
	return sentry.Context{
		"program_data": sanitizePath(programData),
		"games":        games,
	}
}

// Close flushes pending events and shuts down reporting. Safe to call
// more than once.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	_ = sentryWriter.Close()
	sentry.Flush(flushTimeout)
	enabled = false
}

// Flush sends pending events. Call this before os.Exit.
func Flush() {
	if !Enabled() {
		return
	}
	sentry.Flush(flushTimeout)
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func sanitizeEvent(event *sentry.Event) *sentry.Event {
	// the SDK may fill this in regardless of the option
	event.ServerName = ""
	event.Message = sanitizePath(event.Message)

	for i := range event.Exception {
		ex := &event.Exception[i]
		ex.Value = sanitizePath(ex.Value)
		if ex.Stacktrace == nil {
			continue
		}
		for j := range ex.Stacktrace.Frames {
			frame := &ex.Stacktrace.Frames[j]
			frame.AbsPath = sanitizePath(frame.AbsPath)
			frame.Filename = sanitizePath(frame.Filename)
		}
	}

	// log fields such as install dirs and exe paths end up here
	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}
	return event
}

// sanitizePath removes user names from file paths.
func sanitizePath(path string) string {
	if path == "" {
		return path
	}
	result := homePathRe.ReplaceAllString(path, "/home/<user>/")
	result = usersPathRe.ReplaceAllString(result, "/Users/<user>/")
	result = windowsUserRe.ReplaceAllString(result, "C:\\Users\\<user>\\")
	return wineUserRe.ReplaceAllString(result, "drive_c/users/<user>/")
}
