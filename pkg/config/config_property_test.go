// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestPropertyParseDurationRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.Int64Range(0, 24*60*60*1000).Draw(t, "ms")
		d := time.Duration(ms) * time.Millisecond

		got := parseDuration("test", d.String(), time.Hour)
		if got != d {
			t.Fatalf("parseDuration(%q) = %v, want %v", d.String(), got, d)
		}
	})
}

func TestPropertyParseDurationInvalidFallsBack(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "s")
		def := time.Duration(rapid.Int64Range(1, 1000).Draw(t, "def")) * time.Second

		if got := parseDuration("test", s, def); got != def {
			t.Fatalf("parseDuration(%q) = %v, want default %v", s, got, def)
		}
	})
}

func TestPropertyParseDurationNegativeFallsBack(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.Int64Range(1, 1_000_000).Draw(t, "ms")
		s := (-time.Duration(ms) * time.Millisecond).String()

		if got := parseDuration("test", s, time.Minute); got != time.Minute {
			t.Fatalf("parseDuration(%q) = %v, want default", s, got)
		}
	})
}
