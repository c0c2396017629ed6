// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package procwatcher

import (
	"context"
	"testing"
	"time"

	"github.com/ZaparooProject/localgames/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testShort = 5 * time.Millisecond
	testLong  = 10 * time.Millisecond
)

func newLauncherWatcher(t *testing.T) (*Watcher, *mocks.FakeProcess, *mocks.FakeLister) {
	t.Helper()

	launcher := mocks.NewFakeProcess(100, launcherExe)
	l := mocks.NewFakeLister(launcher)
	w := New("EpicGamesLauncher.exe", l)
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})
	return w, launcher, l
}

func TestWaitUntilRunning_AlreadyRunning(t *testing.T) {
	t.Parallel()

	w, launcher, _ := newLauncherWatcher(t)
	launcher.AddChild(mocks.NewFakeProcess(101, `D:\Games\Fortnite\FortniteLauncher.exe`))

	start := time.Now()
	assert.True(t, w.WaitUntilRunning(context.Background(), "fn", 5*time.Second, testShort, testLong))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitUntilRunning_StartsLater(t *testing.T) {
	t.Parallel()

	w, launcher, _ := newLauncherWatcher(t)
	go func() {
		time.Sleep(50 * time.Millisecond)
		launcher.AddChild(mocks.NewFakeProcess(101, `D:\Games\Fortnite\FortniteClient.exe`))
	}()

	assert.True(t, w.WaitUntilRunning(context.Background(), "fn", 5*time.Second, testShort, testLong))
	assert.Equal(t, []int32{101}, w.Processes("fn"))
}

func TestWaitUntilRunning_LauncherStartsLater(t *testing.T) {
	t.Parallel()

	l := mocks.NewFakeLister()
	w := New("EpicGamesLauncher.exe", l)
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})

	go func() {
		time.Sleep(30 * time.Millisecond)
		launcher := mocks.NewFakeProcess(100, launcherExe)
		launcher.AddChild(mocks.NewFakeProcess(101, `D:\Games\Fortnite\FortniteClient.exe`))
		l.Add(launcher)
	}()

	assert.True(t, w.WaitUntilRunning(context.Background(), "fn", 5*time.Second, testShort, testLong))
	assert.True(t, w.IsLauncherRunning())
}

func TestWaitUntilRunning_Timeout(t *testing.T) {
	t.Parallel()

	l := mocks.NewFakeLister(mocks.NewFakeProcess(1, "/usr/bin/bash"))
	w := New("EpicGamesLauncher.exe", l)
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})

	timeout := 80 * time.Millisecond
	start := time.Now()
	assert.False(t, w.WaitUntilRunning(context.Background(), "fn", timeout, testShort, testLong))
	assert.GreaterOrEqual(t, time.Since(start), timeout)
	assert.Greater(t, l.Calls(), 1, "launcher should be searched with full scans")
}

func TestWaitUntilRunning_TimeoutWithLauncher(t *testing.T) {
	t.Parallel()

	w, launcher, l := newLauncherWatcher(t)

	assert.False(t, w.WaitUntilRunning(context.Background(), "fn", 60*time.Millisecond, testShort, testLong))
	assert.Greater(t, launcher.ChildrenCalls(), 1)
	// one scan to find the launcher and the final fallback
	assert.Equal(t, 2, l.Calls())
}

func TestWaitUntilRunning_FinalFullScan(t *testing.T) {
	t.Parallel()

	w, _, l := newLauncherWatcher(t)
	// started outside the launcher, only a full scan can see it
	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Add(mocks.NewFakeProcess(200, `D:\Games\Fortnite\FortniteClient.exe`))
	}()

	assert.True(t, w.WaitUntilRunning(context.Background(), "fn", 60*time.Millisecond, testShort, testLong))
	assert.Equal(t, []int32{200}, w.Processes("fn"))
}

func TestWaitUntilRunning_Cancelled(t *testing.T) {
	t.Parallel()

	w, _, _ := newLauncherWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	assert.False(t, w.WaitUntilRunning(ctx, "fn", 10*time.Second, testShort, testLong))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWaitUntilRunning_UnknownGame(t *testing.T) {
	t.Parallel()

	w, _, _ := newLauncherWatcher(t)
	require.False(t, w.WaitUntilRunning(context.Background(), "missing", 20*time.Millisecond, testShort, testLong))
}

func TestWaitUntilRunning_ZeroLongIntervalUsesDefault(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	l := mocks.NewFakeLister(mocks.NewFakeProcess(1, "/usr/bin/bash"))
	w := New("EpicGamesLauncher.exe", l, WithClock(clock))
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan bool, 1)
	go func() {
		done <- w.WaitUntilRunning(ctx, "fn", time.Minute, 0, 0)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 1, l.Calls(), "launcher search must wait between full scans")

	clock.Advance(DefaultWaitLongInterval)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 2, l.Calls())

	cancel()
	assert.False(t, <-done)
}

func TestWaitUntilRunning_ZeroShortIntervalUsesDefault(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	launcher := mocks.NewFakeProcess(100, launcherExe)
	l := mocks.NewFakeLister(launcher)
	w := New("EpicGamesLauncher.exe", l, WithClock(clock))
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan bool, 1)
	go func() {
		done <- w.WaitUntilRunning(ctx, "fn", time.Minute, 0, 0)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 1, launcher.ChildrenCalls(), "targeted scans must wait between passes")

	clock.Advance(DefaultWaitShortInterval)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 2, launcher.ChildrenCalls())
	assert.Equal(t, 1, l.Calls())

	cancel()
	assert.False(t, <-done)
}
