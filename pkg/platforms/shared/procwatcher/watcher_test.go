// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package procwatcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ZaparooProject/localgames/pkg/platforms/shared/procs"
	"github.com/ZaparooProject/localgames/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const launcherExe = `C:\Program Files (x86)\Epic Games\Launcher\Portal\Binaries\Win64\EpicGamesLauncher.exe`

func TestNew_RegistersLauncher(t *testing.T) {
	t.Parallel()

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister())
	apps := w.Apps()
	require.Len(t, apps, 1)
	assert.Equal(t, App{ID: LauncherID, Dir: "EpicGamesLauncher.exe"}, apps[0])
	assert.False(t, w.IsLauncherRunning())
}

func TestSetWatchedGames(t *testing.T) {
	t.Parallel()

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister())
	w.SetWatchedGames(map[string]string{"b": "/games/B", "a": "/games/A"})

	apps := w.Apps()
	require.Len(t, apps, 3)
	assert.Equal(t, LauncherID, apps[0].ID)
	assert.Equal(t, App{ID: "a", Dir: "/games/A", IsGame: true}, apps[1])
	assert.Equal(t, App{ID: "b", Dir: "/games/B", IsGame: true}, apps[2])

	w.SetWatchedGames(map[string]string{"b": "/games/B"})
	apps = w.Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, "b", apps[1].ID)
}

func TestSetWatchedGames_IgnoresEmptyDirAndReservedID(t *testing.T) {
	t.Parallel()

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister())
	w.SetWatchedGames(map[string]string{"a": "", LauncherID: "/evil"})

	apps := w.Apps()
	require.Len(t, apps, 1)
	assert.Equal(t, "EpicGamesLauncher.exe", apps[0].Dir)
}

func TestSetWatchedGames_DirChangeKeepsProcesses(t *testing.T) {
	t.Parallel()

	game := mocks.NewFakeProcess(10, "/games/A/bin/a.exe")
	w := New("launcher", mocks.NewFakeLister(game))
	w.SetWatchedGames(map[string]string{"a": "/games/A"})
	require.NoError(t, w.SearchAll(context.Background()))
	require.True(t, w.IsTrackedAndRunning("a"))

	w.SetWatchedGames(map[string]string{"a": "/moved/A"})
	assert.Equal(t, "/moved/A", w.Apps()[1].Dir)
	assert.True(t, w.IsTrackedAndRunning("a"))
}

func TestSetWatchedGames_RemovalDropsProcesses(t *testing.T) {
	t.Parallel()

	game := mocks.NewFakeProcess(10, "/games/A/bin/a.exe")
	w := New("launcher", mocks.NewFakeLister(game))
	w.SetWatchedGames(map[string]string{"a": "/games/A"})
	require.NoError(t, w.SearchAll(context.Background()))
	require.Contains(t, w.RunningGames(), "a")

	w.SetWatchedGames(map[string]string{})
	assert.Empty(t, w.RunningGames())
	assert.False(t, w.IsTrackedAndRunning("a"))
	assert.Nil(t, w.Processes("a"))
}

func TestSearchAll_SubstringMatch(t *testing.T) {
	t.Parallel()

	inside := mocks.NewFakeProcess(10, "/games/A/bin/game.exe")
	sibling := mocks.NewFakeProcess(11, "/games/AB/bin/x.exe")
	w := New("launcher", mocks.NewFakeLister(inside, sibling))
	w.SetWatchedGames(map[string]string{"A": "/games/A"})

	require.NoError(t, w.SearchAll(context.Background()))
	assert.ElementsMatch(t, []int32{10, 11}, w.Processes("A"))
}

func TestSearchAll_FirstRegisteredWins(t *testing.T) {
	t.Parallel()

	// "/games/A" is a substring of "/games/AB/..." so the first app in
	// registry order claims the process.
	p := mocks.NewFakeProcess(20, "/games/AB/game.exe")
	w := New("launcher", mocks.NewFakeLister(p))
	w.SetWatchedGames(map[string]string{"a": "/games/A", "ab": "/games/AB"})

	require.NoError(t, w.SearchAll(context.Background()))

	assert.Equal(t, []int32{20}, w.Processes("a"))
	assert.Empty(t, w.Processes("ab"))
	assert.Equal(t, map[string]struct{}{"a": {}}, w.RunningGames())
}

func TestSearchAll_ClaimedProcessStaysPut(t *testing.T) {
	t.Parallel()

	p := mocks.NewFakeProcess(20, "/games/AB/game.exe")
	w := New("launcher", mocks.NewFakeLister(p))
	w.SetWatchedGames(map[string]string{"ab": "/games/AB"})
	require.NoError(t, w.SearchAll(context.Background()))

	// "a" sorts after the existing entry, so it is appended and loses.
	w.SetWatchedGames(map[string]string{"ab": "/games/AB", "a": "/games/A"})
	require.NoError(t, w.SearchAll(context.Background()))

	assert.Equal(t, []int32{20}, w.Processes("ab"))
	assert.Empty(t, w.Processes("a"))
}

func TestSearchAll_EmptyRegistryMatchesNothing(t *testing.T) {
	t.Parallel()

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister(
		mocks.NewFakeProcess(1, "/usr/bin/bash"),
		mocks.NewFakeProcess(2, "/games/A/a.exe"),
	))
	require.NoError(t, w.SearchAll(context.Background()))

	assert.Empty(t, w.RunningGames())
	assert.False(t, w.IsLauncherRunning())
}

func TestSearchAll_MatchesLauncher(t *testing.T) {
	t.Parallel()

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister(mocks.NewFakeProcess(100, launcherExe)))
	require.NoError(t, w.SearchAll(context.Background()))

	assert.True(t, w.IsLauncherRunning())
	require.Len(t, w.LauncherProcesses(), 1)
	assert.Equal(t, int32(100), w.LauncherProcesses()[0].PID())
	assert.Empty(t, w.RunningGames(), "launcher is not a game")
}

func TestSearchAll_SkipsUnreadableProcesses(t *testing.T) {
	t.Parallel()

	denied := mocks.NewFakeProcess(30, "/games/A/a.exe")
	denied.SetExeErr(fmt.Errorf("exe pid 30: %w", procs.ErrAccessDenied))
	broken := mocks.NewFakeProcess(31, "/games/A/b.exe")
	broken.SetExeErr(errors.New("boom"))
	ok := mocks.NewFakeProcess(32, "/games/A/c.exe")

	w := New("launcher", mocks.NewFakeLister(denied, broken, ok))
	w.SetWatchedGames(map[string]string{"a": "/games/A"})
	require.NoError(t, w.SearchAll(context.Background()))

	assert.Equal(t, []int32{32}, w.Processes("a"))
}

func TestSearchAll_ListerError(t *testing.T) {
	t.Parallel()

	l := mocks.NewFakeLister()
	l.SetErr(errors.New("no proc"))
	w := New("launcher", l)

	err := w.SearchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full process scan")
}

func TestSearchAllSlowly(t *testing.T) {
	t.Parallel()

	l := mocks.NewFakeLister(
		mocks.NewFakeProcess(1, "/usr/bin/bash"),
		mocks.NewFakeProcess(2, "/games/A/a.exe"),
		mocks.NewFakeProcess(3, "/games/B/b.exe"),
	)
	w := New("launcher", l)
	w.SetWatchedGames(map[string]string{"a": "/games/A", "b": "/games/B"})

	require.NoError(t, w.SearchAllSlowly(context.Background(), 0))
	assert.Len(t, w.RunningGames(), 2)
	assert.Equal(t, 1, l.Calls())
}

func TestSearchAllSlowly_Cancelled(t *testing.T) {
	t.Parallel()

	w := New("launcher", mocks.NewFakeLister(
		mocks.NewFakeProcess(1, "/games/A/a.exe"),
		mocks.NewFakeProcess(2, "/games/B/b.exe"),
	))
	w.SetWatchedGames(map[string]string{"a": "/games/A", "b": "/games/B"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.SearchAllSlowly(ctx, DefaultSlowScanInterval)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, map[string]struct{}{"a": {}}, w.RunningGames())
}

func TestSearchChildren(t *testing.T) {
	t.Parallel()

	launcher := mocks.NewFakeProcess(100, launcherExe)
	helper := mocks.NewFakeProcess(101, `C:\Epic\Launcher\CrashReporter.exe`)
	game := mocks.NewFakeProcess(102, `D:\Games\Fortnite\FortniteClient.exe`)
	launcher.AddChild(helper)
	helper.AddChild(game)

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister(launcher))
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})
	require.NoError(t, w.SearchAll(context.Background()))
	require.Empty(t, w.RunningGames(), "game is not in the fake process table")

	assert.False(t, w.SearchChildren(w.LauncherProcesses(), false))
	assert.True(t, w.SearchChildren(w.LauncherProcesses(), true))
	assert.Equal(t, map[string]struct{}{"fn": {}}, w.RunningGames())
}

func TestSearchChildren_SkipsFailingAnchor(t *testing.T) {
	t.Parallel()

	bad := mocks.NewFakeProcess(1, launcherExe)
	bad.SetChildrenErr(fmt.Errorf("children pid 1: %w", procs.ErrVanished))
	good := mocks.NewFakeProcess(2, launcherExe)
	good.AddChild(mocks.NewFakeProcess(3, "/games/A/a.exe"))

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister())
	w.SetWatchedGames(map[string]string{"a": "/games/A"})

	assert.True(t, w.SearchChildren([]procs.Process{bad, good}, true))
	assert.True(t, w.IsTrackedAndRunning("a"))
}

func TestPruneDead(t *testing.T) {
	t.Parallel()

	alive := mocks.NewFakeProcess(1, "/games/A/a.exe")
	dead := mocks.NewFakeProcess(2, "/games/A/helper.exe")
	zombie := mocks.NewFakeProcess(3, "/games/B/b.exe")
	w := New("launcher", mocks.NewFakeLister(alive, dead, zombie))
	w.SetWatchedGames(map[string]string{"a": "/games/A", "b": "/games/B"})
	require.NoError(t, w.SearchAll(context.Background()))
	require.Len(t, w.RunningGames(), 2)

	dead.Kill()
	zombie.SetZombie()
	w.PruneDead()

	assert.Equal(t, []int32{1}, w.Processes("a"))
	assert.Empty(t, w.Processes("b"))
	assert.Equal(t, map[string]struct{}{"a": {}}, w.RunningGames())
}

func TestPruneDead_KeepsProcessWithUnknownStatus(t *testing.T) {
	t.Parallel()

	// Windows has no process status, gopsutil reports "not implemented"
	game := mocks.NewFakeProcess(10, `D:\Games\Fortnite\FortniteClient.exe`)
	game.SetStatusErr(fmt.Errorf("status pid 10: %w", errors.New("not implemented yet")))
	launcher := mocks.NewFakeProcess(100, launcherExe)
	launcher.SetStatusErr(fmt.Errorf("status pid 100: %w", errors.New("not implemented yet")))

	w := New("EpicGamesLauncher.exe", mocks.NewFakeLister(launcher, game))
	w.SetWatchedGames(map[string]string{"fn": `D:\Games\Fortnite`})
	require.NoError(t, w.SearchAll(context.Background()))

	w.PruneDead()
	assert.Equal(t, map[string]struct{}{"fn": {}}, w.RunningGames())
	assert.True(t, w.IsLauncherRunning())
	assert.Equal(t, []int32{10}, w.Processes("fn"))

	game.Kill()
	assert.Empty(t, w.RunningGames())
}

func TestPruneDead_DropsProcessWithGoneStatus(t *testing.T) {
	t.Parallel()

	p := mocks.NewFakeProcess(10, "/games/A/a.exe")
	w := New("launcher", mocks.NewFakeLister(p))
	w.SetWatchedGames(map[string]string{"a": "/games/A"})
	require.NoError(t, w.SearchAll(context.Background()))

	p.SetStatusErr(fmt.Errorf("status pid 10: %w", procs.ErrAccessDenied))
	assert.Empty(t, w.RunningGames())
}

func TestIsTrackedAndRunning_DoesNotScan(t *testing.T) {
	t.Parallel()

	l := mocks.NewFakeLister(mocks.NewFakeProcess(1, "/games/A/a.exe"))
	w := New("launcher", l)
	w.SetWatchedGames(map[string]string{"a": "/games/A"})

	assert.False(t, w.IsTrackedAndRunning("a"))
	assert.False(t, w.IsTrackedAndRunning("unknown"))
	assert.Equal(t, 0, l.Calls())
}
