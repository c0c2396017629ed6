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
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Notifier signals when the launcher's install data on disk is touched.
// Events are coalesced, a receiver only learns that something changed.
type Notifier struct {
	watcher  *fsnotify.Watcher
	changes  chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewNotifier watches the given directories. Directories that do not
// exist are skipped; a notifier with nothing to watch is still valid and
// simply never fires.
func NewNotifier(dirs ...string) (*Notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	n := &Notifier{
		watcher: w,
		changes: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("not watching install data dir")
			continue
		}
		log.Debug().Str("dir", dir).Msg("watching install data dir")
	}

	n.wg.Add(1)
	go n.run()
	return n, nil
}

// Changes receives after one or more file system events.
func (n *Notifier) Changes() <-chan struct{} {
	return n.changes
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.stop:
			return
		case event, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			log.Trace().Str("path", event.Name).Str("op", event.Op.String()).Msg("install data changed")
			select {
			case n.changes <- struct{}{}:
			default:
			}
		case err, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("fsnotify error")
		}
	}
}

// Close stops watching. Safe to call more than once.
func (n *Notifier) Close() error {
	var err error
	n.stopOnce.Do(func() {
		close(n.stop)
		err = n.watcher.Close()
		n.wg.Wait()
	})
	if err != nil {
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}
	return nil
}
