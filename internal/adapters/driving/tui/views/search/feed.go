package search

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paterkleomenis/archstore/internal/adapters/driving/tui/messages"
	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// feed carries snapshots from the coordinator's goroutines into the
// Bubbletea loop. Only the newest snapshot is kept: each one holds the
// full ranked list, so a skipped intermediate loses nothing.
type feed struct {
	mu     sync.Mutex
	latest domain.Snapshot
	ready  chan struct{}
}

func newFeed() *feed {
	return &feed{ready: make(chan struct{}, 1)}
}

// push never blocks; it is called under the session lock.
func (f *feed) push(snap domain.Snapshot) {
	f.mu.Lock()
	f.latest = snap
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// wait returns a command that blocks until a snapshot is pushed or ctx
// ends. The view re-issues it after every SnapshotReceived.
func (f *feed) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-f.ready:
		}

		f.mu.Lock()
		snap := f.latest
		f.mu.Unlock()
		return messages.SnapshotReceived{Snapshot: snap}
	}
}
