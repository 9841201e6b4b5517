package screens

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/yomu/pkg/store"
)

// StateMsg carries a published store snapshot into the program.
type StateMsg store.AppState

// StateFeed bridges store subscriptions to the event loop. Only the latest
// unread snapshot is kept, so a slow loop skips intermediate states.
type StateFeed struct {
	mu          sync.Mutex
	ch          chan store.AppState
	unsubscribe func()
}

func NewStateFeed(s *store.Store) *StateFeed {
	f := &StateFeed{ch: make(chan store.AppState, 1)}
	f.unsubscribe = s.Subscribe(f.push)
	return f
}

func (f *StateFeed) push(st store.AppState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.ch:
	default:
	}
	f.ch <- st
}

// Next blocks until a snapshot is available.
func (f *StateFeed) Next() tea.Msg {
	return StateMsg(<-f.ch)
}

func (f *StateFeed) Close() {
	f.unsubscribe()
}
