package app

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

var ErrNoProgram = errors.New("no terminal program attached")

// AltScreen is the terminal's fullscreen capability: entering switches the
// running program to the alternate screen buffer.
type AltScreen struct {
	mu      sync.Mutex
	program *tea.Program
	active  bool
}

func NewAltScreen() *AltScreen {
	return &AltScreen{}
}

func (a *AltScreen) Attach(p *tea.Program) {
	a.mu.Lock()
	a.program = p
	a.mu.Unlock()
}

// Detach forgets the program; later requests fail with ErrNoProgram.
func (a *AltScreen) Detach() {
	a.mu.Lock()
	a.program = nil
	a.active = false
	a.mu.Unlock()
}

func (a *AltScreen) Enter(ctx context.Context) error {
	if err := a.send(ctx, tea.EnterAltScreen()); err != nil {
		return err
	}
	a.mu.Lock()
	a.active = true
	a.mu.Unlock()
	return nil
}

func (a *AltScreen) Exit(ctx context.Context) error {
	if err := a.send(ctx, tea.ExitAltScreen()); err != nil {
		return err
	}
	a.mu.Lock()
	a.active = false
	a.mu.Unlock()
	return nil
}

func (a *AltScreen) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// send hands msg to the program's event loop, giving up when ctx ends.
func (a *AltScreen) send(ctx context.Context, msg tea.Msg) error {
	a.mu.Lock()
	p := a.program
	a.mu.Unlock()
	if p == nil {
		return ErrNoProgram
	}

	done := make(chan struct{})
	go func() {
		p.Send(msg)
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
