package app

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kerbaras/yomu/pkg/store"
)

func TestAltScreenWithoutProgram(t *testing.T) {
	host := NewAltScreen()
	assert.ErrorIs(t, host.Enter(context.Background()), ErrNoProgram)
	assert.ErrorIs(t, host.Exit(context.Background()), ErrNoProgram)
	assert.False(t, host.Active())
}

func TestAltScreenFallsBackToFlag(t *testing.T) {
	host := NewAltScreen()
	s := store.New(store.WithFullscreen(host), store.WithLogger(log.New(io.Discard, "", 0)))

	s.ToggleFullscreen()
	s.Wait()
	assert.True(t, s.State().IsFullscreen)
	assert.False(t, host.Active())

	s.ToggleFullscreen()
	s.Wait()
	assert.False(t, s.State().IsFullscreen)
}
