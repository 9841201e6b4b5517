package store

import "context"

// Fullscreen is the host capability behind ToggleFullscreen. Both calls may
// fail; failures never change the reader state.
type Fullscreen interface {
	Enter(ctx context.Context) error
	Exit(ctx context.Context) error
	Active() bool
}
