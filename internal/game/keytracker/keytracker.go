// Package keytracker turns held-key state into one-shot presses.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker tracks the previous state of a single key.
type KeyStateTracker struct {
	prevPressed bool
}

// IsKeyJustPressed reports whether key went down since the last call.
// Call it once per tick.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	return k.Update(ebiten.IsKeyPressed(key))
}

// Update records the current state and reports a rising edge.
func (k *KeyStateTracker) Update(pressed bool) bool {
	justPressed := pressed && !k.prevPressed
	k.prevPressed = pressed
	return justPressed
}
