package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"rayder/internal/camera"
)

type keyBinding struct {
	keys []ebiten.Key
	cmd  camera.Command
}

var keyBindings = []keyBinding{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, camera.MoveForward},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, camera.MoveBackward},
	{[]ebiten.Key{ebiten.KeyA}, camera.StrafeLeft},
	{[]ebiten.Key{ebiten.KeyD}, camera.StrafeRight},
	{[]ebiten.Key{ebiten.KeyArrowLeft}, camera.RotateLeft},
	{[]ebiten.Key{ebiten.KeyArrowRight}, camera.RotateRight},
	{[]ebiten.Key{ebiten.KeyEscape}, camera.Quit},
}

// PollCommands reads the keyboard and the window close button. Window close
// is only reported when ebiten.SetWindowClosingHandled(true) is set.
func PollCommands() camera.Command {
	cmds := commandsFrom(ebiten.IsKeyPressed)
	if ebiten.IsWindowBeingClosed() {
		cmds |= camera.Quit
	}
	return cmds
}

func commandsFrom(pressed func(ebiten.Key) bool) camera.Command {
	var cmds camera.Command
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if pressed(k) {
				cmds |= b.cmd
				break
			}
		}
	}
	return cmds
}
