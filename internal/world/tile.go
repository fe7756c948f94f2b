package world

import "fmt"

// TileCode is the integer stored in every grid cell.
//
//	0       empty, walkable
//	1..8    solid wall, wall texture index = code-1
//	9       door, drawn by the door pass only, sits mid-cell
//	11..19  sprite occupant, sprite texture index = code-11
type TileCode int

const (
	TileEmpty TileCode = 0

	TileWallMin TileCode = 1
	TileWallMax TileCode = 8

	TileDoor TileCode = 9

	TileSpriteMin TileCode = 11
	TileSpriteMax TileCode = 19
)

func (c TileCode) IsEmpty() bool {
	return c == TileEmpty
}

// IsWall reports whether c is a solid wall (codes 1..8).
func (c TileCode) IsWall() bool {
	return c >= TileWallMin && c <= TileWallMax
}

func (c TileCode) IsDoor() bool {
	return c == TileDoor
}

// IsSprite reports whether c marks a cell occupied by a sprite.
// Sprite cells are not walls: rays pass straight through them.
func (c TileCode) IsSprite() bool {
	return c >= TileSpriteMin && c <= TileSpriteMax
}

// BlocksMovement reports whether the player may not enter a cell with this code.
func (c TileCode) BlocksMovement() bool {
	return c != TileEmpty
}

// WallTextureIndex returns code-1. Callers clamp negative results.
func (c TileCode) WallTextureIndex() int {
	return int(c) - 1
}

// SpriteTextureIndex returns code-11.
func (c TileCode) SpriteTextureIndex() int {
	return int(c) - int(TileSpriteMin)
}

func (c TileCode) String() string {
	switch {
	case c.IsEmpty():
		return "empty"
	case c.IsWall():
		return fmt.Sprintf("wall(%d)", int(c))
	case c.IsDoor():
		return "door"
	case c.IsSprite():
		return fmt.Sprintf("sprite(%d)", int(c))
	default:
		return fmt.Sprintf("tile(%d)", int(c))
	}
}
