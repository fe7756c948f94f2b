package world

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMap     = errors.New("map contains no cells")
	ErrRaggedMap    = errors.New("map rows have different lengths")
	ErrNegativeTile = errors.New("map contains a negative tile code")
	ErrOpenBoundary = errors.New("map boundary is not closed")
)

// SpriteCell is one entry of the static sprite index: a sprite-marked cell and
// the code stored there.
type SpriteCell struct {
	X, Y int
	Tile TileCode
}

// Grid is an immutable tile map. Cells are addressed as (x, y) with +y north.
type Grid struct {
	width, height int
	cells         [][]TileCode // cells[x][y]
	sprites       []SpriteCell
}

// NewGrid builds a grid from column-major data: columns[x][y].
func NewGrid(columns [][]int) (*Grid, error) {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, ErrEmptyMap
	}
	width, height := len(columns), len(columns[0])

	cells := make([][]TileCode, width)
	for x, col := range columns {
		if len(col) != height {
			return nil, fmt.Errorf("%w: column %d has %d cells, want %d", ErrRaggedMap, x, len(col), height)
		}
		cells[x] = make([]TileCode, height)
		for y, v := range col {
			if v < 0 {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrNegativeTile, v, x, y)
			}
			cells[x][y] = TileCode(v)
		}
	}

	g := &Grid{width: width, height: height, cells: cells}
	g.sprites = g.indexSprites()
	return g, nil
}

// FromRows builds a grid from rows as they are written in a map file: the
// first row is the northern edge (highest y), columns run west to east.
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	height, width := len(rows), len(rows[0])
	columns := make([][]int, width)
	for x := range columns {
		columns[x] = make([]int, height)
	}
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedMap, r, len(row), width)
		}
		y := height - 1 - r
		for x, v := range row {
			columns[x][y] = v
		}
	}
	return NewGrid(columns)
}

// MustFromRows is FromRows for fixtures and defaults; it panics on error.
func MustFromRows(rows [][]int) *Grid {
	g, err := FromRows(rows)
	if err != nil {
		panic("world: " + err.Error())
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the code at (x, y). ok is false outside the grid.
func (g *Grid) At(x, y int) (code TileCode, ok bool) {
	if !g.InBounds(x, y) {
		return TileEmpty, false
	}
	return g.cells[x][y], true
}

// Blocks reports whether the player may not enter (x, y). Cells outside the
// grid always block.
func (g *Grid) Blocks(x, y int) bool {
	code, ok := g.At(x, y)
	return !ok || code.BlocksMovement()
}

// Sprites returns the sprite cells found when the grid was built, in x-major
// order. The slice is shared; callers must not modify it.
func (g *Grid) Sprites() []SpriteCell {
	return g.sprites
}

func (g *Grid) indexSprites() []SpriteCell {
	var sprites []SpriteCell
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if c := g.cells[x][y]; c.IsSprite() {
				sprites = append(sprites, SpriteCell{X: x, Y: y, Tile: c})
			}
		}
	}
	return sprites
}

// CheckClosed verifies that every outer-ring cell is a wall or a door.
func (g *Grid) CheckClosed() error {
	var open []string
	check := func(x, y int) {
		c := g.cells[x][y]
		if !c.IsWall() && !c.IsDoor() {
			open = append(open, fmt.Sprintf("(%d,%d)=%s", x, y, c))
		}
	}
	for x := 0; x < g.width; x++ {
		check(x, 0)
		if g.height > 1 {
			check(x, g.height-1)
		}
	}
	for y := 1; y < g.height-1; y++ {
		check(0, y)
		if g.width > 1 {
			check(g.width-1, y)
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("%w: %d open cells, first %s", ErrOpenBoundary, len(open), open[0])
	}
	return nil
}
