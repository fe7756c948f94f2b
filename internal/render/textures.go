package render

import (
	"image"

	"golang.org/x/image/draw"

	"rayder/internal/world"
)

// Textures is the image set a FrameRenderer draws from. Walls are indexed by
// tile code-1, sprites by code-11. Sky may be nil.
type Textures struct {
	Walls   []image.Image
	Sprites []image.Image
	Sky     image.Image
}

// textureSet holds Textures converted to RGBA so the scalers take their fast
// paths.
type textureSet struct {
	walls   []*image.RGBA
	sprites []*image.RGBA
	sky     *image.RGBA
}

func newTextureSet(t Textures) textureSet {
	return textureSet{
		walls:   toRGBAAll(t.Walls),
		sprites: toRGBAAll(t.Sprites),
		sky:     toRGBA(t.Sky),
	}
}

func toRGBAAll(imgs []image.Image) []*image.RGBA {
	out := make([]*image.RGBA, 0, len(imgs))
	for _, img := range imgs {
		if rgba := toRGBA(img); rgba != nil {
			out = append(out, rgba)
		}
	}
	return out
}

func toRGBA(img image.Image) *image.RGBA {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// pick returns imgs[i], falling back to imgs[0] when i is out of range.
func pick(imgs []*image.RGBA, i int) (*image.RGBA, int) {
	if len(imgs) == 0 {
		return nil, -1
	}
	if i < 0 || i >= len(imgs) {
		i = 0
	}
	return imgs[i], i
}

// wall returns the texture for a wall or door code: max(0, code-1), and
// index 0 when that is beyond the set.
func (t textureSet) wall(code world.TileCode) (*image.RGBA, int) {
	return pick(t.walls, max(0, code.WallTextureIndex()))
}

func (t textureSet) sprite(code world.TileCode) (*image.RGBA, int) {
	return pick(t.sprites, code.SpriteTextureIndex())
}
