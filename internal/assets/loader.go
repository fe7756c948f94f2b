// Package assets loads wall, sprite and sky textures from disk and builds
// solid-colour placeholders when no image files are configured.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"

	"rayder/internal/config"
	"rayder/internal/render"
	"rayder/internal/threading/core"
)

// PlaceholderSize is the edge length of generated textures.
const PlaceholderSize = 64

var textureExtensions = map[string]bool{
	".png": true,
	".bmp": true,
}

// LoadImage decodes a single image file.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return img, nil
}

// LoadTextures decodes every .png and .bmp file in dir in file name order.
// Texture index i is the i-th file, so names like 01_brick.png fix the
// mapping from tile codes.
func LoadTextures(dir string, log logrus.FieldLogger) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read texture folder: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !textureExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	type decoded struct {
		img image.Image
		err error
	}
	results := core.ParallelMap(paths, func(path string) decoded {
		img, err := LoadImage(path)
		return decoded{img: img, err: err}
	})

	textures := make([]image.Image, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		log.WithFields(logrus.Fields{
			"index": i,
			"file":  filepath.Base(paths[i]),
			"size":  r.img.Bounds().Size().String(),
		}).Debug("texture loaded")
		textures = append(textures, r.img)
	}
	return textures, nil
}

// Placeholders builds one size x size texture per palette entry: the colour
// with a darker one-pixel border so cell edges stay readable.
func Placeholders(palette []color.RGBA, size int) []image.Image {
	if size <= 0 {
		size = PlaceholderSize
	}
	out := make([]image.Image, len(palette))
	for i, c := range palette {
		out[i] = placeholder(c, size)
	}
	return out
}

func placeholder(c color.RGBA, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	edge := color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				img.SetRGBA(x, y, edge)
			} else {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// Provider is the texture set for one run.
type Provider struct {
	Walls   []image.Image
	Sprites []image.Image
	Sky     image.Image
}

// NewProvider loads the configured texture folders. A folder that is not set
// or does not exist is replaced by palette placeholders; a missing sky leaves
// Sky nil so the renderer keeps the ceiling colour. Files that exist but do
// not decode are an error.
func NewProvider(cfg *config.Config, log logrus.FieldLogger) (*Provider, error) {
	walls, err := loadOrPlaceholders(cfg.Assets.WallTextures, cfg.GetWallPalette(), "wall", log)
	if err != nil {
		return nil, err
	}
	sprites, err := loadOrPlaceholders(cfg.Assets.SpriteTextures, cfg.GetSpritePalette(), "sprite", log)
	if err != nil {
		return nil, err
	}

	p := &Provider{Walls: walls, Sprites: sprites}
	if path := cfg.Assets.SkyTexture; path != "" {
		sky, err := LoadImage(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.WithField("path", path).Warn("sky texture not found, using ceiling colour")
		case err != nil:
			return nil, err
		default:
			p.Sky = sky
		}
	}
	return p, nil
}

func loadOrPlaceholders(dir string, palette []color.RGBA, kind string, log logrus.FieldLogger) ([]image.Image, error) {
	entry := log.WithField("kind", kind)
	if dir == "" {
		entry.WithField("count", len(palette)).Debug("no texture folder configured, using placeholders")
		return Placeholders(palette, PlaceholderSize), nil
	}

	textures, err := LoadTextures(dir, entry)
	if errors.Is(err, fs.ErrNotExist) {
		entry.WithField("dir", dir).Warn("texture folder not found, using placeholders")
		return Placeholders(palette, PlaceholderSize), nil
	}
	if err != nil {
		return nil, err
	}
	if len(textures) == 0 {
		entry.WithField("dir", dir).Warn("texture folder is empty, using placeholders")
		return Placeholders(palette, PlaceholderSize), nil
	}
	entry.WithFields(logrus.Fields{"dir": dir, "count": len(textures)}).Info("textures loaded")
	return textures, nil
}

// Textures returns the set in the form the renderer consumes.
func (p *Provider) Textures() render.Textures {
	return render.Textures{
		Walls:   p.Walls,
		Sprites: p.Sprites,
		Sky:     p.Sky,
	}
}
