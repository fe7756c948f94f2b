package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"rayder/internal/mathutil"
)

// skyWindow returns the part of a panoramic sky texture that is visible at
// the given rotation. The window is texW*(fov/2Pi)*(Pi/fov) wide, which is
// half the texture whatever the FOV, and starts (rotationDegrees/360) of a
// window in, so a full turn pans across one and a half windows.
func skyWindow(texW, texH int, fov, rotationDegrees float64) image.Rectangle {
	window := float64(texW) * (fov / (2 * math.Pi)) * (math.Pi / fov)
	if math.IsNaN(window) {
		window = float64(texW) / 2
	}
	width := mathutil.IntClamp(int(math.Round(window)), 1, texW)

	offset := int(math.Round((rotationDegrees / 360) * window))
	start := ((offset % texW) + texW) % texW
	if start+width > texW {
		start = texW - width
	}
	return image.Rect(start, 0, start+width, texH)
}

// drawSky stretches the visible sky window over the top half of dst.
func drawSky(dst *image.RGBA, sky *image.RGBA, fov, rotationDegrees float64) {
	b := dst.Bounds()
	halfH := b.Dy() / 2
	if sky == nil || halfH == 0 {
		return
	}

	sb := sky.Bounds()
	sr := skyWindow(sb.Dx(), sb.Dy(), fov, rotationDegrees).Add(sb.Min)
	dr := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+halfH)
	draw.NearestNeighbor.Scale(dst, dr, sky, sr, draw.Src, nil)
}
