package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"rayder/internal/camera"
)

const (
	overlayFontSize = 24
	overlayLeft     = 10
	overlayTop      = 5
	overlayLineGap  = 35
)

var overlayColor = color.RGBA{R: 255, G: 255, A: 255}

// Overlay draws debug text in the top-left corner.
type Overlay struct {
	face *text.GoTextFace
}

func NewOverlay() (*Overlay, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load overlay font: %w", err)
	}
	return &Overlay{face: &text.GoTextFace{Source: src, Size: overlayFontSize}}, nil
}

// Draw writes one line per entry, top to bottom.
func (o *Overlay) Draw(screen *ebiten.Image, lines []string) {
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(overlayLeft, float64(overlayTop+i*overlayLineGap))
		op.ColorScale.ScaleWithColor(overlayColor)
		text.Draw(screen, line, o.face, op)
	}
}

func overlayText(fps float64, pose camera.Pose) []string {
	return []string{
		fmt.Sprintf("fps: %.0f", fps),
		fmt.Sprintf("x: %.2f", pose.Position.X),
		fmt.Sprintf("y: %.2f", pose.Position.Y),
		fmt.Sprintf("rotation: %.0f", pose.RotationDegrees()),
	}
}
