// internal/ui/indicator.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/camerensmith/supermaultd/internal/component"
)

// StateIndicator is a clickable circle coloured by the wave state. Clicking
// it starts the first wave.
type StateIndicator struct {
	X, Y          float32
	Radius        float32
	LastClickTime time.Time
}

func NewStateIndicator(x, y, radius float32) *StateIndicator {
	return &StateIndicator{X: x, Y: y, Radius: radius}
}

// StateColor maps a wave state to the indicator colour.
func StateColor(s component.WaveState) color.RGBA {
	switch s {
	case component.WaveIdle:
		return color.RGBA{90, 200, 90, 255}
	case component.WaveWaiting:
		return color.RGBA{230, 200, 60, 255}
	case component.WaveSpawning:
		return color.RGBA{220, 60, 60, 255}
	case component.WaveIntermission:
		return color.RGBA{230, 130, 40, 255}
	default:
		return color.RGBA{120, 120, 120, 255}
	}
}

// Draw renders the indicator with a short pulse after a click.
func (i *StateIndicator) Draw(screen *ebiten.Image, state component.WaveState) {
	elapsed := time.Since(i.LastClickTime).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	r := i.Radius * float32(scale)
	vector.DrawFilledCircle(screen, i.X, i.Y, r, StateColor(state), true)
	vector.StrokeCircle(screen, i.X, i.Y, r, 1, color.White, true)
}

// IsClicked reports whether (x, y) lies inside the indicator.
func (i *StateIndicator) IsClicked(x, y int) bool {
	dx := float32(x) - i.X
	dy := float32(y) - i.Y
	return dx*dx+dy*dy <= i.Radius*i.Radius
}

func (i *StateIndicator) HandleClick() {
	i.LastClickTime = time.Now()
}
