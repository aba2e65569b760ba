// internal/ui/wave_indicator.go
package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WaveIndicator shows the current wave number in roman numerals.
type WaveIndicator struct {
	X, Y             float64
	Color            color.RGBA
	BossColor        color.RGBA
	OutlineColor     color.RGBA
	OutlineThickness int
}

func NewWaveIndicator(x, y float64) *WaveIndicator {
	return &WaveIndicator{
		X:                x,
		Y:                y,
		Color:            color.RGBA{70, 130, 230, 255},
		BossColor:        color.RGBA{220, 40, 40, 255},
		OutlineColor:     color.RGBA{255, 255, 255, 255},
		OutlineThickness: 1,
	}
}

// ToRoman converts a positive integer to roman numerals.
func ToRoman(num int) string {
	if num <= 0 {
		return ""
	}
	val := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syb := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var roman strings.Builder
	for i := 0; i < len(val); i++ {
		for num >= val[i] {
			roman.WriteString(syb[i])
			num -= val[i]
		}
	}
	return roman.String()
}

// Draw renders the wave number centred on X. Every tenth wave is a boss wave.
func (i *WaveIndicator) Draw(screen *ebiten.Image, waveNumber int, face text.Face) {
	if waveNumber <= 0 {
		return
	}
	label := ToRoman(waveNumber)
	textColor := i.Color
	if waveNumber%10 == 0 {
		textColor = i.BossColor
	}

	w, _ := text.Measure(label, face, 0)
	x := i.X - w/2
	for dy := -i.OutlineThickness; dy <= i.OutlineThickness; dy++ {
		for dx := -i.OutlineThickness; dx <= i.OutlineThickness; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawText(screen, label, face, x+float64(dx), i.Y+float64(dy), i.OutlineColor)
		}
	}
	drawText(screen, label, face, x, i.Y, textColor)
}

func drawText(screen *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}
