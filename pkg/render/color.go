// pkg/render/color.go
package render

import (
	"hash/fnv"
	"image/color"
)

// Palette holds every colour the debug renderer uses.
type Palette struct {
	BackgroundColor color.RGBA
	EmptyColor      color.RGBA
	ObstacleColor   color.RGBA
	RestrictedColor color.RGBA
	SpawnColor      color.RGBA
	ObjectiveColor  color.RGBA
	GridLineColor   color.RGBA
	EnemyColor      color.RGBA
	AirEnemyColor   color.RGBA
	BossColor       color.RGBA
	HealthColor     color.RGBA
	ProjectileColor color.RGBA
	EffectColor     color.RGBA
	TextColor       color.RGBA
	StrokeWidth     float32
}

func DefaultPalette() Palette {
	return Palette{
		BackgroundColor: color.RGBA{20, 22, 28, 255},
		EmptyColor:      color.RGBA{46, 64, 46, 255},
		ObstacleColor:   color.RGBA{70, 70, 70, 255},
		RestrictedColor: color.RGBA{30, 30, 34, 255},
		SpawnColor:      color.RGBA{60, 120, 200, 255},
		ObjectiveColor:  color.RGBA{200, 60, 60, 255},
		GridLineColor:   color.RGBA{36, 50, 36, 255},
		EnemyColor:      color.RGBA{210, 180, 120, 255},
		AirEnemyColor:   color.RGBA{160, 200, 240, 255},
		BossColor:       color.RGBA{230, 40, 200, 255},
		HealthColor:     color.RGBA{60, 220, 60, 255},
		ProjectileColor: color.RGBA{255, 240, 120, 255},
		EffectColor:     color.RGBA{140, 220, 255, 200},
		TextColor:       color.RGBA{235, 235, 235, 255},
		StrokeWidth:     1,
	}
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// TowerColor derives a stable colour from a tower id.
func TowerColor(id string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	v := h.Sum32()
	return color.RGBA{R: 80 + uint8(v%150), G: 80 + uint8((v>>8)%150), B: 80 + uint8((v>>16)%150), A: 255}
}
