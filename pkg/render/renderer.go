// pkg/render/renderer.go
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/camerensmith/supermaultd/internal/app"
	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// Renderer draws the world with flat primitives. The board is pre-rendered
// into mapImage and rebuilt only when the grid changes.
type Renderer struct {
	Palette Palette
	Effects *EffectTracker

	face     text.Face
	mapImage *ebiten.Image
	mapKey   uint64
}

func NewRenderer(face text.Face, effects *EffectTracker) *Renderer {
	return &Renderer{
		Palette: DefaultPalette(),
		Effects: effects,
		face:    face,
	}
}

// Draw renders the board and every entity of g.
func (r *Renderer) Draw(screen *ebiten.Image, g *app.Game, hud app.HUD) {
	screen.Fill(r.Palette.BackgroundColor)
	r.drawBoard(screen, g)

	ecs := g.ECS
	ecs.Zones.Each(func(_ types.EntityID, z *component.GroundZone) bool {
		vector.DrawFilledCircle(screen, float32(z.X), float32(z.Y), float32(z.Radius), color.RGBA{120, 60, 160, 90}, true)
		return true
	})
	ecs.Towers.Each(func(_ types.EntityID, t *component.Tower) bool {
		r.drawTower(screen, g.Grid.CellSize, t)
		return true
	})
	ecs.Towers.Each(func(_ types.EntityID, t *component.Tower) bool {
		for _, n := range t.LinkedNeighbors {
			if o, ok := ecs.Towers.Get(n); ok && n > 0 {
				vector.StrokeLine(screen, float32(t.X), float32(t.Y), float32(o.X), float32(o.Y), 2, color.RGBA{120, 200, 255, 160}, true)
			}
		}
		return true
	})
	ecs.Enemies.Each(func(_ types.EntityID, e *component.Enemy) bool {
		if e.Alive() {
			r.drawEnemy(screen, e)
		}
		return true
	})
	ecs.Harpoons.Each(func(_ types.EntityID, h *component.Harpoon) bool {
		vector.StrokeLine(screen, float32(h.StartX), float32(h.StartY), float32(h.EndX), float32(h.EndY), 2, color.RGBA{200, 200, 200, 255}, true)
		return true
	})
	ecs.Orbiters.Each(func(_ types.EntityID, o *component.Orbiter) bool {
		vector.DrawFilledCircle(screen, float32(o.X), float32(o.Y), 5, color.RGBA{255, 160, 60, 255}, true)
		return true
	})
	ecs.Projectiles.Each(func(_ types.EntityID, p *component.Projectile) bool {
		radius := float32(3)
		if p.Kind == component.Grenade || p.Kind == component.Cluster {
			radius = 5
		}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), radius, r.Palette.ProjectileColor, true)
		return true
	})
	r.drawEffects(screen)
	if hud.ShowCoordinates {
		r.drawCoordinates(screen, g.Grid)
	}
}

// boardKey changes whenever any cell state changes.
func boardKey(g *grid.Grid) uint64 {
	var h uint64 = 14695981039346656037
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			h ^= uint64(g.State(grid.Cell{X: x, Y: y})) + 1
			h *= 1099511628211
		}
	}
	return h
}

func (r *Renderer) drawBoard(screen *ebiten.Image, g *app.Game) {
	key := boardKey(g.Grid)
	if r.mapImage == nil || key != r.mapKey {
		r.mapImage = r.renderBoard(g)
		r.mapKey = key
	}
	screen.DrawImage(r.mapImage, nil)
}

func (r *Renderer) renderBoard(g *app.Game) *ebiten.Image {
	gr := g.Grid
	size := float32(gr.CellSize)
	img := ebiten.NewImage(int(float64(gr.Width)*gr.CellSize), int(float64(gr.Height)*gr.CellSize))
	start, end := gr.PathStart(), gr.PathEnd()
	for y := 0; y < gr.Height; y++ {
		for x := 0; x < gr.Width; x++ {
			c := grid.Cell{X: x, Y: y}
			var clr color.RGBA
			switch gr.State(c) {
			case grid.Obstacle:
				clr = r.Palette.ObstacleColor
			case grid.Restricted:
				clr = r.Palette.RestrictedColor
			default:
				clr = r.Palette.EmptyColor
			}
			switch {
			case c == start:
				clr = r.Palette.SpawnColor
			case c == end:
				clr = r.Palette.ObjectiveColor
			}
			vector.DrawFilledRect(img, float32(x)*size, float32(y)*size, size, size, clr, false)
			vector.StrokeRect(img, float32(x)*size, float32(y)*size, size, size, r.Palette.StrokeWidth, r.Palette.GridLineColor, false)
		}
	}
	return img
}

func (r *Renderer) drawTower(screen *ebiten.Image, cellSize float64, t *component.Tower) {
	size := float32(cellSize)
	x := float32(t.GridX) * size
	y := float32(t.GridY) * size
	w := float32(t.Def.GridWidth) * size
	h := float32(t.Def.GridHeight) * size
	clr := TowerColor(t.DefID)
	if t.Def.Traversable {
		clr.A = 140
	}
	vector.DrawFilledRect(screen, x+2, y+2, w-4, h-4, clr, true)
	vector.StrokeRect(screen, x+2, y+2, w-4, h-4, 1, DarkenColor(clr), true)
	if t.BerserkActive {
		vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{255, 40, 40, 255}, true)
	}
}

func (r *Renderer) drawEnemy(screen *ebiten.Image, e *component.Enemy) {
	radius := float32(8)
	clr := r.Palette.EnemyColor
	switch {
	case e.Boss:
		radius = 14
		clr = r.Palette.BossColor
	case e.IsAir():
		clr = r.Palette.AirEnemyColor
	}
	if _, stunned := e.Statuses[component.StatusStun]; stunned {
		clr = DarkenColor(clr)
	}
	x, y := float32(e.X), float32(e.Y)
	vector.DrawFilledCircle(screen, x, y, radius, clr, true)

	if e.MaxHealth > 0 && e.Health < e.MaxHealth {
		frac := float32(math.Max(0, e.Health/e.MaxHealth))
		barW := radius * 2
		vector.DrawFilledRect(screen, x-radius, y-radius-5, barW, 3, color.RGBA{60, 0, 0, 255}, false)
		vector.DrawFilledRect(screen, x-radius, y-radius-5, barW*frac, 3, r.Palette.HealthColor, false)
	}
}

func (r *Renderer) drawEffects(screen *ebiten.Image) {
	if r.Effects == nil {
		return
	}
	for _, fx := range r.Effects.effects {
		clr := r.Palette.EffectColor
		clr.A = uint8(float64(clr.A) * (1 - fx.Progress()))
		switch fx.Kind {
		case event.EffectExplosion, event.EffectBombardment, event.EffectPulse:
			radius := fx.Radius
			if radius <= 0 {
				radius = 20
			}
			vector.StrokeCircle(screen, float32(fx.X), float32(fx.Y), float32(radius*(0.5+0.5*fx.Progress())), 2, clr, true)
		case event.EffectBeam, event.EffectWhip, event.EffectHarpoon:
			vector.StrokeLine(screen, float32(fx.X), float32(fx.Y), float32(fx.X2), float32(fx.Y2), 2, clr, true)
		case event.EffectZap:
			prevX, prevY := fx.X, fx.Y
			for _, p := range fx.Points {
				vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(p.X), float32(p.Y), 2, clr, true)
				prevX, prevY = p.X, p.Y
			}
		case event.EffectGold, event.EffectBribe:
			drawLabel(screen, "+", r.face, fx.X, fx.Y-12*fx.Progress(), color.RGBA{255, 215, 0, clr.A})
		default:
			size := float32(4)
			if fx.Crit {
				size = 7
			}
			vector.DrawFilledCircle(screen, float32(fx.X), float32(fx.Y), size, clr, true)
		}
	}
}

func (r *Renderer) drawCoordinates(screen *ebiten.Image, g *grid.Grid) {
	for y := 0; y < g.Height; y += 2 {
		for x := 0; x < g.Width; x += 2 {
			drawLabel(screen, fmt.Sprintf("%d,%d", x, y), r.face, float64(x)*g.CellSize+1, float64(y)*g.CellSize+1, color.RGBA{255, 255, 255, 120})
		}
	}
}

func drawLabel(screen *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}
