// internal/ui/info_panel.go
package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/types"
)

const (
	panelHeight    = 120
	panelMargin    = 5
	animationSpeed = 10.0
	lineHeight     = 16
)

// Button is a clickable rectangle.
type Button struct {
	Rect image.Rectangle
	Text string
}

// InfoPanel slides up from the bottom and describes the selected tower.
type InfoPanel struct {
	IsVisible    bool
	TargetEntity types.EntityID
	SellButton   Button
	// OnSell is called when the sell button is clicked.
	OnSell func(id types.EntityID)

	face     text.Face
	currentY float64
	targetY  float64
}

func NewInfoPanel(face text.Face) *InfoPanel {
	return &InfoPanel{
		face:     face,
		currentY: config.ScreenHeight,
		targetY:  config.ScreenHeight,
	}
}

func (p *InfoPanel) SetTarget(id types.EntityID) {
	p.TargetEntity = id
	p.IsVisible = true
	p.targetY = config.ScreenHeight - panelHeight
}

func (p *InfoPanel) Hide() {
	p.targetY = config.ScreenHeight
}

// Contains reports whether the screen point lies on the visible panel.
func (p *InfoPanel) Contains(x, y int) bool {
	return p.IsVisible && float64(y) >= p.currentY
}

// Update animates the panel and handles the sell button.
func (p *InfoPanel) Update(ecs *entity.ECS) {
	if p.currentY != p.targetY {
		diff := p.targetY - p.currentY
		switch {
		case math.Abs(diff) < animationSpeed:
			p.currentY = p.targetY
		case diff > 0:
			p.currentY += animationSpeed
		default:
			p.currentY -= animationSpeed
		}
		if p.currentY >= config.ScreenHeight {
			p.IsVisible = false
			p.TargetEntity = 0
		}
	}
	if p.TargetEntity != 0 {
		if t, ok := ecs.Towers.Get(p.TargetEntity); !ok || t.Destroyed {
			p.Hide()
		}
	}

	if p.IsVisible && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if (image.Point{X: x, Y: y}).In(p.SellButton.Rect) && p.OnSell != nil {
			p.OnSell(p.TargetEntity)
		}
	}
}

// TowerLines describes a tower for the panel.
func TowerLines(t *component.Tower) []string {
	def := t.Def
	lines := []string{
		fmt.Sprintf("%s (%s)", def.Name, def.Race),
		fmt.Sprintf("Damage %.0f-%.0f %s  every %.2fs  range %.0f", def.DamageMin, def.DamageMax, def.DamageType, def.AttackInterval, def.Range),
		fmt.Sprintf("Cost %d  refund %d", def.Cost, def.Cost/2),
	}
	if def.Special != nil {
		lines = append(lines, "Special: "+string(def.Special.Effect()))
	}
	if len(t.Stats.AuraNames) > 0 {
		lines = append(lines, fmt.Sprintf("Buffs: %s  (damage x%.2f)", strings.Join(t.Stats.AuraNames, ", "), t.Stats.DamageMult()))
	}
	return lines
}

func (p *InfoPanel) Draw(screen *ebiten.Image, ecs *entity.ECS) {
	if !p.IsVisible && p.currentY >= config.ScreenHeight {
		return
	}
	panelRect := image.Rect(
		panelMargin,
		int(p.currentY)+panelMargin,
		config.ScreenWidth-panelMargin,
		int(p.currentY)+panelHeight-panelMargin,
	)
	vector.DrawFilledRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), color.RGBA{R: 25, G: 35, B: 45, A: 230}, true)
	vector.StrokeRect(screen, float32(panelRect.Min.X), float32(panelRect.Min.Y), float32(panelRect.Dx()), float32(panelRect.Dy()), 2, color.RGBA{R: 70, G: 130, B: 180, A: 255}, true)

	t, ok := ecs.Towers.Get(p.TargetEntity)
	if !ok {
		return
	}
	for i, line := range TowerLines(t) {
		drawText(screen, line, p.face, float64(panelRect.Min.X+15), float64(panelRect.Min.Y+10+i*lineHeight), color.White)
	}
	p.drawSellButton(screen, panelRect)
}

func (p *InfoPanel) drawSellButton(screen *ebiten.Image, panelRect image.Rectangle) {
	btnWidth, btnHeight := 120, 32
	p.SellButton.Rect = image.Rect(
		panelRect.Max.X-btnWidth-20,
		panelRect.Max.Y-btnHeight-20,
		panelRect.Max.X-20,
		panelRect.Max.Y-20,
	)
	p.SellButton.Text = "Sell"
	vector.DrawFilledRect(screen, float32(p.SellButton.Rect.Min.X), float32(p.SellButton.Rect.Min.Y), float32(btnWidth), float32(btnHeight), color.RGBA{R: 180, G: 140, B: 20, A: 255}, true)

	w, h := text.Measure(p.SellButton.Text, p.face, 0)
	drawText(screen, p.SellButton.Text, p.face,
		float64(p.SellButton.Rect.Min.X)+(float64(btnWidth)-w)/2,
		float64(p.SellButton.Rect.Min.Y)+(float64(btnHeight)-h)/2,
		color.White)
}
