// internal/state/menu_state.go
package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/camerensmith/supermaultd/internal/app"
	"github.com/camerensmith/supermaultd/internal/config"
)

// GameFactory builds a fresh session for the menu.
type GameFactory func() (*app.Game, error)

// MenuState is the start screen.
type MenuState struct {
	sm      *StateMachine
	factory GameFactory
	logger  zerolog.Logger
	face    text.Face
	err     string
}

func NewMenuState(sm *StateMachine, factory GameFactory, logger zerolog.Logger) *MenuState {
	return &MenuState{sm: sm, factory: factory, logger: logger, face: defaultFace()}
}

func (m *MenuState) Enter() {}

func (m *MenuState) Update(deltaTime float64) {
	if !inpututil.IsKeyJustPressed(ebiten.KeySpace) && !inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return
	}
	g, err := m.factory()
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to start a game")
		m.err = err.Error()
		return
	}
	m.sm.SetState(NewGameState(m.sm, g, m.factory, m.logger))
}

func (m *MenuState) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})
	lines := []string{"SUPERMAUL TD", "", "Press Space to start"}
	for i, l := range lines {
		w, _ := text.Measure(l, m.face, 0)
		drawText(screen, l, m.face, (config.ScreenWidth-w)/2, config.ScreenHeight/3+float64(i*18), color.White)
	}
	if m.err != "" {
		drawText(screen, m.err, m.face, 16, config.ScreenHeight-32, color.RGBA{255, 120, 120, 255})
	}
}

func (m *MenuState) Exit() {}

func defaultFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

func drawText(screen *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}
