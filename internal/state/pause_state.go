// internal/state/pause_state.go
package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/camerensmith/supermaultd/internal/config"
)

var _ State = (*PauseState)(nil)

// PauseState draws the frozen game under an overlay until P or Escape.
type PauseState struct {
	stateMachine  *StateMachine
	previousState *GameState
}

func NewPauseState(sm *StateMachine, prev *GameState) *PauseState {
	return &PauseState{stateMachine: sm, previousState: prev}
}

func (s *PauseState) Enter() {}

func (s *PauseState) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		// Unpause the simulation before handing control back.
		if s.previousState.game.IsPaused() {
			s.previousState.game.TogglePause()
		}
		s.stateMachine.SetState(s.previousState)
	}
}

func (s *PauseState) Draw(screen *ebiten.Image) {
	s.previousState.Draw(screen)
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 128}, false)

	pauseText := "PAUSED"
	w, _ := text.Measure(pauseText, s.previousState.face, 0)
	drawText(screen, pauseText, s.previousState.face, (config.ScreenWidth-w)/2, config.ScreenHeight/2-20, color.White)
}

func (s *PauseState) Exit() {}
