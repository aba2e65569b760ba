package state

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

type recordingState struct {
	name string
	log  *[]string
}

func (s recordingState) Enter()                    { *s.log = append(*s.log, s.name+":enter") }
func (s recordingState) Update(deltaTime float64)  { *s.log = append(*s.log, s.name+":update") }
func (s recordingState) Draw(screen *ebiten.Image) {}
func (s recordingState) Exit()                     { *s.log = append(*s.log, s.name+":exit") }

func TestStateMachineTransitions(t *testing.T) {
	var log []string
	sm := NewStateMachine()
	sm.Update(0.016) // no state yet

	sm.SetState(recordingState{"menu", &log})
	sm.Update(0.016)
	sm.SetState(recordingState{"game", &log})
	sm.SetState(nil)
	sm.Update(0.016)

	assert.Equal(t, []string{"menu:enter", "menu:update", "menu:exit", "game:enter", "game:exit"}, log)
}
