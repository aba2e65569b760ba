// internal/component/game_state.go
package component

// GameState is the overall outcome state of a session.
type GameState int

const (
	Running GameState = iota
	GameOver
	Victory
)

func (s GameState) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	case Victory:
		return "victory"
	}
	return "unknown"
}

// WaveState is the wave scheduler phase.
type WaveState int

const (
	WaveIdle WaveState = iota
	WaveWaiting
	WaveSpawning
	WaveIntermission
	WaveAllDone
)

func (s WaveState) String() string {
	switch s {
	case WaveIdle:
		return "idle"
	case WaveWaiting:
		return "waiting"
	case WaveSpawning:
		return "spawning"
	case WaveIntermission:
		return "intermission"
	case WaveAllDone:
		return "all_done"
	}
	return "unknown"
}

// SpawnGroup is the runtime state of one wave group.
type SpawnGroup struct {
	EnemyType    string
	Remaining    int
	InitialDelay float64
	Interval     float64
	Timer        float64
	Started      bool
}

// ActiveWave tracks one wave from its first spawn until it is cleared.
type ActiveWave struct {
	Index     int
	Groups    []*SpawnGroup
	Alive     int
	Spawned   int
	Removed   int
	TimeLimit float64
	TimedOut  bool
	Completed bool
	TimeBonus int
}

// SpawningDone reports whether every group has emptied.
func (w *ActiveWave) SpawningDone() bool {
	for _, g := range w.Groups {
		if g.Remaining > 0 {
			return false
		}
	}
	return true
}

// Wave is the scheduler state.
type Wave struct {
	State        WaveState
	CurrentIndex int
	Timer        float64 // delay before the current wave while Waiting
	Started      bool
	Active       []*ActiveWave // current wave last; earlier entries run in the background
}

// Current returns the wave bound to CurrentIndex, if spawned.
func (w *Wave) Current() *ActiveWave {
	for _, a := range w.Active {
		if a.Index == w.CurrentIndex {
			return a
		}
	}
	return nil
}
