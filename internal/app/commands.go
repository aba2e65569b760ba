// internal/app/commands.go
package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/system"
)

// StartWave starts the wave schedule. It is honoured once, from Idle.
func (g *Game) StartWave() error {
	if g.ECS.GameState != component.Running {
		return fmt.Errorf("start wave: %w", ErrStateError)
	}
	if !g.WaveSystem.StartWave() {
		return fmt.Errorf("start wave in state %s: %w", g.ECS.Wave.State, ErrStateError)
	}
	g.EventDispatcher.Flush()
	return nil
}

// TogglePause flips the pause flag and returns the new value.
func (g *Game) TogglePause() bool {
	g.isPaused = !g.isPaused
	g.logger.Debug().Bool("paused", g.isPaused).Msg("pause toggled")
	return g.isPaused
}

func (g *Game) IsPaused() bool { return g.isPaused }

// ConsoleCommand runs one developer console line.
func (g *Game) ConsoleCommand(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return fmt.Errorf("empty command: %w", ErrInvalidArgument)
	}
	amount := func() (int, error) {
		if len(fields) != 2 {
			return 0, fmt.Errorf("%s needs one number: %w", fields[0], ErrInvalidArgument)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("%s %q: %w", fields[0], fields[1], ErrInvalidArgument)
		}
		return n, nil
	}

	switch fields[0] {
	case "addmoney":
		n, err := amount()
		if err != nil {
			return err
		}
		g.addMoney(n, "console")
	case "addlives":
		n, err := amount()
		if err != nil {
			return err
		}
		g.addLives(n)
		if g.ECS.GameState != component.Running {
			g.finish()
			return nil
		}
	case "showcoordinates":
		g.showCoordinates = !g.showCoordinates
	case "mainmenu":
		g.mainMenuRequested = true
		g.EventDispatcher.Emit(event.MainMenuRequested, nil)
	default:
		return fmt.Errorf("unknown command %q: %w", fields[0], ErrInvalidArgument)
	}
	g.logger.Info().Str("command", line).Msg("console command")
	g.EventDispatcher.Flush()
	return nil
}

// HUD is the snapshot the UI draws from.
type HUD struct {
	SessionID     string
	Mode          string
	GameTime      float64
	Money         int
	Lives         int
	StartingLives int

	WaveIndex     int
	WaveNumber    int
	WaveCount     int
	WaveState     component.WaveState
	WaveTimer     float64
	TimeRemaining float64
	Queue         []system.QueueEntry

	TowerCounts map[string]int
	Races       []string
	Catalog     []string
	Notices     []string

	GameState         component.GameState
	Paused            bool
	ShowCoordinates   bool
	MainMenuRequested bool
}

func (g *Game) HUD() HUD {
	w := g.ECS.Wave
	return HUD{
		SessionID:         g.SessionID.String(),
		Mode:              g.Library.Mode,
		GameTime:          g.ECS.GameTime,
		Money:             g.ECS.Money,
		Lives:             g.ECS.Lives,
		StartingLives:     g.ECS.StartingLives,
		WaveIndex:         w.CurrentIndex,
		WaveNumber:        w.CurrentIndex + 1,
		WaveCount:         len(g.Library.Waves),
		WaveState:         w.State,
		WaveTimer:         w.Timer,
		TimeRemaining:     g.WaveSystem.TimeRemaining(),
		Queue:             g.WaveSystem.Queue(),
		TowerCounts:       g.TowerCounts(),
		Races:             g.UnlockedRaces(),
		Catalog:           g.Catalog(),
		Notices:           append([]string(nil), g.notices...),
		GameState:         g.ECS.GameState,
		Paused:            g.isPaused,
		ShowCoordinates:   g.showCoordinates,
		MainMenuRequested: g.mainMenuRequested,
	}
}
