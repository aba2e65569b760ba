// cmd/game/main.go
package main

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/app"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/logging"
	"github.com/camerensmith/supermaultd/internal/state"
)

const startFromGame = true // true starts straight into a session, false shows the menu

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
	maxDeltaTime   float64
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > a.maxDeltaTime {
		deltaTime = a.maxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	settings, err := config.LoadSettings(".")
	if err != nil {
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("Failed to load settings")
	}
	logger := logging.Setup(settings.LogLevel, os.Stderr)

	lib, err := defs.LoadLibrary(settings.DataDir, settings.Mode)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", settings.DataDir).Msg("Failed to load definitions")
	}
	logger.Info().Str("mode", lib.Mode).Strs("races", lib.RaceIDs()).Int("waves", len(lib.Waves)).Msg("Definitions loaded")

	factory := func() (*app.Game, error) {
		return app.NewGame(lib, settings, logger)
	}

	sm := state.NewStateMachine()
	if startFromGame {
		g, err := factory()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create game")
		}
		sm.SetState(state.NewGameState(sm, g, factory, logger))
	} else {
		sm.SetState(state.NewMenuState(sm, factory, logger))
	}

	appGame := &AppGame{
		stateMachine:   sm,
		lastUpdateTime: time.Now(),
		maxDeltaTime:   settings.MaxDeltaTime,
	}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Supermaul TD")
	ebiten.SetTPS(settings.TickRate)
	if err := ebiten.RunGame(appGame); err != nil {
		logger.Fatal().Err(err).Msg("Game loop exited")
	}
}
