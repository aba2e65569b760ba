// internal/app/game.go
package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/logging"
	"github.com/camerensmith/supermaultd/internal/system"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// Game owns the world and every system. All mutation happens inside Advance
// or a command on the caller's goroutine.
type Game struct {
	ECS      *entity.ECS
	Grid     *grid.Grid
	Library  *defs.Library
	Settings config.Settings

	SessionID uuid.UUID
	Rng       *utils.PRNGService

	CombatSystem       *system.CombatSystem
	StatusEffectSystem *system.StatusEffectSystem
	MovementSystem     *system.MovementSystem
	Targeting          *system.Targeting
	ProjectileSystem   *system.ProjectileSystem
	EffectSystem       *system.EffectSystem
	AuraSystem         *system.AuraSystem
	TowerSystem        *system.TowerSystem
	WaveSystem         *system.WaveSystem
	EventDispatcher    *event.Dispatcher

	logger zerolog.Logger

	primaryRace   string
	secondaryRace string
	unlocked      []string
	towerCounts   map[string]int
	notices       []string

	isPaused          bool
	showCoordinates   bool
	mainMenuRequested bool
	ended             bool
	endReason         string
}

// NewGame builds a world for the library's mode. The primary race defaults
// to the first race id; the secondary race, if any, unlocks at the unlock wave.
func NewGame(lib *defs.Library, settings config.Settings, logger zerolog.Logger) (*Game, error) {
	if lib == nil {
		return nil, fmt.Errorf("%w: nil library", ErrInvalidArgument)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	primary := settings.PrimaryRace
	if primary == "" {
		ids := lib.RaceIDs()
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: library has no races", ErrInvalidArgument)
		}
		primary = ids[0]
	}
	if _, ok := lib.Races[primary]; !ok {
		return nil, fmt.Errorf("%w: unknown race %q", ErrInvalidArgument, primary)
	}
	secondary := settings.SecondaryRace
	if secondary != "" {
		if _, ok := lib.Races[secondary]; !ok {
			return nil, fmt.Errorf("%w: unknown race %q", ErrInvalidArgument, secondary)
		}
		if secondary == primary {
			secondary = ""
		}
	}

	sessionID := uuid.New()
	logger = logger.With().Str("session", sessionID.String()).Logger()

	ecs := entity.NewECS()
	ecs.Money = settings.StartingMoney
	ecs.Lives = settings.StartingLives
	ecs.StartingLives = settings.StartingLives

	eventDispatcher := event.NewDispatcher()
	if settings.LowEffects {
		eventDispatcher.MaxEffects = settings.MaxVisualEffects
	}

	g := &Game{
		ECS:             ecs,
		Grid:            grid.NewPlayfield(config.PlaceableWidth, config.PlaceableHeight, config.CellSize),
		Library:         lib,
		Settings:        settings,
		SessionID:       sessionID,
		Rng:             utils.NewPRNGService(settings.Seed),
		EventDispatcher: eventDispatcher,
		logger:          logger,
		primaryRace:     primary,
		secondaryRace:   secondary,
		unlocked:        []string{primary},
		towerCounts:     make(map[string]int),
	}
	g.CombatSystem = system.NewCombatSystem(ecs, lib.Armor, g.Rng, logging.For(logger, "combat"))
	g.StatusEffectSystem = system.NewStatusEffectSystem(ecs, g.CombatSystem)
	g.MovementSystem = system.NewMovementSystem(ecs, g.Grid, g.StatusEffectSystem, g.Rng, logging.For(logger, "movement"))
	g.Targeting = system.NewTargeting(ecs, g.Rng)
	g.ProjectileSystem = system.NewProjectileSystem(ecs, g.CombatSystem, g.Rng, config.CellSize, logging.For(logger, "projectile"))
	g.EffectSystem = system.NewEffectSystem(ecs, g.CombatSystem, logging.For(logger, "effect"))
	g.AuraSystem = system.NewAuraSystem(ecs, g.CombatSystem, g.Rng)
	g.TowerSystem = system.NewTowerSystem(ecs, g.CombatSystem, g.Targeting, g.ProjectileSystem, g.EffectSystem, g.Rng, logging.For(logger, "tower"))
	g.WaveSystem = system.NewWaveSystem(ecs, lib, g.MovementSystem, eventDispatcher, logging.For(logger, "wave"))
	g.WaveSystem.OnUnlock = g.unlockSecondaryRace

	listener := &GameEventListener{game: g}
	eventDispatcher.Subscribe(event.RaceUnlocked, listener)
	eventDispatcher.Subscribe(event.GameOver, listener)
	eventDispatcher.Subscribe(event.Victory, listener)

	logger.Info().
		Str("mode", lib.Mode).
		Str("primary_race", primary).
		Str("secondary_race", secondary).
		Int("waves", len(lib.Waves)).
		Msg("game created")
	return g, nil
}

// Advance runs one tick. It does nothing while paused or after the game ended.
func (g *Game) Advance(deltaTime float64) {
	if g.isPaused || g.ECS.GameState != component.Running {
		return
	}
	if maxDelta := g.Settings.MaxDeltaTime; maxDelta > 0 && deltaTime > maxDelta {
		deltaTime = maxDelta
	}
	if deltaTime <= 0 {
		return
	}
	g.ECS.GameTime += deltaTime

	steps := []func() system.Result{
		func() system.Result { return g.WaveSystem.Update(deltaTime) },
		func() system.Result { return g.AuraSystem.Update(deltaTime) },
		func() system.Result { return g.TowerSystem.Update(deltaTime) },
		g.TowerSystem.Fire,
		func() system.Result { return g.ProjectileSystem.Update(deltaTime) },
		func() system.Result { return g.EffectSystem.Update(deltaTime) },
		func() system.Result { return g.MovementSystem.Update(deltaTime) },
	}
	for _, step := range steps {
		g.apply(step())
		if g.ECS.GameState != component.Running {
			break
		}
	}
	g.ECS.Reap()

	if g.ECS.GameState != component.Running {
		g.finish()
		return
	}
	g.EventDispatcher.Flush()
}

// apply hands a step's result to the world: new entities, money, visuals,
// deaths, leaks and self-destructed towers.
func (g *Game) apply(res system.Result) {
	for _, p := range res.Projectiles {
		g.ECS.Projectiles.Add(g.ECS.NewEntity(), p)
	}
	for _, z := range res.Zones {
		g.ECS.Zones.Add(g.ECS.NewEntity(), z)
	}
	for _, h := range res.Harpoons {
		g.ECS.Harpoons.Add(g.ECS.NewEntity(), h)
	}
	for _, c := range res.Gold {
		g.addMoney(c.Amount, c.Reason)
	}
	for _, v := range res.Visuals {
		g.EventDispatcher.Emit(event.Effect, v)
	}
	for _, id := range res.Dead {
		g.onEnemyKilled(id)
	}
	for _, id := range res.Leaked {
		g.onEnemyLeaked(id)
	}
	for _, id := range res.SelfDestruct {
		if t, ok := g.ECS.Towers.Get(id); ok && !t.Destroyed {
			g.removeTower(id, t)
			g.EventDispatcher.Emit(event.TowerDestroyed, event.TowerEvent{ID: id, DefID: t.DefID, GridX: t.GridX, GridY: t.GridY})
		}
	}
}

func (g *Game) addMoney(amount int, reason string) {
	if amount == 0 {
		return
	}
	before := g.ECS.Money
	g.ECS.Money += amount
	if g.ECS.Money < 0 {
		g.ECS.Money = 0
	}
	g.EventDispatcher.Emit(event.GoldChanged, event.GoldDelta{Delta: g.ECS.Money - before, Balance: g.ECS.Money, Reason: reason})
}

func (g *Game) addLives(delta int) {
	before := g.ECS.Lives
	g.ECS.Lives += delta
	if g.ECS.Lives > g.ECS.StartingLives {
		g.ECS.Lives = g.ECS.StartingLives
	}
	if g.ECS.Lives < 0 {
		g.ECS.Lives = 0
	}
	if g.ECS.Lives != before {
		g.EventDispatcher.Emit(event.LivesChanged, event.LivesDelta{Delta: g.ECS.Lives - before, Balance: g.ECS.Lives})
	}
	if g.ECS.Lives <= 0 {
		g.end(component.GameOver, "lives")
	}
}

func (g *Game) onEnemyKilled(id types.EntityID) {
	e, ok := g.ECS.Enemies.Get(id)
	if !ok || e.Processed {
		return
	}
	e.Processed = true
	gold := e.Value + e.PendingGold
	g.addMoney(gold, "bounty")
	g.EventDispatcher.Emit(event.EnemyKilled, event.EnemyEvent{ID: id, DefID: e.DefID, X: e.X, Y: e.Y, Gold: gold, Killer: e.BountyBy})
	g.apply(g.WaveSystem.OnEnemyRemoved(e.Wave))
	if e.DefID == config.WinBossFor(g.Library.Mode) {
		g.end(component.Victory, e.DefID+" defeated")
	}
}

func (g *Game) onEnemyLeaked(id types.EntityID) {
	e, ok := g.ECS.Enemies.Get(id)
	if !ok || e.Processed {
		return
	}
	e.Processed = true
	g.EventDispatcher.Emit(event.EnemyLeaked, event.EnemyEvent{ID: id, DefID: e.DefID, X: e.X, Y: e.Y})
	g.apply(g.WaveSystem.OnEnemyRemoved(e.Wave))
	if e.Boss || e.DefID == config.WinBossFor(g.Library.Mode) {
		g.end(component.GameOver, e.DefID+" reached the objective")
		return
	}
	g.addLives(-1)
}

// removeTrapped drops ground enemies a topology change left without a path.
func (g *Game) removeTrapped(trapped []types.EntityID) {
	for _, id := range trapped {
		e, ok := g.ECS.Enemies.Get(id)
		if !ok || e.Processed {
			continue
		}
		g.logger.Warn().Uint64("enemy", uint64(id)).Str("type", e.DefID).Msg("enemy trapped without a path, removed")
		e.Dead, e.Processed = true, true
		g.EventDispatcher.Emit(event.EnemyTrapped, event.EnemyEvent{ID: id, DefID: e.DefID, X: e.X, Y: e.Y})
		g.apply(g.WaveSystem.OnEnemyRemoved(e.Wave))
	}
}

func (g *Game) end(state component.GameState, reason string) {
	if g.ECS.GameState != component.Running {
		return
	}
	g.ECS.GameState = state
	g.endReason = reason
	g.logger.Info().Str("state", state.String()).Str("reason", reason).Int("wave", g.ECS.Wave.CurrentIndex).Msg("game ended")
}

// finish drops everything queued during the final tick and announces the end.
func (g *Game) finish() {
	if g.ended {
		return
	}
	g.ended = true
	g.EventDispatcher.Discard()
	eventType := event.GameOver
	if g.ECS.GameState == component.Victory {
		eventType = event.Victory
	}
	g.EventDispatcher.Emit(eventType, event.GameEndEvent{Reason: g.endReason, Wave: g.ECS.Wave.CurrentIndex})
	g.EventDispatcher.Flush()
}

func (g *Game) unlockSecondaryRace() {
	if g.secondaryRace == "" {
		return
	}
	for _, r := range g.unlocked {
		if r == g.secondaryRace {
			return
		}
	}
	g.unlocked = append(g.unlocked, g.secondaryRace)
	race := g.Library.Races[g.secondaryRace]
	g.logger.Info().Str("race", race.ID).Msg("race unlocked")
	g.EventDispatcher.Emit(event.RaceUnlocked, event.RaceEvent{RaceID: race.ID, TowerIDs: race.TowerIDs()})
}

// UnlockedRaces lists the races whose towers can be placed, primary first.
func (g *Game) UnlockedRaces() []string {
	return append([]string(nil), g.unlocked...)
}

// Catalog lists the placeable tower ids.
func (g *Game) Catalog() []string {
	var ids []string
	for _, r := range g.unlocked {
		ids = append(ids, g.Library.Races[r].TowerIDs()...)
	}
	return ids
}

func (g *Game) available(def *defs.TowerDefinition) bool {
	for _, r := range g.unlocked {
		if def.Race == r {
			return true
		}
	}
	return false
}

// maxNotices is how many HUD notices are kept; older ones are dropped.
const maxNotices = 8

// GameEventListener turns game events into HUD notices.
type GameEventListener struct {
	game *Game
}

func (l *GameEventListener) OnEvent(e event.Event) {
	switch data := e.Data.(type) {
	case event.RaceEvent:
		l.notice(fmt.Sprintf("%s unlocked", l.game.Library.Races[data.RaceID].Name))
	case event.GameEndEvent:
		if e.Type == event.Victory {
			l.notice("Victory!")
		} else {
			l.notice("Game over: " + data.Reason)
		}
	}
}

func (l *GameEventListener) notice(msg string) {
	notices := append(l.game.notices, msg)
	if n := len(notices); n > maxNotices {
		notices = append(notices[:0:0], notices[n-maxNotices:]...)
	}
	l.game.notices = notices
}
