// internal/state/game_state.go
package state

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/app"
	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/logging"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/ui"
	"github.com/camerensmith/supermaultd/pkg/render"
)

const (
	hudTop        = config.ScreenHeight - 64
	hudLineHeight = 15
	maxNotices    = 4
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5,
	ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// GameState hosts a running session: it maps input to commands, advances
// the simulation and draws it.
type GameState struct {
	sm      *StateMachine
	game    *app.Game
	factory GameFactory
	root    zerolog.Logger
	logger  zerolog.Logger

	face          text.Face
	renderer      *render.Renderer
	effects       *render.EffectTracker
	indicator     *ui.StateIndicator
	waveIndicator *ui.WaveIndicator
	infoPanel     *ui.InfoPanel

	selected int
	console  console
	status   string
}

func NewGameState(sm *StateMachine, g *app.Game, factory GameFactory, logger zerolog.Logger) *GameState {
	face := defaultFace()
	effects := render.NewEffectTracker(g.Settings.MaxVisualEffects)
	g.EventDispatcher.Subscribe(event.Effect, effects)

	gs := &GameState{
		sm:            sm,
		game:          g,
		factory:       factory,
		root:          logger,
		logger:        logging.For(logger, "host"),
		face:          face,
		renderer:      render.NewRenderer(face, effects),
		effects:       effects,
		indicator:     ui.NewStateIndicator(config.ScreenWidth-24, 24, 12),
		waveIndicator: ui.NewWaveIndicator(config.ScreenWidth/2, 6),
		infoPanel:     ui.NewInfoPanel(face),
	}
	gs.infoPanel.OnSell = gs.sellTower
	return gs
}

func (g *GameState) Enter() {}

func (g *GameState) Exit() {}

func (g *GameState) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyBackquote) {
		g.console.Toggle()
	}
	if g.console.open {
		g.updateConsole()
	} else if g.handleKeys() {
		return
	}

	g.infoPanel.Update(g.game.ECS)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleLeftClick(ebiten.CursorPosition())
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.handleRightClick(ebiten.CursorPosition())
	}

	g.game.Advance(deltaTime)
	g.effects.Update(deltaTime)

	if g.game.HUD().MainMenuRequested {
		g.sm.SetState(NewMenuState(g.sm, g.factory, g.root))
	}
}

// handleKeys processes the game hotkeys; it returns true when the state changed.
func (g *GameState) handleKeys() bool {
	if g.game.ECS.GameState != component.Running {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.sm.SetState(NewMenuState(g.sm, g.factory, g.root))
			return true
		}
		return false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.game.TogglePause()
		g.sm.SetState(NewPauseState(g.sm, g))
		return true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.startWave()
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) && i < len(g.game.Catalog()) {
			g.selected = i
		}
	}
	return false
}

func (g *GameState) updateConsole() {
	g.console.Type(ebiten.AppendInputChars(nil))
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.console.Backspace()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.console.Recall(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.console.Recall(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		line, ok := g.console.Submit()
		if !ok {
			return
		}
		g.console.lastErr = ""
		if err := g.game.ConsoleCommand(line); err != nil {
			g.console.lastErr = err.Error()
		}
	}
}

func (g *GameState) startWave() {
	if err := g.game.StartWave(); err != nil {
		g.status = "Wave already started"
		return
	}
	g.indicator.HandleClick()
	g.status = ""
}

func (g *GameState) handleLeftClick(x, y int) {
	if g.indicator.IsClicked(x, y) {
		g.startWave()
		return
	}
	if g.infoPanel.Contains(x, y) {
		return
	}
	cell := g.game.Grid.CellAt(float64(x), float64(y))
	if id, _ := g.game.TowerAt(cell.X, cell.Y); id != 0 {
		g.infoPanel.SetTarget(id)
		return
	}
	g.infoPanel.Hide()

	catalog := g.game.Catalog()
	if g.selected >= len(catalog) {
		return
	}
	if _, err := g.game.PlaceTower(catalog[g.selected], cell.X, cell.Y); err != nil {
		g.status = placementMessage(err)
		g.logger.Debug().Err(err).Int("x", cell.X).Int("y", cell.Y).Msg("Placement rejected")
		return
	}
	g.status = ""
}

func (g *GameState) handleRightClick(x, y int) {
	cell := g.game.Grid.CellAt(float64(x), float64(y))
	if _, err := g.game.SellTowerAt(cell.X, cell.Y); err != nil {
		g.status = err.Error()
	}
}

func (g *GameState) sellTower(id types.EntityID) {
	t, ok := g.game.ECS.Towers.Get(id)
	if !ok {
		return
	}
	if _, err := g.game.SellTowerAt(t.GridX, t.GridY); err != nil {
		g.status = err.Error()
		return
	}
	g.infoPanel.Hide()
}

// placementMessage turns a placement error into a status line.
func placementMessage(err error) string {
	var pe *app.PlacementError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	switch pe.Reason {
	case app.InsufficientFunds:
		return "Not enough gold"
	case app.LimitReached:
		return "Tower limit reached"
	case app.PathBlocked:
		return "That would block the path"
	default:
		return "Cannot build there"
	}
}

// hudLines formats the bottom bar.
func hudLines(h app.HUD, selected string) []string {
	wave := fmt.Sprintf("Wave %d/%d  %s", h.WaveNumber, h.WaveCount, h.WaveState)
	switch h.WaveState {
	case component.WaveWaiting:
		wave += fmt.Sprintf(" %.1fs", h.WaveTimer)
	case component.WaveSpawning, component.WaveIntermission:
		wave += fmt.Sprintf("  limit %.0fs", h.TimeRemaining)
	}
	lines := []string{
		fmt.Sprintf("Gold %d   Lives %d/%d   %s", h.Money, h.Lives, h.StartingLives, wave),
	}
	if len(h.Queue) > 0 {
		parts := make([]string, 0, len(h.Queue))
		for _, q := range h.Queue {
			parts = append(parts, fmt.Sprintf("%s x%d", q.EnemyType, q.Remaining))
		}
		lines = append(lines, "Next: "+strings.Join(parts, ", "))
	}
	if selected != "" {
		lines = append(lines, fmt.Sprintf("Build: %s  (%s)", selected, strings.Join(h.Races, ", ")))
	}
	return lines
}

func (g *GameState) Draw(screen *ebiten.Image) {
	hud := g.game.HUD()
	g.renderer.Draw(screen, g.game, hud)

	vector.DrawFilledRect(screen, 0, hudTop, config.ScreenWidth, 64, color.RGBA{15, 18, 24, 255}, false)
	selected := ""
	if g.selected < len(hud.Catalog) {
		selected = hud.Catalog[g.selected]
	}
	for i, line := range hudLines(hud, selected) {
		drawText(screen, line, g.face, 8, float64(hudTop+4+i*hudLineHeight), color.White)
	}
	if g.status != "" {
		drawText(screen, g.status, g.face, 8, float64(hudTop+4+3*hudLineHeight), color.RGBA{255, 120, 120, 255})
	}

	notices := hud.Notices
	if len(notices) > maxNotices {
		notices = notices[len(notices)-maxNotices:]
	}
	for i, n := range notices {
		drawText(screen, n, g.face, 8, float64(4+i*hudLineHeight), color.RGBA{255, 230, 140, 255})
	}

	g.indicator.Draw(screen, hud.WaveState)
	g.waveIndicator.Draw(screen, hud.WaveNumber, g.face)
	g.infoPanel.Draw(screen, g.game.ECS)

	if g.console.open {
		vector.DrawFilledRect(screen, 0, hudTop-20, config.ScreenWidth, 20, color.RGBA{0, 0, 0, 200}, false)
		drawText(screen, "> "+g.console.Line()+"_", g.face, 8, hudTop-17, color.White)
		if g.console.lastErr != "" {
			drawText(screen, g.console.lastErr, g.face, config.ScreenWidth/2, hudTop-17, color.RGBA{255, 120, 120, 255})
		}
	}

	switch hud.GameState {
	case component.Victory:
		drawBanner(screen, g.face, "Victory!", "Press Enter for the menu")
	case component.GameOver:
		drawBanner(screen, g.face, "Game over", "Press Enter for the menu")
	}
}

func drawBanner(screen *ebiten.Image, face text.Face, title, hint string) {
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 128}, false)
	w, _ := text.Measure(title, face, 0)
	drawText(screen, title, face, (config.ScreenWidth-w)/2, config.ScreenHeight/2-20, color.White)
	w, _ = text.Measure(hint, face, 0)
	drawText(screen, hint, face, (config.ScreenWidth-w)/2, config.ScreenHeight/2, color.White)
}
