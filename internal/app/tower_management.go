// internal/app/tower_management.go
package app

import (
	"fmt"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/system"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// PlaceTower places towerID with its top-left cell at (gx, gy). A rejected
// placement changes nothing but queues a PlacementRejected event.
func (g *Game) PlaceTower(towerID string, gx, gy int) (types.EntityID, error) {
	if g.ECS.GameState != component.Running {
		return 0, fmt.Errorf("place %s: %w", towerID, ErrStateError)
	}
	def, ok := g.Library.Tower(towerID)
	if !ok || !g.available(def) {
		return 0, fmt.Errorf("place %s: unknown or locked tower: %w", towerID, ErrInvalidArgument)
	}

	if err := g.canPlaceTower(def, gx, gy); err != nil {
		g.logger.Debug().Err(err).Msg("placement rejected")
		g.EventDispatcher.Emit(event.PlacementRejected, event.RejectedEvent{DefID: towerID, GridX: gx, GridY: gy, Reason: string(err.Reason)})
		g.EventDispatcher.Flush()
		return 0, err
	}

	id := g.createTowerEntity(def, gx, gy)
	g.addMoney(-def.Cost, "tower_placed")
	g.EventDispatcher.Emit(event.TowerPlaced, event.TowerEvent{ID: id, DefID: towerID, GridX: gx, GridY: gy})
	g.EventDispatcher.Flush()
	return id, nil
}

func (g *Game) canPlaceTower(def *defs.TowerDefinition, gx, gy int) *PlacementError {
	reject := func(reason PlacementReason) *PlacementError {
		return &PlacementError{Reason: reason, TowerID: def.ID, X: gx, Y: gy}
	}

	if g.ECS.Money < def.Cost {
		return reject(InsufficientFunds)
	}

	cells := grid.Footprint(gx, gy, def.GridWidth, def.GridHeight)
	for _, c := range cells {
		if !g.Grid.InBounds(c) {
			err := reject(InvalidLocation)
			err.outOfBounds = true
			return err
		}
	}

	overlap := false
	g.ECS.Towers.Each(func(_ types.EntityID, t *component.Tower) bool {
		for _, c := range cells {
			if !t.Destroyed && t.Occupies(c) {
				overlap = true
				return false
			}
		}
		return true
	})
	if overlap {
		return reject(InvalidLocation)
	}

	for _, c := range cells {
		if g.inSpawnArea(c) || g.inObjectiveArea(c) {
			return reject(InvalidLocation)
		}
	}

	if !g.Grid.CanPlace(cells) {
		return reject(InvalidLocation)
	}

	if def.Limit > 0 && g.towerCounts[def.ID] >= def.Limit {
		return reject(LimitReached)
	}

	if !def.Traversable {
		if err := g.checkPathAfter(cells); err != nil {
			e := reject(PathBlocked)
			e.err = err
			return e
		}
	}
	return nil
}

// inSpawnArea covers the spawn span and the row in front of it.
func (g *Game) inSpawnArea(c grid.Cell) bool {
	start := g.Grid.PathStart()
	return c.X >= start.X-config.SpawnHalfSpan && c.X <= start.X+config.SpawnHalfSpan &&
		(c.Y == start.Y || c.Y == start.Y+1)
}

// inObjectiveArea covers the objective span and the approach row.
func (g *Game) inObjectiveArea(c grid.Cell) bool {
	end := g.Grid.PathEnd()
	return c.X >= end.X-config.ObjectiveHalfSpan && c.X <= end.X+config.ObjectiveHalfSpan &&
		(c.Y == end.Y || c.Y == end.Y-1)
}

// checkPathAfter simulates blocking cells on a copy of the grid and checks
// that the spawn and every ground enemy can still reach the objective.
func (g *Game) checkPathAfter(cells []grid.Cell) error {
	sim := g.Grid.Clone()
	for _, c := range cells {
		if err := sim.Set(c, grid.Obstacle); err != nil {
			return err
		}
	}
	end := sim.PathEnd()
	if !sim.HasPath(sim.PathStart(), end, false) {
		return ErrPathUnreachable
	}
	var err error
	g.ECS.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if !e.Alive() || e.IsAir() {
			return true
		}
		if !sim.HasPath(sim.CellAt(e.X, e.Y), end, false) {
			err = fmt.Errorf("enemy %d: %w", id, ErrPathUnreachable)
			return false
		}
		return true
	})
	return err
}

func (g *Game) createTowerEntity(def *defs.TowerDefinition, gx, gy int) types.EntityID {
	t := system.NewTower(def, gx, gy, g.Grid, g.ECS.GameTime)
	id := g.ECS.NewEntity()
	g.ECS.Towers.Add(id, t)
	g.towerCounts[def.ID]++

	if !def.Traversable {
		for _, c := range grid.Footprint(gx, gy, def.GridWidth, def.GridHeight) {
			if err := g.Grid.Set(c, grid.Obstacle); err == nil {
				t.Cells = append(t.Cells, c)
			}
		}
	}
	if sp, ok := def.Special.(*defs.Orbit); ok {
		for _, o := range system.NewOrbiters(id, t, sp) {
			oid := g.ECS.NewEntity()
			g.ECS.Orbiters.Add(oid, o)
			t.Orbiters = append(t.Orbiters, oid)
		}
	}
	system.RebuildChainLinks(g.ECS)
	if !def.Traversable {
		g.removeTrapped(g.MovementSystem.ReplanGround())
	}
	g.logger.Debug().Uint64("tower", uint64(id)).Str("type", def.ID).Int("x", gx).Int("y", gy).Msg("tower placed")
	return id
}

// SellTowerAt sells the tower covering cell (gx, gy) for floor(cost/2).
func (g *Game) SellTowerAt(gx, gy int) (int, error) {
	if g.ECS.GameState != component.Running {
		return 0, fmt.Errorf("sell: %w", ErrStateError)
	}
	if ws := g.ECS.Wave.State; ws == component.WaveSpawning || ws == component.WaveIntermission {
		return 0, &SellError{Reason: NotAllowedDuringWave, X: gx, Y: gy}
	}
	id, t := g.TowerAt(gx, gy)
	if t == nil {
		return 0, &SellError{Reason: NoTowerThere, X: gx, Y: gy}
	}

	refund := t.Def.Cost / 2
	g.removeTower(id, t)
	g.ECS.Towers.Remove(id)
	g.addMoney(refund, "tower_sold")
	g.EventDispatcher.Emit(event.TowerSold, event.TowerEvent{ID: id, DefID: t.DefID, GridX: t.GridX, GridY: t.GridY, Refund: refund})
	g.EventDispatcher.Flush()
	return refund, nil
}

// TowerAt returns the live tower covering cell (gx, gy), if any.
func (g *Game) TowerAt(gx, gy int) (types.EntityID, *component.Tower) {
	var (
		found   types.EntityID
		foundAt *component.Tower
	)
	c := grid.Cell{X: gx, Y: gy}
	g.ECS.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		if !t.Destroyed && t.Occupies(c) {
			found, foundAt = id, t
			return false
		}
		return true
	})
	return found, foundAt
}

// removeTower releases everything a tower holds: its cells, its orbiters,
// its count and its chain links. The entity itself is reaped or removed by
// the caller.
func (g *Game) removeTower(id types.EntityID, t *component.Tower) {
	t.Destroyed = true
	for _, c := range t.Cells {
		if err := g.Grid.Set(c, grid.Empty); err != nil {
			g.logger.Warn().Err(err).Uint64("tower", uint64(id)).Msg("failed to clear tower cell")
		}
	}
	t.Cells = nil
	for _, oid := range t.Orbiters {
		if o, ok := g.ECS.Orbiters.Get(oid); ok {
			o.Done = true
		}
	}
	t.Orbiters = nil
	if g.towerCounts[t.DefID] > 0 {
		g.towerCounts[t.DefID]--
	}
	system.RebuildChainLinks(g.ECS)
	g.removeTrapped(g.MovementSystem.ReplanGround())
}

// TowerCounts returns how many towers of each type are placed.
func (g *Game) TowerCounts() map[string]int {
	out := make(map[string]int, len(g.towerCounts))
	for id, n := range g.towerCounts {
		if n > 0 {
			out[id] = n
		}
	}
	return out
}
