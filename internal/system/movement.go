// internal/system/movement.go
package system

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// MovementSystem runs the enemy tick: statuses, DoTs, speed, path following
// and the objective test.
type MovementSystem struct {
	ecs    *entity.ECS
	grid   *grid.Grid
	status *StatusEffectSystem
	rng    *utils.PRNGService
	logger zerolog.Logger

	objX, objY float64
}

func NewMovementSystem(ecs *entity.ECS, g *grid.Grid, status *StatusEffectSystem, rng *utils.PRNGService, logger zerolog.Logger) *MovementSystem {
	ox, oy := g.Center(g.PathEnd())
	return &MovementSystem{ecs: ecs, grid: g, status: status, rng: rng, logger: logger, objX: ox, objY: oy}
}

// Objective returns the objective midpoint in pixels.
func (s *MovementSystem) Objective() (float64, float64) {
	return s.objX, s.objY
}

// Spawn creates an enemy at the path start with a freshly planned path.
func (s *MovementSystem) Spawn(def *defs.EnemyDefinition, wave int) (types.EntityID, bool) {
	start := s.grid.PathStart()
	air := def.Type == defs.TargetAir
	path, found, err := s.grid.FindPath(start, s.grid.PathEnd(), air)
	if err != nil || !found {
		s.logger.Warn().Str("enemy", def.ID).Msg("no path from spawn to objective, enemy not spawned")
		return 0, false
	}
	x, y := s.grid.Center(start)
	id := s.ecs.NewEntity()
	s.ecs.Enemies.Add(id, &component.Enemy{
		DefID:       def.ID,
		Type:        def.Type,
		Boss:        def.Boss,
		Value:       def.Value,
		X:           x,
		Y:           y,
		Path:        path,
		BaseSpeed:   def.Speed * config.EnemySpeedScale,
		Speed:       def.Speed * config.EnemySpeedScale,
		Health:      def.Health,
		MaxHealth:   def.Health,
		ArmorType:   def.ArmorType,
		Armor:       def.ArmorValue,
		Statuses:    make(map[string]*component.Status),
		Dots:        make(map[string]*component.Dot),
		WanderAngle: s.rng.Float64() * 2 * math.Pi,
		Wave:        wave,
	})
	return id, true
}

// Replan recomputes the path from the enemy's current cell. It reports false
// when the objective is unreachable.
func (s *MovementSystem) Replan(e *component.Enemy) bool {
	from := s.grid.CellAt(e.X, e.Y)
	path, found, err := s.grid.FindPath(from, s.grid.PathEnd(), e.IsAir())
	if err != nil || !found {
		return false
	}
	e.Path = path
	e.PathIndex = 0
	e.NeedsReplan = false
	return true
}

// ReplanGround re-plans every live ground enemy and returns those left with no path.
func (s *MovementSystem) ReplanGround() []types.EntityID {
	var trapped []types.EntityID
	s.ecs.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if e.Alive() && !e.IsAir() && !s.Replan(e) {
			trapped = append(trapped, id)
		}
		return true
	})
	return trapped
}

// Update advances every enemy by dt and reports deaths and leaks.
func (s *MovementSystem) Update(deltaTime float64) Result {
	var res Result
	s.ecs.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if e.Processed {
			return true
		}
		if e.Alive() {
			s.status.Update(e)
		}
		if e.Dead {
			res.Dead = append(res.Dead, id)
			return true
		}
		if e.Leaked {
			return true
		}
		if e.HarpoonedBy == 0 {
			if e.NeedsReplan && !s.Replan(e) {
				s.logger.Warn().Uint64("enemy", uint64(id)).Msg("enemy lost its path after being pulled")
				e.NeedsReplan = false
			}
			s.move(e, deltaTime)
		}
		if s.reachedObjective(e) {
			e.Leaked = true
			res.Leaked = append(res.Leaked, id)
		}
		return true
	})
	return res
}

func (s *MovementSystem) move(e *component.Enemy, deltaTime float64) {
	e.WanderAngle = utils.NormalizeAngle(e.WanderAngle + s.rng.Range(-config.WanderDrift, config.WanderDrift))
	if e.Speed <= 0 {
		return
	}

	var tx, ty, cx, cy float64
	following := e.PathIndex < len(e.Path)
	if following {
		cx, cy = s.grid.Center(e.Path[e.PathIndex])
		tx = cx + math.Cos(e.WanderAngle)*config.WanderRadius
		ty = cy + math.Sin(e.WanderAngle)*config.WanderRadius
	} else {
		tx, ty = s.objX, s.objY
	}

	step := e.Speed * deltaTime
	dx, dy := tx-e.X, ty-e.Y
	dist := math.Hypot(dx, dy)
	if dist <= step {
		e.X, e.Y = tx, ty
	} else {
		e.X += dx / dist * step
		e.Y += dy / dist * step
	}

	if following && utils.Distance(e.X, e.Y, cx, cy) <= config.PathTolerance {
		e.PathIndex++
	}
}

func (s *MovementSystem) reachedObjective(e *component.Enemy) bool {
	return e.Y >= s.objY-config.ObjectiveEpsilon && math.Abs(e.X-s.objX) <= config.ObjectiveHalfWidth
}
