// internal/system/ground_effect.go
package system

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
)

// EffectSystem advances ground-effect zones, harpoons and orbiters.
type EffectSystem struct {
	ecs    *entity.ECS
	combat *CombatSystem
	logger zerolog.Logger
}

func NewEffectSystem(ecs *entity.ECS, combat *CombatSystem, logger zerolog.Logger) *EffectSystem {
	return &EffectSystem{ecs: ecs, combat: combat, logger: logger}
}

func (s *EffectSystem) Update(deltaTime float64) Result {
	var res Result
	s.updateZones(deltaTime)
	s.updateHarpoons(deltaTime, &res)
	s.updateOrbiters(deltaTime)
	return res
}

func (s *EffectSystem) updateZones(deltaTime float64) {
	now := s.ecs.GameTime
	s.ecs.Zones.Each(func(_ types.EntityID, z *component.GroundZone) bool {
		if z.Done {
			return true
		}
		z.Remaining -= deltaTime
		z.TickTimer += deltaTime
		tick := z.TickTimer >= z.TickInterval
		if tick {
			z.TickTimer -= z.TickInterval
		}
		r2 := z.Radius * z.Radius
		s.ecs.Enemies.Each(func(_ types.EntityID, e *component.Enemy) bool {
			if !e.Alive() || !z.Targets.Contains(string(e.Type)) || utils.DistanceSq(z.X, z.Y, e.X, e.Y) > r2 {
				return true
			}
			if tick && z.DamagePerTick > 0 {
				s.combat.ApplyDamage(e, Hit{Base: z.DamagePerTick, Type: z.DamageType, SourceID: z.SourceID})
			}
			if e.Alive() && z.SlowMultiplier > 0 && z.SlowMultiplier < 1 {
				ApplyStatus(e, "slow_zone", config.ContinuousAuraSlowDuration, z.SlowMultiplier, now)
			}
			return true
		})
		if z.Remaining <= 0 {
			z.Done = true
		}
		return true
	})
}

// NewHarpoon latches a harpoon from tower t onto enemy e and applies the
// initial strike. Strike damage is multiplied by the shear multiplier.
func (s *EffectSystem) NewHarpoon(towerID types.EntityID, t *component.Tower, targetID types.EntityID, e *component.Enemy, damage float64, sp *defs.Harpoon) *component.Harpoon {
	shear := sp.ShearMultiplier
	if shear <= 0 {
		shear = 1
	}
	s.combat.ApplyDamage(e, Hit{Base: damage * shear, Type: t.Def.DamageType, Mods: &t.Def.Hit, SourceID: towerID})

	// Pull to just outside the tower footprint, on the side facing the enemy.
	edge := math.Max(float64(t.Def.GridWidth), float64(t.Def.GridHeight))*config.CellSize/2 + config.CellSize/2
	ux, uy := utils.Normalize(e.X-t.X, e.Y-t.Y)
	if ux == 0 && uy == 0 {
		uy = 1
	}
	h := &component.Harpoon{
		SourceID:        towerID,
		TargetID:        targetID,
		StartX:          e.X,
		StartY:          e.Y,
		EndX:            t.X + ux*edge,
		EndY:            t.Y + uy*edge,
		Duration:        sp.PullDuration,
		DamagePerSecond: sp.PullDamagePerSecond,
		Shear:           shear,
		StunDuration:    sp.StunDuration,
		DamageType:      t.Def.DamageType,
	}
	if e.Alive() {
		e.HarpoonedBy = towerID
	}
	return h
}

// activeHarpoons counts live harpoons latched onto one enemy.
func (s *EffectSystem) activeHarpoons(target types.EntityID) int {
	n := 0
	s.ecs.Harpoons.Each(func(_ types.EntityID, h *component.Harpoon) bool {
		if !h.Done && h.TargetID == target {
			n++
		}
		return true
	})
	return n
}

func (s *EffectSystem) updateHarpoons(deltaTime float64, res *Result) {
	now := s.ecs.GameTime
	s.ecs.Harpoons.Each(func(id types.EntityID, h *component.Harpoon) bool {
		if h.Done {
			return true
		}
		e, ok := s.ecs.Enemies.Get(h.TargetID)
		if !ok || !e.Alive() {
			h.Done = true
			return true
		}
		if _, ok := s.ecs.Towers.Get(h.SourceID); !ok {
			s.logger.Debug().Uint64("harpoon", uint64(id)).Msg("harpoon source tower gone, releasing target")
			s.release(h, e)
			return true
		}

		active := s.activeHarpoons(h.TargetID)
		h.Elapsed += deltaTime
		t := 1.0
		if h.Duration > 0 {
			t = h.Elapsed / h.Duration
		}
		eased := utils.EaseOutCubic(t)
		e.X = utils.Lerp(h.StartX, h.EndX, eased)
		e.Y = utils.Lerp(h.StartY, h.EndY, eased)

		pull := h.DamagePerSecond * deltaTime * math.Pow(h.Shear, float64(active-1))
		s.combat.ApplyDamage(e, Hit{Base: pull, Type: h.DamageType, SourceID: h.SourceID})
		res.visual(event.EffectEvent{Kind: event.EffectHarpoon, X: h.EndX, Y: h.EndY, X2: e.X, Y2: e.Y})

		if t >= 1 {
			if e.Alive() && h.StunDuration > 0 {
				ApplyStatus(e, component.StatusStun, h.StunDuration, 0, now)
			}
			s.release(h, e)
		}
		return true
	})
}

func (s *EffectSystem) release(h *component.Harpoon, e *component.Enemy) {
	h.Done = true
	if e.HarpoonedBy == h.SourceID {
		e.HarpoonedBy = 0
	}
	if !e.IsAir() {
		e.NeedsReplan = true
	}
}

// NewOrbiters creates the orbiting entities of an orbit tower.
func NewOrbiters(towerID types.EntityID, t *component.Tower, sp *defs.Orbit) []*component.Orbiter {
	out := make([]*component.Orbiter, 0, sp.Count)
	mult := sp.DamageMultiplier
	if mult <= 0 {
		mult = 1
	}
	for i := 0; i < sp.Count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(sp.Count)
		out = append(out, &component.Orbiter{
			TowerID:      towerID,
			CenterX:      t.X,
			CenterY:      t.Y,
			Angle:        angle,
			Radius:       sp.OrbitRadius,
			AngularSpeed: sp.AngularSpeed,
			X:            t.X + math.Cos(angle)*sp.OrbitRadius,
			Y:            t.Y + math.Sin(angle)*sp.OrbitRadius,
			Damage:       (t.Def.DamageMin + t.Def.DamageMax) / 2 * mult,
			DamageType:   t.Def.DamageType,
			HitCooldown:  sp.HitCooldown,
			LastHit:      make(map[types.EntityID]float64),
		})
	}
	return out
}

func (s *EffectSystem) updateOrbiters(deltaTime float64) {
	now := s.ecs.GameTime
	s.ecs.Orbiters.Each(func(_ types.EntityID, o *component.Orbiter) bool {
		if o.Done {
			return true
		}
		t, ok := s.ecs.Towers.Get(o.TowerID)
		if !ok || t.Destroyed {
			o.Done = true
			return true
		}
		o.Angle = utils.NormalizeAngle(o.Angle + o.AngularSpeed*deltaTime)
		o.X = o.CenterX + math.Cos(o.Angle)*o.Radius
		o.Y = o.CenterY + math.Sin(o.Angle)*o.Radius
		r2 := config.OrbiterHitRadius * config.OrbiterHitRadius
		s.ecs.Enemies.Each(func(eid types.EntityID, e *component.Enemy) bool {
			if !ValidTarget(t.Def, e) || utils.DistanceSq(o.X, o.Y, e.X, e.Y) > r2 {
				return true
			}
			if last, hit := o.LastHit[eid]; hit && now-last < o.HitCooldown {
				return true
			}
			o.LastHit[eid] = now
			s.combat.ApplyDamage(e, Hit{Base: o.Damage, Type: o.DamageType, BonusMult: t.Stats.DamageMult(), SourceID: o.TowerID})
			return true
		})
		return true
	})
}
