// internal/system/tower.go
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
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// neverAttacked makes a freshly placed tower ready to fire immediately.
const neverAttacked = -1e9

// TowerSystem runs the per-tower state machines (Update) and targeting and
// firing (Fire).
type TowerSystem struct {
	ecs         *entity.ECS
	combat      *CombatSystem
	targeting   *Targeting
	projectiles *ProjectileSystem
	effects     *EffectSystem
	rng         *utils.PRNGService
	logger      zerolog.Logger
}

func NewTowerSystem(ecs *entity.ECS, combat *CombatSystem, targeting *Targeting, projectiles *ProjectileSystem, effects *EffectSystem, rng *utils.PRNGService, logger zerolog.Logger) *TowerSystem {
	return &TowerSystem{
		ecs:         ecs,
		combat:      combat,
		targeting:   targeting,
		projectiles: projectiles,
		effects:     effects,
		rng:         rng,
		logger:      logger,
	}
}

// NewTower builds a tower whose footprint's top-left cell is (gx,gy).
func NewTower(def *defs.TowerDefinition, gx, gy int, g *grid.Grid, now float64) *component.Tower {
	t := &component.Tower{
		DefID:        def.ID,
		Def:          def,
		GridX:        gx,
		GridY:        gy,
		X:            (float64(gx) + float64(def.GridWidth)/2) * g.CellSize,
		Y:            (float64(gy) + float64(def.GridHeight)/2) * g.CellSize,
		LastAttack:   neverAttacked,
		LastPulse:    now,
		LastSpecial:  now,
		WalkoverHits: make(map[types.EntityID]float64),
		Stats:        BaseStats(def),
	}
	return t
}

// EffectiveInterval is the buffed attack interval, never below MinAttackInterval.
func (s *TowerSystem) EffectiveInterval(t *component.Tower) float64 {
	speed := 1 + t.Stats.SpeedBonus
	if speed < 0.1 {
		speed = 0.1
	}
	iv := t.Def.AttackInterval / speed / s.gattlingMult(t)
	return math.Max(iv, config.MinAttackInterval)
}

func (s *TowerSystem) gattlingMult(t *component.Tower) float64 {
	sp, ok := t.Def.Special.(*defs.Gattling)
	if !ok || !t.GattlingSpinning {
		return 1
	}
	return math.Pow(sp.SpeedMultiplier, float64(t.GattlingLevel))
}

// Update runs step 3 of the tick for every tower.
func (s *TowerSystem) Update(deltaTime float64) Result {
	var res Result
	now := s.ecs.GameTime
	s.ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		if t.Destroyed {
			return true
		}
		s.updateSelfBuffs(t, now)
		if t.SalvoRemaining > 0 && now >= t.SalvoNext {
			s.continueSalvo(id, t, &res)
		}
		switch sp := t.Def.Special.(type) {
		case *defs.GoldGeneration:
			if now >= t.LastSpecial+sp.Interval {
				t.LastSpecial = now
				res.addGold(sp.Amount, "gold_generation")
				res.visual(event.EffectEvent{Kind: event.EffectGold, X: t.X, Y: t.Y, Duration: 0.8})
			}
		case *defs.RandomGold:
			if now >= t.LastSpecial+sp.Interval {
				t.LastSpecial = now
				res.addGold(s.rng.IntRange(sp.Min, sp.Max), "random_gold_generation")
				res.visual(event.EffectEvent{Kind: event.EffectGold, X: t.X, Y: t.Y, Duration: 0.8})
			}
		case *defs.Bombardment:
			if now >= t.LastSpecial+sp.Interval && len(s.ecs.AliveEnemies()) > 0 {
				t.LastSpecial = now
				s.bombard(id, t, sp, &res)
			}
		case *defs.Bribe:
			if now >= t.LastSpecial+sp.Interval {
				t.LastSpecial = now
				s.bribe(id, t, sp, &res)
			}
		case *defs.PassThroughExploder:
			if now >= t.LastSpecial+sp.Interval {
				if target := s.targeting.Best(t); target != 0 {
					t.LastSpecial = now
					s.launchExploder(id, t, target, sp, &res)
				}
			}
		case *defs.SelfDestruct:
			s.checkSelfDestruct(id, t, sp, &res)
		case *defs.Walkover:
			s.walkover(id, t, sp, now)
		}
		return true
	})
	return res
}

func (s *TowerSystem) updateSelfBuffs(t *component.Tower, now float64) {
	if t.BerserkActive && now >= t.BerserkUntil {
		t.BerserkActive = false
		t.BerserkMult = 1
	}
	switch sp := t.Def.Special.(type) {
	case *defs.Rampage:
		if t.RampageStacks > 0 && now-t.RampageLastHit >= sp.DecayDuration {
			t.RampageStacks = 0
		}
	case *defs.Gattling:
		if t.GattlingSpinning && now-t.GattlingLastAttack > sp.DecayTime+s.EffectiveInterval(t) {
			t.GattlingSpinning = false
			t.GattlingLevel = 0
		}
	}
}

func (s *TowerSystem) continueSalvo(id types.EntityID, t *component.Tower, res *Result) {
	sp, ok := t.Def.Special.(*defs.Salvo)
	target, alive := s.ecs.Enemies.Get(t.SalvoTarget)
	if !ok || !alive || !target.Alive() {
		t.SalvoRemaining = 0
		t.SalvoTarget = 0
		return
	}
	s.shoot(id, t, t.SalvoTarget, target, res)
	t.SalvoRemaining--
	t.SalvoNext += sp.Interval
}

func (s *TowerSystem) bombard(id types.EntityID, t *component.Tower, sp *defs.Bombardment, res *Result) {
	x, y := s.rng.PointInCircle(t.X, t.Y, sp.Radius)
	for _, eid := range enemiesWithin(s.ecs, t.Def, x, y, sp.StrikeRadius) {
		e, _ := s.ecs.Enemies.Get(eid)
		s.combat.ApplyDamage(e, Hit{Base: sp.Damage, Type: t.Def.DamageType, BonusMult: t.Stats.DamageMult(), SourceID: id})
	}
	res.visual(event.EffectEvent{Kind: event.EffectBombardment, X: x, Y: y, Radius: sp.StrikeRadius, Duration: 0.5})
}

func (s *TowerSystem) bribe(id types.EntityID, t *component.Tower, sp *defs.Bribe, res *Result) {
	if !s.rng.Chance(sp.Chance) || s.ecs.Money < sp.Cost {
		return
	}
	radius := t.Def.Range
	if radius <= 0 {
		radius = math.Inf(1)
	}
	target := closestEnemy(s.ecs, t.X, t.Y, radius, func(_ types.EntityID, e *component.Enemy) bool {
		return !sp.Excluded.Contains(e.DefID) && ValidTarget(t.Def, e)
	})
	if target == 0 {
		return
	}
	e, _ := s.ecs.Enemies.Get(target)
	e.Health = 0
	e.Dead = true
	res.addGold(-sp.Cost, "bribe")
	res.visual(event.EffectEvent{Kind: event.EffectBribe, X: e.X, Y: e.Y, X2: t.X, Y2: t.Y, Duration: 0.6})
	s.logger.Debug().Uint64("tower", uint64(id)).Str("enemy", e.DefID).Msg("bribed enemy")
}

func (s *TowerSystem) launchExploder(id types.EntityID, t *component.Tower, target types.EntityID, sp *defs.PassThroughExploder, res *Result) {
	e, _ := s.ecs.Enemies.Get(target)
	ux, uy := utils.Normalize(e.X-t.X, e.Y-t.Y)
	speed := sp.Speed
	if speed <= 0 {
		speed = config.DefaultProjectileSpeed
	}
	dmg, crit := s.shotDamage(t, e)
	mult := sp.ExplosionDamageMultiplier
	if mult <= 0 {
		mult = 1
	}
	res.Projectiles = append(res.Projectiles, &component.Projectile{
		Kind:            component.PassThrough,
		X:               t.X,
		Y:               t.Y,
		VX:              ux * speed,
		VY:              uy * speed,
		Speed:           speed,
		Damage:          dmg,
		DamageType:      t.Def.DamageType,
		SourceID:        id,
		Def:             t.Def,
		Hit:             &t.Def.Hit,
		Crit:            crit,
		AirMult:         t.Stats.AirDamageMult,
		DotAmp:          t.Stats.DotAmp,
		MaxDistance:     sp.TravelDistance,
		ExplosionRadius: sp.ExplosionRadius,
		ExplosionMult:   mult,
		PassCooldown:    sp.PassCooldown,
		PassHits:        make(map[types.EntityID]float64),
		AssetID:         t.Def.ProjectileAssetID,
	})
}

func (s *TowerSystem) checkSelfDestruct(id types.EntityID, t *component.Tower, sp *defs.SelfDestruct, res *Result) {
	if len(enemiesWithin(s.ecs, t.Def, t.X, t.Y, sp.TriggerRadius)) == 0 {
		return
	}
	for _, eid := range enemiesWithin(s.ecs, t.Def, t.X, t.Y, sp.ExplosionRadius) {
		e, _ := s.ecs.Enemies.Get(eid)
		s.combat.ApplyDamage(e, Hit{Base: sp.Damage, Type: t.Def.DamageType, BonusMult: t.Stats.DamageMult(), SourceID: id})
	}
	res.SelfDestruct = append(res.SelfDestruct, id)
	res.visual(event.EffectEvent{Kind: event.EffectExplosion, X: t.X, Y: t.Y, Radius: sp.ExplosionRadius, Duration: 0.5})
}

func (s *TowerSystem) walkover(id types.EntityID, t *component.Tower, sp *defs.Walkover, now float64) {
	s.ecs.Enemies.Each(func(eid types.EntityID, e *component.Enemy) bool {
		if !ValidTarget(t.Def, e) || e.IsAir() || !t.Contains(e.X, e.Y, config.CellSize) {
			return true
		}
		if last, hit := t.WalkoverHits[eid]; hit && now-last < sp.Cooldown {
			return true
		}
		t.WalkoverHits[eid] = now
		s.combat.ApplyDamage(e, Hit{Base: sp.Damage, Type: t.Def.DamageType, BonusMult: t.Stats.DamageMult(), SourceID: id})
		if e.Alive() && sp.StunDuration > 0 {
			ApplyStatus(e, component.StatusStun, sp.StunDuration, 0, now)
		}
		return true
	})
	for eid := range t.WalkoverHits {
		if _, ok := s.ecs.Enemies.Get(eid); !ok {
			delete(t.WalkoverHits, eid)
		}
	}
}
