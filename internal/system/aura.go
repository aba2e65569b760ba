// internal/system/aura.go
package system

import (
	"math"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
)

// AuraEntry is one source in an aura index.
type AuraEntry struct {
	SourceID types.EntityID
	RadiusSq float64
	Special  defs.Special
}

// AuraSystem rebuilds the tower-buff index and the enemy-aura list once per
// tick, then applies them. Both indexes are read-only for the rest of the tick.
type AuraSystem struct {
	ecs    *entity.ECS
	combat *CombatSystem
	rng    *utils.PRNGService

	TowerBuffs []AuraEntry
	EnemyAuras []AuraEntry
}

func NewAuraSystem(ecs *entity.ECS, combat *CombatSystem, rng *utils.PRNGService) *AuraSystem {
	return &AuraSystem{ecs: ecs, combat: combat, rng: rng}
}

// Update runs the aura resolution step.
func (s *AuraSystem) Update(deltaTime float64) Result {
	var res Result
	s.rebuild()
	s.pulseTowerAuras(&res)
	s.applyTowerBuffs()
	s.applyEnemyAuras(deltaTime, &res)
	return res
}

func (s *AuraSystem) rebuild() {
	s.TowerBuffs = s.TowerBuffs[:0]
	s.EnemyAuras = s.EnemyAuras[:0]
	s.ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		if t.Destroyed || t.Def.Special == nil {
			return true
		}
		var radius float64
		buff := false
		switch sp := t.Def.Special.(type) {
		case *defs.TowerBuffAura:
			radius, buff = sp.Radius, true
		case *defs.DotAmplificationAura:
			radius, buff = sp.Radius, true
		case *defs.CritPulseAura:
			radius, buff = sp.Radius, true
		case *defs.AdjacencyBuff:
			buff = true
		case *defs.ContinuousAura:
			radius = sp.Radius
		case *defs.VortexAura:
			radius = sp.Radius
		case *defs.ArmorReductionAura:
			radius = sp.Radius
		case *defs.PulseAura:
			radius = sp.Radius
		default:
			return true
		}
		entry := AuraEntry{SourceID: id, RadiusSq: radius * radius, Special: t.Def.Special}
		if buff {
			s.TowerBuffs = append(s.TowerBuffs, entry)
		} else {
			s.EnemyAuras = append(s.EnemyAuras, entry)
		}
		return true
	})
}

func (s *AuraSystem) pulseTowerAuras(res *Result) {
	now := s.ecs.GameTime
	for _, a := range s.TowerBuffs {
		sp, ok := a.Special.(*defs.CritPulseAura)
		if !ok {
			continue
		}
		src, ok := s.ecs.Towers.Get(a.SourceID)
		if !ok || now < src.LastPulse+sp.Interval {
			continue
		}
		src.LastPulse = now
		s.ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
			if id != a.SourceID && !t.Destroyed && utils.DistanceSq(src.X, src.Y, t.X, t.Y) <= a.RadiusSq {
				t.CritBuff = component.CritBuff{
					Until:      now + sp.Duration,
					Chance:     sp.CritChanceBonus,
					Multiplier: sp.CritMultiplierBonus,
				}
			}
			return true
		})
		res.visual(event.EffectEvent{Kind: event.EffectPulse, X: src.X, Y: src.Y, Radius: sp.Radius, Duration: 0.3})
	}
}

// BaseStats returns the unbuffed stats of a tower.
func BaseStats(def *defs.TowerDefinition) component.TowerStats {
	return component.TowerStats{
		CritChance:    def.CriticalChance,
		CritMult:      def.CriticalMultiplier,
		SplashRadius:  def.SplashRadius,
		AirDamageMult: 1,
		DotAmp:        1,
	}
}

func (s *AuraSystem) applyTowerBuffs() {
	now := s.ecs.GameTime
	s.ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		st := BaseStats(t.Def)
		for _, a := range s.TowerBuffs {
			if a.SourceID == id {
				continue
			}
			src, ok := s.ecs.Towers.Get(a.SourceID)
			if !ok || src.Destroyed {
				continue
			}
			switch sp := a.Special.(type) {
			case *defs.AdjacencyBuff:
				if !SharesEdge(src, t) {
					continue
				}
				st.DamageBonus += sp.DamageBonus
				st.SpeedBonus += sp.SpeedBonus
			case *defs.TowerBuffAura:
				if utils.DistanceSq(src.X, src.Y, t.X, t.Y) > a.RadiusSq {
					continue
				}
				st.SpeedBonus += sp.AttackSpeedBonus
				st.DamageBonus += sp.DamageBonus
				st.CritChance += sp.CritChanceBonus
				st.CritMult += sp.CritMultiplierBonus
				st.SplashRadius += sp.SplashRadiusBonus
				if sp.AirDamageMultiplier > 0 {
					st.AirDamageMult *= sp.AirDamageMultiplier
				}
			case *defs.DotAmplificationAura:
				if utils.DistanceSq(src.X, src.Y, t.X, t.Y) > a.RadiusSq {
					continue
				}
				st.DotAmp = math.Max(st.DotAmp, sp.Multiplier)
			default:
				continue
			}
			st.AuraNames = appendName(st.AuraNames, string(a.Special.Effect()))
		}
		if t.CritBuff.Until > now {
			st.CritChance += t.CritBuff.Chance
			st.CritMult += t.CritBuff.Multiplier
			st.AuraNames = appendName(st.AuraNames, string(defs.EffectCritPulseAura))
		}
		t.Stats = st
		return true
	})
}

func appendName(names []string, n string) []string {
	for _, have := range names {
		if have == n {
			return names
		}
	}
	return append(names, n)
}

// SharesEdge reports whether two footprints touch along an edge, not just a corner.
func SharesEdge(a, b *component.Tower) bool {
	ax0, ay0 := a.GridX, a.GridY
	ax1, ay1 := ax0+a.Def.GridWidth, ay0+a.Def.GridHeight
	bx0, by0 := b.GridX, b.GridY
	bx1, by1 := bx0+b.Def.GridWidth, by0+b.Def.GridHeight

	// Overlap after growing a by one cell in every direction.
	if bx0 > ax1 || bx1 < ax0 || by0 > ay1 || by1 < ay0 {
		return false
	}
	overlapX := minInt(ax1, bx1) - maxInt(ax0, bx0)
	overlapY := minInt(ay1, by1) - maxInt(ay0, by0)
	if (ax1 == bx0 || bx1 == ax0) && overlapY > 0 {
		return true
	}
	if (ay1 == by0 || by1 == ay0) && overlapX > 0 {
		return true
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *AuraSystem) applyEnemyAuras(deltaTime float64, res *Result) {
	now := s.ecs.GameTime
	s.ecs.Enemies.Each(func(_ types.EntityID, e *component.Enemy) bool {
		e.AuraArmorReduction = 0
		return true
	})
	// Armor reduction first so that this tick's damage sees it.
	for _, a := range s.EnemyAuras {
		sp, ok := a.Special.(*defs.ArmorReductionAura)
		if !ok {
			continue
		}
		src, ok := s.ecs.Towers.Get(a.SourceID)
		if !ok {
			continue
		}
		s.eachInAura(src, a, func(e *component.Enemy) {
			if sp.Amount > e.AuraArmorReduction {
				e.AuraArmorReduction = sp.Amount
			}
		})
	}

	for _, a := range s.EnemyAuras {
		src, ok := s.ecs.Towers.Get(a.SourceID)
		if !ok {
			continue
		}
		switch sp := a.Special.(type) {
		case *defs.ContinuousAura:
			s.continuous(src, a, sp, deltaTime, now)
		case *defs.VortexAura:
			s.vortex(src, a, sp, now)
		case *defs.PulseAura:
			if now < src.LastPulse+sp.Interval {
				continue
			}
			src.LastPulse = now
			s.pulse(src, a, sp, now)
			res.visual(event.EffectEvent{Kind: event.EffectPulse, X: src.X, Y: src.Y, Radius: sp.Radius, Duration: 0.3})
		}
	}
}

func (s *AuraSystem) eachInAura(src *component.Tower, a AuraEntry, fn func(e *component.Enemy)) {
	s.ecs.Enemies.Each(func(_ types.EntityID, e *component.Enemy) bool {
		if ValidTarget(src.Def, e) && utils.DistanceSq(src.X, src.Y, e.X, e.Y) <= a.RadiusSq {
			fn(e)
		}
		return true
	})
}

func (s *AuraSystem) continuous(src *component.Tower, a AuraEntry, sp *defs.ContinuousAura, deltaTime, now float64) {
	s.eachInAura(src, a, func(e *component.Enemy) {
		if sp.DotDamage > 0 && sp.DotInterval > 0 {
			s.combat.ApplyDamage(e, Hit{
				Base:      sp.DotDamage / sp.DotInterval * deltaTime,
				Type:      src.Def.DamageType,
				BonusMult: src.Stats.DamageMult(),
				SourceID:  a.SourceID,
			})
		}
		if !e.Alive() {
			return
		}
		if sp.SlowMultiplier > 0 && sp.SlowMultiplier < 1 {
			ApplyStatus(e, "slow_aura", config.ContinuousAuraSlowDuration, sp.SlowMultiplier, now)
		}
		if sp.StunChance > 0 && sp.StunDuration > 0 && s.rng.Chance(sp.StunChance*deltaTime) {
			ApplyStatus(e, component.StatusStun, sp.StunDuration, 0, now)
		}
	})
}

func (s *AuraSystem) vortex(src *component.Tower, a AuraEntry, sp *defs.VortexAura, now float64) {
	radius := math.Sqrt(a.RadiusSq)
	tick := now >= src.LastSpecial+sp.TickInterval
	if tick {
		src.LastSpecial = now
	}
	s.eachInAura(src, a, func(e *component.Enemy) {
		if tick && radius > 0 {
			frac := utils.Clamp(utils.Distance(src.X, src.Y, e.X, e.Y)/radius, 0, 1)
			s.combat.ApplyDamage(e, Hit{
				Base:      utils.Lerp(sp.MaxDamageAtCenter, sp.MinDamageAtEdge, frac),
				Type:      src.Def.DamageType,
				BonusMult: src.Stats.DamageMult(),
				SourceID:  a.SourceID,
			})
		}
		if e.Alive() && sp.SlowMultiplier > 0 && sp.SlowMultiplier < 1 {
			ApplyStatus(e, "slow_vortex", config.ContinuousAuraSlowDuration, sp.SlowMultiplier, now)
		}
	})
}

func (s *AuraSystem) pulse(src *component.Tower, a AuraEntry, sp *defs.PulseAura, now float64) {
	s.eachInAura(src, a, func(e *component.Enemy) {
		if sp.Damage > 0 {
			s.combat.ApplyDamage(e, Hit{Base: sp.Damage, Type: src.Def.DamageType, BonusMult: src.Stats.DamageMult(), SourceID: a.SourceID})
		}
		if !e.Alive() {
			return
		}
		switch sp.Kind {
		case defs.EffectSlowPulseAura:
			if sp.SlowMultiplier > 0 {
				ApplyStatus(e, "slow_pulse", sp.Duration, sp.SlowMultiplier, now)
			}
		case defs.EffectStunPulseAura:
			chance := sp.StunChance
			if chance == 0 {
				chance = 1
			}
			if s.rng.Chance(chance) {
				ApplyStatus(e, component.StatusStun, sp.Duration, 0, now)
			}
		case defs.EffectBonechillPulseAura:
			ApplyStatus(e, component.StatusBonechill, sp.Duration, 0, now)
		case defs.EffectDotPulseAura:
			ApplyDot(e, "dot_pulse", sp.DotDamage*src.Stats.DotAmp, sp.DotInterval, sp.DotDuration, src.Def.DamageType, a.SourceID, now)
		}
	})
}
