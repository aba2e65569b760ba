// internal/system/combat.go
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
)

// Hit is one application of damage to an enemy.
type Hit struct {
	Base        float64
	Type        defs.DamageType
	BonusMult   float64 // zero means 1
	IgnoreArmor float64
	Mods        *defs.HitModifiers
	SourceID    types.EntityID
}

// DamageOutcome is what take-damage reports back to the caller.
type DamageOutcome struct {
	Dealt       float64
	Killed      bool
	Bounty      bool
	GoldPenalty int
}

// CombatSystem owns the damage pipeline.
type CombatSystem struct {
	ecs    *entity.ECS
	armor  defs.ArmorTable
	rng    *utils.PRNGService
	logger zerolog.Logger
}

func NewCombatSystem(ecs *entity.ECS, armor defs.ArmorTable, rng *utils.PRNGService, logger zerolog.Logger) *CombatSystem {
	return &CombatSystem{ecs: ecs, armor: armor, rng: rng, logger: logger}
}

// ArmorMultiplier converts effective armor into a damage multiplier.
// Negative armor amplifies damage linearly.
func ArmorMultiplier(effectiveArmor float64) float64 {
	if effectiveArmor >= 0 {
		return 1 / (1 + config.ArmorConstant*effectiveArmor)
	}
	return 1 - config.ArmorConstant*effectiveArmor
}

// ApplyDamage runs a hit through the armor pipeline and subtracts it from the enemy.
func (s *CombatSystem) ApplyDamage(e *component.Enemy, h Hit) DamageOutcome {
	var out DamageOutcome
	if e == nil || !e.Alive() || h.Base <= 0 {
		return out
	}
	bonus := h.BonusMult
	if bonus == 0 {
		bonus = 1
	}
	ignore := h.IgnoreArmor
	if m := h.Mods; m != nil {
		ignore += m.IgnoreArmorOnHit
		if m.IgnoreArmorChance > 0 && s.rng.Chance(m.IgnoreArmorChance) {
			ignore += m.IgnoreArmorAmount
		}
		if m.ShatterStatus != "" && m.ShatterMultiplier > 0 {
			if _, marked := e.Statuses[m.ShatterStatus]; marked {
				bonus *= m.ShatterMultiplier
				delete(e.Statuses, m.ShatterStatus)
			}
		}
		out.GoldPenalty = m.GoldCostPerHit
	}
	ignore += e.AuraArmorReduction

	typeMod := s.armor.Modifier(e.ArmorType, h.Type)
	final := h.Base * typeMod * ArmorMultiplier(e.Armor-ignore) * bonus
	if final <= 0 || math.IsNaN(final) {
		return out
	}
	before := e.Health
	e.Health -= final
	if e.Health <= 0 {
		e.Health = 0
		e.Dead = true
		out.Killed = true
	}
	out.Dealt = before - e.Health
	if out.Killed && h.Mods != nil && h.Mods.BountyGold > 0 {
		e.PendingGold += h.Mods.BountyGold
		e.BountyBy = h.SourceID
		out.Bounty = true
	}
	return out
}

// ApplyOnHit applies the non-damage on-hit modifiers to the primary target.
func (s *CombatSystem) ApplyOnHit(e *component.Enemy, m *defs.HitModifiers, now float64) {
	if e == nil || m == nil || !e.Alive() {
		return
	}
	if m.ArmorReductionOnHit > 0 {
		e.Armor -= m.ArmorReductionOnHit
	}
	if m.BashChance > 0 && m.BashDuration > 0 && s.rng.Chance(m.BashChance) {
		ApplyStatus(e, component.StatusStun, m.BashDuration, 0, now)
	}
	if m.MaxHPReduction > 0 {
		e.MaxHealth = math.Max(1, e.MaxHealth*(1-m.MaxHPReduction))
		if e.Health > e.MaxHealth {
			e.Health = e.MaxHealth
		}
	}
	if m.MarkStatus != "" && m.MarkDuration > 0 {
		ApplyStatus(e, m.MarkStatus, m.MarkDuration, 1, now)
	}
}

// RollDamage draws a damage value for a tower against a target type.
func (s *CombatSystem) RollDamage(def *defs.TowerDefinition, tt defs.TargetType) float64 {
	lo, hi := def.DamageRange(tt)
	return s.rng.Range(lo, hi)
}

// RollCrit reports whether an attack crits with the tower's effective chance.
func (s *CombatSystem) RollCrit(t *component.Tower) bool {
	return s.rng.Chance(t.Stats.CritChance)
}

// ValidTarget reports whether def may hit e at all, ignoring range.
func ValidTarget(def *defs.TowerDefinition, e *component.Enemy) bool {
	if e == nil || !e.Alive() || def == nil {
		return false
	}
	if !def.CanTarget(e.Type) {
		return false
	}
	if len(def.TargetArmorType) > 0 && !def.TargetArmorType.Contains(e.ArmorType) {
		return false
	}
	return true
}

// enemiesWithin returns valid enemies within radius of (x,y), in spawn order.
func enemiesWithin(ecs *entity.ECS, def *defs.TowerDefinition, x, y, radius float64) []types.EntityID {
	var ids []types.EntityID
	r2 := radius * radius
	ecs.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if ValidTarget(def, e) && utils.DistanceSq(x, y, e.X, e.Y) <= r2 {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}
