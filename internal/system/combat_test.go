package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/defs"
)

func TestArmorMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		armor float64
		want  float64
	}{
		{"zero", 0, 1},
		{"positive", 10, 1 / 1.6},
		{"fortified", 20, 1 / 2.2},
		{"negative", -5, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ArmorMultiplier(tt.armor), 1e-9)
		})
	}
}

func TestApplyDamageArmorMath(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 500)
	e.ArmorType = "Fortified"
	e.Armor = 20

	out := w.combat.ApplyDamage(e, Hit{Base: 100, Type: "normal"})
	assert.InDelta(t, 31.82, out.Dealt, 0.01)
	assert.False(t, out.Killed)
	assert.InDelta(t, 500-31.818, e.Health, 0.01)
}

func TestApplyDamageKillsAndPaysBounty(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 5)

	out := w.combat.ApplyDamage(e, Hit{Base: 20, Type: "normal", Mods: &defs.HitModifiers{BountyGold: 3}, SourceID: 9})
	assert.True(t, out.Killed)
	assert.True(t, out.Bounty)
	assert.True(t, e.Dead)
	assert.Equal(t, 0.0, e.Health)
	assert.Equal(t, 3, e.PendingGold)

	again := w.combat.ApplyDamage(e, Hit{Base: 20, Type: "normal"})
	assert.Zero(t, again.Dealt, "dead enemies take no damage")
}

func TestApplyDamageIgnoresArmor(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 500)
	e.Armor = 10

	w.combat.ApplyDamage(e, Hit{Base: 50, Type: "normal", Mods: &defs.HitModifiers{IgnoreArmorOnHit: 10}})
	assert.InDelta(t, 450, e.Health, 1e-9)

	e.AuraArmorReduction = 20
	w.combat.ApplyDamage(e, Hit{Base: 50, Type: "normal"})
	assert.InDelta(t, 450-50*1.6, e.Health, 1e-9)
}

func TestShatterConsumesMark(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 500)
	ApplyStatus(e, "frost_mark", 5, 1, 0)
	mods := &defs.HitModifiers{ShatterStatus: "frost_mark", ShatterMultiplier: 3}

	w.combat.ApplyDamage(e, Hit{Base: 10, Type: "normal", Mods: mods})
	assert.InDelta(t, 470, e.Health, 1e-9)
	assert.NotContains(t, e.Statuses, "frost_mark")

	w.combat.ApplyDamage(e, Hit{Base: 10, Type: "normal", Mods: mods})
	assert.InDelta(t, 460, e.Health, 1e-9)
}

func TestApplyOnHit(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 100)
	mods := &defs.HitModifiers{
		ArmorReductionOnHit: 2,
		BashChance:          1,
		BashDuration:        0.5,
		MaxHPReduction:      0.5,
		MarkStatus:          "frost_mark",
		MarkDuration:        4,
	}

	w.combat.ApplyOnHit(e, mods, 1)
	assert.Equal(t, -2.0, e.Armor)
	assert.True(t, IsStunned(e, 1.2))
	assert.False(t, IsStunned(e, 1.6))
	assert.Equal(t, 50.0, e.MaxHealth)
	assert.Equal(t, 50.0, e.Health)
	require.Contains(t, e.Statuses, "frost_mark")
	assert.Equal(t, 5.0, e.Statuses["frost_mark"].EndTime)
}

func TestMaxHPReductionKeepsOneHitPoint(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 1.5)
	for i := 0; i < 5; i++ {
		w.combat.ApplyOnHit(e, &defs.HitModifiers{MaxHPReduction: 0.9}, 0)
	}
	assert.Equal(t, 1.0, e.MaxHealth)
	assert.Equal(t, 1.0, e.Health)
	assert.True(t, e.Alive())
}

func TestValidTarget(t *testing.T) {
	ground := towerDef(t, "ground_only", func(d *defs.TowerDefinition) {
		d.Targets = defs.StringList{"ground"}
		d.TargetArmorType = defs.StringList{"Fortified"}
	})
	tests := []struct {
		name  string
		enemy component.Enemy
		want  bool
	}{
		{"matching", component.Enemy{Type: defs.TargetGround, ArmorType: "Fortified", Health: 1}, true},
		{"wrong armor", component.Enemy{Type: defs.TargetGround, ArmorType: "Light", Health: 1}, false},
		{"air", component.Enemy{Type: defs.TargetAir, ArmorType: "Fortified", Health: 1}, false},
		{"dead", component.Enemy{Type: defs.TargetGround, ArmorType: "Fortified", Dead: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.enemy
			assert.Equal(t, tt.want, ValidTarget(ground, &e))
		})
	}
}
