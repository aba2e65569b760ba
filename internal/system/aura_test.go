package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/defs"
)

func auraDef(t *testing.T, id string, sp defs.Special) *defs.TowerDefinition {
	return towerDef(t, id, func(d *defs.TowerDefinition) {
		d.AttackType = defs.AttackAura
		d.DamageMin, d.DamageMax = 0, 0
		d.Special = sp
	})
}

func TestArmorReductionAuraTakesMaximum(t *testing.T) {
	w := newWorld(t)
	w.tower(auraDef(t, "rot_small", &defs.ArmorReductionAura{Radius: 200, Amount: 3}), 10, 10)
	w.tower(auraDef(t, "rot_big", &defs.ArmorReductionAura{Radius: 200, Amount: 5}), 12, 10)
	w.tower(auraDef(t, "rot_far", &defs.ArmorReductionAura{Radius: 10, Amount: 9}), 2, 2)
	_, e := w.enemy(11*32, 11*32, 100)

	w.auras.Update(0.1)
	assert.Equal(t, 5.0, e.AuraArmorReduction)

	e.X, e.Y = 25*32, 25*32
	w.auras.Update(0.1)
	assert.Zero(t, e.AuraArmorReduction)
}

func TestSharesEdge(t *testing.T) {
	one := towerDef(t, "one", nil)
	two := towerDef(t, "two", func(d *defs.TowerDefinition) { d.GridWidth, d.GridHeight = 2, 2 })
	at := func(def *defs.TowerDefinition, x, y int) *component.Tower {
		return &component.Tower{Def: def, GridX: x, GridY: y}
	}
	tests := []struct {
		name string
		a, b *component.Tower
		want bool
	}{
		{"horizontal", at(one, 0, 0), at(one, 1, 0), true},
		{"vertical", at(one, 0, 0), at(one, 0, 1), true},
		{"corner only", at(one, 0, 0), at(one, 1, 1), false},
		{"gap", at(one, 0, 0), at(one, 2, 0), false},
		{"big beside small", at(two, 0, 0), at(one, 2, 1), true},
		{"big corner", at(two, 0, 0), at(one, 2, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SharesEdge(tt.a, tt.b))
			assert.Equal(t, tt.want, SharesEdge(tt.b, tt.a))
		})
	}
}

func TestTowerBuffsStack(t *testing.T) {
	w := newWorld(t)
	w.tower(auraDef(t, "anvil", &defs.AdjacencyBuff{DamageBonus: 0.2, SpeedBonus: 0.1}), 10, 10)
	w.tower(auraDef(t, "command", &defs.TowerBuffAura{Radius: 300, DamageBonus: 0.3, CritChanceBonus: 0.1}), 14, 12)
	w.tower(auraDef(t, "heart", &defs.DotAmplificationAura{Radius: 300, Multiplier: 1.5}), 20, 10)
	_, gun := w.tower(towerDef(t, "gun", nil), 11, 10)
	_, far := w.tower(towerDef(t, "far_gun", nil), 2, 24)

	w.auras.Update(0.1)
	assert.InDelta(t, 1.5, gun.Stats.DamageMult(), 1e-9)
	assert.InDelta(t, 0.1, gun.Stats.SpeedBonus, 1e-9)
	assert.InDelta(t, 0.1, gun.Stats.CritChance, 1e-9)
	assert.Equal(t, 1.5, gun.Stats.DotAmp)
	assert.ElementsMatch(t, []string{"adjacency_buff", "tower_buff_aura", "dot_amplification_aura"}, gun.Stats.AuraNames)

	assert.Equal(t, 1.0, far.Stats.DamageMult())
	assert.Empty(t, far.Stats.AuraNames)
}

func TestSlowAuraAppliesWhileInside(t *testing.T) {
	w := newWorld(t)
	w.tower(auraDef(t, "frost", &defs.ContinuousAura{Kind: defs.EffectSlowAura, Radius: 100, SlowMultiplier: 0.5}), 10, 10)
	_, e := w.enemy(10*32+16, 10*32+60, 100)

	w.auras.Update(0.1)
	st, ok := e.Statuses["slow_aura"]
	if assert.True(t, ok) {
		assert.Equal(t, 0.5, st.Value)
	}
	assert.InDelta(t, 100, e.Health, 1e-9)
}

func TestPulseAuraRespectsInterval(t *testing.T) {
	w := newWorld(t)
	w.tower(auraDef(t, "nova", &defs.PulseAura{Kind: defs.EffectDamagePulseAura, Radius: 100, Interval: 1, Damage: 10}), 10, 10)
	_, e := w.enemy(10*32+16, 10*32+16, 100)

	for i := 0; i < 10; i++ {
		w.ecs.GameTime += 0.25
		w.auras.Update(0.25)
	}
	assert.InDelta(t, 80, e.Health, 1e-9)
}

func TestVortexDamageFallsOffToEdge(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		want   float64
	}{
		{"centre", 0, 80},
		{"halfway", 50, 88},
		{"edge", 100, 96},
		{"outside", 101, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			_, src := w.tower(auraDef(t, "maelstrom", &defs.VortexAura{Radius: 100, MaxDamageAtCenter: 20, MinDamageAtEdge: 4, TickInterval: 1}), 10, 10)
			_, e := w.enemy(src.X+tt.offset, src.Y, 100)

			w.ecs.GameTime = 1
			w.auras.Update(0.1)
			assert.InDelta(t, tt.want, e.Health, 1e-9)

			// No second tick before the interval passes.
			w.ecs.GameTime = 1.5
			w.auras.Update(0.1)
			assert.InDelta(t, tt.want, e.Health, 1e-9)
		})
	}
}

func TestDotAmplificationTakesStrongest(t *testing.T) {
	tests := []struct {
		name  string
		mults []float64
		want  float64
	}{
		{"none", nil, 1},
		{"single", []float64{1.5}, 1.5},
		{"overlap keeps max", []float64{1.5, 2.5}, 2.5},
		{"order does not matter", []float64{2.5, 1.5}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			for i, m := range tt.mults {
				w.tower(auraDef(t, "heart", &defs.DotAmplificationAura{Radius: 300, Multiplier: m}), 12+2*i, 12)
			}
			_, gun := w.tower(towerDef(t, "gun", nil), 10, 10)

			w.auras.Update(0.1)
			assert.Equal(t, tt.want, gun.Stats.DotAmp)
		})
	}
}
