package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/defs"
)

func TestToRoman(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, ""},
		{1, "I"},
		{4, "IV"},
		{9, "IX"},
		{10, "X"},
		{14, "XIV"},
		{40, "XL"},
		{1994, "MCMXCIV"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToRoman(tt.in), "ToRoman(%d)", tt.in)
	}
}

func TestTowerLines(t *testing.T) {
	def := &defs.TowerDefinition{
		Name: "Repeater", Race: "forge", Cost: 25, DamageMin: 10, DamageMax: 12,
		AttackInterval: 2, Range: 220, DamageType: "pierce",
		Special: &defs.Salvo{Count: 4, Interval: 0.1},
	}
	tw := &component.Tower{Def: def, Stats: component.TowerStats{DamageBonus: 0.2, AuraNames: []string{"adjacency_buff"}}}

	lines := TowerLines(tw)
	assert.Equal(t, []string{
		"Repeater (forge)",
		"Damage 10-12 pierce  every 2.00s  range 220",
		"Cost 25  refund 12",
		"Special: salvo_attack",
		"Buffs: adjacency_buff  (damage x1.20)",
	}, lines)
}

func TestStateColorDistinguishesPhases(t *testing.T) {
	seen := map[[4]uint8]component.WaveState{}
	for _, s := range []component.WaveState{component.WaveIdle, component.WaveWaiting, component.WaveSpawning, component.WaveIntermission, component.WaveAllDone} {
		c := StateColor(s)
		key := [4]uint8{c.R, c.G, c.B, c.A}
		_, dup := seen[key]
		assert.False(t, dup, "state %s shares a colour", s)
		seen[key] = s
	}
}

func TestStateIndicatorHitTest(t *testing.T) {
	i := NewStateIndicator(100, 100, 10)
	assert.True(t, i.IsClicked(105, 105))
	assert.False(t, i.IsClicked(112, 100))
}
