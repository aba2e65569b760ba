package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/types"
)

func TestSelectByPriority(t *testing.T) {
	tests := []struct {
		mode defs.TargetMode
		want int // index into the spawned enemies
	}{
		{defs.TargetClosest, 0},
		{defs.TargetFurthest, 2},
		{defs.TargetHighestHealth, 0},
		{defs.TargetLowestHealth, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			w := newWorld(t)
			def := towerDef(t, "picker", func(d *defs.TowerDefinition) { d.TargetPriority = tt.mode })
			_, tw := w.tower(def, 10, 10)

			var ids []types.EntityID
			for i, hp := range []float64{30, 10, 20} {
				id, _ := w.enemy(tw.X+50*float64(i+1), tw.Y, hp)
				ids = append(ids, id)
			}
			assert.Equal(t, ids[tt.want], w.targeting.Best(tw))
		})
	}
}

func TestSelectHonoursRangeAndFilters(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "ground_gun", func(d *defs.TowerDefinition) {
		d.Targets = defs.StringList{"ground"}
		d.RangeMin = 40
		d.Range = 150
	})
	_, tw := w.tower(def, 10, 10)

	w.enemy(tw.X+20, tw.Y, 10)  // inside the minimum range
	w.enemy(tw.X+200, tw.Y, 10) // out of range
	_, air := w.enemy(tw.X+60, tw.Y, 10)
	air.Type = defs.TargetAir
	want, _ := w.enemy(tw.X+100, tw.Y, 10)

	got := w.targeting.Select(tw, 5)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
	assert.True(t, w.targeting.HasTarget(tw))
}

func TestSelectTiesKeepSpawnOrder(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "tied", func(d *defs.TowerDefinition) { d.TargetPriority = defs.TargetHighestHealth })
	_, tw := w.tower(def, 10, 10)
	first, _ := w.enemy(tw.X+10, tw.Y, 50)
	second, _ := w.enemy(tw.X-10, tw.Y, 50)

	assert.Equal(t, []types.EntityID{first, second}, w.targeting.Select(tw, 2))
}

func TestSelectRandomIsDeterministicPerSeed(t *testing.T) {
	pick := func() []types.EntityID {
		w := newWorld(t)
		def := towerDef(t, "dice", func(d *defs.TowerDefinition) { d.TargetPriority = defs.TargetRandom })
		_, tw := w.tower(def, 10, 10)
		for i := 0; i < 6; i++ {
			w.enemy(tw.X+float64(i*10), tw.Y, 10)
		}
		return w.targeting.Select(tw, 6)
	}
	a, b := pick(), pick()
	assert.Len(t, a, 6)
	assert.Equal(t, a, b)
}
