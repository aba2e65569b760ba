package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camerensmith/supermaultd/internal/component"
)

func TestApplyStatusLaterApplicationWins(t *testing.T) {
	e := &component.Enemy{}
	ApplyStatus(e, component.StatusStun, 2, 0, 1)
	ApplyStatus(e, component.StatusStun, 0.5, 0, 1)
	assert.Equal(t, 1.5, e.Statuses[component.StatusStun].EndTime)
}

func TestDeriveSpeed(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]*component.Status
		want     float64
	}{
		{"no statuses", nil, 100},
		{"strongest slow wins", map[string]*component.Status{
			"slow_aura": {EndTime: 5, Value: 0.5},
			"slow_zone": {EndTime: 5, Value: 0.7},
		}, 50},
		{"expired slow ignored", map[string]*component.Status{
			"slow_aura": {EndTime: 0.5, Value: 0.5},
		}, 100},
		{"stun stops", map[string]*component.Status{
			component.StatusStun: {EndTime: 5},
			"slow_aura":          {EndTime: 5, Value: 0.5},
		}, 0},
		{"tags do not slow", map[string]*component.Status{
			component.StatusBonechill: {EndTime: 5, Value: 1},
		}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &component.Enemy{BaseSpeed: 100, Statuses: tt.statuses}
			assert.InDelta(t, tt.want, DeriveSpeed(e, 1), 1e-9)
		})
	}
}

func TestDotTicksUntilExpiry(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 100)
	ApplyDot(e, "burn", 5, 1, 3, "fire", 0, 0)

	for _, now := range []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4} {
		w.ecs.GameTime = now
		w.status.Update(e)
	}
	assert.InDelta(t, 85, e.Health, 1e-9)
	assert.Empty(t, e.Dots)
}

func TestDotRefreshKeepsSchedule(t *testing.T) {
	e := &component.Enemy{}
	ApplyDot(e, "burn", 5, 1, 3, "fire", 0, 0)
	ApplyDot(e, "burn", 8, 1, 3, "fire", 0, 0.5)

	require.Contains(t, e.Dots, "burn")
	d := e.Dots["burn"]
	assert.Equal(t, 1.0, d.NextTick)
	assert.Equal(t, 3.5, d.EndTime)
	assert.Equal(t, 8.0, d.Damage)
}

func TestDotTicksOncePerUpdate(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 100)
	ApplyDot(e, "burn", 5, 0.1, 10, "fire", 0, 0)

	w.ecs.GameTime = 2
	w.status.Update(e)
	assert.InDelta(t, 95, e.Health, 1e-9)
	assert.GreaterOrEqual(t, e.Dots["burn"].NextTick, 2-0.1)
}

func TestStatusUpdateExpiresAndSetsSpeed(t *testing.T) {
	w := newWorld(t)
	_, e := w.enemy(100, 100, 100)
	e.BaseSpeed = 48
	ApplyStatus(e, "slow_aura", 1, 0.5, 0)

	w.ecs.GameTime = 0.5
	w.status.Update(e)
	assert.InDelta(t, 24, e.Speed, 1e-9)

	w.ecs.GameTime = 1.5
	w.status.Update(e)
	assert.InDelta(t, 48, e.Speed, 1e-9)
	assert.Empty(t, e.Statuses)
}
