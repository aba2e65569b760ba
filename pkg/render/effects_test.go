package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camerensmith/supermaultd/internal/event"
)

func TestEffectTrackerAgesAndExpires(t *testing.T) {
	tr := NewEffectTracker(0)
	tr.OnEvent(event.Event{Type: event.Effect, Data: event.EffectEvent{Kind: event.EffectHit}})
	tr.OnEvent(event.Event{Type: event.Effect, Data: event.EffectEvent{Kind: event.EffectExplosion, Duration: 1}})
	tr.OnEvent(event.Event{Type: event.GoldChanged, Data: event.GoldDelta{Delta: 5}})
	assert.Equal(t, 2, tr.Len())

	tr.Update(0.5)
	assert.Equal(t, 1, tr.Len(), "default lifetime effect should have expired")
	assert.InDelta(t, 0.5, tr.effects[0].Progress(), 1e-9)

	tr.Update(0.5)
	assert.Zero(t, tr.Len())
}

func TestEffectTrackerKeepsNewest(t *testing.T) {
	tr := NewEffectTracker(2)
	for i := 0; i < 4; i++ {
		tr.OnEvent(event.Event{Type: event.Effect, Data: event.EffectEvent{Kind: event.EffectHit, X: float64(i)}})
	}
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 2.0, tr.effects[0].X)
	assert.Equal(t, 3.0, tr.effects[1].X)

	tr.Clear()
	assert.Zero(t, tr.Len())
}

func TestDarkenColorKeepsAlpha(t *testing.T) {
	c := DarkenColor(DefaultPalette().ObjectiveColor)
	assert.Equal(t, uint8(100), c.R)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, TowerColor("gun"), TowerColor("gun"))
}
