// pkg/render/effects.go
package render

import (
	"github.com/camerensmith/supermaultd/internal/event"
)

const defaultEffectLifetime = 0.25

// activeEffect is a visual descriptor with its age.
type activeEffect struct {
	event.EffectEvent
	Age      float64
	Lifetime float64
}

// Progress is the fraction of the lifetime already shown, in [0, 1].
func (e activeEffect) Progress() float64 {
	if e.Lifetime <= 0 {
		return 1
	}
	p := e.Age / e.Lifetime
	if p > 1 {
		p = 1
	}
	return p
}

// EffectTracker collects Effect events from the dispatcher and ages them
// for drawing. The oldest effects are dropped once Max is reached.
type EffectTracker struct {
	Max     int
	effects []activeEffect
}

func NewEffectTracker(max int) *EffectTracker {
	return &EffectTracker{Max: max}
}

func (t *EffectTracker) OnEvent(e event.Event) {
	fx, ok := e.Data.(event.EffectEvent)
	if !ok {
		return
	}
	life := fx.Duration
	if life <= 0 {
		life = defaultEffectLifetime
	}
	t.effects = append(t.effects, activeEffect{EffectEvent: fx, Lifetime: life})
	if t.Max > 0 && len(t.effects) > t.Max {
		t.effects = t.effects[len(t.effects)-t.Max:]
	}
}

// Update ages every effect and forgets the expired ones.
func (t *EffectTracker) Update(deltaTime float64) {
	kept := t.effects[:0]
	for _, fx := range t.effects {
		fx.Age += deltaTime
		if fx.Age < fx.Lifetime {
			kept = append(kept, fx)
		}
	}
	t.effects = kept
}

func (t *EffectTracker) Len() int { return len(t.effects) }

// Clear drops every effect, for example after a restart.
func (t *EffectTracker) Clear() {
	t.effects = t.effects[:0]
}
