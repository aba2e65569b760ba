// internal/system/status_effect.go
package system

import (
	"sort"
	"strings"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/types"
)

// ApplyStatus sets a status to end duration seconds from now. Reapplying
// overwrites the end time and value.
func ApplyStatus(e *component.Enemy, name string, duration, value, now float64) {
	if e.Statuses == nil {
		e.Statuses = make(map[string]*component.Status)
	}
	e.Statuses[name] = &component.Status{EndTime: now + duration, Value: value}
}

// ApplyDot starts or refreshes a DoT. A refresh keeps the tick schedule.
func ApplyDot(e *component.Enemy, name string, damage, interval, duration float64, dt defs.DamageType, source types.EntityID, now float64) {
	if damage <= 0 || interval <= 0 || duration <= 0 {
		return
	}
	if e.Dots == nil {
		e.Dots = make(map[string]*component.Dot)
	}
	if d, ok := e.Dots[name]; ok {
		d.Damage = damage
		d.Interval = interval
		d.EndTime = now + duration
		d.DamageType = dt
		d.SourceID = source
		return
	}
	e.Dots[name] = &component.Dot{
		Damage:     damage,
		Interval:   interval,
		NextTick:   now + interval,
		EndTime:    now + duration,
		DamageType: dt,
		SourceID:   source,
	}
}

// IsStunned reports an active stun.
func IsStunned(e *component.Enemy, now float64) bool {
	st, ok := e.Statuses[component.StatusStun]
	return ok && st.EndTime > now
}

// DeriveSpeed returns the enemy speed under its current statuses.
func DeriveSpeed(e *component.Enemy, now float64) float64 {
	if IsStunned(e, now) {
		return 0
	}
	mult := 1.0
	for name, st := range e.Statuses {
		if st.EndTime <= now || !strings.HasPrefix(name, component.StatusSlow) {
			continue
		}
		if st.Value < mult {
			mult = st.Value
		}
	}
	if mult < 0 {
		mult = 0
	}
	return e.BaseSpeed * mult
}

// StatusEffectSystem expires statuses and ticks DoTs.
type StatusEffectSystem struct {
	ecs    *entity.ECS
	combat *CombatSystem
}

func NewStatusEffectSystem(ecs *entity.ECS, combat *CombatSystem) *StatusEffectSystem {
	return &StatusEffectSystem{ecs: ecs, combat: combat}
}

// Update expires statuses, then ticks DoTs, then derives speed.
func (s *StatusEffectSystem) Update(e *component.Enemy) {
	now := s.ecs.GameTime
	for name, st := range e.Statuses {
		if st.EndTime <= now {
			delete(e.Statuses, name)
		}
	}
	s.tickDots(e, now)
	e.Speed = DeriveSpeed(e, now)
}

func (s *StatusEffectSystem) tickDots(e *component.Enemy, now float64) {
	if len(e.Dots) == 0 {
		return
	}
	names := make([]string, 0, len(e.Dots))
	for name := range e.Dots {
		names = append(names, name)
	}
	sort.Strings(names)
	const eps = 1e-9
	for _, name := range names {
		d := e.Dots[name]
		if now+eps >= d.NextTick && d.NextTick <= d.EndTime+eps && e.Alive() {
			s.combat.ApplyDamage(e, Hit{Base: d.Damage, Type: d.DamageType, SourceID: d.SourceID})
			d.NextTick += d.Interval
			if d.NextTick < now-d.Interval {
				d.NextTick = now - d.Interval
			}
		}
		if now+eps >= d.EndTime {
			delete(e.Dots, name)
		}
	}
}
