// internal/system/result.go
package system

import (
	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/types"
)

// GoldChange is a money adjustment produced during a tick.
type GoldChange struct {
	Amount int
	Reason string
}

// Result collects everything a tower update, attack or collision produces.
// Systems never mutate money or add entities directly; the driver applies it.
type Result struct {
	Projectiles  []*component.Projectile
	Zones        []*component.GroundZone
	Harpoons     []*component.Harpoon
	Gold         []GoldChange
	Visuals      []event.EffectEvent
	SelfDestruct []types.EntityID
	Leaked       []types.EntityID
	Dead         []types.EntityID
}

// AttackResult is returned by tower attacks.
type AttackResult = Result

// CollisionResult is returned by projectile and effect advances.
type CollisionResult = Result

// Merge appends everything in o to r.
func (r *Result) Merge(o Result) {
	r.Projectiles = append(r.Projectiles, o.Projectiles...)
	r.Zones = append(r.Zones, o.Zones...)
	r.Harpoons = append(r.Harpoons, o.Harpoons...)
	r.Gold = append(r.Gold, o.Gold...)
	r.Visuals = append(r.Visuals, o.Visuals...)
	r.SelfDestruct = append(r.SelfDestruct, o.SelfDestruct...)
	r.Leaked = append(r.Leaked, o.Leaked...)
	r.Dead = append(r.Dead, o.Dead...)
}

func (r *Result) addGold(amount int, reason string) {
	if amount != 0 {
		r.Gold = append(r.Gold, GoldChange{Amount: amount, Reason: reason})
	}
}

func (r *Result) visual(e event.EffectEvent) {
	r.Visuals = append(r.Visuals, e)
}

// GoldTotal sums every gold change.
func (r *Result) GoldTotal() int {
	n := 0
	for _, g := range r.Gold {
		n += g.Amount
	}
	return n
}

// Empty reports whether the result carries nothing.
func (r *Result) Empty() bool {
	return len(r.Projectiles) == 0 && len(r.Zones) == 0 && len(r.Harpoons) == 0 &&
		len(r.Gold) == 0 && len(r.Visuals) == 0 && len(r.SelfDestruct) == 0 &&
		len(r.Leaked) == 0 && len(r.Dead) == 0
}
