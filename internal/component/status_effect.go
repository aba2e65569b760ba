// internal/component/status_effect.go
package component

import (
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/types"
)

// Status names with built-in meaning. Any status whose name starts with
// StatusSlow is a slow.
const (
	StatusStun      = "stun"
	StatusSlow      = "slow"
	StatusBonechill = "bonechill"
)

// Status is a timed effect; Value is the slow multiplier for slows.
type Status struct {
	EndTime float64
	Value   float64
}

// Dot is a damage-over-time effect.
type Dot struct {
	Damage     float64 // per tick
	Interval   float64
	NextTick   float64
	EndTime    float64
	DamageType defs.DamageType
	SourceID   types.EntityID
}
