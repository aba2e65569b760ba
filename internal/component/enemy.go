// internal/component/enemy.go
package component

import (
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// Enemy is a mover walking from the spawn to the objective.
type Enemy struct {
	DefID string
	Type  defs.TargetType
	Boss  bool
	Value int

	X, Y      float64
	Path      []grid.Cell
	PathIndex int

	BaseSpeed float64 // px/s
	Speed     float64 // derived each tick from statuses

	Health    float64
	MaxHealth float64

	ArmorType          string
	Armor              float64
	AuraArmorReduction float64 // reset and re-accumulated every tick

	Statuses map[string]*Status
	Dots     map[string]*Dot

	PendingGold int            // extra gold paid out on death (bounties)
	BountyBy    types.EntityID // tower whose bounty marked this enemy

	WanderAngle float64

	Wave        int // index of the wave that spawned it
	HarpoonedBy types.EntityID
	NeedsReplan bool

	Dead      bool // health reached zero; reaped at end of tick
	Processed bool // death or leak already paid out
	Leaked    bool
}

// Alive reports whether the enemy can still be targeted.
func (e *Enemy) Alive() bool {
	return !e.Dead && !e.Leaked && e.Health > 0
}

// IsAir reports whether the enemy flies.
func (e *Enemy) IsAir() bool {
	return e.Type == defs.TargetAir
}
