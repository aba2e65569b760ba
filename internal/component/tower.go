// internal/component/tower.go
package component

import (
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

// Tower is a placed tower and its per-type state machines.
type Tower struct {
	DefID string
	Def   *defs.TowerDefinition

	GridX, GridY int         // top-left cell of the footprint
	Cells        []grid.Cell // cells this tower marked as Obstacle
	X, Y         float64     // pixel center

	LastAttack float64
	LastPulse  float64
	// LastSpecial drives interval specials: gold, bombardment, bribe, exploder launch, vortex ticks.
	LastSpecial float64

	SalvoRemaining int
	SalvoNext      float64
	SalvoTarget    types.EntityID

	BerserkActive bool
	BerserkUntil  float64
	BerserkMult   float64

	RampageStacks  int
	RampageLastHit float64

	GattlingLevel      int
	GattlingStart      float64
	GattlingLastAttack float64
	GattlingSpinning   bool

	BeamTargets []types.EntityID
	PaintTarget types.EntityID
	PaintStart  float64

	LinkedNeighbors []types.EntityID
	Orbiters        []types.EntityID

	WalkoverHits map[types.EntityID]float64

	CritBuff CritBuff
	Stats    TowerStats

	Destroyed bool
}

// CritBuff is a timed crit bonus granted by a crit pulse aura.
type CritBuff struct {
	Until      float64
	Chance     float64
	Multiplier float64
}

// TowerStats are the buff-adjusted stats rebuilt by the aura resolver every tick.
type TowerStats struct {
	SpeedBonus    float64
	DamageBonus   float64
	CritChance    float64
	CritMult      float64
	SplashRadius  float64
	AirDamageMult float64
	DotAmp        float64
	AuraNames     []string
}

// DamageMult is 1 plus the summed damage bonuses.
func (s TowerStats) DamageMult() float64 {
	return 1 + s.DamageBonus
}

// Contains reports whether the pixel (x,y) lies inside the tower footprint.
func (t *Tower) Contains(x, y, cellSize float64) bool {
	left := float64(t.GridX) * cellSize
	top := float64(t.GridY) * cellSize
	return x >= left && y >= top &&
		x < left+float64(t.Def.GridWidth)*cellSize &&
		y < top+float64(t.Def.GridHeight)*cellSize
}

// Occupies reports whether cell c is under the tower footprint.
func (t *Tower) Occupies(c grid.Cell) bool {
	return c.X >= t.GridX && c.Y >= t.GridY &&
		c.X < t.GridX+t.Def.GridWidth && c.Y < t.GridY+t.Def.GridHeight
}
