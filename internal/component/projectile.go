// internal/component/projectile.go
package component

import (
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/types"
)

// ProjectileKind selects the flight model.
type ProjectileKind int

const (
	Homing ProjectileKind = iota
	Straight
	Grenade
	Cluster
	PassThrough
)

func (k ProjectileKind) String() string {
	switch k {
	case Homing:
		return "homing"
	case Straight:
		return "straight"
	case Grenade:
		return "grenade"
	case Cluster:
		return "cluster"
	case PassThrough:
		return "pass_through"
	}
	return "unknown"
}

// Projectile is one member of the projectile family.
type Projectile struct {
	Kind ProjectileKind

	X, Y   float64
	VX, VY float64
	Speed  float64

	TargetID types.EntityID

	Damage     float64
	DamageType defs.DamageType
	SourceID   types.EntityID
	Def        *defs.TowerDefinition
	Hit        *defs.HitModifiers
	Crit       bool
	AirMult    float64
	DotAmp     float64

	SplashRadius  float64
	BouncesLeft   int
	BounceRange   float64
	BounceFalloff float64
	Pierce        int
	HitEnemies    []types.EntityID

	Traveled    float64
	MaxDistance float64

	// Grenade and cluster fields.
	Timer           float64
	Gravity         float64
	TowerBounces    int
	BounceSpeedLoss float64
	ExplosionRadius float64
	Pellets         int
	SpreadDeg       float64
	PelletMult      float64
	PelletTimer     float64

	// Pass-through exploder fields.
	ExplosionMult float64
	PassCooldown  float64
	PassHits      map[types.EntityID]float64

	AssetID  string
	Linger   float64
	Collided bool
	Done     bool
}

// HasHit reports whether id is in the hit sequence.
func (p *Projectile) HasHit(id types.EntityID) bool {
	for _, h := range p.HitEnemies {
		if h == id {
			return true
		}
	}
	return false
}

// Harpoon is a latched pull from a tower onto one enemy.
type Harpoon struct {
	SourceID types.EntityID
	TargetID types.EntityID

	StartX, StartY float64
	EndX, EndY     float64
	Elapsed        float64
	Duration       float64

	DamagePerSecond float64
	Shear           float64
	StunDuration    float64
	DamageType      defs.DamageType

	Done bool
}

// Orbiter circles its tower and damages enemies it touches.
type Orbiter struct {
	TowerID      types.EntityID
	CenterX      float64
	CenterY      float64
	Angle        float64
	Radius       float64
	AngularSpeed float64
	X, Y         float64

	Damage      float64
	DamageType  defs.DamageType
	HitCooldown float64
	LastHit     map[types.EntityID]float64

	Done bool
}

// GroundZone damages and slows enemies standing in it.
type GroundZone struct {
	X, Y           float64
	Radius         float64
	Remaining      float64
	TickInterval   float64
	TickTimer      float64
	DamagePerTick  float64
	DamageType     defs.DamageType
	SlowMultiplier float64
	Targets        defs.StringList
	SourceID       types.EntityID

	Done bool
}
