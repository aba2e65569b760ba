// internal/event/types.go
package event

import "github.com/camerensmith/supermaultd/internal/types"

const (
	EnemySpawned      EventType = "EnemySpawned"
	EnemyKilled       EventType = "EnemyKilled"
	EnemyLeaked       EventType = "EnemyLeaked"
	EnemyTrapped      EventType = "EnemyTrapped"
	GoldChanged       EventType = "GoldChanged"
	LivesChanged      EventType = "LivesChanged"
	WaveStarted       EventType = "WaveStarted"
	WaveCompleted     EventType = "WaveCompleted"
	RaceUnlocked      EventType = "RaceUnlocked"
	TowerPlaced       EventType = "TowerPlaced"
	TowerSold         EventType = "TowerSold"
	TowerDestroyed    EventType = "TowerDestroyed"
	PlacementRejected EventType = "PlacementRejected"
	Effect            EventType = "Effect"
	GameOver          EventType = "GameOver"
	Victory           EventType = "Victory"
	MainMenuRequested EventType = "MainMenuRequested"
)

// EnemyEvent identifies an enemy for spawn, kill, leak and trap events.
type EnemyEvent struct {
	ID     types.EntityID
	DefID  string
	X, Y   float64
	Gold   int
	Killer types.EntityID
}

// GoldDelta reports a money change and the resulting balance.
type GoldDelta struct {
	Delta   int
	Balance int
	Reason  string
}

// LivesDelta reports a lives change.
type LivesDelta struct {
	Delta   int
	Balance int
}

// WaveEvent reports a wave start or completion.
type WaveEvent struct {
	Index     int
	Bonus     int
	TimeBonus int
}

// RaceEvent reports a newly unlocked tower set.
type RaceEvent struct {
	RaceID   string
	TowerIDs []string
}

// TowerEvent reports tower placement, sale or destruction.
type TowerEvent struct {
	ID     types.EntityID
	DefID  string
	GridX  int
	GridY  int
	Refund int
}

// RejectedEvent reports why a command was refused.
type RejectedEvent struct {
	DefID  string
	GridX  int
	GridY  int
	Reason string
}

// EffectKind names a visual descriptor.
type EffectKind string

const (
	EffectBeam        EffectKind = "beam"
	EffectWhip        EffectKind = "whip"
	EffectZap         EffectKind = "zap"
	EffectExplosion   EffectKind = "explosion"
	EffectBombardment EffectKind = "bombardment"
	EffectPulse       EffectKind = "pulse"
	EffectHit         EffectKind = "hit"
	EffectGold        EffectKind = "gold"
	EffectBribe       EffectKind = "bribe"
	EffectHarpoon     EffectKind = "harpoon"
)

// Point is a polyline vertex.
type Point struct {
	X, Y float64
}

// EffectEvent is a visual descriptor; the simulation never reads it back.
type EffectEvent struct {
	Kind     EffectKind
	X, Y     float64
	X2, Y2   float64
	Radius   float64
	Duration float64
	Points   []Point
	Crit     bool
}

// GameEndEvent reports the transition into GameOver or Victory.
type GameEndEvent struct {
	Reason string
	Wave   int
}
