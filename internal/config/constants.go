// internal/config/constants.go
package config

const (
	// Playfield: 26×24 placeable cells plus a one-cell restricted border.
	PlaceableWidth  = 26
	PlaceableHeight = 24
	CellSize        = 32.0

	ScreenWidth  = 28 * 32
	ScreenHeight = 26*32 + 64

	// Spawn and objective areas span this many cells either side of the centre column.
	SpawnHalfSpan     = 1
	ObjectiveHalfSpan = 1
	// Half-width of the objective in pixels (1.5 cells).
	ObjectiveHalfWidth = 48.0

	EnemySpeedScale  = 48.0 // pixels per second per speed unit
	WanderRadius     = 10.0
	WanderDrift      = 0.35 // max change of the wander angle per tick, radians
	PathTolerance    = 12.0
	ObjectiveEpsilon = 0.5

	ArmorConstant = 0.06

	WaveTimeLimit      = 60.0
	MaxTimeBonus       = 20
	UnlockWaveIndex    = 10
	SplashDamageFactor = 0.25
	PierceRadius       = 175.0
	PierceDamageFactor = 0.5

	DefaultProjectileSpeed = 400.0
	ProjectileHitRadius    = 12.0
	StraightHitRadius      = 14.0
	DefaultGrenadeGravity  = 300.0
	DefaultExplosionRadius = 40.0
	DefaultPelletRange     = 160.0

	ContinuousAuraSlowDuration = 0.2
	OrbiterHitRadius           = 14.0
	PassThroughHitRadius       = 18.0

	MinAttackInterval = 0.01

	MaxDeltaTime = 0.06
	TickRate     = 60
)

// Game modes and the boss whose death wins each of them.
const (
	ModeClassic  = "classic"
	ModeAdvanced = "advanced"
	ModeWild     = "wild"

	BossClassic  = "lord_supermaul"
	BossAdvanced = "lord_supermaul_reborn"
)

// WinBossFor returns the enemy id whose death ends a game in the given mode.
func WinBossFor(mode string) string {
	switch mode {
	case ModeAdvanced, ModeWild:
		return BossAdvanced
	default:
		return BossClassic
	}
}
