// internal/system/attack.go
package system

import (
	"math"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
)

// pelletJitter is the random angular noise added to shotgun pellets, radians.
const pelletJitter = 2 * math.Pi / 180

// Fire runs step 4 of the tick: every ready tower picks targets and attacks.
func (s *TowerSystem) Fire() AttackResult {
	var res AttackResult
	now := s.ecs.GameTime
	s.ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		if t.Destroyed {
			return true
		}
		switch t.Def.AttackType {
		case defs.AttackAura, defs.AttackHybrid:
			return true
		case defs.AttackBeam:
			s.fireBeam(id, t, now, &res)
			return true
		}
		if now-t.LastAttack < s.EffectiveInterval(t) {
			return true
		}
		switch t.Def.AttackType {
		case defs.AttackBroadside:
			if s.targeting.HasTarget(t) {
				s.broadside(id, t, &res)
				t.LastAttack = now
				s.onFired(t, now)
			}
		case defs.AttackWhip:
			s.whip(id, t, now, &res)
		default:
			if target := s.targeting.Best(t); target != 0 {
				s.attack(id, t, target, now, &res)
			}
		}
		return true
	})
	return res
}

// attack fires a projectile or instant tower at one target.
func (s *TowerSystem) attack(id types.EntityID, t *component.Tower, target types.EntityID, now float64, res *Result) {
	e, _ := s.ecs.Enemies.Get(target)
	switch sp := t.Def.Special.(type) {
	case *defs.ChainZap:
		s.chainZap(id, t, target, e, sp, now, res)
		s.onFired(t, now)
		return
	case *defs.Harpoon:
		dmg, crit := s.shotDamage(t, e)
		res.Harpoons = append(res.Harpoons, s.effects.NewHarpoon(id, t, target, e, dmg, sp))
		res.visual(event.EffectEvent{Kind: event.EffectHarpoon, X: t.X, Y: t.Y, X2: e.X, Y2: e.Y, Duration: 0.2, Crit: crit})
	case *defs.Shotgun:
		s.shotgun(id, t, e, sp, res)
	case *defs.Quillspray:
		s.quillspray(id, t, e, sp, res)
	case *defs.Grenade:
		s.grenade(id, t, e, sp, res)
	case *defs.Cluster:
		s.cluster(id, t, e, sp, res)
	default:
		s.shoot(id, t, target, e, res)
		if salvo, ok := sp.(*defs.Salvo); ok && salvo.Count > 1 {
			t.SalvoRemaining = salvo.Count - 1
			t.SalvoNext = now + salvo.Interval
			t.SalvoTarget = target
		}
	}
	t.LastAttack = now
	s.onFired(t, now)
}

// shoot fires one regular shot: an instant hit or a homing projectile,
// whichever the tower's attack type calls for.
func (s *TowerSystem) shoot(id types.EntityID, t *component.Tower, target types.EntityID, e *component.Enemy, res *Result) {
	dmg, crit := s.shotDamage(t, e)
	if t.Def.AttackType == defs.AttackInstant {
		s.instant(id, t, target, e, dmg, crit, res)
		return
	}
	res.Projectiles = append(res.Projectiles, s.newProjectile(id, t, target, dmg, crit))
}

// onFired advances the fire-driven self buffs.
func (s *TowerSystem) onFired(t *component.Tower, now float64) {
	switch sp := t.Def.Special.(type) {
	case *defs.Berserk:
		if !t.BerserkActive && s.rng.Chance(sp.Chance) {
			t.BerserkActive = true
			t.BerserkUntil = now + sp.Duration
			t.BerserkMult = sp.DamageMultiplier
		}
	case *defs.Rampage:
		if t.RampageStacks < sp.MaxStacks {
			t.RampageStacks++
		}
		t.RampageLastHit = now
	case *defs.Gattling:
		if !t.GattlingSpinning {
			t.GattlingSpinning = true
			t.GattlingStart = now
			t.GattlingLevel = 0
		} else if sp.TimePerLevel > 0 {
			t.GattlingLevel = minInt(sp.MaxLevel, int((now-t.GattlingStart)/sp.TimePerLevel))
		}
		t.GattlingLastAttack = now
	}
}

func (s *TowerSystem) shotDamage(t *component.Tower, e *component.Enemy) (float64, bool) {
	return s.rollDamage(t, e.Type, utils.Distance(t.X, t.Y, e.X, e.Y))
}

// rollDamage composes one shot: roll, buffs, berserk, rampage, distance bonus and crit.
func (s *TowerSystem) rollDamage(t *component.Tower, tt defs.TargetType, dist float64) (float64, bool) {
	dmg := s.combat.RollDamage(t.Def, tt) * t.Stats.DamageMult()
	if t.BerserkActive && t.BerserkMult > 0 {
		dmg *= t.BerserkMult
	}
	if sp, ok := t.Def.Special.(*defs.Rampage); ok {
		dmg *= 1 + float64(t.RampageStacks)*sp.DamagePerStack
	}
	if bonus := t.Def.Hit.DistanceDamageBonus; bonus > 0 && t.Def.Range > 0 {
		dmg *= 1 + bonus*utils.Clamp(dist/t.Def.Range, 0, 1)
	}
	crit := s.combat.RollCrit(t)
	if crit {
		dmg *= t.Stats.CritMult
	}
	return dmg, crit
}

func projectileSpeed(def *defs.TowerDefinition) float64 {
	if def.ProjectileSpeed == 0 {
		return config.DefaultProjectileSpeed
	}
	return def.ProjectileSpeed
}

// newProjectile builds a homing projectile leaving the tower centre.
func (s *TowerSystem) newProjectile(id types.EntityID, t *component.Tower, target types.EntityID, dmg float64, crit bool) *component.Projectile {
	return &component.Projectile{
		Kind:          component.Homing,
		X:             t.X,
		Y:             t.Y,
		Speed:         projectileSpeed(t.Def),
		TargetID:      target,
		Damage:        dmg,
		DamageType:    t.Def.DamageType,
		SourceID:      id,
		Def:           t.Def,
		Hit:           &t.Def.Hit,
		Crit:          crit,
		AirMult:       t.Stats.AirDamageMult,
		DotAmp:        t.Stats.DotAmp,
		SplashRadius:  t.Stats.SplashRadius,
		BouncesLeft:   t.Def.Bounce,
		BounceRange:   t.Def.BounceRange,
		BounceFalloff: t.Def.BounceDamageFalloff,
		Pierce:        t.Def.PierceAdjacent,
		AssetID:       t.Def.ProjectileAssetID,
	}
}

// straight builds a non-homing projectile travelling at angle from (x,y).
func (s *TowerSystem) straight(id types.EntityID, t *component.Tower, x, y, angle, speed, maxDist, dmg float64, crit bool) *component.Projectile {
	p := s.newProjectile(id, t, 0, dmg, crit)
	p.Kind = component.Straight
	p.X, p.Y = x, y
	p.Speed = speed
	p.VX = math.Cos(angle) * speed
	p.VY = math.Sin(angle) * speed
	p.MaxDistance = maxDist
	p.BouncesLeft = 0
	return p
}

// instant resolves a hit at the target immediately.
func (s *TowerSystem) instant(id types.EntityID, t *component.Tower, target types.EntityID, e *component.Enemy, dmg float64, crit bool, res *Result) {
	p := s.newProjectile(id, t, target, dmg, crit)
	p.X, p.Y = e.X, e.Y
	s.projectiles.ResolveHit(p, target, res)
}

func (s *TowerSystem) shotgun(id types.EntityID, t *component.Tower, e *component.Enemy, sp *defs.Shotgun, res *Result) {
	heading := math.Atan2(e.Y-t.Y, e.X-t.X)
	speed, reach, mult := sp.Speed, sp.Range, sp.DamageMultiplier
	if speed <= 0 {
		speed = projectileSpeed(t.Def)
	}
	if reach <= 0 {
		reach = config.DefaultPelletRange
	}
	if mult <= 0 {
		mult = 1
	}
	for i := 0; i < sp.Pellets; i++ {
		dmg, crit := s.shotDamage(t, e)
		a := heading + spreadOffset(i, sp.Pellets, sp.SpreadDeg) + s.rng.Range(-pelletJitter, pelletJitter)
		res.Projectiles = append(res.Projectiles, s.straight(id, t, t.X, t.Y, a, speed, reach, dmg*mult, crit))
	}
}

func (s *TowerSystem) quillspray(id types.EntityID, t *component.Tower, e *component.Enemy, sp *defs.Quillspray, res *Result) {
	heading := math.Atan2(e.Y-t.Y, e.X-t.X)
	speed, reach, mult := sp.Speed, sp.Range, sp.DamageMultiplier
	if speed <= 0 {
		speed = projectileSpeed(t.Def)
	}
	if reach <= 0 {
		reach = t.Def.Range
	}
	if mult <= 0 {
		mult = 1
	}
	for i := 0; i < sp.Quills; i++ {
		dmg, crit := s.shotDamage(t, e)
		a := heading + 2*math.Pi*float64(i)/float64(sp.Quills)
		res.Projectiles = append(res.Projectiles, s.straight(id, t, t.X, t.Y, a, speed, reach, dmg*mult, crit))
	}
}

// grenade lobs a ballistic projectile that lands on the target's current position.
func (s *TowerSystem) grenade(id types.EntityID, t *component.Tower, e *component.Enemy, sp *defs.Grenade, res *Result) {
	dmg, crit := s.shotDamage(t, e)
	speed := math.Abs(projectileSpeed(t.Def))
	g := sp.Gravity
	if g <= 0 {
		g = config.DefaultGrenadeGravity
	}
	dx, dy := e.X-t.X, e.Y-t.Y
	flight := math.Max(math.Hypot(dx, dy)/speed, 0.05)
	timer := sp.DetonationTime
	if timer <= 0 {
		timer = flight
	}
	p := s.newProjectile(id, t, 0, dmg, crit)
	p.Kind = component.Grenade
	p.VX = dx / flight
	p.VY = dy/flight - 0.5*g*flight
	p.Gravity = g
	p.Timer = timer
	p.TowerBounces = sp.TowerBounces
	p.BounceSpeedLoss = sp.BounceSpeedLoss
	p.ExplosionRadius = sp.ExplosionRadius
	p.BouncesLeft = 0
	res.Projectiles = append(res.Projectiles, p)
}

func (s *TowerSystem) cluster(id types.EntityID, t *component.Tower, e *component.Enemy, sp *defs.Cluster, res *Result) {
	dmg, crit := s.shotDamage(t, e)
	speed := math.Abs(projectileSpeed(t.Def))
	ux, uy := utils.Normalize(e.X-t.X, e.Y-t.Y)
	timer := sp.DetonationTime
	if timer <= 0 {
		timer = utils.Distance(t.X, t.Y, e.X, e.Y) / speed
	}
	mult := sp.PelletDamageMultiplier
	if mult <= 0 {
		mult = 1
	}
	pelletTimer := sp.PelletDetonationTime
	if pelletTimer <= 0 {
		pelletTimer = 0.5
	}
	p := s.newProjectile(id, t, 0, dmg, crit)
	p.Kind = component.Cluster
	p.VX, p.VY = ux*speed, uy*speed
	p.Timer = timer
	p.Pellets = sp.Pellets
	p.SpreadDeg = sp.SpreadDeg
	p.PelletMult = mult
	p.PelletTimer = pelletTimer
	p.ExplosionRadius = sp.ExplosionRadius
	p.BouncesLeft = 0
	res.Projectiles = append(res.Projectiles, p)
}

// chainZap zaps the target from the far end of the longest chain of linked
// towers. Every tower on the chain shares the cooldown.
func (s *TowerSystem) chainZap(id types.EntityID, t *component.Tower, target types.EntityID, e *component.Enemy, sp *defs.ChainZap, now float64, res *Result) {
	path := LongestChain(s.ecs, id)
	points := make([]event.Point, 0, len(path)+1)
	for _, tid := range path {
		if tw, ok := s.ecs.Towers.Get(tid); ok {
			tw.LastAttack = now
			points = append(points, event.Point{X: tw.X, Y: tw.Y})
		}
	}
	points = append(points, event.Point{X: e.X, Y: e.Y})

	p := s.newProjectile(id, t, target, float64(len(path))*sp.DamagePerTower, false)
	p.X, p.Y = e.X, e.Y
	s.projectiles.ResolveHit(p, target, res)
	res.visual(event.EffectEvent{Kind: event.EffectZap, X: t.X, Y: t.Y, X2: e.X, Y2: e.Y, Points: points, Duration: 0.2})
}

func (s *TowerSystem) whip(id types.EntityID, t *component.Tower, now float64, res *Result) {
	n := t.Def.BeamMaxTargets
	if n < 1 {
		n = 1
	}
	targets := s.targeting.Select(t, n)
	if len(targets) == 0 {
		return
	}
	points := []event.Point{{X: t.X, Y: t.Y}}
	for _, target := range targets {
		e, _ := s.ecs.Enemies.Get(target)
		points = append(points, event.Point{X: e.X, Y: e.Y})
		dmg, crit := s.shotDamage(t, e)
		s.instant(id, t, target, e, dmg, crit, res)
	}
	last := points[len(points)-1]
	res.visual(event.EffectEvent{Kind: event.EffectWhip, X: t.X, Y: t.Y, X2: last.X, Y2: last.Y, Points: points, Duration: 0.25})
	t.LastAttack = now
	s.onFired(t, now)
}

// fireBeam keeps the beam targets current every tick and deals damage on
// interval boundaries.
func (s *TowerSystem) fireBeam(id types.EntityID, t *component.Tower, now float64, res *Result) {
	if lp, ok := t.Def.Special.(*defs.LaserPainter); ok {
		s.paint(id, t, lp, now, res)
		return
	}
	t.BeamTargets = s.targeting.Select(t, t.Def.BeamMaxTargets)
	if len(t.BeamTargets) == 0 || now-t.LastAttack < s.EffectiveInterval(t) {
		return
	}
	for _, target := range t.BeamTargets {
		e, _ := s.ecs.Enemies.Get(target)
		x, y := e.X, e.Y
		dmg, crit := s.shotDamage(t, e)
		s.instant(id, t, target, e, dmg, crit, res)
		res.visual(event.EffectEvent{Kind: event.EffectBeam, X: t.X, Y: t.Y, X2: x, Y2: y, Duration: s.EffectiveInterval(t), Crit: crit})
	}
	t.LastAttack = now
	s.onFired(t, now)
}

// paint charges on a single target and releases one heavy hit once the
// charge completes. Switching targets restarts the charge.
func (s *TowerSystem) paint(id types.EntityID, t *component.Tower, lp *defs.LaserPainter, now float64, res *Result) {
	target := s.targeting.Best(t)
	if target == 0 {
		t.PaintTarget = 0
		t.BeamTargets = nil
		return
	}
	if target != t.PaintTarget {
		t.PaintTarget = target
		t.PaintStart = now
	}
	t.BeamTargets = []types.EntityID{target}
	if now-t.PaintStart < lp.ChargeDuration {
		return
	}
	e, _ := s.ecs.Enemies.Get(target)
	mult := lp.DamageMultiplier
	if mult <= 0 {
		mult = 1
	}
	dmg, crit := s.shotDamage(t, e)
	x, y := e.X, e.Y
	s.instant(id, t, target, e, dmg*mult, crit, res)
	res.visual(event.EffectEvent{Kind: event.EffectBeam, X: t.X, Y: t.Y, X2: x, Y2: y, Radius: 3, Duration: 0.3, Crit: crit})
	t.PaintStart = now
	t.LastAttack = now
	s.onFired(t, now)
}

// broadside fires one cannon out of each side of every footprint row.
func (s *TowerSystem) broadside(id types.EntityID, t *component.Tower, res *Result) {
	cs := config.CellSize
	left := float64(t.GridX) * cs
	right := left + float64(t.Def.GridWidth)*cs
	top := float64(t.GridY) * cs
	speed := math.Abs(projectileSpeed(t.Def))
	for row := 0; row < t.Def.GridHeight; row++ {
		y := top + (float64(row)+0.5)*cs
		for _, side := range []struct{ x, angle float64 }{{left, math.Pi}, {right, 0}} {
			dmg, crit := s.rollDamage(t, defs.TargetGround, 0)
			res.Projectiles = append(res.Projectiles, s.straight(id, t, side.x, y, side.angle, speed, t.Def.Range, dmg, crit))
		}
	}
}
