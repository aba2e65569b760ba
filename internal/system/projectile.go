// internal/system/projectile.go
package system

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/event"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
)

// ProjectileSystem moves projectiles and resolves their collisions.
type ProjectileSystem struct {
	ecs      *entity.ECS
	combat   *CombatSystem
	rng      *utils.PRNGService
	logger   zerolog.Logger
	cellSize float64
}

func NewProjectileSystem(ecs *entity.ECS, combat *CombatSystem, rng *utils.PRNGService, cellSize float64, logger zerolog.Logger) *ProjectileSystem {
	return &ProjectileSystem{ecs: ecs, combat: combat, rng: rng, logger: logger, cellSize: cellSize}
}

// Update advances every projectile by dt.
func (s *ProjectileSystem) Update(deltaTime float64) CollisionResult {
	var res CollisionResult
	s.ecs.Projectiles.Each(func(id types.EntityID, p *component.Projectile) bool {
		if p.Done {
			return true
		}
		if p.Collided {
			p.Linger -= deltaTime
			if p.Linger <= 0 {
				p.Done = true
			}
			return true
		}
		if p.Def == nil {
			s.logger.Warn().Uint64("projectile", uint64(id)).Msg("projectile without tower definition made inert")
			p.Collided, p.Done = true, true
			return true
		}
		switch p.Kind {
		case component.Homing:
			s.advanceHoming(p, deltaTime, &res)
		case component.Straight:
			s.advanceStraight(p, deltaTime, &res)
		case component.Grenade:
			s.advanceGrenade(id, p, deltaTime, &res)
		case component.Cluster:
			s.advanceCluster(p, deltaTime, &res)
		case component.PassThrough:
			s.advancePassThrough(p, deltaTime, &res)
		}
		return true
	})
	return res
}

func (s *ProjectileSystem) advanceHoming(p *component.Projectile, deltaTime float64, res *Result) {
	target, ok := s.ecs.Enemies.Get(p.TargetID)
	if !ok || !target.Alive() {
		p.Collided, p.Done = true, true
		return
	}
	if p.Speed <= 0 {
		p.X, p.Y = target.X, target.Y
		s.ResolveHit(p, p.TargetID, res)
		return
	}
	dx, dy := target.X-p.X, target.Y-p.Y
	dist := math.Hypot(dx, dy)
	step := p.Speed * deltaTime
	if dist <= math.Max(config.ProjectileHitRadius, step) {
		p.X, p.Y = target.X, target.Y
		s.ResolveHit(p, p.TargetID, res)
		return
	}
	p.VX, p.VY = dx/dist*p.Speed, dy/dist*p.Speed
	p.X += p.VX * deltaTime
	p.Y += p.VY * deltaTime
}

func (s *ProjectileSystem) advanceStraight(p *component.Projectile, deltaTime float64, res *Result) {
	step := math.Hypot(p.VX, p.VY) * deltaTime
	p.X += p.VX * deltaTime
	p.Y += p.VY * deltaTime
	p.Traveled += step
	if hit := s.contact(p, config.StraightHitRadius); hit != 0 {
		s.ResolveHit(p, hit, res)
		return
	}
	if p.Traveled >= p.MaxDistance {
		p.Done = true
	}
}

// contact returns the closest valid, not yet hit enemy within radius of p.
func (s *ProjectileSystem) contact(p *component.Projectile, radius float64) types.EntityID {
	return closestEnemy(s.ecs, p.X, p.Y, radius, func(id types.EntityID, e *component.Enemy) bool {
		return ValidTarget(p.Def, e) && !p.HasHit(id)
	})
}

func (s *ProjectileSystem) advanceGrenade(id types.EntityID, p *component.Projectile, deltaTime float64, res *Result) {
	prevX, prevY := p.X, p.Y
	p.VY += p.Gravity * deltaTime
	p.X += p.VX * deltaTime
	p.Y += p.VY * deltaTime
	p.Timer -= deltaTime

	if s.contact(p, config.ProjectileHitRadius) != 0 {
		s.explode(p, res)
		return
	}
	// Without tower bounces a grenade flies over towers.
	if p.TowerBounces > 0 {
		if t := s.towerAt(p.X, p.Y, p.SourceID); t != nil {
			p.TowerBounces--
			if !t.Contains(prevX, p.Y, s.cellSize) {
				p.VX = -p.VX
			} else {
				p.VY = -p.VY
			}
			keep := 1 - p.BounceSpeedLoss
			p.VX *= keep
			p.VY *= keep
			p.X, p.Y = prevX, prevY
		}
	}
	if p.Timer <= 0 {
		s.explode(p, res)
	}
}

func (s *ProjectileSystem) towerAt(x, y float64, exclude types.EntityID) *component.Tower {
	var hit *component.Tower
	s.ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		if id != exclude && !t.Destroyed && !t.Def.Traversable && t.Contains(x, y, s.cellSize) {
			hit = t
			return false
		}
		return true
	})
	return hit
}

// explode damages every valid enemy around the projectile and ends it.
func (s *ProjectileSystem) explode(p *component.Projectile, res *Result) {
	radius := p.ExplosionRadius
	if radius <= 0 {
		radius = config.DefaultExplosionRadius
	}
	if p.Crit && p.Hit != nil && p.Hit.CritSplashRadiusMultiplier > 0 {
		radius *= p.Hit.CritSplashRadiusMultiplier
	}
	for _, eid := range enemiesWithin(s.ecs, p.Def, p.X, p.Y, radius) {
		e, _ := s.ecs.Enemies.Get(eid)
		out := s.combat.ApplyDamage(e, Hit{Base: p.Damage, Type: p.DamageType, BonusMult: airMult(p, e), Mods: p.Hit, SourceID: p.SourceID})
		res.addGold(-out.GoldPenalty, "hit_cost")
		p.HitEnemies = append(p.HitEnemies, eid)
	}
	s.spawnZone(p, p.X, p.Y, res)
	res.visual(event.EffectEvent{Kind: event.EffectExplosion, X: p.X, Y: p.Y, Radius: radius, Duration: 0.3, Crit: p.Crit})
	p.Collided, p.Done = true, true
}

func (s *ProjectileSystem) advanceCluster(p *component.Projectile, deltaTime float64, res *Result) {
	p.X += p.VX * deltaTime
	p.Y += p.VY * deltaTime
	p.Timer -= deltaTime
	if p.Timer > 0 {
		return
	}
	heading := math.Atan2(p.VY, p.VX)
	speed := math.Hypot(p.VX, p.VY) * 0.6
	for i := 0; i < p.Pellets; i++ {
		a := heading + spreadOffset(i, p.Pellets, p.SpreadDeg) + s.rng.Range(-0.05, 0.05)
		res.Projectiles = append(res.Projectiles, &component.Projectile{
			Kind:            component.Grenade,
			X:               p.X,
			Y:               p.Y,
			VX:              math.Cos(a) * speed,
			VY:              math.Sin(a) * speed,
			Speed:           speed,
			Damage:          p.Damage * p.PelletMult,
			DamageType:      p.DamageType,
			SourceID:        p.SourceID,
			Def:             p.Def,
			Hit:             p.Hit,
			AirMult:         p.AirMult,
			DotAmp:          p.DotAmp,
			Timer:           p.PelletTimer,
			ExplosionRadius: p.ExplosionRadius,
			AssetID:         p.AssetID,
		})
	}
	res.visual(event.EffectEvent{Kind: event.EffectExplosion, X: p.X, Y: p.Y, Radius: p.ExplosionRadius / 2, Duration: 0.2})
	p.Collided, p.Done = true, true
}

// spreadOffset spaces n shots evenly across spreadDeg degrees centred on zero.
func spreadOffset(i, n int, spreadDeg float64) float64 {
	if n <= 1 {
		return 0
	}
	spread := spreadDeg * math.Pi / 180
	return -spread/2 + spread*float64(i)/float64(n-1)
}

func (s *ProjectileSystem) advancePassThrough(p *component.Projectile, deltaTime float64, res *Result) {
	now := s.ecs.GameTime
	x0, y0 := p.X, p.Y
	speed := math.Hypot(p.VX, p.VY)
	step := speed * deltaTime
	if p.Traveled+step > p.MaxDistance {
		step = p.MaxDistance - p.Traveled
	}
	if speed > 0 {
		p.X += p.VX / speed * step
		p.Y += p.VY / speed * step
	}
	p.Traveled += step

	if p.PassHits == nil {
		p.PassHits = make(map[types.EntityID]float64)
	}
	s.ecs.Enemies.Each(func(eid types.EntityID, e *component.Enemy) bool {
		if !ValidTarget(p.Def, e) {
			return true
		}
		if utils.SegmentPointDistance(x0, y0, p.X, p.Y, e.X, e.Y) > config.PassThroughHitRadius {
			return true
		}
		if last, hit := p.PassHits[eid]; hit && now-last < p.PassCooldown {
			return true
		}
		p.PassHits[eid] = now
		s.combat.ApplyDamage(e, Hit{Base: p.Damage, Type: p.DamageType, BonusMult: airMult(p, e), SourceID: p.SourceID})
		return true
	})

	if p.Traveled >= p.MaxDistance {
		for _, eid := range enemiesWithin(s.ecs, p.Def, p.X, p.Y, p.ExplosionRadius) {
			e, _ := s.ecs.Enemies.Get(eid)
			s.combat.ApplyDamage(e, Hit{Base: p.Damage * p.ExplosionMult, Type: p.DamageType, BonusMult: airMult(p, e), SourceID: p.SourceID})
		}
		res.visual(event.EffectEvent{Kind: event.EffectExplosion, X: p.X, Y: p.Y, Radius: p.ExplosionRadius, Duration: 0.4})
		p.Collided, p.Done = true, true
	}
}

func airMult(p *component.Projectile, e *component.Enemy) float64 {
	if e.IsAir() && p.AirMult > 0 {
		return p.AirMult
	}
	return 1
}

// ResolveHit applies a projectile's first contact with an enemy: primary
// damage, blast zone, splash, DoT, on-hit modifiers, ground zone, then bounce
// or pierce. Pierce applies when no bounce target is found. It marks the
// projectile collided.
func (s *ProjectileSystem) ResolveHit(p *component.Projectile, targetID types.EntityID, res *Result) {
	if p.Collided {
		return
	}
	p.Collided = true
	e, ok := s.ecs.Enemies.Get(targetID)
	if !ok || !e.Alive() {
		p.Done = true
		return
	}
	now := s.ecs.GameTime
	mods := p.Hit
	p.HitEnemies = append(p.HitEnemies, targetID)

	out := s.combat.ApplyDamage(e, Hit{Base: p.Damage, Type: p.DamageType, BonusMult: airMult(p, e), Mods: mods, SourceID: p.SourceID})
	res.addGold(-out.GoldPenalty, "hit_cost")

	if mods != nil && mods.BlastZoneRadius > 0 {
		for _, oid := range enemiesWithin(s.ecs, p.Def, e.X, e.Y, mods.BlastZoneRadius) {
			if oid == targetID {
				continue
			}
			o, _ := s.ecs.Enemies.Get(oid)
			s.combat.ApplyDamage(o, Hit{Base: p.Damage, Type: p.DamageType, BonusMult: airMult(p, o), SourceID: p.SourceID})
		}
	}

	splash := p.SplashRadius
	if p.Crit && mods != nil && mods.CritSplashRadiusMultiplier > 0 {
		splash *= mods.CritSplashRadiusMultiplier
	}
	if splash > 0 {
		for _, oid := range enemiesWithin(s.ecs, p.Def, e.X, e.Y, splash) {
			if oid == targetID {
				continue
			}
			o, _ := s.ecs.Enemies.Get(oid)
			s.combat.ApplyDamage(o, Hit{Base: p.Damage * config.SplashDamageFactor, Type: p.DamageType, BonusMult: airMult(p, o), SourceID: p.SourceID})
		}
	}

	if mods.HasDot() && e.Alive() {
		name := mods.DotName
		if name == "" {
			name = p.Def.ID
		}
		dtype := mods.DotDamageType
		if dtype == "" {
			dtype = p.DamageType
		}
		amp := p.DotAmp
		if amp <= 0 {
			amp = 1
		}
		ApplyDot(e, name, mods.DotDamage*amp, mods.DotInterval, mods.DotDuration, dtype, p.SourceID, now)
	}
	s.combat.ApplyOnHit(e, mods, now)
	s.spawnZone(p, e.X, e.Y, res)

	bounced := false
	if p.BouncesLeft > 0 {
		next := closestEnemy(s.ecs, e.X, e.Y, p.BounceRange, func(id types.EntityID, o *component.Enemy) bool {
			return ValidTarget(p.Def, o) && !p.HasHit(id)
		})
		if next != 0 {
			b := *p
			b.Kind = component.Homing
			b.X, b.Y = e.X, e.Y
			b.TargetID = next
			b.Damage = p.Damage * p.BounceFalloff
			b.BouncesLeft = p.BouncesLeft - 1
			b.HitEnemies = append([]types.EntityID(nil), p.HitEnemies...)
			b.Collided, b.Done, b.Linger = false, false, 0
			if b.Speed <= 0 {
				b.Speed = config.DefaultProjectileSpeed
			}
			res.Projectiles = append(res.Projectiles, &b)
			bounced = true
		}
	}
	if !bounced && p.Pierce > 0 {
		s.pierce(p, e, targetID)
	}

	res.visual(event.EffectEvent{Kind: event.EffectHit, X: e.X, Y: e.Y, Duration: 0.15, Crit: p.Crit})
	if mods != nil && mods.Linger > 0 {
		p.Linger = mods.Linger
	} else {
		p.Done = true
	}
}

func (s *ProjectileSystem) pierce(p *component.Projectile, primary *component.Enemy, primaryID types.EntityID) {
	type near struct {
		id types.EntityID
		d  float64
	}
	var cs []near
	for _, oid := range enemiesWithin(s.ecs, p.Def, primary.X, primary.Y, config.PierceRadius) {
		if oid == primaryID || p.HasHit(oid) {
			continue
		}
		o, _ := s.ecs.Enemies.Get(oid)
		cs = append(cs, near{oid, utils.DistanceSq(primary.X, primary.Y, o.X, o.Y)})
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].d < cs[j].d })
	for i := 0; i < len(cs) && i < p.Pierce; i++ {
		o, _ := s.ecs.Enemies.Get(cs[i].id)
		s.combat.ApplyDamage(o, Hit{Base: p.Damage * config.PierceDamageFactor, Type: p.DamageType, BonusMult: airMult(p, o), SourceID: p.SourceID})
		p.HitEnemies = append(p.HitEnemies, cs[i].id)
	}
}

func (s *ProjectileSystem) spawnZone(p *component.Projectile, x, y float64, res *Result) {
	var spec *defs.ZoneSpec
	if ge, ok := p.Def.Special.(*defs.GroundEffect); ok {
		spec = &ge.Zone
	} else if p.Hit != nil && p.Hit.Zone != nil {
		spec = p.Hit.Zone
	}
	if spec == nil || spec.Duration <= 0 || spec.Radius <= 0 {
		return
	}
	res.Zones = append(res.Zones, NewGroundZone(spec, p.Def, p.SourceID, x, y))
}

// NewGroundZone builds a zone from its spec at (x,y).
func NewGroundZone(spec *defs.ZoneSpec, def *defs.TowerDefinition, source types.EntityID, x, y float64) *component.GroundZone {
	interval := spec.TickInterval
	if interval <= 0 {
		interval = 0.5
	}
	return &component.GroundZone{
		X:              x,
		Y:              y,
		Radius:         spec.Radius,
		Remaining:      spec.Duration,
		TickInterval:   interval,
		DamagePerTick:  spec.DamagePerTick,
		DamageType:     def.DamageType,
		SlowMultiplier: spec.SlowMultiplier,
		Targets:        def.Targets,
		SourceID:       source,
	}
}
