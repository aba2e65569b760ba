package system

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/types"
)

const tick = 1.0 / 64

func TestSalvoShotTiming(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "repeater", func(d *defs.TowerDefinition) {
		d.AttackInterval = 2
		d.Special = &defs.Salvo{Count: 4, Interval: 0.1}
	})
	_, tw := w.tower(def, 10, 10)
	_, e := w.enemy(tw.X+60, tw.Y, 1e6)

	var shots []float64
	for w.ecs.GameTime < 2.05 {
		res := w.step(tick)
		for range res.Projectiles {
			shots = append(shots, w.ecs.GameTime)
		}
	}
	require.Len(t, shots, 5)
	first := shots[0]
	for i, want := range []float64{first, first + 0.1, first + 0.2, first + 0.3, first + 2.0} {
		assert.InDelta(t, want, shots[i], tick+1e-9, "shot %d", i)
	}
	assert.True(t, e.Alive())
}

func TestSalvoStopsWhenTargetDies(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "repeater", func(d *defs.TowerDefinition) {
		d.AttackInterval = 2
		d.Special = &defs.Salvo{Count: 4, Interval: 0.1}
		d.ProjectileSpeed = -1
	})
	_, tw := w.tower(def, 10, 10)
	w.enemy(tw.X+60, tw.Y, 15)

	fired := 0
	for i := 0; i < 40; i++ {
		fired += len(w.step(tick).Projectiles)
	}
	assert.Equal(t, 2, fired)
	assert.Zero(t, tw.SalvoRemaining)
}

func TestSalvoFollowUpsUseAttackPath(t *testing.T) {
	tests := []struct {
		name        string
		attack      defs.AttackType
		projectiles int
	}{
		{"instant", defs.AttackInstant, 0},
		{"projectile", defs.AttackProjectile, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			def := towerDef(t, "repeater", func(d *defs.TowerDefinition) {
				d.AttackType = tt.attack
				d.AttackInterval = 5
				d.ProjectileSpeed = -1
				d.Special = &defs.Salvo{Count: 3, Interval: 0.1}
			})
			_, tw := w.tower(def, 10, 10)
			_, e := w.enemy(tw.X+60, tw.Y, 1000)

			launched := 0
			for i := 0; i < 32; i++ {
				launched += len(w.step(tick).Projectiles)
			}
			assert.Equal(t, tt.projectiles, launched)
			assert.InDelta(t, 970, e.Health, 1e-9)
			assert.Zero(t, tw.SalvoRemaining)
		})
	}
}

func TestRollDamageCrit(t *testing.T) {
	tests := []struct {
		name   string
		chance float64
		want   float64
	}{
		{"never", 0, 10},
		{"always", 1, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			_, tw := w.tower(towerDef(t, "sniper", func(d *defs.TowerDefinition) {
				d.CriticalChance = tt.chance
				d.CriticalMultiplier = 2.5
			}), 10, 10)

			dmg, crit := w.towers.rollDamage(tw, defs.TargetGround, 0)
			assert.Equal(t, tt.chance >= 1, crit)
			assert.InDelta(t, tt.want, dmg, 1e-9)
		})
	}
}

func TestChainZap(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "coil", func(d *defs.TowerDefinition) {
		d.AttackType = defs.AttackInstant
		d.AttackInterval = 5
		d.Special = &defs.ChainZap{ChainRadius: 40, DamagePerTower: 10}
	})
	a, ta := w.tower(def, 5, 5)
	b, tb := w.tower(def, 6, 5)
	c, tc := w.tower(def, 7, 5)
	w.tower(def, 20, 20)
	RebuildChainLinks(w.ecs)

	assert.Equal(t, []types.EntityID{b}, ta.LinkedNeighbors)
	assert.Equal(t, []types.EntityID{a, c}, tb.LinkedNeighbors)
	assert.Equal(t, []types.EntityID{a, b, c}, LongestChain(w.ecs, a))

	_, e := w.enemy(ta.X, ta.Y+100, 100)
	w.ecs.GameTime = 1
	res := w.towers.Fire()

	assert.InDelta(t, 70, e.Health, 1e-9)
	for _, tw := range []*component.Tower{ta, tb, tc} {
		assert.Equal(t, 1.0, tw.LastAttack)
	}
	var zaps int
	for _, v := range res.Visuals {
		if v.Kind == "zap" {
			zaps++
			assert.Len(t, v.Points, 4)
		}
	}
	assert.Equal(t, 1, zaps)
}

func TestLongestChainPrefersLongerBranch(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "coil", func(d *defs.TowerDefinition) {
		d.AttackType = defs.AttackInstant
		d.Special = &defs.ChainZap{ChainRadius: 33, DamagePerTower: 1}
	})
	// An L shape: the hub links left to one tower and down to a pair.
	hub, _ := w.tower(def, 10, 10)
	left, _ := w.tower(def, 9, 10)
	down1, _ := w.tower(def, 10, 11)
	down2, _ := w.tower(def, 10, 12)
	RebuildChainLinks(w.ecs)

	assert.Equal(t, []types.EntityID{hub, down1, down2}, LongestChain(w.ecs, hub))
	assert.Len(t, LongestChain(w.ecs, left), 4)
}

func TestLongestChainDenseClusterIsBounded(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "storm_coil", func(d *defs.TowerDefinition) {
		d.GridWidth, d.GridHeight = 2, 2
		d.AttackType = defs.AttackInstant
		d.Special = &defs.ChainZap{ChainRadius: 120, DamagePerTower: 1}
	})
	var ids []types.EntityID
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			id, _ := w.tower(def, 2+2*i, 2+2*j)
			ids = append(ids, id)
		}
	}
	RebuildChainLinks(w.ecs)

	for _, tt := range []struct {
		name  string
		start types.EntityID
	}{
		{"corner", ids[0]},
		{"centre", ids[12]},
	} {
		t.Run(tt.name, func(t *testing.T) {
			began := time.Now()
			chain := LongestChain(w.ecs, tt.start)
			assert.Less(t, time.Since(began), time.Second)
			assert.Len(t, chain, maxChainLength)
			assert.Equal(t, tt.start, chain[0])
			seen := map[types.EntityID]bool{}
			for _, id := range chain {
				assert.False(t, seen[id], "tower %d repeats", id)
				seen[id] = true
			}
		})
	}
}

func TestGoldGeneration(t *testing.T) {
	w := newWorld(t)
	w.tower(auraDef(t, "mint", &defs.GoldGeneration{Interval: 1, Amount: 3}), 5, 5)
	total := 0
	for i := 0; i < 4*64; i++ {
		w.ecs.GameTime += tick
		res := w.towers.Update(tick)
		total += res.GoldTotal()
	}
	assert.Equal(t, 12, total)
}

func TestBribe(t *testing.T) {
	t.Run("kills closest allowed enemy for gold", func(t *testing.T) {
		w := newWorld(t)
		w.ecs.Money = 100
		_, tw := w.tower(auraDef(t, "briber", &defs.Bribe{Interval: 1, Chance: 1, Cost: 20, Excluded: defs.StringList{"warlord"}}), 10, 10)
		_, boss := w.enemy(tw.X+10, tw.Y, 100)
		boss.DefID = "warlord"
		_, near := w.enemy(tw.X+50, tw.Y, 100)
		_, far := w.enemy(tw.X+90, tw.Y, 100)

		w.ecs.GameTime = 1
		res := w.towers.Update(0)
		assert.Equal(t, -20, res.GoldTotal())
		assert.True(t, near.Dead)
		assert.True(t, boss.Alive())
		assert.True(t, far.Alive())
	})
	t.Run("needs the money", func(t *testing.T) {
		w := newWorld(t)
		w.ecs.Money = 5
		_, tw := w.tower(auraDef(t, "briber", &defs.Bribe{Interval: 1, Chance: 1, Cost: 20}), 10, 10)
		_, e := w.enemy(tw.X+10, tw.Y, 100)

		w.ecs.GameTime = 1
		res := w.towers.Update(0)
		assert.Zero(t, res.GoldTotal())
		assert.True(t, e.Alive())
	})
}

func TestBombardmentStrikesNearTower(t *testing.T) {
	w := newWorld(t)
	_, tw := w.tower(auraDef(t, "bombard", &defs.Bombardment{Interval: 1, Radius: 50, StrikeRadius: 200, Damage: 10}), 10, 10)
	_, e := w.enemy(tw.X, tw.Y, 100)

	w.ecs.GameTime = 1
	res := w.towers.Update(0)
	assert.InDelta(t, 90, e.Health, 1e-9)
	require.Len(t, res.Visuals, 1)
	v := res.Visuals[0]
	assert.LessOrEqual(t, math.Hypot(v.X-tw.X, v.Y-tw.Y), 50.0)
}

func TestSelfDestruct(t *testing.T) {
	w := newWorld(t)
	id, tw := w.tower(auraDef(t, "keg", &defs.SelfDestruct{TriggerRadius: 40, ExplosionRadius: 100, Damage: 50}), 10, 10)
	_, far := w.enemy(tw.X+80, tw.Y, 100)

	res := w.towers.Update(0)
	assert.Empty(t, res.SelfDestruct)

	_, near := w.enemy(tw.X+20, tw.Y, 100)
	res = w.towers.Update(0)
	assert.Equal(t, []types.EntityID{id}, res.SelfDestruct)
	assert.InDelta(t, 50, near.Health, 1e-9)
	assert.InDelta(t, 50, far.Health, 1e-9)
}

func TestWalkoverCooldown(t *testing.T) {
	w := newWorld(t)
	def := auraDef(t, "spikes", &defs.Walkover{Damage: 5, StunDuration: 0.5, Cooldown: 1})
	def.Traversable = true
	_, tw := w.tower(def, 10, 10)
	_, e := w.enemy(tw.X, tw.Y, 100)

	for _, now := range []float64{0, 0.5, 1.0, 1.5} {
		w.ecs.GameTime = now
		w.towers.Update(0)
	}
	assert.InDelta(t, 90, e.Health, 1e-9)
	assert.True(t, IsStunned(e, 1.2))
}

func TestEffectiveInterval(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "gattling", func(d *defs.TowerDefinition) {
		d.AttackInterval = 1
		d.Special = &defs.Gattling{MaxLevel: 3, TimePerLevel: 1, SpeedMultiplier: 2, DecayTime: 1}
	})
	_, tw := w.tower(def, 10, 10)
	assert.Equal(t, 1.0, w.towers.EffectiveInterval(tw))

	tw.Stats.SpeedBonus = 1
	assert.Equal(t, 0.5, w.towers.EffectiveInterval(tw))

	tw.GattlingSpinning = true
	tw.GattlingLevel = 2
	assert.Equal(t, 0.125, w.towers.EffectiveInterval(tw))

	tw.GattlingLevel = 30
	tw.Stats.SpeedBonus = 0
	assert.Equal(t, config.MinAttackInterval, w.towers.EffectiveInterval(tw))
}

func TestGattlingSpinsUpAndDecays(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "gattling", func(d *defs.TowerDefinition) {
		d.AttackInterval = 0.5
		d.Special = &defs.Gattling{MaxLevel: 2, TimePerLevel: 1, SpeedMultiplier: 1.5, DecayTime: 1}
	})
	_, tw := w.tower(def, 10, 10)
	_, e := w.enemy(tw.X+60, tw.Y, 1e9)

	for w.ecs.GameTime < 4 {
		w.step(tick)
	}
	assert.True(t, tw.GattlingSpinning)
	assert.Equal(t, 2, tw.GattlingLevel)

	e.X = tw.X + 1000
	for w.ecs.GameTime < 7 {
		w.step(tick)
	}
	assert.False(t, tw.GattlingSpinning)
	assert.Zero(t, tw.GattlingLevel)
}

func TestBerserkAndRampage(t *testing.T) {
	w := newWorld(t)
	berserk := towerDef(t, "berserker", func(d *defs.TowerDefinition) {
		d.Special = &defs.Berserk{Chance: 1, Duration: 2, DamageMultiplier: 3}
	})
	_, tb := w.tower(berserk, 10, 10)
	w.towers.onFired(tb, 1)
	assert.True(t, tb.BerserkActive)
	assert.Equal(t, 3.0, tb.BerserkMult)

	dmg, _ := w.towers.rollDamage(tb, defs.TargetGround, 0)
	assert.InDelta(t, 30, dmg, 1e-9)

	w.ecs.GameTime = 3
	w.towers.Update(0)
	assert.False(t, tb.BerserkActive)

	rampage := towerDef(t, "rampager", func(d *defs.TowerDefinition) {
		d.Special = &defs.Rampage{DamagePerStack: 0.5, MaxStacks: 2, DecayDuration: 1}
	})
	_, tr := w.tower(rampage, 12, 10)
	for i := 0; i < 5; i++ {
		w.towers.onFired(tr, 3)
	}
	assert.Equal(t, 2, tr.RampageStacks)
	dmg, _ = w.towers.rollDamage(tr, defs.TargetGround, 0)
	assert.InDelta(t, 20, dmg, 1e-9)

	w.ecs.GameTime = 4
	w.towers.Update(0)
	assert.Zero(t, tr.RampageStacks)
}

func TestDistanceDamageBonus(t *testing.T) {
	w := newWorld(t)
	def := towerDef(t, "sniper", func(d *defs.TowerDefinition) {
		d.Hit = defs.HitModifiers{DistanceDamageBonus: 1}
	})
	_, tw := w.tower(def, 10, 10)
	near, _ := w.towers.rollDamage(tw, defs.TargetGround, 0)
	mid, _ := w.towers.rollDamage(tw, defs.TargetGround, 100)
	far, _ := w.towers.rollDamage(tw, defs.TargetGround, 400)
	assert.InDelta(t, 10, near, 1e-9)
	assert.InDelta(t, 15, mid, 1e-9)
	assert.InDelta(t, 20, far, 1e-9)
}

func TestSpreadAttacks(t *testing.T) {
	tests := []struct {
		name    string
		special defs.Special
		want    int
	}{
		{"shotgun", &defs.Shotgun{Pellets: 5, SpreadDeg: 30, Range: 150}, 5},
		{"quillspray", &defs.Quillspray{Quills: 8}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			_, tw := w.tower(towerDef(t, tt.name, func(d *defs.TowerDefinition) { d.Special = tt.special }), 10, 10)
			w.enemy(tw.X+60, tw.Y, 100)

			res := w.towers.Fire()
			require.Len(t, res.Projectiles, tt.want)
			for _, p := range res.Projectiles {
				assert.Equal(t, component.Straight, p.Kind)
				assert.Greater(t, p.MaxDistance, 0.0)
			}
		})
	}
}

func TestGrenadeAndClusterLaunch(t *testing.T) {
	w := newWorld(t)
	_, tg := w.tower(towerDef(t, "mortar", func(d *defs.TowerDefinition) {
		d.Special = &defs.Grenade{ExplosionRadius: 50}
	}), 5, 5)
	_, tc := w.tower(towerDef(t, "cluster", func(d *defs.TowerDefinition) {
		d.Special = &defs.Cluster{DetonationTime: 0.2, Pellets: 4, SpreadDeg: 90, ExplosionRadius: 30}
	}), 20, 5)
	w.enemy(tg.X+100, tg.Y, 1e6)
	w.enemy(tc.X+100, tc.Y, 1e6)

	res := w.towers.Fire()
	require.Len(t, res.Projectiles, 2)
	assert.Equal(t, component.Grenade, res.Projectiles[0].Kind)
	assert.Less(t, res.Projectiles[0].VY, 0.0, "grenades are lobbed upward")
	assert.Equal(t, component.Cluster, res.Projectiles[1].Kind)
	w.add(res)

	pellets := 0
	for i := 0; i < 20; i++ {
		w.ecs.GameTime += 0.02
		out := w.projectiles.Update(0.02)
		for _, p := range out.Projectiles {
			if p.Kind == component.Grenade && p.SourceID != 0 && p.Pellets == 0 {
				pellets++
			}
		}
		w.add(out)
	}
	assert.Equal(t, 4, pellets)
}

func TestBeamTargetsAndPainter(t *testing.T) {
	t.Run("beam damages up to max targets on interval", func(t *testing.T) {
		w := newWorld(t)
		_, tw := w.tower(towerDef(t, "beam", func(d *defs.TowerDefinition) {
			d.AttackType = defs.AttackBeam
			d.BeamMaxTargets = 2
		}), 10, 10)
		_, a := w.enemy(tw.X+20, tw.Y, 100)
		_, b := w.enemy(tw.X+40, tw.Y, 100)
		_, c := w.enemy(tw.X+60, tw.Y, 100)

		w.towers.Fire()
		assert.Len(t, tw.BeamTargets, 2)
		w.ecs.GameTime = 0.5
		w.towers.Fire()
		assert.InDelta(t, 90, a.Health, 1e-9)
		assert.InDelta(t, 90, b.Health, 1e-9)
		assert.InDelta(t, 100, c.Health, 1e-9)
	})
	t.Run("painter releases after charge", func(t *testing.T) {
		w := newWorld(t)
		_, tw := w.tower(towerDef(t, "painter", func(d *defs.TowerDefinition) {
			d.AttackType = defs.AttackBeam
			d.Special = &defs.LaserPainter{ChargeDuration: 1, DamageMultiplier: 4}
		}), 10, 10)
		_, e := w.enemy(tw.X+20, tw.Y, 100)

		for _, now := range []float64{0, 0.5, 0.99} {
			w.ecs.GameTime = now
			w.towers.Fire()
		}
		assert.InDelta(t, 100, e.Health, 1e-9)
		w.ecs.GameTime = 1
		w.towers.Fire()
		assert.InDelta(t, 60, e.Health, 1e-9)
	})
}

func TestWhipHitsInSequence(t *testing.T) {
	w := newWorld(t)
	_, tw := w.tower(towerDef(t, "whip", func(d *defs.TowerDefinition) {
		d.AttackType = defs.AttackWhip
		d.BeamMaxTargets = 3
	}), 10, 10)
	var enemies []*component.Enemy
	for i := 1; i <= 4; i++ {
		_, e := w.enemy(tw.X+float64(i*30), tw.Y, 100)
		enemies = append(enemies, e)
	}

	res := w.towers.Fire()
	for i, e := range enemies {
		want := 90.0
		if i == 3 {
			want = 100
		}
		assert.InDelta(t, want, e.Health, 1e-9)
	}
	require.NotEmpty(t, res.Visuals)
	last := res.Visuals[len(res.Visuals)-1]
	assert.Equal(t, "whip", string(last.Kind))
	assert.Len(t, last.Points, 4)
}

func TestBroadsideFiresBothSides(t *testing.T) {
	w := newWorld(t)
	_, tw := w.tower(towerDef(t, "broadside", func(d *defs.TowerDefinition) {
		d.AttackType = defs.AttackBroadside
		d.GridWidth, d.GridHeight = 2, 3
	}), 10, 10)

	assert.Empty(t, w.towers.Fire().Projectiles, "idle without a target")

	w.enemy(tw.X, tw.Y+150, 100)
	res := w.towers.Fire()
	require.Len(t, res.Projectiles, 6)
	left := 0
	for _, p := range res.Projectiles {
		assert.InDelta(t, 0, p.VY, 1e-6)
		if p.VX < 0 {
			left++
		}
	}
	assert.Equal(t, 3, left)
}

func TestHarpoonPullsAndStuns(t *testing.T) {
	w := newWorld(t)
	_, tw := w.tower(towerDef(t, "harpoon", func(d *defs.TowerDefinition) {
		d.AttackInterval = 10
		d.Special = &defs.Harpoon{PullDuration: 1, ShearMultiplier: 2, PullDamagePerSecond: 10, StunDuration: 1}
	}), 10, 10)
	_, e := w.enemy(tw.X+150, tw.Y, 1000)
	startDist := math.Hypot(e.X-tw.X, e.Y-tw.Y)

	res := w.towers.Fire()
	require.Len(t, res.Harpoons, 1)
	assert.InDelta(t, 980, e.Health, 1e-9, "strike is multiplied by shear")
	w.add(res)

	for i := 0; i < 64; i++ {
		w.ecs.GameTime += tick
		w.effects.Update(tick)
	}
	h := res.Harpoons[0]
	assert.True(t, h.Done)
	assert.Less(t, math.Hypot(e.X-tw.X, e.Y-tw.Y), startDist/2)
	assert.InDelta(t, 970, e.Health, 1e-6)
	assert.True(t, IsStunned(e, w.ecs.GameTime+0.5))
	assert.Zero(t, e.HarpoonedBy)
	assert.True(t, e.NeedsReplan)
}

func TestHarpoonStrikeReportsCrit(t *testing.T) {
	tests := []struct {
		name   string
		chance float64
		health float64
	}{
		{"plain", 0, 980},
		{"crit", 1, 960},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			_, tw := w.tower(towerDef(t, "harpoon", func(d *defs.TowerDefinition) {
				d.CriticalChance = tt.chance
				d.CriticalMultiplier = 2
				d.Special = &defs.Harpoon{PullDuration: 1, ShearMultiplier: 2}
			}), 10, 10)
			_, e := w.enemy(tw.X+150, tw.Y, 1000)

			res := w.towers.Fire()
			require.Len(t, res.Harpoons, 1)
			assert.InDelta(t, tt.health, e.Health, 1e-9)
			var strikes int
			for _, v := range res.Visuals {
				if v.Kind == "harpoon" {
					strikes++
					assert.Equal(t, tt.chance >= 1, v.Crit)
				}
			}
			assert.Equal(t, 1, strikes)
		})
	}
}

func TestOrbitersHitWithCooldown(t *testing.T) {
	w := newWorld(t)
	sp := &defs.Orbit{Count: 1, OrbitRadius: 40, AngularSpeed: 0, HitCooldown: 1, DamageMultiplier: 1}
	id, tw := w.tower(towerDef(t, "orbit", func(d *defs.TowerDefinition) {
		d.AttackType = defs.AttackAura
		d.Special = sp
	}), 10, 10)
	for _, o := range NewOrbiters(id, tw, sp) {
		w.ecs.Orbiters.Add(w.ecs.NewEntity(), o)
	}
	_, e := w.enemy(tw.X+40, tw.Y, 100)

	for i := 0; i < 4; i++ {
		w.ecs.GameTime += 0.4
		w.effects.Update(0.4)
	}
	assert.InDelta(t, 80, e.Health, 1e-9)
}

func TestPassThroughExploder(t *testing.T) {
	w := newWorld(t)
	_, tw := w.tower(auraDef(t, "drill", &defs.PassThroughExploder{
		Interval: 1, TravelDistance: 200, Speed: 400, ExplosionRadius: 40, ExplosionDamageMultiplier: 2, PassCooldown: 1,
	}), 10, 10)
	tw.Def.DamageMin, tw.Def.DamageMax = 10, 10
	_, e := w.enemy(tw.X+100, tw.Y, 100)

	w.ecs.GameTime = 1
	res := w.towers.Update(0)
	require.Len(t, res.Projectiles, 1)
	p := res.Projectiles[0]
	assert.Equal(t, component.PassThrough, p.Kind)
	w.add(res)

	for i := 0; i < 40 && !p.Done; i++ {
		w.ecs.GameTime += 0.05
		w.projectiles.Update(0.05)
	}
	assert.True(t, p.Done)
	assert.InDelta(t, 90, e.Health, 1e-9)
}
