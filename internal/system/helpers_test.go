package system

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/config"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
	"github.com/camerensmith/supermaultd/pkg/grid"
)

var testArmor = defs.ArmorTable{
	"Unarmored": {DamageModifiers: map[defs.DamageType]float64{}},
	"Fortified": {DamageModifiers: map[defs.DamageType]float64{"normal": 0.7}},
}

// world wires the simulation systems the way the game does, without the
// wave scheduler and payouts.
type world struct {
	ecs         *entity.ECS
	grid        *grid.Grid
	rng         *utils.PRNGService
	combat      *CombatSystem
	status      *StatusEffectSystem
	movement    *MovementSystem
	targeting   *Targeting
	projectiles *ProjectileSystem
	effects     *EffectSystem
	auras       *AuraSystem
	towers      *TowerSystem
}

func newWorld(t *testing.T) *world {
	t.Helper()
	logger := zerolog.Nop()
	w := &world{
		ecs:  entity.NewECS(),
		grid: grid.NewPlayfield(config.PlaceableWidth, config.PlaceableHeight, config.CellSize),
		rng:  utils.NewPRNGService(42),
	}
	w.combat = NewCombatSystem(w.ecs, testArmor, w.rng, logger)
	w.status = NewStatusEffectSystem(w.ecs, w.combat)
	w.movement = NewMovementSystem(w.ecs, w.grid, w.status, w.rng, logger)
	w.targeting = NewTargeting(w.ecs, w.rng)
	w.projectiles = NewProjectileSystem(w.ecs, w.combat, w.rng, config.CellSize, logger)
	w.effects = NewEffectSystem(w.ecs, w.combat, logger)
	w.auras = NewAuraSystem(w.ecs, w.combat, w.rng)
	w.towers = NewTowerSystem(w.ecs, w.combat, w.targeting, w.projectiles, w.effects, w.rng, logger)
	return w
}

func towerDef(t *testing.T, id string, mutate func(d *defs.TowerDefinition)) *defs.TowerDefinition {
	t.Helper()
	d := &defs.TowerDefinition{
		ID:             id,
		Name:           id,
		GridWidth:      1,
		GridHeight:     1,
		Cost:           10,
		DamageMin:      10,
		DamageMax:      10,
		AttackInterval: 1,
		Range:          200,
		AttackType:     defs.AttackProjectile,
		DamageType:     "normal",
		Targets:        defs.StringList{"ground", "air"},
	}
	if mutate != nil {
		mutate(d)
	}
	require.NoError(t, d.Validate())
	return d
}

func (w *world) enemy(x, y, hp float64) (types.EntityID, *component.Enemy) {
	id := w.ecs.NewEntity()
	e := &component.Enemy{
		DefID:     "ratling",
		Type:      defs.TargetGround,
		Value:     1,
		X:         x,
		Y:         y,
		Health:    hp,
		MaxHealth: hp,
		ArmorType: "Unarmored",
		Statuses:  make(map[string]*component.Status),
		Dots:      make(map[string]*component.Dot),
	}
	w.ecs.Enemies.Add(id, e)
	return id, e
}

func (w *world) tower(def *defs.TowerDefinition, gx, gy int) (types.EntityID, *component.Tower) {
	tw := NewTower(def, gx, gy, w.grid, w.ecs.GameTime)
	id := w.ecs.NewEntity()
	w.ecs.Towers.Add(id, tw)
	return id, tw
}

// add inserts the entities a result created.
func (w *world) add(res Result) {
	for _, p := range res.Projectiles {
		w.ecs.Projectiles.Add(w.ecs.NewEntity(), p)
	}
	for _, z := range res.Zones {
		w.ecs.Zones.Add(w.ecs.NewEntity(), z)
	}
	for _, h := range res.Harpoons {
		w.ecs.Harpoons.Add(w.ecs.NewEntity(), h)
	}
}

// step runs one tick of the pipeline after the wave step and returns the
// merged result.
func (w *world) step(dt float64) Result {
	w.ecs.GameTime += dt
	var res Result
	for _, r := range []func() Result{
		func() Result { return w.auras.Update(dt) },
		func() Result { return w.towers.Update(dt) },
		w.towers.Fire,
		func() Result { return w.projectiles.Update(dt) },
		func() Result { return w.effects.Update(dt) },
		func() Result { return w.movement.Update(dt) },
	} {
		out := r()
		w.add(out)
		res.Merge(out)
	}
	for _, id := range append(res.Dead, res.Leaked...) {
		if e, ok := w.ecs.Enemies.Get(id); ok {
			e.Processed = true
		}
	}
	w.ecs.Reap()
	return res
}
