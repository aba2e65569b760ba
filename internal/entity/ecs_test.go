package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/types"
)

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := NewStore[component.Projectile]()
	for _, id := range []types.EntityID{5, 2, 9} {
		s.Add(id, &component.Projectile{})
	}
	s.Add(2, &component.Projectile{Damage: 1})
	assert.Equal(t, []types.EntityID{5, 2, 9}, s.IDs())

	p, ok := s.Get(2)
	assert.True(t, ok)
	assert.Equal(t, 1.0, p.Damage)

	s.Remove(5)
	_, ok = s.Get(5)
	assert.False(t, ok)
	assert.Equal(t, []types.EntityID{2, 9}, s.IDs())
}

func TestStoreEachSkipsRemovedAndStops(t *testing.T) {
	s := NewStore[component.Projectile]()
	for id := types.EntityID(1); id <= 4; id++ {
		s.Add(id, &component.Projectile{})
	}
	var seen []types.EntityID
	s.Each(func(id types.EntityID, _ *component.Projectile) bool {
		seen = append(seen, id)
		if id == 1 {
			s.Remove(2)
			s.Add(10, &component.Projectile{})
		}
		return id != 3
	})
	assert.Equal(t, []types.EntityID{1, 3}, seen)
}

func TestReapRemovesOnlyFinishedEntities(t *testing.T) {
	ecs := NewECS()
	add := func(e *component.Enemy) types.EntityID {
		id := ecs.NewEntity()
		ecs.Enemies.Add(id, e)
		return id
	}
	alive := add(&component.Enemy{Health: 10})
	pending := add(&component.Enemy{Dead: true})
	dead := add(&component.Enemy{Dead: true, Processed: true})
	leaked := add(&component.Enemy{Health: 5, Leaked: true, Processed: true})

	ecs.Projectiles.Add(ecs.NewEntity(), &component.Projectile{Done: true})
	ecs.Projectiles.Add(ecs.NewEntity(), &component.Projectile{})
	tower := ecs.NewEntity()
	ecs.Towers.Add(tower, &component.Tower{Destroyed: true})

	r := ecs.Reap()
	assert.Equal(t, []types.EntityID{dead, leaked}, r.Enemies)
	assert.Equal(t, 1, r.Projectiles)
	assert.Equal(t, []types.EntityID{tower}, r.Towers)
	assert.Equal(t, []types.EntityID{alive, pending}, ecs.Enemies.IDs())
	assert.Equal(t, []types.EntityID{alive}, ecs.AliveEnemies())
}

func TestNewEntityIsMonotonic(t *testing.T) {
	ecs := NewECS()
	a, b := ecs.NewEntity(), ecs.NewEntity()
	assert.Equal(t, types.EntityID(1), a)
	assert.Less(t, uint64(a), uint64(b))
	assert.Equal(t, component.Running, ecs.GameState)
	assert.Equal(t, component.WaveIdle, ecs.Wave.State)
}
