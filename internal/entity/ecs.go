// internal/entity/ecs.go
package entity

import (
	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/types"
)

// Store keeps entities of one kind in insertion order so that every
// iteration is deterministic.
type Store[T any] struct {
	order []types.EntityID
	items map[types.EntityID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[types.EntityID]*T)}
}

func (s *Store[T]) Add(id types.EntityID, v *T) {
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = v
}

// Get resolves id; ok is false once the entity has been reaped.
func (s *Store[T]) Get(id types.EntityID) (*T, bool) {
	v, ok := s.items[id]
	return v, ok
}

func (s *Store[T]) Len() int { return len(s.order) }

// IDs returns a snapshot of the ids in insertion order. Entities added
// while iterating the snapshot are not visited.
func (s *Store[T]) IDs() []types.EntityID {
	ids := make([]types.EntityID, len(s.order))
	copy(ids, s.order)
	return ids
}

// Each visits entities in insertion order, stopping when fn returns false.
func (s *Store[T]) Each(fn func(id types.EntityID, v *T) bool) {
	for _, id := range s.IDs() {
		v, ok := s.items[id]
		if !ok {
			continue
		}
		if !fn(id, v) {
			return
		}
	}
}

func (s *Store[T]) Remove(id types.EntityID) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reap removes every entity for which dead returns true and returns their ids.
func (s *Store[T]) Reap(dead func(v *T) bool) []types.EntityID {
	var removed []types.EntityID
	kept := s.order[:0]
	for _, id := range s.order {
		if dead(s.items[id]) {
			delete(s.items, id)
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// ECS is the world arena: every live entity, the clock and the scheduler state.
type ECS struct {
	GameTime    float64
	NextID      types.EntityID
	Enemies     *Store[component.Enemy]
	Towers      *Store[component.Tower]
	Projectiles *Store[component.Projectile]
	Harpoons    *Store[component.Harpoon]
	Orbiters    *Store[component.Orbiter]
	Zones       *Store[component.GroundZone]
	Wave        *component.Wave

	Money         int
	Lives         int
	StartingLives int
	GameState     component.GameState
}

func NewECS() *ECS {
	return &ECS{
		NextID:      1,
		Enemies:     NewStore[component.Enemy](),
		Towers:      NewStore[component.Tower](),
		Projectiles: NewStore[component.Projectile](),
		Harpoons:    NewStore[component.Harpoon](),
		Orbiters:    NewStore[component.Orbiter](),
		Zones:       NewStore[component.GroundZone](),
		Wave:        &component.Wave{},
		GameState:   component.Running,
	}
}

func (ecs *ECS) NewEntity() types.EntityID {
	id := ecs.NextID
	ecs.NextID++
	return id
}

// Reaped lists what a reap pass removed.
type Reaped struct {
	Enemies     []types.EntityID
	Projectiles int
	Harpoons    int
	Orbiters    int
	Zones       int
	Towers      []types.EntityID
}

// Reap removes dead enemies, finished projectiles and effects, and destroyed
// towers. It is the only place entities leave the world during a tick.
func (ecs *ECS) Reap() Reaped {
	var r Reaped
	r.Enemies = ecs.Enemies.Reap(func(e *component.Enemy) bool { return (e.Dead || e.Leaked) && e.Processed })
	r.Projectiles = len(ecs.Projectiles.Reap(func(p *component.Projectile) bool { return p.Done }))
	r.Harpoons = len(ecs.Harpoons.Reap(func(h *component.Harpoon) bool { return h.Done }))
	r.Orbiters = len(ecs.Orbiters.Reap(func(o *component.Orbiter) bool { return o.Done }))
	r.Zones = len(ecs.Zones.Reap(func(z *component.GroundZone) bool { return z.Done }))
	r.Towers = ecs.Towers.Reap(func(t *component.Tower) bool { return t.Destroyed })
	return r
}

// AliveEnemies returns live enemies in spawn order.
func (ecs *ECS) AliveEnemies() []types.EntityID {
	var ids []types.EntityID
	ecs.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if e.Alive() {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}
