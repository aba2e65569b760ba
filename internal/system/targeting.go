// internal/system/targeting.go
package system

import (
	"sort"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
)

// Targeting picks enemies for towers.
type Targeting struct {
	ecs *entity.ECS
	rng *utils.PRNGService
}

func NewTargeting(ecs *entity.ECS, rng *utils.PRNGService) *Targeting {
	return &Targeting{ecs: ecs, rng: rng}
}

type candidate struct {
	id     types.EntityID
	e      *component.Enemy
	distSq float64
}

// InRange reports whether e is a valid target for t right now.
func InRange(t *component.Tower, e *component.Enemy) bool {
	if !ValidTarget(t.Def, e) {
		return false
	}
	d2 := utils.DistanceSq(t.X, t.Y, e.X, e.Y)
	return d2 <= t.Def.Range*t.Def.Range && d2 >= t.Def.RangeMin*t.Def.RangeMin
}

func (s *Targeting) candidates(t *component.Tower) []candidate {
	var out []candidate
	s.ecs.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if InRange(t, e) {
			out = append(out, candidate{id: id, e: e, distSq: utils.DistanceSq(t.X, t.Y, e.X, e.Y)})
		}
		return true
	})
	return out
}

// Select returns up to n targets ordered by the tower's priority. Ties keep spawn order.
func (s *Targeting) Select(t *component.Tower, n int) []types.EntityID {
	cs := s.candidates(t)
	if len(cs) == 0 || n <= 0 {
		return nil
	}
	switch t.Def.TargetPriority {
	case defs.TargetHighestHealth:
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].e.Health > cs[j].e.Health })
	case defs.TargetLowestHealth:
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].e.Health < cs[j].e.Health })
	case defs.TargetFurthest:
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].distSq > cs[j].distSq })
	case defs.TargetRandom:
		for i := len(cs) - 1; i > 0; i-- {
			j := s.rng.Intn(i + 1)
			cs[i], cs[j] = cs[j], cs[i]
		}
	default:
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].distSq < cs[j].distSq })
	}
	if n > len(cs) {
		n = len(cs)
	}
	ids := make([]types.EntityID, n)
	for i := 0; i < n; i++ {
		ids[i] = cs[i].id
	}
	return ids
}

// Best returns the single preferred target, or 0.
func (s *Targeting) Best(t *component.Tower) types.EntityID {
	ids := s.Select(t, 1)
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

// HasTarget reports whether any valid enemy is in range.
func (s *Targeting) HasTarget(t *component.Tower) bool {
	found := false
	s.ecs.Enemies.Each(func(_ types.EntityID, e *component.Enemy) bool {
		if InRange(t, e) {
			found = true
			return false
		}
		return true
	})
	return found
}

// closestEnemy returns the nearest enemy to (x,y) within radius that passes keep.
func closestEnemy(ecs *entity.ECS, x, y, radius float64, keep func(id types.EntityID, e *component.Enemy) bool) types.EntityID {
	var best types.EntityID
	bestD := radius * radius
	ecs.Enemies.Each(func(id types.EntityID, e *component.Enemy) bool {
		if !e.Alive() || !keep(id, e) {
			return true
		}
		if d := utils.DistanceSq(x, y, e.X, e.Y); d <= bestD {
			if best == 0 || d < bestD {
				best, bestD = id, d
			}
		}
		return true
	})
	return best
}
