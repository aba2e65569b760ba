// internal/system/chain.go
package system

import (
	"sort"

	"github.com/camerensmith/supermaultd/internal/component"
	"github.com/camerensmith/supermaultd/internal/defs"
	"github.com/camerensmith/supermaultd/internal/entity"
	"github.com/camerensmith/supermaultd/internal/types"
	"github.com/camerensmith/supermaultd/internal/utils"
)

const (
	// maxChainLength bounds the path search on dense clusters of linked towers.
	maxChainLength = 16
	// maxChainExpansions caps the nodes visited by one search.
	maxChainExpansions = 4096
)

// RebuildChainLinks links every chain-zap tower to same-type towers whose
// centres lie within its chain radius. Links are kept sorted by id.
func RebuildChainLinks(ecs *entity.ECS) {
	ecs.Towers.Each(func(id types.EntityID, t *component.Tower) bool {
		t.LinkedNeighbors = t.LinkedNeighbors[:0]
		sp, ok := t.Def.Special.(*defs.ChainZap)
		if !ok || t.Destroyed {
			return true
		}
		r2 := sp.ChainRadius * sp.ChainRadius
		ecs.Towers.Each(func(oid types.EntityID, o *component.Tower) bool {
			if oid != id && !o.Destroyed && o.DefID == t.DefID && utils.DistanceSq(t.X, t.Y, o.X, o.Y) <= r2 {
				t.LinkedNeighbors = append(t.LinkedNeighbors, oid)
			}
			return true
		})
		sort.Slice(t.LinkedNeighbors, func(i, j int) bool { return t.LinkedNeighbors[i] < t.LinkedNeighbors[j] })
		return true
	})
}

// LongestChain returns the longest simple path of linked towers starting at
// start. The first path found wins a tie. On dense clusters the search stops
// at maxChainLength or after maxChainExpansions nodes, keeping the best so far.
func LongestChain(ecs *entity.ECS, start types.EntityID) []types.EntityID {
	visited := map[types.EntityID]bool{start: true}
	path := []types.EntityID{start}
	best := []types.EntityID{start}
	expansions := 0

	var walk func(id types.EntityID)
	walk = func(id types.EntityID) {
		if len(path) > len(best) {
			best = append(best[:0:0], path...)
		}
		expansions++
		if len(path) >= maxChainLength || expansions >= maxChainExpansions {
			return
		}
		t, ok := ecs.Towers.Get(id)
		if !ok {
			return
		}
		for _, next := range t.LinkedNeighbors {
			if len(best) >= maxChainLength || expansions >= maxChainExpansions {
				return
			}
			if visited[next] {
				continue
			}
			if n, ok := ecs.Towers.Get(next); !ok || n.Destroyed {
				continue
			}
			visited[next] = true
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			visited[next] = false
		}
	}
	walk(start)
	return best
}
