// pkg/grid/pathfinding.go
package grid

import (
	"container/heap"
	"fmt"
)

// neighbor order is fixed so that equal-cost expansions are reproducible
var directions = [4]Cell{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// FindPath runs a 4-connected A* with a Manhattan heuristic from start to
// end. The returned path excludes start and ends with end. found is false
// when end cannot be reached. The start cell itself need not be passable
// so that movers standing on a freshly blocked cell can still re-plan.
func (g *Grid) FindPath(start, end Cell, air bool) (path []Cell, found bool, err error) {
	if !g.InBounds(start) {
		return nil, false, fmt.Errorf("path start (%d,%d): %w", start.X, start.Y, ErrInvalidArgument)
	}
	if !g.InBounds(end) {
		return nil, false, fmt.Errorf("path end (%d,%d): %w", end.X, end.Y, ErrInvalidArgument)
	}
	if start == end {
		return []Cell{}, true, nil
	}
	if !g.Passable(end, air) {
		return nil, false, nil
	}

	n := g.Width * g.Height
	gScore := make([]int, n)
	cameFrom := make([]int, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = -1
		cameFrom[i] = -1
	}

	pq := &PriorityQueue{}
	heap.Init(pq)
	startIdx := g.index(start.X, start.Y)
	gScore[startIdx] = 0
	heap.Push(pq, &Node{Cell: start, Cost: 0, Priority: manhattan(start, end)})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*Node)
		ci := g.index(current.Cell.X, current.Cell.Y)
		if closed[ci] {
			continue
		}
		closed[ci] = true
		if current.Cell == end {
			return g.reconstructPath(cameFrom, startIdx, ci), true, nil
		}
		for _, d := range directions {
			next := Cell{X: current.Cell.X + d.X, Y: current.Cell.Y + d.Y}
			if !g.Passable(next, air) {
				continue
			}
			ni := g.index(next.X, next.Y)
			if closed[ni] {
				continue
			}
			newCost := current.Cost + 1
			if gScore[ni] >= 0 && newCost >= gScore[ni] {
				continue
			}
			gScore[ni] = newCost
			cameFrom[ni] = ci
			heap.Push(pq, &Node{Cell: next, Cost: newCost, Priority: newCost + manhattan(next, end)})
		}
	}
	return nil, false, nil
}

// HasPath reports whether end is reachable from start.
func (g *Grid) HasPath(start, end Cell, air bool) bool {
	_, found, err := g.FindPath(start, end, air)
	return err == nil && found
}

func (g *Grid) reconstructPath(cameFrom []int, startIdx, endIdx int) []Cell {
	var rev []Cell
	for i := endIdx; i != startIdx && i >= 0; i = cameFrom[i] {
		rev = append(rev, Cell{X: i % g.Width, Y: i / g.Width})
	}
	path := make([]Cell, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

func manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Node is an open-set entry.
type Node struct {
	Cell     Cell
	Cost     int
	Priority int
}

// PriorityQueue orders nodes by priority, then lower y, then lower x.
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }
func (pq PriorityQueue) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.Cell.Y != b.Cell.Y {
		return a.Cell.Y < b.Cell.Y
	}
	return a.Cell.X < b.Cell.X
}
func (pq PriorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *PriorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*Node))
}
func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
