// pkg/grid/grid.go
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for coordinates outside the grid.
var ErrInvalidArgument = errors.New("invalid argument")

// CellState is the occupancy of a single grid cell.
type CellState uint8

const (
	Empty CellState = iota
	Obstacle
	Restricted
)

func (s CellState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Obstacle:
		return "obstacle"
	case Restricted:
		return "restricted"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(s))
	}
}

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is a W×H occupancy matrix with a fixed pixel size per cell.
type Grid struct {
	Width    int
	Height   int
	CellSize float64
	cells    []CellState
}

// New creates an empty grid.
func New(width, height int, cellSize float64) *Grid {
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		cells:    make([]CellState, width*height),
	}
}

// NewPlayfield creates a placeable area of placeW×placeH cells surrounded
// by a one-cell Restricted border.
func NewPlayfield(placeW, placeH int, cellSize float64) *Grid {
	g := New(placeW+2, placeH+2, cellSize)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1 {
				g.cells[g.index(x, y)] = Restricted
			}
		}
	}
	return g
}

func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// At returns the state of c.
func (g *Grid) At(c Cell) (CellState, error) {
	if !g.InBounds(c) {
		return Restricted, fmt.Errorf("cell (%d,%d) outside %dx%d grid: %w", c.X, c.Y, g.Width, g.Height, ErrInvalidArgument)
	}
	return g.cells[g.index(c.X, c.Y)], nil
}

// State returns the state of c, treating out-of-bounds cells as Restricted.
func (g *Grid) State(c Cell) CellState {
	if !g.InBounds(c) {
		return Restricted
	}
	return g.cells[g.index(c.X, c.Y)]
}

// Set changes the state of c.
func (g *Grid) Set(c Cell, s CellState) error {
	if !g.InBounds(c) {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid: %w", c.X, c.Y, g.Width, g.Height, ErrInvalidArgument)
	}
	g.cells[g.index(c.X, c.Y)] = s
	return nil
}

// Clone returns a deep copy used for simulated mutations.
func (g *Grid) Clone() *Grid {
	cp := &Grid{Width: g.Width, Height: g.Height, CellSize: g.CellSize, cells: make([]CellState, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}

// PathStart is the cell every spawned enemy starts from.
func (g *Grid) PathStart() Cell {
	return Cell{X: g.Width / 2, Y: 1}
}

// PathEnd is the objective cell all path-finding targets.
func (g *Grid) PathEnd() Cell {
	return Cell{X: g.Width / 2, Y: g.Height - 2}
}

// Passable reports whether a mover can enter c. Air movers ignore
// Obstacle cells but never cross Restricted ones.
func (g *Grid) Passable(c Cell, air bool) bool {
	switch g.State(c) {
	case Empty:
		return true
	case Obstacle:
		return air
	default:
		return false
	}
}

// CanPlace reports whether every cell is in bounds and Empty.
func (g *Grid) CanPlace(cells []Cell) bool {
	for _, c := range cells {
		if g.State(c) != Empty {
			return false
		}
	}
	return true
}

// Footprint lists the cells covered by a w×h rectangle whose top-left is (x,y).
func Footprint(x, y, w, h int) []Cell {
	cells := make([]Cell, 0, w*h)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			cells = append(cells, Cell{X: x + dx, Y: y + dy})
		}
	}
	return cells
}

// Center returns the pixel center of c.
func (g *Grid) Center(c Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * g.CellSize, (float64(c.Y) + 0.5) * g.CellSize
}

// CellAt returns the cell containing pixel (x,y), clamped to the grid.
func (g *Grid) CellAt(x, y float64) Cell {
	cx := int(math.Floor(x / g.CellSize))
	cy := int(math.Floor(y / g.CellSize))
	return Cell{X: clamp(cx, 0, g.Width-1), Y: clamp(cy, 0, g.Height-1)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
