// Package grid provides the bounded 2-D space agents move on. Cells may hold
// any number of occupants; the grid carries no ledger semantics and only
// constrains which agents can meet.
package grid

import (
	"fmt"
	"sync"

	"github.com/clearsim/clearsim/internal/identity"
)

// Position is a cell coordinate.
type Position struct {
	X int
	Y int
}

// Grid is a clamped (non-wrapping) width×height multi-occupancy grid.
// Occupants of a cell are kept in arrival order, so a seeded simulation
// visits them deterministically.
type Grid struct {
	mu        sync.RWMutex
	width     int
	height    int
	positions map[identity.ID]Position
	cells     map[Position][]identity.ID
}

// New builds an empty grid. Dimensions must be positive.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: dimensions must be positive, got %dx%d", width, height)
	}
	return &Grid{
		width:     width,
		height:    height,
		positions: make(map[identity.ID]Position),
		cells:     make(map[Position][]identity.ID),
	}, nil
}

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

func (g *Grid) inBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Place puts an occupant at the given cell, moving it if already placed.
func (g *Grid) Place(id identity.ID, p Position) error {
	if !g.inBounds(p) {
		return fmt.Errorf("grid: position %v out of bounds", p)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if prev, ok := g.positions[id]; ok {
		if prev == p {
			return nil
		}
		g.cells[prev] = remove(g.cells[prev], id)
	}
	g.positions[id] = p
	g.cells[p] = append(g.cells[p], id)
	return nil
}

// PositionOf returns the occupant's current cell.
func (g *Grid) PositionOf(id identity.ID) (Position, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.positions[id]
	return p, ok
}

// Neighborhood returns the 8-connected neighbor cells of p that lie inside
// the grid, excluding p itself. Edges clamp: there is no wraparound.
func (g *Grid) Neighborhood(p Position) []Position {
	out := make([]Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Position{X: p.X + dx, Y: p.Y + dy}
			if g.inBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Occupants returns every occupant of the given cell in arrival order.
func (g *Grid) Occupants(p Position) []identity.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cell := g.cells[p]
	out := make([]identity.ID, len(cell))
	copy(out, cell)
	return out
}

// remove drops id from the slice preserving the order of everyone else.
func remove(ids []identity.ID, id identity.ID) []identity.ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
