package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

const (
	// Default battlefield dimensions
	DefaultWidth  = 5
	DefaultHeight = 5
)

var (
	// ErrOutOfBounds is returned when a coordinate lies outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrOccupied is returned when placing onto a tile that already has an occupant.
	ErrOccupied = errors.New("tile already occupied")
)

// Grid is the battlefield: a fixed width x height array of tiles.
// Tiles store occupant IDs; combatants store their coordinate.
type Grid struct {
	Width  int
	Height int
	Tiles  [][]Tile
}

// NewGrid creates an empty grid. Width and height must be positive.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("world: invalid grid size %dx%d", width, height))
	}

	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = Tile{Pos: Coord{X: x, Y: y}}
		}
	}

	return &Grid{
		Width:  width,
		Height: height,
		Tiles:  tiles,
	}
}

// InBounds returns true if c is inside [0,Width)x[0,Height).
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Get returns the tile at c, or nil if c is out of bounds.
func (g *Grid) Get(c Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return &g.Tiles[c.Y][c.X]
}

// At returns the tile at (x, y), or nil if out of bounds.
func (g *Grid) At(x, y int) *Tile {
	return g.Get(Coord{X: x, Y: y})
}

// Each calls fn for every tile in row-major order.
func (g *Grid) Each(fn func(t *Tile)) {
	for y := range g.Tiles {
		for x := range g.Tiles[y] {
			fn(&g.Tiles[y][x])
		}
	}
}

// OccupantAt returns the occupant ID at c, or uuid.Nil.
func (g *Grid) OccupantAt(c Coord) uuid.UUID {
	t := g.Get(c)
	if t == nil {
		return uuid.Nil
	}
	return t.Occupant
}

// IsFree returns true if c is in bounds and unoccupied.
func (g *Grid) IsFree(c Coord) bool {
	t := g.Get(c)
	return t != nil && !t.IsOccupied()
}

// Occupy marks the tile at c as held by id.
// Re-occupying a tile by the same id is a no-op.
func (g *Grid) Occupy(c Coord, id uuid.UUID) error {
	t := g.Get(c)
	if t == nil {
		return fmt.Errorf("occupy %s: %w", c, ErrOutOfBounds)
	}
	if id == uuid.Nil {
		return fmt.Errorf("occupy %s: nil occupant", c)
	}
	if t.IsOccupied() && t.Occupant != id {
		return fmt.Errorf("occupy %s: %w", c, ErrOccupied)
	}
	t.Occupant = id
	return nil
}

// Vacate clears the occupant at c. Out-of-bounds coordinates are ignored.
func (g *Grid) Vacate(c Coord) {
	if t := g.Get(c); t != nil {
		t.Occupant = uuid.Nil
	}
}

// Line returns tiles stepping from origin in dir, up to length cells away,
// in ascending distance. It stops at the grid edge but not at occupants.
func (g *Grid) Line(origin Coord, dir Direction, length int, includeOrigin bool) []*Tile {
	start := 1
	if includeOrigin {
		start = 0
	}

	var tiles []*Tile
	for i := start; i <= length; i++ {
		t := g.Get(origin.Step(dir, i))
		if t == nil {
			break
		}
		tiles = append(tiles, t)
	}
	return tiles
}

// Diamond returns in-bounds tiles within Manhattan distance of origin.
func (g *Grid) Diamond(origin Coord, distance int, includeOrigin bool) []*Tile {
	var tiles []*Tile
	for dx := -distance; dx <= distance; dx++ {
		for dy := -distance; dy <= distance; dy++ {
			if !includeOrigin && dx == 0 && dy == 0 {
				continue
			}
			if abs(dx)+abs(dy) > distance {
				continue
			}
			if t := g.Get(Coord{X: origin.X + dx, Y: origin.Y + dy}); t != nil {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// Circle returns in-bounds tiles within Euclidean radius of origin.
func (g *Grid) Circle(origin Coord, radius float64, includeOrigin bool) []*Tile {
	ceil := int(math.Ceil(radius))

	var tiles []*Tile
	for dx := -ceil; dx <= ceil; dx++ {
		for dy := -ceil; dy <= ceil; dy++ {
			if !includeOrigin && dx == 0 && dy == 0 {
				continue
			}
			if float64(dx*dx+dy*dy) > radius*radius {
				continue
			}
			if t := g.Get(Coord{X: origin.X + dx, Y: origin.Y + dy}); t != nil {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// Rect returns the in-bounds tiles covered by r.
func (g *Grid) Rect(r Rect) []*Tile {
	var tiles []*Tile
	for x := r.X; x < r.X+r.Width; x++ {
		for y := r.Y; y < r.Y+r.Height; y++ {
			if t := g.Get(Coord{X: x, Y: y}); t != nil {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// Neighbors returns the in-bounds 4-neighbours of c in direction order.
func (g *Grid) Neighbors(c Coord) []*Tile {
	tiles := make([]*Tile, 0, len(Directions))
	for _, d := range Directions {
		if t := g.Get(c.Step(d, 1)); t != nil {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// ApplyReticule resets every tile's highlight and then applies r.
// A tile listed more than once keeps its first mode.
func (g *Grid) ApplyReticule(r *Reticule) {
	g.ClearReticule()
	if r == nil {
		return
	}

	seen := make(map[Coord]bool, r.Len())
	for _, m := range r.Marks() {
		if seen[m.Pos] {
			continue
		}
		seen[m.Pos] = true
		if t := g.Get(m.Pos); t != nil {
			t.Mode = m.Mode
		}
	}
}

// ClearReticule resets every tile's highlight to ModeNone.
func (g *Grid) ClearReticule() {
	g.Each(func(t *Tile) { t.Mode = ModeNone })
}
