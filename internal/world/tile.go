// Package world provides the battlefield grid, region queries and pathfinding.
package world

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Coord is a logical grid coordinate.
type Coord struct {
	X, Y int
}

// Step returns the coordinate n cells away in direction d.
func (c Coord) Step(d Direction, n int) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx*n, Y: c.Y + dy*n}
}

// Manhattan returns the 4-connected distance between two coordinates.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Distance returns the straight-line distance between two coordinates.
func (c Coord) Distance(o Coord) float64 {
	return math.Hypot(float64(c.X-o.X), float64(c.Y-o.Y))
}

// String returns the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four cardinal directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the cardinal directions in traversal order.
var Directions = [...]Direction{Up, Down, Left, Right}

// Delta returns the unit step for the direction. Up is +Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// DirectionTo returns the cardinal direction from one coordinate to another.
// ok is false unless to lies strictly on one of from's axes.
func DirectionTo(from, to Coord) (d Direction, ok bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch {
	case dx == 0 && dy > 0:
		return Up, true
	case dx == 0 && dy < 0:
		return Down, true
	case dy == 0 && dx < 0:
		return Left, true
	case dy == 0 && dx > 0:
		return Right, true
	default:
		return Up, false
	}
}

// Tile is a single grid cell.
type Tile struct {
	Pos      Coord     // Fixed at grid construction
	Occupant uuid.UUID // uuid.Nil when empty
	Mode     Mode      // Highlight state, rewritten every frame
}

// IsOccupied returns true if a combatant stands on the tile.
func (t *Tile) IsOccupied() bool {
	return t.Occupant != uuid.Nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
