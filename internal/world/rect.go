package world

// Rect is an axis-aligned block of cells.
type Rect struct {
	X, Y          int // Bottom-left corner
	Width, Height int
}

// RectAround returns the square of the given radius centred on c.
// A radius of 1 is a 3x3 block.
func RectAround(c Coord, radius int) Rect {
	return Rect{X: c.X - radius, Y: c.Y - radius, Width: radius*2 + 1, Height: radius*2 + 1}
}

// Center returns the centre cell of the rect.
func (r Rect) Center() Coord {
	return Coord{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains returns true if the given cell is inside the rect.
func (r Rect) Contains(c Coord) bool {
	return c.X >= r.X && c.X < r.X+r.Width && c.Y >= r.Y && c.Y < r.Y+r.Height
}
