package world

// Mode is a tile highlight class.
type Mode int

const (
	ModeNone     Mode = iota
	ModeWalkable      // Reachable / free destination
	ModeBlocked       // Blocker, threat or invalid choice
	ModeValid         // Valid target or projectile path
	ModeFriendly      // Friendly target
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeWalkable:
		return "walkable"
	case ModeBlocked:
		return "blocked"
	case ModeValid:
		return "valid"
	case ModeFriendly:
		return "friendly"
	default:
		return "unknown"
	}
}

// Mark associates a tile coordinate with a highlight mode.
type Mark struct {
	Pos  Coord
	Mode Mode
}

// Reticule is an ordered list of tile highlights built for a single query.
// The zero value is ready to use.
type Reticule struct {
	marks []Mark
}

// NewReticule creates an empty reticule.
func NewReticule() *Reticule {
	return &Reticule{}
}

// Add appends one tile highlight.
func (r *Reticule) Add(c Coord, m Mode) {
	r.marks = append(r.marks, Mark{Pos: c, Mode: m})
}

// AddTiles appends the same mode for every tile.
func (r *Reticule) AddTiles(tiles []*Tile, m Mode) {
	for _, t := range tiles {
		r.Add(t.Pos, m)
	}
}

// AddCoords appends the same mode for every coordinate.
func (r *Reticule) AddCoords(coords []Coord, m Mode) {
	for _, c := range coords {
		r.Add(c, m)
	}
}

// Marks returns the highlights in insertion order.
func (r *Reticule) Marks() []Mark {
	return r.marks
}

// Len returns the number of highlights.
func (r *Reticule) Len() int {
	return len(r.marks)
}

// ModeAt returns the first mode recorded for c, or ModeNone.
func (r *Reticule) ModeAt(c Coord) Mode {
	for _, m := range r.marks {
		if m.Pos == c {
			return m.Mode
		}
	}
	return ModeNone
}

// Coords returns every coordinate first marked with mode m, in order.
func (r *Reticule) Coords(m Mode) []Coord {
	var out []Coord
	seen := make(map[Coord]bool)
	for _, mk := range r.marks {
		if seen[mk.Pos] {
			continue
		}
		seen[mk.Pos] = true
		if mk.Mode == m {
			out = append(out, mk.Pos)
		}
	}
	return out
}
