package entity

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Side is the edge of the battlefield a team deploys from.
type Side int

const (
	SideWest Side = iota
	SideEast
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideWest:
		return "west"
	case SideEast:
		return "east"
	default:
		return "unknown"
	}
}

// ParseSide converts a scenario side name to a Side.
func ParseSide(name string) (Side, error) {
	switch name {
	case gamedata.SideWest:
		return SideWest, nil
	case gamedata.SideEast:
		return SideEast, nil
	default:
		return 0, fmt.Errorf("unknown team side %q", name)
	}
}

// Team is an ordered roster of combatants. Roster order is display and cycle order.
type Team struct {
	Name    string
	Side    Side
	Color   tcell.Color
	Members []*Combatant
}

// NewTeam creates an empty team.
func NewTeam(name string, side Side, color tcell.Color) *Team {
	return &Team{
		Name:  name,
		Side:  side,
		Color: color,
	}
}

// Add appends c to the roster and sets its team.
// Adding a combatant that belongs to any team already panics.
func (t *Team) Add(c *Combatant) {
	if c.Team != nil {
		panic(fmt.Sprintf("entity: %s already belongs to team %s", c.Name, c.Team.Name))
	}
	c.Team = t
	t.Members = append(t.Members, c)
}

// Remove takes c off the roster. Returns false if c was not a member.
func (t *Team) Remove(c *Combatant) bool {
	i := t.IndexOf(c)
	if i < 0 {
		return false
	}
	t.Members = append(t.Members[:i], t.Members[i+1:]...)
	return true
}

// IndexOf returns the roster index of c, or -1.
func (t *Team) IndexOf(c *Combatant) int {
	for i, m := range t.Members {
		if m == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c is on the roster.
func (t *Team) Contains(c *Combatant) bool {
	return t.IndexOf(c) >= 0
}

// Len returns the roster size.
func (t *Team) Len() int {
	return len(t.Members)
}

// Next returns the index after i, wrapping to the first member.
// With an empty roster it returns -1.
func (t *Team) Next(i int) int {
	n := len(t.Members)
	if n == 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	return (i + 1) % n
}

// Prev returns the index before i, wrapping to the last member.
// With an empty roster it returns -1.
func (t *Team) Prev(i int) int {
	n := len(t.Members)
	if n == 0 {
		return -1
	}
	if i <= 0 || i > n {
		return n - 1
	}
	return i - 1
}

// AliveCount returns the number of members with health remaining.
func (t *Team) AliveCount() int {
	count := 0
	for _, m := range t.Members {
		if m.IsAlive() {
			count++
		}
	}
	return count
}

// ReplenishAll restores every member's action points.
func (t *Team) ReplenishAll() {
	for _, m := range t.Members {
		m.ReplenishActionPoints()
	}
}

// DeploymentPosition finds the next free starting tile for this team.
// Columns are scanned inward from the team's edge; within a column rows are
// tried outward from the vertical centre: centre, +1, -1, +2, -2, ...
func (t *Team) DeploymentPosition(g *world.Grid) (world.Coord, bool) {
	startX, stepX := 0, 1
	if t.Side == SideEast {
		startX, stepX = g.Width-1, -1
	}

	for x := startX; x >= 0 && x < g.Width; x += stepX {
		if c, ok := freeInColumn(g, x); ok {
			return c, true
		}
	}
	return world.Coord{}, false
}

func freeInColumn(g *world.Grid, x int) (world.Coord, bool) {
	center := g.Height / 2
	for offset := 0; offset <= g.Height/2; offset++ {
		if c := (world.Coord{X: x, Y: center + offset}); g.IsFree(c) {
			return c, true
		}
		if offset == 0 {
			continue
		}
		if c := (world.Coord{X: x, Y: center - offset}); g.IsFree(c) {
			return c, true
		}
	}
	return world.Coord{}, false
}
