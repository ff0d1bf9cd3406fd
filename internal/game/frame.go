package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/world"
)

// UnitView is the HUD state of one fielded combatant.
type UnitView struct {
	Name      string
	Team      string
	Pos       world.Coord
	Health    int
	MaxHealth int
	AP        int
	MaxAP     int
	Symbol    rune
	Color     tcell.Color
	Selected  bool
}

// AbilityView is one button of the selected unit's ability bar.
type AbilityView struct {
	Name        string
	Icon        rune
	Description string
	Cost        int
	Usable      bool
}

// TeamView is the HUD state of one team.
type TeamView struct {
	Name   string
	Color  tcell.Color
	Units  int
	Active bool
}

// Frame is everything the presentation layer needs to draw one step.
type Frame struct {
	Phase       Phase
	View        View
	Turn        int
	ActiveTeam  string
	ActiveColor tcell.Color

	// Grid carries the reticule modes applied for this frame.
	Grid     *world.Grid
	Reticule *world.Reticule

	Teams     []TeamView
	Units     []UnitView
	Selected  *UnitView
	Abilities []AbilityView
	Ability   int // Captured session index, or NoAbility

	// Progress is the fraction of the cast's current timed beat.
	Progress float64
	Message  string
	Winner   string // Empty on a draw or while undecided

	Hover    world.Coord
	Hovering bool
}

func unitView(c *entity.Combatant, selected *entity.Combatant) UnitView {
	team := ""
	if c.Team != nil {
		team = c.Team.Name
	}
	return UnitView{
		Name:      c.Name,
		Team:      team,
		Pos:       c.Pos,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		AP:        c.ActionPoints,
		MaxAP:     c.MaxActionPoints,
		Symbol:    c.Symbol,
		Color:     c.Color(),
		Selected:  c == selected,
	}
}
