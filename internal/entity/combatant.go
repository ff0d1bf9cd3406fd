// Package entity provides combatants, teams and the ability sessions that
// bind a combatant to its abilities.
package entity

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Combatant is a unit on the battlefield.
// The grid stores the combatant's ID; the combatant stores its coordinate.
type Combatant struct {
	ID     uuid.UUID
	Name   string
	Class  *gamedata.ClassDef
	Symbol rune

	Health, MaxHealth             int
	ActionPoints, MaxActionPoints int

	Team     *Team
	Pos      world.Coord
	Placed   bool // True while the combatant occupies the tile at Pos
	Sessions []*Session
}

// NewCombatant creates a combatant with full health and action points from its class.
func NewCombatant(name string, class *gamedata.ClassDef) *Combatant {
	if class == nil {
		panic("entity: combatant without class")
	}
	if name == "" {
		name = class.Name
	}
	return &Combatant{
		ID:              uuid.New(),
		Name:            name,
		Class:           class,
		Symbol:          class.SymbolRune(),
		Health:          class.MaxHealth,
		MaxHealth:       class.MaxHealth,
		ActionPoints:    class.ActionPoints,
		MaxActionPoints: class.ActionPoints,
	}
}

// IsAlive returns true if the combatant has health remaining.
func (c *Combatant) IsAlive() bool { return c.Health > 0 }

// Color returns the class colour, falling back to the team colour.
func (c *Combatant) Color() tcell.Color {
	if color := c.Class.TCellColor(); color != tcell.ColorDefault {
		return color
	}
	if c.Team != nil {
		return c.Team.Color
	}
	return tcell.ColorWhite
}

// TakeDamage reduces health and returns actual damage taken.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > c.Health {
		actual = c.Health
	}
	c.Health -= actual
	return actual
}

// Heal restores health and returns actual amount healed.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || !c.IsAlive() {
		return 0
	}
	actual := amount
	if c.Health+actual > c.MaxHealth {
		actual = c.MaxHealth - c.Health
	}
	c.Health += actual
	return actual
}

// CanAfford reports whether the combatant holds at least amount action points.
func (c *Combatant) CanAfford(amount int) bool {
	return amount >= 0 && c.ActionPoints >= amount
}

// SpendActionPoints reduces action points and returns false if insufficient.
func (c *Combatant) SpendActionPoints(amount int) bool {
	if !c.CanAfford(amount) {
		return false
	}
	c.ActionPoints -= amount
	return true
}

// ReplenishActionPoints restores action points to the per-turn maximum.
func (c *Combatant) ReplenishActionPoints() {
	c.ActionPoints = c.MaxActionPoints
}

// PlaceOn occupies the tile at the given coordinate.
// Placing a combatant that already holds a different tile is a programming
// error and panics.
func (c *Combatant) PlaceOn(g *world.Grid, at world.Coord) error {
	if c.Placed && c.Pos != at {
		panic(fmt.Sprintf("entity: %s already placed at %s, cannot place at %s", c.Name, c.Pos, at))
	}
	if err := g.Occupy(at, c.ID); err != nil {
		return fmt.Errorf("place %s: %w", c.Name, err)
	}
	c.Pos = at
	c.Placed = true
	return nil
}

// Lift vacates the combatant's tile. Pos is kept so travel can continue from it.
func (c *Combatant) Lift(g *world.Grid) {
	if !c.Placed {
		return
	}
	if g.OccupantAt(c.Pos) == c.ID {
		g.Vacate(c.Pos)
	}
	c.Placed = false
}

// Relocate lifts the combatant and places it at the given coordinate.
// On failure the combatant is put back where it was.
func (c *Combatant) Relocate(g *world.Grid, to world.Coord) error {
	from := c.Pos
	c.Lift(g)
	if err := c.PlaceOn(g, to); err != nil {
		if restoreErr := c.PlaceOn(g, from); restoreErr != nil {
			panic(fmt.Sprintf("entity: %s lost its tile: %v", c.Name, restoreErr))
		}
		return err
	}
	return nil
}

// Bind creates the combatant's session for def. Sessions are created once
// at spawn; binding the same ability twice panics.
func (c *Combatant) Bind(def *gamedata.AbilityDef, behavior Behavior) *Session {
	for _, s := range c.Sessions {
		if s.Def.ID == def.ID {
			panic(fmt.Sprintf("entity: %s already has ability %q", c.Name, def.ID))
		}
	}
	s := &Session{Combatant: c, Def: def, Behavior: behavior}
	c.Sessions = append(c.Sessions, s)
	return s
}

// Session returns the session at index i, or nil if out of range.
func (c *Combatant) Session(i int) *Session {
	if i < 0 || i >= len(c.Sessions) {
		return nil
	}
	return c.Sessions[i]
}

// SessionFor returns the session for the ability with the given ID, or nil.
func (c *Combatant) SessionFor(abilityID string) *Session {
	for _, s := range c.Sessions {
		if s.Def.ID == abilityID {
			return s
		}
	}
	return nil
}

// IsAlly reports whether other is on the same team. A combatant is its own ally.
func (c *Combatant) IsAlly(other *Combatant) bool {
	return other != nil && c.Team != nil && other.Team == c.Team
}

// IsEnemy reports whether other is on a different team.
func (c *Combatant) IsEnemy(other *Combatant) bool {
	return other != nil && c.Team != nil && other.Team != nil && other.Team != c.Team
}
