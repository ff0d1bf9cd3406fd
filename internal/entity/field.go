package entity

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/samdwyer/gridtactics/internal/world"
)

// Field is the battlefield as seen by abilities: the grid, the combatants on
// it and the operations that change their state.
type Field interface {
	Grid() *world.Grid
	// Lookup returns the combatant with the given ID, or nil.
	Lookup(id uuid.UUID) *Combatant
	// At returns the combatant occupying c, or nil.
	At(c world.Coord) *Combatant
	// Allies returns the fielded members of c's team, including c.
	Allies(c *Combatant) []*Combatant
	// Enemies returns the fielded members of every other team.
	Enemies(c *Combatant) []*Combatant
	// Damage applies damage and handles defeat. Returns damage dealt.
	Damage(source, target *Combatant, amount int) int
	// Heal applies healing. Returns the amount restored.
	Heal(source, target *Combatant, amount int) int
	// Spawn creates a combatant of class on team at the given tile, with
	// full health, no action points and its ability sessions bound.
	Spawn(class string, team *Team, at world.Coord) (*Combatant, error)
	// Rand is the battle's seeded random source.
	Rand() *rand.Rand
}
