package game

import "github.com/samdwyer/gridtactics/internal/world"

// Intent is a discrete command from the presentation layer.
type Intent int

const (
	IntentNone Intent = iota
	IntentCycleForward
	IntentCycleBackward
	IntentActivateAbility
	IntentConfirmTile
	IntentCancel
	IntentEndTurn
)

// String returns a human-readable intent name.
func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "none"
	case IntentCycleForward:
		return "cycle_forward"
	case IntentCycleBackward:
		return "cycle_backward"
	case IntentActivateAbility:
		return "activate_ability"
	case IntentConfirmTile:
		return "confirm_tile"
	case IntentCancel:
		return "cancel"
	case IntentEndTurn:
		return "end_turn"
	default:
		return "unknown"
	}
}

// NoAbility marks Input.HoveredAbility when no ability button is under the pointer.
const NoAbility = -1

// Input is everything the battle reads from the presentation layer in one step.
type Input struct {
	Intent  Intent
	Ability int         // Session index for IntentActivateAbility
	Tile    world.Coord // Confirmed tile for IntentConfirmTile

	Hover    world.Coord // Tile under the pointer
	Hovering bool        // False when the pointer is off the grid

	HoveredAbility int // Session index under the pointer, or NoAbility
}

// Idle returns an input with no intent and nothing hovered.
func Idle() Input {
	return Input{HoveredAbility: NoAbility}
}
