// Package game provides the battle state machine and the main game loop.
package game

// Phase is the state of the battle state machine.
type Phase int

const (
	// PhaseNoTeamTurn is between turns; the next step starts the active team's turn.
	PhaseNoTeamTurn Phase = iota
	// PhaseUnitNotSelected waits for a cycle intent or a click on a friendly unit.
	PhaseUnitNotSelected
	// PhaseUnitSelected shows the selected unit and waits for an ability activation.
	PhaseUnitSelected
	// PhaseCapturingInput hands the grid to an ability until confirm or cancel.
	PhaseCapturingInput
	// PhaseExecuting runs the cast and ignores every intent except end turn.
	PhaseExecuting
	// PhaseOver is terminal: one team has no units left.
	PhaseOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNoTeamTurn:
		return "no_team_turn"
	case PhaseUnitNotSelected:
		return "unit_not_selected"
	case PhaseUnitSelected:
		return "unit_selected"
	case PhaseCapturingInput:
		return "capturing_input"
	case PhaseExecuting:
		return "executing"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// View is the panel the presentation layer exposes. At most one of the
// unit and ability views is open at a time.
type View int

const (
	ViewNone View = iota
	ViewUnit
	ViewAbility
)

// String returns a human-readable view name.
func (v View) String() string {
	switch v {
	case ViewNone:
		return "none"
	case ViewUnit:
		return "unit"
	case ViewAbility:
		return "ability"
	default:
		return "unknown"
	}
}
