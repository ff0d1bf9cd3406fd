package game

import "testing"

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseNoTeamTurn, "no_team_turn"},
		{PhaseUnitNotSelected, "unit_not_selected"},
		{PhaseUnitSelected, "unit_selected"},
		{PhaseCapturingInput, "capturing_input"},
		{PhaseExecuting, "executing"},
		{PhaseOver, "over"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.phase.String()
		if got != tt.expected {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.expected)
		}
	}
}

func TestIntentString(t *testing.T) {
	tests := []struct {
		intent   Intent
		expected string
	}{
		{IntentNone, "none"},
		{IntentCycleForward, "cycle_forward"},
		{IntentCycleBackward, "cycle_backward"},
		{IntentActivateAbility, "activate_ability"},
		{IntentConfirmTile, "confirm_tile"},
		{IntentCancel, "cancel"},
		{IntentEndTurn, "end_turn"},
		{Intent(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.intent.String(); got != tt.expected {
			t.Errorf("Intent(%d).String() = %q, want %q", tt.intent, got, tt.expected)
		}
	}
}

func TestViewString(t *testing.T) {
	if got := ViewAbility.String(); got != "ability" {
		t.Errorf("ViewAbility.String() = %q, want %q", got, "ability")
	}
	if got := View(7).String(); got != "unknown" {
		t.Errorf("View(7).String() = %q, want %q", got, "unknown")
	}
}
