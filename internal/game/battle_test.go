package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/world"
)

func testRegistries() (*gamedata.AbilityRegistry, *gamedata.ClassRegistry) {
	abilities := gamedata.NewAbilityRegistry([]gamedata.AbilityDef{
		{ID: "strike", Name: "Strike", Kind: gamedata.KindMelee, Cost: 2, Damage: 4, WindupMs: 100, RecoveryMs: 100},
		{ID: "walk", Name: "Walk", Kind: gamedata.KindMove, Cost: 1, IntervalMs: 50},
		{ID: "burst", Name: "Burst", Kind: gamedata.KindArea, Cost: 3, Damage: 4, SplashDamage: 2, Range: 3},
	})
	classes := gamedata.NewClassRegistry([]gamedata.ClassDef{
		{ID: "knight", Name: "Knight", Symbol: "K", MaxHealth: 10, ActionPoints: 4, Abilities: []string{"strike", "walk"}},
		{ID: "mage", Name: "Mage", Symbol: "M", MaxHealth: 6, ActionPoints: 4, Abilities: []string{"burst"}},
	})
	return abilities, classes
}

func pos(x, y int) *gamedata.Position { return &gamedata.Position{X: x, Y: y} }

func duelScenario() *gamedata.Scenario {
	return &gamedata.Scenario{
		Name:   "duel",
		Width:  5,
		Height: 5,
		Teams: []gamedata.TeamDef{
			{Name: "West", Side: gamedata.SideWest, Roster: []gamedata.RosterEntry{
				{Name: "Attacker", Class: "knight", At: pos(2, 2)},
			}},
			{Name: "East", Side: gamedata.SideEast, Color: "#FF0000", Roster: []gamedata.RosterEntry{
				{Name: "Defender", Class: "knight", At: pos(2, 3)},
			}},
		},
	}
}

func newTestBattle(t *testing.T, sc *gamedata.Scenario) *Battle {
	t.Helper()
	abilities, classes := testRegistries()
	b, err := NewBattle(context.Background(), sc, abilities, classes, Config{Seed: 1}, nil)
	if err != nil {
		t.Fatalf("NewBattle() error = %v", err)
	}
	return b
}

func intent(i Intent) Input {
	in := Idle()
	in.Intent = i
	return in
}

func activate(slot int) Input {
	in := intent(IntentActivateAbility)
	in.Ability = slot
	return in
}

func confirm(x, y int) Input {
	in := intent(IntentConfirmTile)
	in.Tile = world.Coord{X: x, Y: y}
	in.Hover = in.Tile
	in.Hovering = true
	return in
}

func hover(x, y int) Input {
	in := Idle()
	in.Hover = world.Coord{X: x, Y: y}
	in.Hovering = true
	return in
}

func TestNewBattleErrors(t *testing.T) {
	abilities, classes := testRegistries()

	bad := duelScenario()
	bad.Teams[1].Roster[0].Class = "dragon"
	if _, err := NewBattle(context.Background(), bad, abilities, classes, Config{}, nil); !errors.Is(err, gamedata.ErrUnknownClass) {
		t.Errorf("NewBattle(unknown class) error = %v, want ErrUnknownClass", err)
	}

	small := duelScenario()
	small.Width = 0
	if _, err := NewBattle(context.Background(), small, abilities, classes, Config{}, nil); !errors.Is(err, gamedata.ErrInvalidScenario) {
		t.Errorf("NewBattle(zero width) error = %v, want ErrInvalidScenario", err)
	}

	color := duelScenario()
	color.Teams[0].Color = "blue"
	if _, err := NewBattle(context.Background(), color, abilities, classes, Config{}, nil); err == nil {
		t.Error("NewBattle(bad colour) error = nil, want error")
	}
}

func TestBattleFirstStepStartsTurn(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	if b.Phase() != PhaseNoTeamTurn {
		t.Fatalf("Phase() before first step = %v, want %v", b.Phase(), PhaseNoTeamTurn)
	}

	f := b.Step(0, Idle())
	if f.Phase != PhaseUnitNotSelected {
		t.Errorf("Phase = %v, want %v", f.Phase, PhaseUnitNotSelected)
	}
	if f.Turn != 1 || f.ActiveTeam != "West" {
		t.Errorf("Turn/ActiveTeam = %d/%s, want 1/West", f.Turn, f.ActiveTeam)
	}
	if len(f.Units) != 2 || len(f.Teams) != 2 {
		t.Errorf("Units/Teams = %d/%d, want 2/2", len(f.Units), len(f.Teams))
	}
	if f.View != ViewNone {
		t.Errorf("View = %v, want none", f.View)
	}
}

func TestBattleCycleWraps(t *testing.T) {
	sc := duelScenario()
	sc.Teams[0].Roster = []gamedata.RosterEntry{
		{Name: "A", Class: "knight"},
		{Name: "B", Class: "knight"},
		{Name: "C", Class: "knight"},
	}
	b := newTestBattle(t, sc)

	tests := []struct {
		in   Intent
		want string
	}{
		{IntentCycleBackward, "C"},
		{IntentCycleForward, "A"},
		{IntentCycleForward, "B"},
		{IntentCycleForward, "C"},
		{IntentCycleForward, "A"},
		{IntentCycleBackward, "C"},
	}
	for i, tt := range tests {
		b.Step(0, intent(tt.in))
		if got := b.Selected(); got == nil || got.Name != tt.want {
			t.Errorf("step %d %v: Selected() = %v, want %s", i, tt.in, got, tt.want)
		}
		if b.View() != ViewUnit {
			t.Errorf("step %d: View() = %v, want unit", i, b.View())
		}
	}

	b.Step(0, intent(IntentCancel))
	if b.Selected() != nil || b.Phase() != PhaseUnitNotSelected {
		t.Errorf("after cancel Selected/Phase = %v/%v, want nil/%v", b.Selected(), b.Phase(), PhaseUnitNotSelected)
	}
}

func TestBattleConfirmSelectsOwnUnit(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, Idle())

	b.Step(0, confirm(2, 3))
	if b.Selected() != nil {
		t.Error("confirming an enemy tile selected it")
	}
	b.Step(0, confirm(2, 2))
	if got := b.Selected(); got == nil || got.Name != "Attacker" {
		t.Errorf("Selected() = %v, want Attacker", got)
	}
}

func TestBattleMeleeScenario(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))
	attacker := b.Selected()
	defender := b.Field().At(world.Coord{X: 2, Y: 3})

	b.Step(0, activate(0))
	if b.Phase() != PhaseCapturingInput || b.View() != ViewAbility {
		t.Fatalf("Phase/View = %v/%v, want capturing/ability", b.Phase(), b.View())
	}

	f := b.Step(0, hover(2, 3))
	if got := f.Reticule.ModeAt(world.Coord{X: 2, Y: 3}); got != world.ModeValid {
		t.Errorf("preview at defender = %v, want valid", got)
	}
	if got := f.Grid.Get(world.Coord{X: 2, Y: 3}).Mode; got != world.ModeValid {
		t.Errorf("grid mode at defender = %v, want valid", got)
	}

	b.Step(0, confirm(2, 3))
	if b.Phase() != PhaseExecuting {
		t.Fatalf("Phase() after confirm = %v, want %v", b.Phase(), PhaseExecuting)
	}
	if attacker.ActionPoints != 2 {
		t.Errorf("attacker ActionPoints = %d, want 2", attacker.ActionPoints)
	}
	if defender.Health != 10 {
		t.Errorf("defender hit before wind-up: Health = %d", defender.Health)
	}

	b.Step(0, intent(IntentCancel))
	b.Step(0, intent(IntentCycleForward))
	if b.Phase() != PhaseExecuting {
		t.Errorf("intents during execution changed phase to %v", b.Phase())
	}

	b.Step(100*time.Millisecond, Idle())
	if defender.Health != 6 {
		t.Errorf("defender Health = %d, want 6", defender.Health)
	}
	b.Step(100*time.Millisecond, Idle())
	if b.Phase() != PhaseUnitSelected || b.Selected() != attacker {
		t.Errorf("after cast Phase/Selected = %v/%v, want unit_selected/attacker", b.Phase(), b.Selected())
	}
	if b.View() != ViewUnit {
		t.Errorf("View() = %v, want unit", b.View())
	}
}

func TestBattleInvalidTarget(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))
	attacker := b.Selected()
	b.Step(0, activate(0))
	s := b.Capturing()

	b.Step(0, confirm(0, 0))
	if b.Phase() != PhaseUnitSelected {
		t.Errorf("Phase() = %v, want %v", b.Phase(), PhaseUnitSelected)
	}
	if b.Capturing() != nil || s.CapturingInput {
		t.Error("rejected cast kept input capture")
	}
	if attacker.ActionPoints != 4 {
		t.Errorf("ActionPoints = %d, want 4", attacker.ActionPoints)
	}
}

func TestBattleRefusesUnaffordableActivation(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))
	b.Selected().ActionPoints = 1

	f := b.Step(0, activate(0))
	if f.Phase != PhaseUnitSelected || b.Capturing() != nil {
		t.Errorf("Phase = %v, want %v with no capture", f.Phase, PhaseUnitSelected)
	}
	if f.Abilities[0].Usable {
		t.Error("unaffordable ability shown as usable")
	}
}

func TestBattleHoveredAbilityShowsDomain(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))

	in := Idle()
	in.HoveredAbility = 0
	f := b.Step(0, in)
	if f.Reticule.Len() != 4 {
		t.Errorf("domain reticule len = %d, want 4", f.Reticule.Len())
	}

	f = b.Step(0, Idle())
	if f.Reticule.Len() != 0 {
		t.Errorf("reticule len with nothing hovered = %d, want 0", f.Reticule.Len())
	}
	if got := f.Grid.Get(world.Coord{X: 2, Y: 3}).Mode; got != world.ModeNone {
		t.Errorf("stale grid mode %v", got)
	}
}

func TestBattleEndTurnFromEveryPhase(t *testing.T) {
	setups := []struct {
		name  string
		steps []Input
		phase Phase
	}{
		{"unit not selected", nil, PhaseUnitNotSelected},
		{"unit selected", []Input{intent(IntentCycleForward)}, PhaseUnitSelected},
		{"capturing", []Input{intent(IntentCycleForward), activate(0)}, PhaseCapturingInput},
		{"executing", []Input{intent(IntentCycleForward), activate(0), confirm(2, 3)}, PhaseExecuting},
	}

	for _, tt := range setups {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBattle(t, duelScenario())
			b.Step(0, Idle())
			for _, in := range tt.steps {
				b.Step(0, in)
			}
			if b.Phase() != tt.phase {
				t.Fatalf("setup Phase() = %v, want %v", b.Phase(), tt.phase)
			}
			attacker := b.Field().At(world.Coord{X: 2, Y: 2})
			session := attacker.Session(0)

			f := b.Step(0, intent(IntentEndTurn))
			if f.Phase != PhaseUnitNotSelected || f.ActiveTeam != "East" || f.Turn != 2 {
				t.Errorf("after end turn Phase/Team/Turn = %v/%s/%d, want %v/East/2",
					f.Phase, f.ActiveTeam, f.Turn, PhaseUnitNotSelected)
			}
			if b.Selected() != nil || b.Capturing() != nil || f.View != ViewNone {
				t.Error("end turn left a selection or capture")
			}
			if session.CapturingInput || session.CapturingFlow {
				t.Error("end turn left the session capturing")
			}
		})
	}
}

func TestBattleEndTurnFinishesCast(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))
	b.Step(0, activate(0))
	b.Step(0, confirm(2, 3))
	defender := b.Field().At(world.Coord{X: 2, Y: 3})

	b.Step(0, intent(IntentEndTurn))
	if defender.Health != 6 {
		t.Errorf("defender Health = %d, want 6 after drained cast", defender.Health)
	}
	if defender.ActionPoints != defender.MaxActionPoints {
		t.Errorf("East ActionPoints = %d, want replenished", defender.ActionPoints)
	}
}

func TestBattleEndsWhenRosterEmpties(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))
	defender := b.Field().At(world.Coord{X: 2, Y: 3})
	defender.Health = 4

	b.Step(0, activate(0))
	b.Step(0, confirm(2, 3))
	b.Step(100*time.Millisecond, Idle())
	if b.Phase() != PhaseExecuting {
		t.Errorf("battle ended before the cast finished: %v", b.Phase())
	}
	f := b.Step(100*time.Millisecond, Idle())
	if f.Phase != PhaseOver {
		t.Fatalf("Phase = %v, want %v", f.Phase, PhaseOver)
	}
	if b.Winner() == nil || f.Winner != "West" {
		t.Errorf("Winner = %q, want West", f.Winner)
	}

	f = b.Step(0, intent(IntentEndTurn))
	if f.Phase != PhaseOver || f.Turn != 1 {
		t.Errorf("over battle advanced: Phase/Turn = %v/%d", f.Phase, f.Turn)
	}
}

func TestBattleDefeatDeselects(t *testing.T) {
	sc := duelScenario()
	sc.Teams[0].Roster = []gamedata.RosterEntry{
		{Name: "Mage", Class: "mage", At: pos(2, 2)},
		{Name: "Knight", Class: "knight", At: pos(0, 0)},
	}
	sc.Teams[1].Roster = []gamedata.RosterEntry{
		{Name: "Near", Class: "knight", At: pos(3, 2)},
		{Name: "Far", Class: "knight", At: pos(4, 4)},
	}
	b := newTestBattle(t, sc)
	b.Step(0, intent(IntentCycleForward))
	mage := b.Selected()
	mage.Health = 1

	b.Step(0, activate(0))
	f := b.Step(0, confirm(3, 2))

	if mage.IsAlive() {
		t.Fatal("mage survived its own burst")
	}
	if b.Selected() != nil || f.Phase != PhaseUnitNotSelected || f.View != ViewNone {
		t.Errorf("Selected/Phase/View = %v/%v/%v, want nil/%v/none",
			b.Selected(), f.Phase, f.View, PhaseUnitNotSelected)
	}
	if b.ActiveTeam().Contains(mage) {
		t.Error("defeated mage still on roster")
	}
}

func TestBattleSwitchAbilityWhileCapturing(t *testing.T) {
	b := newTestBattle(t, duelScenario())
	b.Step(0, intent(IntentCycleForward))
	b.Step(0, activate(0))
	first := b.Capturing()

	f := b.Step(0, activate(1))
	if b.Capturing() == first || f.Ability != 1 {
		t.Errorf("Ability = %d, want 1", f.Ability)
	}
	if first.CapturingInput {
		t.Error("previous ability still capturing input")
	}
}
