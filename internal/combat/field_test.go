package combat

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/world"
)

func testRegistries() (*gamedata.AbilityRegistry, *gamedata.ClassRegistry) {
	abilities := gamedata.NewAbilityRegistry([]gamedata.AbilityDef{
		{ID: "strike", Name: "Strike", Kind: gamedata.KindMelee, Cost: 2, Damage: 4},
		{ID: "raise", Name: "Raise", Kind: gamedata.KindSummon, Cost: 2, SummonClass: "wisp"},
	})
	classes := gamedata.NewClassRegistry([]gamedata.ClassDef{
		{ID: "knight", Name: "Knight", Symbol: "K", MaxHealth: 10, ActionPoints: 4, Abilities: []string{"strike"}},
		{ID: "wisp", Name: "Wisp", Symbol: "w", MaxHealth: 3, ActionPoints: 2, Abilities: []string{"strike"}},
	})
	return abilities, classes
}

func newTestField(t *testing.T, w, h int) (*Field, *entity.Team, *entity.Team) {
	t.Helper()
	abilities, classes := testRegistries()
	west := entity.NewTeam("West", entity.SideWest, tcell.ColorBlue)
	east := entity.NewTeam("East", entity.SideEast, tcell.ColorRed)
	f, err := NewField(world.NewGrid(w, h), []*entity.Team{west, east}, abilities, classes, nil, nil)
	if err != nil {
		t.Fatalf("NewField() error = %v", err)
	}
	return f, west, east
}

func knight(t *testing.T, f *Field, team *entity.Team, at *world.Coord) *entity.Combatant {
	t.Helper()
	c := entity.NewCombatant("", f.classes.GetByID("knight"))
	if err := f.Deploy(team, c, at); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	return c
}

func TestNewFieldValidation(t *testing.T) {
	abilities, classes := testRegistries()
	teams := []*entity.Team{
		entity.NewTeam("A", entity.SideWest, tcell.ColorBlue),
		entity.NewTeam("B", entity.SideEast, tcell.ColorRed),
	}

	if _, err := NewField(nil, teams, abilities, classes, nil, nil); err == nil {
		t.Error("NewField(nil grid) error = nil, want error")
	}
	if _, err := NewField(world.NewGrid(3, 3), teams[:1], abilities, classes, nil, nil); err == nil {
		t.Error("NewField(1 team) error = nil, want error")
	}

	noWisp := gamedata.NewClassRegistry([]gamedata.ClassDef{
		{ID: "knight", Name: "Knight", MaxHealth: 10, ActionPoints: 4},
	})
	_, err := NewField(world.NewGrid(3, 3), teams, abilities, noWisp, nil, nil)
	if !errors.Is(err, gamedata.ErrUnknownClass) {
		t.Errorf("NewField(missing summon class) error = %v, want ErrUnknownClass", err)
	}
}

func TestDeployFollowsDeploymentRule(t *testing.T) {
	f, west, east := newTestField(t, 5, 5)

	tests := []struct {
		team *entity.Team
		want world.Coord
	}{
		{west, world.Coord{X: 0, Y: 2}},
		{west, world.Coord{X: 0, Y: 3}},
		{west, world.Coord{X: 0, Y: 1}},
		{east, world.Coord{X: 4, Y: 2}},
		{west, world.Coord{X: 0, Y: 4}},
		{west, world.Coord{X: 0, Y: 0}},
		{west, world.Coord{X: 1, Y: 2}},
	}

	for i, tt := range tests {
		c := knight(t, f, tt.team, nil)
		if c.Pos != tt.want {
			t.Errorf("deploy %d: Pos = %v, want %v", i, c.Pos, tt.want)
		}
		if f.At(tt.want) != c {
			t.Errorf("deploy %d: At(%v) is not the deployed combatant", i, tt.want)
		}
		if len(c.Sessions) != 1 || c.Sessions[0].Def.ID != "strike" {
			t.Errorf("deploy %d: sessions not bound from class", i)
		}
	}
	if west.Len() != 6 || east.Len() != 1 {
		t.Errorf("roster sizes = %d/%d, want 6/1", west.Len(), east.Len())
	}
}

func TestDeployFullGrid(t *testing.T) {
	f, west, _ := newTestField(t, 1, 1)
	knight(t, f, west, nil)

	c := entity.NewCombatant("", f.classes.GetByID("knight"))
	err := f.Deploy(west, c, nil)
	if !errors.Is(err, ErrNoPlacement) {
		t.Errorf("Deploy() on full grid error = %v, want ErrNoPlacement", err)
	}
	if c.Team != nil {
		t.Error("failed deploy joined a team")
	}
}

func TestDeployTwicePanics(t *testing.T) {
	f, west, _ := newTestField(t, 3, 3)
	c := knight(t, f, west, nil)

	defer func() {
		if recover() == nil {
			t.Error("Deploy() of a registered combatant did not panic")
		}
	}()
	_ = f.Deploy(west, c, &world.Coord{X: 2, Y: 2})
}

func TestDamageAndDefeat(t *testing.T) {
	f, west, east := newTestField(t, 5, 5)
	attacker := knight(t, f, west, &world.Coord{X: 2, Y: 2})
	defender := knight(t, f, east, &world.Coord{X: 2, Y: 3})

	var defeated []*entity.Combatant
	f.OnDefeat(func(c *entity.Combatant) { defeated = append(defeated, c) })

	if got := f.Damage(attacker, defender, 4); got != 4 {
		t.Errorf("Damage() = %d, want 4", got)
	}
	if defender.Health != 6 {
		t.Errorf("Health = %d, want 6", defender.Health)
	}
	if len(defeated) != 0 {
		t.Fatal("defeat hook ran before health reached zero")
	}

	if got := f.Damage(attacker, defender, 20); got != 6 {
		t.Errorf("overkill Damage() = %d, want 6", got)
	}
	if len(defeated) != 1 || defeated[0] != defender {
		t.Fatalf("defeat hook calls = %v, want [defender]", defeated)
	}
	if east.Contains(defender) {
		t.Error("defeated combatant still on roster")
	}
	if !f.Grid().IsFree(world.Coord{X: 2, Y: 3}) {
		t.Error("defeated combatant still occupies its tile")
	}
	if f.Lookup(defender.ID) != nil {
		t.Error("Lookup() still finds defeated combatant")
	}

	if got := f.Damage(attacker, defender, 4); got != 0 {
		t.Errorf("Damage() on defeated target = %d, want 0", got)
	}
	if len(defeated) != 1 {
		t.Error("defeat hook ran twice")
	}
}

func TestHeal(t *testing.T) {
	f, west, _ := newTestField(t, 3, 3)
	c := knight(t, f, west, nil)
	c.TakeDamage(5)

	if got := f.Heal(c, c, 3); got != 3 {
		t.Errorf("Heal() = %d, want 3", got)
	}
	if got := f.Heal(c, c, 10); got != 2 {
		t.Errorf("Heal() past max = %d, want 2", got)
	}
	if c.Health != c.MaxHealth {
		t.Errorf("Health = %d, want %d", c.Health, c.MaxHealth)
	}
}

func TestSpawn(t *testing.T) {
	f, west, _ := newTestField(t, 3, 3)

	at := world.Coord{X: 1, Y: 1}
	c, err := f.Spawn("wisp", west, at)
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if c.ActionPoints != 0 {
		t.Errorf("ActionPoints = %d, want 0", c.ActionPoints)
	}
	if c.Health != 3 {
		t.Errorf("Health = %d, want 3", c.Health)
	}
	if c.Pos != at || f.At(at) != c {
		t.Errorf("spawned at %v, want %v", c.Pos, at)
	}
	if !west.Contains(c) {
		t.Error("spawned combatant not on caster's roster")
	}

	if _, err := f.Spawn("wisp", west, at); err == nil {
		t.Error("Spawn() onto occupied tile error = nil, want error")
	}
	if _, err := f.Spawn("dragon", west, world.Coord{}); !errors.Is(err, gamedata.ErrUnknownClass) {
		t.Errorf("Spawn(unknown) error = %v, want ErrUnknownClass", err)
	}
}

func TestOutcome(t *testing.T) {
	f, west, east := newTestField(t, 5, 5)

	if got := f.Outcome(); !got.Decided || got.Winner != nil {
		t.Errorf("Outcome() with empty teams = %+v, want draw", got)
	}

	a := knight(t, f, west, nil)
	b := knight(t, f, east, nil)
	if got := f.Outcome(); got.Decided {
		t.Errorf("Outcome() = %+v, want undecided", got)
	}

	f.Damage(a, b, 100)
	got := f.Outcome()
	if !got.Decided || got.Winner != west {
		t.Errorf("Outcome() = %+v, want West winning", got)
	}
}

func TestAlliesAndEnemies(t *testing.T) {
	f, west, east := newTestField(t, 5, 5)
	a := knight(t, f, west, nil)
	b := knight(t, f, west, nil)
	e := knight(t, f, east, nil)

	if got := f.Allies(a); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Allies() = %v, want [a b]", got)
	}
	if got := f.Enemies(a); len(got) != 1 || got[0] != e {
		t.Errorf("Enemies() = %v, want [e]", got)
	}
	if got := f.Combatants(); len(got) != 3 {
		t.Errorf("Combatants() len = %d, want 3", len(got))
	}
}
