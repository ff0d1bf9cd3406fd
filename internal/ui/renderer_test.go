package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/gridtactics/internal/game"
	"github.com/samdwyer/gridtactics/internal/world"
)

func newTestRenderer(t *testing.T) (*Renderer, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	screen, err := NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom() error = %v", err)
	}
	t.Cleanup(screen.Close)
	sim.SetSize(80, 25)
	return NewRenderer(screen), sim
}

func testFrame(t *testing.T) game.Frame {
	t.Helper()
	grid := world.NewGrid(5, 5)
	knight := game.UnitView{
		Name: "Knight", Team: "West", Pos: world.Coord{X: 0, Y: 4},
		Health: 10, MaxHealth: 10, AP: 4, MaxAP: 4, Symbol: 'K', Color: tcell.ColorBlue,
		Selected: true,
	}
	imp := game.UnitView{
		Name: "Imp", Team: "East", Pos: world.Coord{X: 3, Y: 0},
		Health: 2, MaxHealth: 5, AP: 3, MaxAP: 3, Symbol: 'i', Color: tcell.ColorRed,
	}
	for _, u := range []game.UnitView{knight, imp} {
		if err := grid.Occupy(u.Pos, uuid.New()); err != nil {
			t.Fatalf("Occupy(%v) error = %v", u.Pos, err)
		}
	}
	return game.Frame{
		Phase:      game.PhaseUnitSelected,
		View:       game.ViewUnit,
		Turn:       1,
		ActiveTeam: "West",
		Grid:       grid,
		Teams: []game.TeamView{
			{Name: "West", Color: tcell.ColorBlue, Units: 1, Active: true},
			{Name: "East", Color: tcell.ColorRed, Units: 1},
		},
		Units:    []game.UnitView{knight, imp},
		Selected: &knight,
		Abilities: []game.AbilityView{
			{Name: "Strike", Icon: '/', Cost: 2, Usable: true},
			{Name: "Walk", Icon: '>', Cost: 1, Usable: true},
		},
		Ability: game.NoAbility,
	}
}

func TestRenderDrawsUnitsFlipped(t *testing.T) {
	r, sim := newTestRenderer(t)
	r.Render(testFrame(t))

	tests := []struct {
		pos  world.Coord
		want rune
	}{
		{world.Coord{X: 0, Y: 4}, 'K'},
		{world.Coord{X: 3, Y: 0}, 'i'},
		{world.Coord{X: 2, Y: 2}, '.'},
	}
	for _, tt := range tests {
		x, y := r.tileOrigin(tt.pos)
		got, _, _, _ := sim.GetContent(x, y)
		if got != tt.want {
			t.Errorf("cell for %v = %q, want %q", tt.pos, got, tt.want)
		}
	}

	// Up is drawn above.
	_, top := r.tileOrigin(world.Coord{X: 0, Y: 4})
	_, bottom := r.tileOrigin(world.Coord{X: 0, Y: 0})
	if top >= bottom {
		t.Errorf("row of Y=4 = %d, row of Y=0 = %d, want Y=4 above", top, bottom)
	}
}

func TestTileAtRoundTrip(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.Render(testFrame(t))

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			c := world.Coord{X: x, Y: y}
			sx, sy := r.tileOrigin(c)
			for _, dx := range []int{0, tileWidth - 1} {
				got, ok := r.TileAt(sx+dx, sy)
				if !ok || got != c {
					t.Errorf("TileAt(%d, %d) = %v, %v, want %v, true", sx+dx, sy, got, ok, c)
				}
			}
		}
	}
}

func TestTileAtOutside(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.Render(testFrame(t))

	tests := []struct {
		name string
		x, y int
	}{
		{"left of grid", gridLeft - 1, gridTop},
		{"above grid", gridLeft, gridTop - 1},
		{"right of grid", gridLeft + 5*tileWidth, gridTop},
		{"below grid", gridLeft, gridTop + 5},
	}
	for _, tt := range tests {
		if got, ok := r.TileAt(tt.x, tt.y); ok {
			t.Errorf("%s: TileAt(%d, %d) = %v, true, want false", tt.name, tt.x, tt.y, got)
		}
	}
}

func TestAbilityAt(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.Render(testFrame(t))

	if len(r.buttons) != 2 {
		t.Fatalf("len(buttons) = %d, want 2", len(r.buttons))
	}
	for _, b := range r.buttons {
		if got := r.AbilityAt(b.x0, b.y); got != b.slot {
			t.Errorf("AbilityAt(%d, %d) = %d, want %d", b.x0, b.y, got, b.slot)
		}
		if got := r.AbilityAt(b.x1-1, b.y); got != b.slot {
			t.Errorf("AbilityAt(%d, %d) = %d, want %d", b.x1-1, b.y, got, b.slot)
		}
	}
	if got := r.AbilityAt(0, 0); got != game.NoAbility {
		t.Errorf("AbilityAt(0, 0) = %d, want NoAbility", got)
	}
}

func TestRenderWithoutSelectionHasNoButtons(t *testing.T) {
	r, _ := newTestRenderer(t)
	f := testFrame(t)
	f.Selected = nil
	f.Abilities = nil
	r.Render(f)

	if len(r.buttons) != 0 {
		t.Errorf("len(buttons) = %d, want 0", len(r.buttons))
	}
}
