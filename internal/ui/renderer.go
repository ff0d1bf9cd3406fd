package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridtactics/internal/game"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Layout constants, in terminal cells.
const (
	gridLeft  = 2
	gridTop   = 2
	tileWidth = 2
	panelGap  = 4
	barWidth  = 10
)

const (
	floorHex  = "#1C1C1C"
	cursorHex = "#FFFFFF"
	lowHPHex  = "#D9534A"
	highHPHex = "#5CB85C"
)

// Highlight colours per reticule mode, blended over the floor.
var modeHex = map[world.Mode]string{
	world.ModeWalkable: "#3A6FD8",
	world.ModeBlocked:  "#C83737",
	world.ModeValid:    "#37C85A",
	world.ModeFriendly: "#D8B03A",
}

// button is the screen span of one ability button.
type button struct {
	x0, x1, y int
	slot      int
}

// Renderer handles drawing the game to the screen and mapping terminal
// input back onto the battle. It implements game.Presenter.
type Renderer struct {
	screen *Screen

	floor  tcell.Color
	modes  map[world.Mode]tcell.Color
	cursor tcell.Color

	// Layout of the last frame, used to resolve mouse positions.
	width, height int
	buttons       []button

	keyCursor   world.Coord
	buttonsDown tcell.ButtonMask
}

var _ game.Presenter = (*Renderer)(nil)

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	r := &Renderer{
		screen: screen,
		floor:  gamedata.MustParseHexColor(floorHex),
		modes:  make(map[world.Mode]tcell.Color, len(modeHex)),
	}
	for mode, hex := range modeHex {
		c, err := gamedata.BlendHex(floorHex, hex, 0.6)
		if err != nil {
			panic(err)
		}
		r.modes[mode] = c
	}
	c, err := gamedata.BlendHex(floorHex, cursorHex, 0.35)
	if err != nil {
		panic(err)
	}
	r.cursor = c
	return r
}

// Render draws one battle frame.
func (r *Renderer) Render(f game.Frame) {
	r.screen.Clear()
	r.width, r.height = f.Grid.Width, f.Grid.Height

	r.renderHeader(f)
	r.renderGrid(f)
	r.renderPanel(f)
	y := r.renderAbilities(f)
	r.renderStatus(f, y+1)

	r.screen.Show()
}

func (r *Renderer) renderHeader(f game.Frame) {
	style := tcell.StyleDefault.Foreground(f.ActiveColor).Bold(true)
	text := fmt.Sprintf("Turn %d - %s", f.Turn, f.ActiveTeam)
	if f.Phase == game.PhaseOver {
		text = "Battle over"
	}
	r.screen.SetText(gridLeft, 0, text, style)
}

func (r *Renderer) renderGrid(f game.Frame) {
	units := make(map[world.Coord]game.UnitView, len(f.Units))
	for _, u := range f.Units {
		units[u.Pos] = u
	}

	f.Grid.Each(func(t *world.Tile) {
		x, y := r.tileOrigin(t.Pos)
		bg := r.floor
		if c, ok := r.modes[t.Mode]; ok {
			bg = c
		}
		if f.Hovering && f.Hover == t.Pos {
			bg = r.cursor
		}
		style := tcell.StyleDefault.Background(bg)

		u, occupied := units[t.Pos]
		if !occupied || !t.IsOccupied() {
			r.screen.SetContent(x, y, '.', style.Foreground(tcell.ColorDimGray))
			r.screen.SetContent(x+1, y, ' ', style)
			return
		}
		unitStyle := style.Foreground(u.Color).Bold(true)
		if u.Selected {
			unitStyle = unitStyle.Underline(true)
		}
		r.screen.SetContent(x, y, u.Symbol, unitStyle)
		r.screen.SetContent(x+1, y, ' ', style)
	})
}

func (r *Renderer) renderPanel(f game.Frame) {
	x := gridLeft + r.width*tileWidth + panelGap
	y := gridTop
	for _, team := range f.Teams {
		style := tcell.StyleDefault.Foreground(team.Color)
		if team.Active {
			style = style.Bold(true)
		}
		r.screen.SetText(x, y, fmt.Sprintf("%s (%d)", team.Name, team.Units), style)
		y++
		for _, u := range f.Units {
			if u.Team != team.Name {
				continue
			}
			marker := "  "
			if u.Selected {
				marker = "> "
			}
			nx := r.screen.SetText(x, y, marker+string(u.Symbol)+" "+u.Name, tcell.StyleDefault.Foreground(u.Color))
			nx = r.drawBar(nx+1, y, u.Health, u.MaxHealth)
			r.screen.SetText(nx+1, y, fmt.Sprintf("%d/%d  AP %d/%d", u.Health, u.MaxHealth, u.AP, u.MaxAP),
				tcell.StyleDefault.Foreground(tcell.ColorSilver))
			y++
		}
		y++
	}
}

// drawBar draws a health bar coloured from red to green by fill.
func (r *Renderer) drawBar(x, y, value, maxValue int) int {
	if maxValue <= 0 {
		return x
	}
	frac := float64(value) / float64(maxValue)
	color, err := gamedata.BlendHex(lowHPHex, highHPHex, frac)
	if err != nil {
		color = tcell.ColorGreen
	}
	filled := int(frac*barWidth + 0.5)
	for i := 0; i < barWidth; i++ {
		ch, style := '-', tcell.StyleDefault.Foreground(tcell.ColorDimGray)
		if i < filled {
			ch, style = '=', tcell.StyleDefault.Foreground(color)
		}
		r.screen.SetContent(x+i, y, ch, style)
	}
	return x + barWidth
}

// renderAbilities draws the selected unit's ability bar and returns the row below it.
func (r *Renderer) renderAbilities(f game.Frame) int {
	y := gridTop + r.height + 1
	r.buttons = r.buttons[:0]
	if f.Selected == nil {
		return y
	}

	x := gridLeft
	for i, a := range f.Abilities {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		switch {
		case i == f.Ability:
			style = style.Reverse(true)
		case !a.Usable:
			style = style.Foreground(tcell.ColorDimGray)
		}
		label := fmt.Sprintf("[%d %c %s %d]", i+1, a.Icon, a.Name, a.Cost)
		end := r.screen.SetText(x, y, label, style)
		r.buttons = append(r.buttons, button{x0: x, x1: end, y: y, slot: i})
		x = end + 1
	}
	if f.Ability >= 0 && f.Ability < len(f.Abilities) {
		r.screen.SetText(gridLeft, y+1, f.Abilities[f.Ability].Description,
			tcell.StyleDefault.Foreground(tcell.ColorSilver))
	}
	return y + 2
}

func (r *Renderer) renderStatus(f game.Frame, y int) {
	r.screen.SetText(gridLeft, y, f.Message, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	if f.Phase == game.PhaseExecuting {
		filled := int(f.Progress*barWidth + 0.5)
		bar := "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
		r.screen.SetText(gridLeft, y+1, bar, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	help := "tab/n next  p prev  1-9 ability  enter confirm  esc cancel  e end turn  q quit"
	r.screen.SetText(gridLeft, y+3, help, tcell.StyleDefault.Foreground(tcell.ColorDimGray))
}

// tileOrigin returns the screen cell of grid coordinate c. Up is +Y on the
// grid, so rows are flipped.
func (r *Renderer) tileOrigin(c world.Coord) (x, y int) {
	return gridLeft + c.X*tileWidth, gridTop + (r.height - 1 - c.Y)
}

// TileAt returns the grid coordinate drawn at screen cell (x, y).
func (r *Renderer) TileAt(x, y int) (world.Coord, bool) {
	if x < gridLeft || y < gridTop {
		return world.Coord{}, false
	}
	c := world.Coord{X: (x - gridLeft) / tileWidth, Y: r.height - 1 - (y - gridTop)}
	if c.X >= r.width || c.Y < 0 {
		return world.Coord{}, false
	}
	return c, true
}

// AbilityAt returns the ability slot drawn at screen cell (x, y), or game.NoAbility.
func (r *Renderer) AbilityAt(x, y int) int {
	for _, b := range r.buttons {
		if y == b.y && x >= b.x0 && x < b.x1 {
			return b.slot
		}
	}
	return game.NoAbility
}
