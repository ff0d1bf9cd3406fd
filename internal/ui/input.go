package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gridtactics/internal/game"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Translate maps a terminal event onto in. Keyboard and mouse both drive
// the hovered tile; the last one used wins.
func (r *Renderer) Translate(ev tcell.Event, in *game.Input) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return r.translateKey(ev, in)
	case *tcell.EventMouse:
		r.translateMouse(ev, in)
	}
	return false
}

func (r *Renderer) translateKey(ev *tcell.EventKey, in *game.Input) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		in.Intent = game.IntentCancel
	case tcell.KeyTab:
		in.Intent = game.IntentCycleForward
	case tcell.KeyBacktab:
		in.Intent = game.IntentCycleBackward
	case tcell.KeyEnter:
		r.confirmCursor(in)

	case tcell.KeyUp:
		r.moveCursor(in, world.Up)
	case tcell.KeyDown:
		r.moveCursor(in, world.Down)
	case tcell.KeyLeft:
		r.moveCursor(in, world.Left)
	case tcell.KeyRight:
		r.moveCursor(in, world.Right)

	case tcell.KeyRune:
		switch ch := ev.Rune(); {
		case ch == 'q' || ch == 'Q':
			return true
		case ch == 'e' || ch == 'E':
			in.Intent = game.IntentEndTurn
		case ch == 'n':
			in.Intent = game.IntentCycleForward
		case ch == 'p':
			in.Intent = game.IntentCycleBackward
		case ch == ' ':
			r.confirmCursor(in)
		case ch >= '1' && ch <= '9':
			in.Intent = game.IntentActivateAbility
			in.Ability = int(ch - '1')
		}
	}
	return false
}

func (r *Renderer) translateMouse(ev *tcell.EventMouse, in *game.Input) {
	x, y := ev.Position()
	if c, ok := r.TileAt(x, y); ok {
		r.keyCursor = c
		in.Hover = c
		in.Hovering = true
	} else {
		in.Hovering = false
	}
	in.HoveredAbility = r.AbilityAt(x, y)

	buttons := ev.Buttons()
	pressed := buttons &^ r.buttonsDown
	r.buttonsDown = buttons

	switch {
	case pressed&tcell.Button1 != 0:
		if in.HoveredAbility != game.NoAbility {
			in.Intent = game.IntentActivateAbility
			in.Ability = in.HoveredAbility
		} else if in.Hovering {
			in.Intent = game.IntentConfirmTile
			in.Tile = in.Hover
		}
	case pressed&(tcell.Button2|tcell.Button3) != 0:
		in.Intent = game.IntentCancel
	}
}

func (r *Renderer) moveCursor(in *game.Input, d world.Direction) {
	next := r.keyCursor.Step(d, 1)
	if next.X < 0 || next.Y < 0 || next.X >= r.width || next.Y >= r.height {
		next = r.keyCursor
	}
	r.keyCursor = next
	in.Hover = next
	in.Hovering = true
}

func (r *Renderer) confirmCursor(in *game.Input) {
	in.Intent = game.IntentConfirmTile
	in.Tile = r.keyCursor
	in.Hover = r.keyCursor
	in.Hovering = true
}
