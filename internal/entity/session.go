package entity

import (
	"fmt"

	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Behavior is the targeting and resolution logic of one ability archetype.
// The battle calls these; an ability never calls them on itself.
type Behavior interface {
	// Domain returns every tile the ability could affect or take as input.
	Domain(f Field, s *Session) *world.Reticule
	// Preview returns the outcome of confirming the hovered tile now.
	// Invalid hovers produce an empty or blocked reticule.
	Preview(f Field, s *Session, hover world.Coord) *world.Reticule
	// Cast returns the resolution procedure for a confirmed target.
	// The procedure re-validates the target before any side effect.
	Cast(f Field, s *Session, target world.Coord) sched.Task
	// Ready reports whether the ability has anything it could target.
	Ready(f Field, s *Session) bool
}

// Session binds one combatant to one ability for the combatant's lifetime.
type Session struct {
	Combatant *Combatant
	Def       *gamedata.AbilityDef
	Behavior  Behavior

	Hovered  world.Coord
	HasHover bool

	// CapturingInput is set while the ability owns grid input.
	CapturingInput bool
	// CapturingFlow is set from commit until the cast finishes; the turn
	// cannot advance and no other cast may start while it is set.
	CapturingFlow bool

	committed bool
}

// Hover records the tile under the pointer for this frame.
func (s *Session) Hover(c world.Coord) {
	s.Hovered = c
	s.HasHover = true
}

// ClearHover forgets the hovered tile.
func (s *Session) ClearHover() {
	s.HasHover = false
}

// Domain returns the ability's full-range reticule.
func (s *Session) Domain(f Field) *world.Reticule {
	return s.Behavior.Domain(f, s)
}

// Preview returns the narrowed reticule for the hovered tile, or the full
// domain when nothing is hovered.
func (s *Session) Preview(f Field) *world.Reticule {
	if !s.HasHover {
		return s.Domain(f)
	}
	return s.Behavior.Preview(f, s, s.Hovered)
}

// CanActivate reports whether the combatant can afford the ability and the
// ability has something to act on.
func (s *Session) CanActivate(f Field) bool {
	return s.Combatant.IsAlive() &&
		s.Combatant.CanAfford(s.Def.Cost) &&
		s.Behavior.Ready(f, s)
}

// Capture hands grid input to this ability.
func (s *Session) Capture() {
	s.CapturingInput = true
}

// Cast starts resolution against target. The returned task must be stepped
// by the caller until it reports done.
func (s *Session) Cast(f Field, target world.Coord) sched.Task {
	if s.CapturingFlow {
		panic(fmt.Sprintf("entity: %s cast while %q is still resolving", s.Combatant.Name, s.Def.ID))
	}
	s.committed = false
	return s.Behavior.Cast(f, s, target)
}

// Commit spends cost action points and captures turn flow. It is the point
// of no return of a cast and must happen exactly once per cast.
func (s *Session) Commit(cost int) {
	if s.committed {
		panic(fmt.Sprintf("entity: %q committed twice in one cast", s.Def.ID))
	}
	if !s.Combatant.SpendActionPoints(cost) {
		panic(fmt.Sprintf("entity: %s committed %q without %d action points", s.Combatant.Name, s.Def.ID, cost))
	}
	s.committed = true
	s.CapturingFlow = true
}

// Committed reports whether the current cast has passed its commit point.
func (s *Session) Committed() bool {
	return s.committed
}

// Abort ends a cast that failed validation. Nothing was spent.
func (s *Session) Abort() {
	s.CapturingInput = false
	s.CapturingFlow = false
}

// Release hands turn flow back to the battle after the cast's effects.
func (s *Session) Release() {
	s.CapturingFlow = false
	s.CapturingInput = false
}
