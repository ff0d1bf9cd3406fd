package ability

import (
	"fmt"
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Recall pulls an ally onto a random free tile next to the caster.
type Recall struct {
	Flight   time.Duration
	Recovery time.Duration
}

// NewRecall creates a recall behaviour from def.
func NewRecall(def *gamedata.AbilityDef) *Recall {
	return &Recall{
		Flight:   def.Windup(),
		Recovery: def.Recovery(),
	}
}

// Domain marks the other allies as friendly targets and the caster's free
// neighbours as landing tiles.
func (m *Recall) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	for _, a := range otherAllies(f, s.Combatant) {
		r.Add(a.Pos, world.ModeFriendly)
	}
	r.AddCoords(freeAdjacent(f.Grid(), s.Combatant.Pos), world.ModeWalkable)
	return r
}

// Preview marks a hovered ally friendly along with the landing tiles.
// Anything else hovered is blocked.
func (m *Recall) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if !f.Grid().InBounds(hover) {
		return r
	}
	landing := freeAdjacent(f.Grid(), s.Combatant.Pos)
	if m.ally(f, s, hover) == nil || len(landing) == 0 {
		r.Add(hover, world.ModeBlocked)
		return r
	}
	r.Add(hover, world.ModeFriendly)
	r.AddCoords(landing, world.ModeWalkable)
	return r
}

// Cast pulls the ally on target next to the caster.
func (m *Recall) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var ally *entity.Combatant
	var landing world.Coord
	return cast(s,
		func() (int, bool) {
			ally = m.ally(f, s, target)
			free := freeAdjacent(f.Grid(), s.Combatant.Pos)
			if ally == nil || len(free) == 0 {
				return 0, false
			}
			landing = free[f.Rand().Intn(len(free))]
			return s.Def.Cost, true
		},
		func(sc *sched.Script) {
			g := f.Grid()
			sc.Do(func() { ally.Lift(g) }).
				Wait(m.Flight).
				Do(func() {
					if err := ally.PlaceOn(g, landing); err != nil {
						panic(fmt.Sprintf("ability: recall landing: %v", err))
					}
				}).
				Wait(m.Recovery)
		})
}

// Ready reports whether there is another ally and room next to the caster.
func (m *Recall) Ready(f entity.Field, s *entity.Session) bool {
	return len(otherAllies(f, s.Combatant)) > 0 && len(freeAdjacent(f.Grid(), s.Combatant.Pos)) > 0
}

func (m *Recall) ally(f entity.Field, s *entity.Session, at world.Coord) *entity.Combatant {
	occ := f.At(at)
	if occ == nil || occ == s.Combatant || !s.Combatant.IsAlly(occ) {
		return nil
	}
	return occ
}

// Rally teleports the caster onto a free tile next to another ally.
type Rally struct {
	Flight   time.Duration
	Recovery time.Duration
}

// NewRally creates a rally behaviour from def.
func NewRally(def *gamedata.AbilityDef) *Rally {
	return &Rally{
		Flight:   def.Windup(),
		Recovery: def.Recovery(),
	}
}

// Targets returns the free tiles next to any other ally, without repeats,
// in roster then direction order.
func (m *Rally) Targets(f entity.Field, s *entity.Session) []world.Coord {
	var out []world.Coord
	for _, a := range otherAllies(f, s.Combatant) {
		for _, c := range freeAdjacent(f.Grid(), a.Pos) {
			if !containsCoord(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Domain marks every rally tile walkable.
func (m *Rally) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	r.AddCoords(m.Targets(f, s), world.ModeWalkable)
	return r
}

// Preview marks the hover walkable when it is a rally tile, blocked otherwise.
func (m *Rally) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if !f.Grid().InBounds(hover) {
		return r
	}
	if containsCoord(m.Targets(f, s), hover) {
		r.Add(hover, world.ModeWalkable)
	} else {
		r.Add(hover, world.ModeBlocked)
	}
	return r
}

// Cast jumps to target. The cost is paid once, at commit.
func (m *Rally) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	return cast(s,
		func() (int, bool) {
			return s.Def.Cost, containsCoord(m.Targets(f, s), target)
		},
		func(sc *sched.Script) {
			c := s.Combatant
			g := f.Grid()
			sc.Do(func() { c.Lift(g) }).
				Wait(m.Flight).
				Do(func() {
					if err := c.PlaceOn(g, target); err != nil {
						panic(fmt.Sprintf("ability: rally landing: %v", err))
					}
				}).
				Wait(m.Recovery)
		})
}

// Ready reports whether any ally has a free neighbour.
func (m *Rally) Ready(f entity.Field, s *entity.Session) bool {
	return len(m.Targets(f, s)) > 0
}
