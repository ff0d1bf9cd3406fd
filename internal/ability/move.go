package ability

import (
	"fmt"
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Move walks the caster along a route of free tiles, paying StepCost per
// tile. The caster leaves its tile when it sets off and occupies the
// destination on arrival; tiles in between are never occupied.
type Move struct {
	StepCost int
	StepTime time.Duration
}

// NewMove creates a movement behaviour from def. Cost is per step.
func NewMove(def *gamedata.AbilityDef) *Move {
	cost := def.Cost
	if cost < 1 {
		cost = 1
	}
	return &Move{
		StepCost: cost,
		StepTime: def.Interval(),
	}
}

// Domain marks reachable tiles walkable and blockers met on the way blocked.
func (m *Move) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	reachable, blocking := world.Reachable(f.Grid(), s.Combatant.Pos, s.Combatant.ActionPoints, m.StepCost)
	r := world.NewReticule()
	r.AddCoords(reachable, world.ModeWalkable)
	r.AddCoords(blocking, world.ModeBlocked)
	return r
}

// Preview marks each step of the route to hover: affordable steps walkable,
// the rest blocked. A hover the route cannot reach is blocked as well.
func (m *Move) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if hover == s.Combatant.Pos || !f.Grid().InBounds(hover) {
		return r
	}

	path := world.FindPath(f.Grid(), s.Combatant.Pos, hover)
	budget := s.Combatant.ActionPoints
	for i, step := range path {
		if (i+1)*m.StepCost <= budget {
			r.Add(step, world.ModeWalkable)
		} else {
			r.Add(step, world.ModeBlocked)
		}
	}
	if !containsCoord(path, hover) {
		r.Add(hover, world.ModeBlocked)
	}
	return r
}

// Cast walks to target. The route must reach target and be affordable in full.
func (m *Move) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var path []world.Coord
	return cast(s,
		func() (int, bool) {
			path = world.FindPath(f.Grid(), s.Combatant.Pos, target)
			if len(path) == 0 || path[len(path)-1] != target {
				return 0, false
			}
			return len(path) * m.StepCost, true
		},
		func(sc *sched.Script) {
			c := s.Combatant
			g := f.Grid()
			sc.Do(func() { c.Lift(g) })
			for _, step := range path {
				sc.Wait(m.StepTime).Do(func() { c.Pos = step })
			}
			sc.Do(func() {
				if err := c.PlaceOn(g, target); err != nil {
					panic(fmt.Sprintf("ability: move arrival: %v", err))
				}
			})
		})
}

// Ready reports whether at least one step is affordable and free.
func (m *Move) Ready(f entity.Field, s *entity.Session) bool {
	if !s.Combatant.CanAfford(m.StepCost) {
		return false
	}
	return len(freeAdjacent(f.Grid(), s.Combatant.Pos)) > 0
}
