// Package ability implements the targeting and resolution behaviours of
// every ability archetype.
//
// Each behaviour is built once from an immutable definition. Domain and
// Preview are pure reads of the field. Cast returns a script whose first
// step re-validates the target; only then does it commit the cost and queue
// its effects.
package ability

import (
	"errors"
	"fmt"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// ErrUnknownKind is returned when a definition names an archetype that does not exist.
var ErrUnknownKind = errors.New("unknown ability kind")

// New builds the behaviour for def.
func New(def *gamedata.AbilityDef) (entity.Behavior, error) {
	switch def.Kind {
	case gamedata.KindMelee:
		return NewMelee(def), nil
	case gamedata.KindProjectile:
		return NewProjectile(def), nil
	case gamedata.KindBeam:
		return NewBeam(def), nil
	case gamedata.KindArea:
		return NewArea(def)
	case gamedata.KindRicochet:
		return NewRicochet(def), nil
	case gamedata.KindMove:
		return NewMove(def), nil
	case gamedata.KindSummon:
		return NewSummon(def)
	case gamedata.KindRecall:
		return NewRecall(def), nil
	case gamedata.KindRally:
		return NewRally(def), nil
	case gamedata.KindHeal:
		return NewHeal(def), nil
	case gamedata.KindMassHeal:
		return NewMassHeal(def), nil
	default:
		return nil, fmt.Errorf("ability %q kind %q: %w", def.ID, def.Kind, ErrUnknownKind)
	}
}

// Equip binds a session for each definition, in order, to c.
func Equip(c *entity.Combatant, defs []*gamedata.AbilityDef) error {
	for _, def := range defs {
		b, err := New(def)
		if err != nil {
			return fmt.Errorf("equip %s: %w", c.Name, err)
		}
		c.Bind(def, b)
	}
	return nil
}

// cast builds the script shared by every archetype. validate runs on the
// first step and returns the action point cost; when it fails, or the cost
// is unaffordable, the session aborts with no side effects. Otherwise the
// cost is committed and resolve queues the effects, followed by release.
func cast(s *entity.Session, validate func() (cost int, ok bool), resolve func(sc *sched.Script)) sched.Task {
	sc := sched.NewScript()
	sc.Do(func() {
		cost, ok := validate()
		if !ok || !s.Combatant.CanAfford(cost) {
			s.Abort()
			sc.Stop()
			return
		}
		s.Commit(cost)
		resolve(sc)
		sc.Do(s.Release)
	})
	return sc
}

// firstOccupant walks from origin toward hover, up to rng tiles, and returns
// the first combatant on the way. Hovers that are not strictly orthogonal
// to origin yield nil.
func firstOccupant(f entity.Field, origin, hover world.Coord, rng int) *entity.Combatant {
	dir, ok := world.DirectionTo(origin, hover)
	if !ok {
		return nil
	}
	for _, t := range f.Grid().Line(origin, dir, rng, false) {
		if t.IsOccupied() {
			return f.Lookup(t.Occupant)
		}
	}
	return nil
}

// truncatedRays marks each cardinal ray from the caster up to rng tiles,
// stopping at the first occupant: enemies are valid, anything else blocks.
func truncatedRays(f entity.Field, s *entity.Session, rng int) *world.Reticule {
	r := world.NewReticule()
	caster := s.Combatant
	for _, dir := range world.Directions {
		for _, t := range f.Grid().Line(caster.Pos, dir, rng, false) {
			if !t.IsOccupied() {
				r.Add(t.Pos, world.ModeValid)
				continue
			}
			if caster.IsEnemy(f.Lookup(t.Occupant)) {
				r.Add(t.Pos, world.ModeValid)
			} else {
				r.Add(t.Pos, world.ModeBlocked)
			}
			break
		}
	}
	return r
}

// freeAdjacent returns the free 4-neighbours of c in direction order.
func freeAdjacent(g *world.Grid, c world.Coord) []world.Coord {
	var out []world.Coord
	for _, t := range g.Neighbors(c) {
		if !t.IsOccupied() {
			out = append(out, t.Pos)
		}
	}
	return out
}

// otherAllies returns the fielded allies of c, excluding c.
func otherAllies(f entity.Field, c *entity.Combatant) []*entity.Combatant {
	var out []*entity.Combatant
	for _, a := range f.Allies(c) {
		if a != c {
			out = append(out, a)
		}
	}
	return out
}

func containsCoord(coords []world.Coord, c world.Coord) bool {
	for _, x := range coords {
		if x == c {
			return true
		}
	}
	return false
}

func hitCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
