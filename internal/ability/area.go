package ability

import (
	"fmt"
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Area bursts on a tile within range. The occupant of the centre tile takes
// Damage; everyone else in the footprint takes SplashDamage.
type Area struct {
	Damage       int
	SplashDamage int
	Range        int
	Shape        gamedata.AreaShape
	Windup       time.Duration
	Recovery     time.Duration
}

// NewArea creates an area behaviour from def. An empty shape means square.
func NewArea(def *gamedata.AbilityDef) (*Area, error) {
	shape := def.Shape
	if shape == "" {
		shape = gamedata.ShapeSquare
	}
	if shape != gamedata.ShapeSquare && shape != gamedata.ShapeCross {
		return nil, fmt.Errorf("ability %q: unknown area shape %q", def.ID, def.Shape)
	}
	return &Area{
		Damage:       def.Damage,
		SplashDamage: def.SplashDamage,
		Range:        def.Range,
		Shape:        shape,
		Windup:       def.Windup(),
		Recovery:     def.Recovery(),
	}, nil
}

// Footprint returns the tiles affected by a burst centred on c.
func (a *Area) Footprint(g *world.Grid, c world.Coord) []*world.Tile {
	if a.Shape == gamedata.ShapeCross {
		return g.Diamond(c, 1, true)
	}
	return g.Rect(world.RectAround(c, 1))
}

// Domain marks every tile the burst can be centred on.
func (a *Area) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	r.AddTiles(f.Grid().Diamond(s.Combatant.Pos, a.Range, false), world.ModeWalkable)
	return r
}

// Preview marks the footprint around an in-range hover, or blocks the hover.
func (a *Area) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if !a.inRange(f, s, hover) {
		if f.Grid().InBounds(hover) {
			r.Add(hover, world.ModeBlocked)
		}
		return r
	}
	r.AddTiles(a.Footprint(f.Grid(), hover), world.ModeValid)
	return r
}

// Cast bursts on target.
func (a *Area) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	return cast(s,
		func() (int, bool) {
			return s.Def.Cost, a.inRange(f, s, target)
		},
		func(sc *sched.Script) {
			sc.Wait(a.Windup).
				Do(func() {
					type hit struct {
						who    *entity.Combatant
						amount int
					}
					var hits []hit
					for _, t := range a.Footprint(f.Grid(), target) {
						occ := f.Lookup(t.Occupant)
						if occ == nil {
							continue
						}
						amount := a.SplashDamage
						if t.Pos == target {
							amount = a.Damage
						}
						hits = append(hits, hit{occ, amount})
					}
					for _, h := range hits {
						f.Damage(s.Combatant, h.who, h.amount)
					}
				}).
				Wait(a.Recovery)
		})
}

// Ready is always true.
func (a *Area) Ready(entity.Field, *entity.Session) bool {
	return true
}

func (a *Area) inRange(f entity.Field, s *entity.Session, c world.Coord) bool {
	d := s.Combatant.Pos.Manhattan(c)
	return f.Grid().InBounds(c) && d >= 1 && d <= a.Range
}
