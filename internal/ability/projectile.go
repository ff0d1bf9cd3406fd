package ability

import (
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Projectile fires along a cardinal ray. The first occupant stops it,
// whichever team it belongs to.
type Projectile struct {
	Damage   int
	Range    int
	Shots    int
	Windup   time.Duration
	Interval time.Duration
	Recovery time.Duration
}

// NewProjectile creates a projectile behaviour from def.
func NewProjectile(def *gamedata.AbilityDef) *Projectile {
	return &Projectile{
		Damage:   def.Damage,
		Range:    def.Range,
		Shots:    hitCount(def.Shots),
		Windup:   def.Windup(),
		Interval: def.Interval(),
		Recovery: def.Recovery(),
	}
}

// Domain marks each ray up to the first occupant.
func (p *Projectile) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	return truncatedRays(f, s, p.Range)
}

// Preview marks the first occupant toward the hover: valid for an enemy,
// blocked for an ally.
func (p *Projectile) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	occ := firstOccupant(f, s.Combatant.Pos, hover, p.Range)
	if occ == nil {
		return r
	}
	if s.Combatant.IsEnemy(occ) {
		r.Add(occ.Pos, world.ModeValid)
	} else {
		r.Add(occ.Pos, world.ModeBlocked)
	}
	return r
}

// Cast fires Shots hits at the first enemy toward target.
func (p *Projectile) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var victim *entity.Combatant
	return cast(s,
		func() (int, bool) {
			victim = firstOccupant(f, s.Combatant.Pos, target, p.Range)
			return s.Def.Cost, s.Combatant.IsEnemy(victim)
		},
		func(sc *sched.Script) {
			sc.Wait(p.Windup)
			for i := 0; i < p.Shots; i++ {
				if i > 0 {
					sc.Wait(p.Interval)
				}
				sc.Do(func() {
					if victim.IsAlive() {
						f.Damage(s.Combatant, victim, p.Damage)
					}
				})
			}
			sc.Wait(p.Recovery)
		})
}

// Ready is always true.
func (p *Projectile) Ready(entity.Field, *entity.Session) bool {
	return true
}

// Beam fires along a cardinal ray and hits every occupant on it.
type Beam struct {
	Damage   int
	Range    int
	Windup   time.Duration
	Recovery time.Duration
}

// NewBeam creates a beam behaviour from def.
func NewBeam(def *gamedata.AbilityDef) *Beam {
	return &Beam{
		Damage:   def.Damage,
		Range:    def.Range,
		Windup:   def.Windup(),
		Recovery: def.Recovery(),
	}
}

// Domain marks all four rays in full.
func (b *Beam) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	for _, dir := range world.Directions {
		r.AddTiles(f.Grid().Line(s.Combatant.Pos, dir, b.Range, false), world.ModeValid)
	}
	return r
}

// Preview marks the whole ray toward an in-range orthogonal hover.
func (b *Beam) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if dir, ok := b.direction(s, hover); ok {
		r.AddTiles(f.Grid().Line(s.Combatant.Pos, dir, b.Range, false), world.ModeValid)
	}
	return r
}

// Cast damages everyone on the ray toward target.
func (b *Beam) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var dir world.Direction
	return cast(s,
		func() (int, bool) {
			var ok bool
			dir, ok = b.direction(s, target)
			return s.Def.Cost, ok
		},
		func(sc *sched.Script) {
			sc.Wait(b.Windup).
				Do(func() {
					var hit []*entity.Combatant
					for _, t := range f.Grid().Line(s.Combatant.Pos, dir, b.Range, false) {
						if occ := f.Lookup(t.Occupant); occ != nil {
							hit = append(hit, occ)
						}
					}
					for _, occ := range hit {
						f.Damage(s.Combatant, occ, b.Damage)
					}
				}).
				Wait(b.Recovery)
		})
}

// Ready is always true.
func (b *Beam) Ready(entity.Field, *entity.Session) bool {
	return true
}

func (b *Beam) direction(s *entity.Session, at world.Coord) (world.Direction, bool) {
	dir, ok := world.DirectionTo(s.Combatant.Pos, at)
	if !ok || s.Combatant.Pos.Manhattan(at) > b.Range {
		return dir, false
	}
	return dir, true
}
