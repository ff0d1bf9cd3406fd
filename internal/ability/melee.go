package ability

import (
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Melee hits one adjacent enemy.
type Melee struct {
	Damage   int
	Windup   time.Duration
	Recovery time.Duration
}

// NewMelee creates a melee behaviour from def.
func NewMelee(def *gamedata.AbilityDef) *Melee {
	return &Melee{
		Damage:   def.Damage,
		Windup:   def.Windup(),
		Recovery: def.Recovery(),
	}
}

// Domain marks the four adjacent tiles as threatened.
func (m *Melee) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	r.AddTiles(f.Grid().Diamond(s.Combatant.Pos, 1, false), world.ModeBlocked)
	return r
}

// Preview marks an adjacent enemy as valid and any other adjacent tile as blocked.
func (m *Melee) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if s.Combatant.Pos.Manhattan(hover) != 1 || !f.Grid().InBounds(hover) {
		return r
	}
	if m.target(f, s, hover) != nil {
		r.Add(hover, world.ModeValid)
	} else {
		r.Add(hover, world.ModeBlocked)
	}
	return r
}

// Cast strikes the enemy on target.
func (m *Melee) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var victim *entity.Combatant
	return cast(s,
		func() (int, bool) {
			victim = m.target(f, s, target)
			return s.Def.Cost, victim != nil
		},
		func(sc *sched.Script) {
			sc.Wait(m.Windup).
				Do(func() { f.Damage(s.Combatant, victim, m.Damage) }).
				Wait(m.Recovery)
		})
}

// Ready is always true; the domain is shown even without a target.
func (m *Melee) Ready(entity.Field, *entity.Session) bool {
	return true
}

func (m *Melee) target(f entity.Field, s *entity.Session, at world.Coord) *entity.Combatant {
	if s.Combatant.Pos.Manhattan(at) != 1 {
		return nil
	}
	if occ := f.At(at); s.Combatant.IsEnemy(occ) {
		return occ
	}
	return nil
}
