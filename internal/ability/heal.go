package ability

import (
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Heal restores health to one ally anywhere on the field, the caster included.
type Heal struct {
	Amount   int
	Windup   time.Duration
	Recovery time.Duration
}

// NewHeal creates a single-target heal behaviour from def.
func NewHeal(def *gamedata.AbilityDef) *Heal {
	return &Heal{
		Amount:   def.Heal,
		Windup:   def.Windup(),
		Recovery: def.Recovery(),
	}
}

// Domain marks every fielded ally.
func (h *Heal) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	return allyReticule(f, s)
}

// Preview marks a hovered ally friendly and any other hovered tile blocked.
func (h *Heal) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if !f.Grid().InBounds(hover) {
		return r
	}
	if s.Combatant.IsAlly(f.At(hover)) {
		r.Add(hover, world.ModeFriendly)
	} else {
		r.Add(hover, world.ModeBlocked)
	}
	return r
}

// Cast heals the ally on target.
func (h *Heal) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var ally *entity.Combatant
	return cast(s,
		func() (int, bool) {
			ally = f.At(target)
			return s.Def.Cost, s.Combatant.IsAlly(ally)
		},
		func(sc *sched.Script) {
			sc.Wait(h.Windup).
				Do(func() { f.Heal(s.Combatant, ally, h.Amount) }).
				Wait(h.Recovery)
		})
}

// Ready is always true; the caster can heal itself.
func (h *Heal) Ready(entity.Field, *entity.Session) bool {
	return true
}

// MassHeal restores health to every fielded ally at once.
type MassHeal struct {
	Amount   int
	Windup   time.Duration
	Recovery time.Duration
}

// NewMassHeal creates a team-wide heal behaviour from def.
func NewMassHeal(def *gamedata.AbilityDef) *MassHeal {
	return &MassHeal{
		Amount:   def.Heal,
		Windup:   def.Windup(),
		Recovery: def.Recovery(),
	}
}

// Domain marks every fielded ally.
func (h *MassHeal) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	return allyReticule(f, s)
}

// Preview is the domain: every ally is affected wherever the pointer is.
func (h *MassHeal) Preview(f entity.Field, s *entity.Session, _ world.Coord) *world.Reticule {
	return allyReticule(f, s)
}

// Cast heals every ally. The target tile is ignored.
func (h *MassHeal) Cast(f entity.Field, s *entity.Session, _ world.Coord) sched.Task {
	return cast(s,
		func() (int, bool) {
			return s.Def.Cost, true
		},
		func(sc *sched.Script) {
			sc.Wait(h.Windup).
				Do(func() {
					for _, a := range f.Allies(s.Combatant) {
						f.Heal(s.Combatant, a, h.Amount)
					}
				}).
				Wait(h.Recovery)
		})
}

// Ready is always true.
func (h *MassHeal) Ready(entity.Field, *entity.Session) bool {
	return true
}

func allyReticule(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	for _, a := range f.Allies(s.Combatant) {
		if a.Placed {
			r.Add(a.Pos, world.ModeFriendly)
		}
	}
	return r
}
