package ability

import (
	"fmt"
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Summon creates a new unit of Class on a free tile next to the caster.
// The unit joins the caster's roster with full health and no action points.
type Summon struct {
	Class    string
	Windup   time.Duration
	Recovery time.Duration
}

// NewSummon creates a summon behaviour from def.
func NewSummon(def *gamedata.AbilityDef) (*Summon, error) {
	if def.SummonClass == "" {
		return nil, fmt.Errorf("ability %q: summon without class", def.ID)
	}
	return &Summon{
		Class:    def.SummonClass,
		Windup:   def.Windup(),
		Recovery: def.Recovery(),
	}, nil
}

// Domain marks the free tiles next to the caster.
func (m *Summon) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	r := world.NewReticule()
	r.AddCoords(freeAdjacent(f.Grid(), s.Combatant.Pos), world.ModeWalkable)
	return r
}

// Preview marks a free adjacent hover walkable; any other hover is blocked.
func (m *Summon) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	r := world.NewReticule()
	if !f.Grid().InBounds(hover) {
		return r
	}
	if m.valid(f, s, hover) {
		r.Add(hover, world.ModeWalkable)
	} else {
		r.Add(hover, world.ModeBlocked)
	}
	return r
}

// Cast summons onto target.
func (m *Summon) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	return cast(s,
		func() (int, bool) {
			return s.Def.Cost, m.valid(f, s, target)
		},
		func(sc *sched.Script) {
			sc.Wait(m.Windup).
				Do(func() {
					if _, err := f.Spawn(m.Class, s.Combatant.Team, target); err != nil {
						panic(fmt.Sprintf("ability: summon %q: %v", m.Class, err))
					}
				}).
				Wait(m.Recovery)
		})
}

// Ready reports whether there is room next to the caster.
func (m *Summon) Ready(f entity.Field, s *entity.Session) bool {
	return len(freeAdjacent(f.Grid(), s.Combatant.Pos)) > 0
}

func (m *Summon) valid(f entity.Field, s *entity.Session, at world.Coord) bool {
	return s.Combatant.Pos.Manhattan(at) == 1 && f.Grid().IsFree(at)
}
