package ability

import (
	"math"
	"time"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/world"
)

// Ricochet fires like a projectile, then jumps to the nearest enemy not yet
// hit within JumpRange of the previous victim. Each jump deals Falloff less
// damage, never below zero.
type Ricochet struct {
	Damage    int
	Range     int
	Jumps     int
	JumpRange int
	Falloff   int
	Windup    time.Duration
	Interval  time.Duration
	Recovery  time.Duration
}

// NewRicochet creates a ricochet behaviour from def.
func NewRicochet(def *gamedata.AbilityDef) *Ricochet {
	return &Ricochet{
		Damage:    def.Damage,
		Range:     def.Range,
		Jumps:     def.Jumps,
		JumpRange: def.JumpRange,
		Falloff:   def.Falloff,
		Windup:    def.Windup(),
		Interval:  def.Interval(),
		Recovery:  def.Recovery(),
	}
}

// DamageAt returns the damage dealt by the i-th hit of the chain.
func (r *Ricochet) DamageAt(i int) int {
	return max(0, r.Damage-i*r.Falloff)
}

// Chain returns the victims in hit order for a shot toward hover.
// It is empty when the first occupant on the ray is not an enemy.
func (r *Ricochet) Chain(f entity.Field, s *entity.Session, hover world.Coord) []*entity.Combatant {
	first := firstOccupant(f, s.Combatant.Pos, hover, r.Range)
	if !s.Combatant.IsEnemy(first) {
		return nil
	}

	chain := []*entity.Combatant{first}
	hit := map[*entity.Combatant]bool{first: true}
	source := first
	for i := 0; i < r.Jumps; i++ {
		next := r.nextTarget(f, s, source, hit)
		if next == nil {
			break
		}
		chain = append(chain, next)
		hit[next] = true
		source = next
	}
	return chain
}

func (r *Ricochet) nextTarget(f entity.Field, s *entity.Session, source *entity.Combatant, hit map[*entity.Combatant]bool) *entity.Combatant {
	var best *entity.Combatant
	bestDist := math.MaxFloat64
	for _, t := range f.Grid().Diamond(source.Pos, r.JumpRange, false) {
		occ := f.Lookup(t.Occupant)
		if occ == nil || hit[occ] || !s.Combatant.IsEnemy(occ) {
			continue
		}
		if d := source.Pos.Distance(t.Pos); d < bestDist {
			bestDist = d
			best = occ
		}
	}
	return best
}

// Domain marks each ray up to the first occupant.
func (r *Ricochet) Domain(f entity.Field, s *entity.Session) *world.Reticule {
	return truncatedRays(f, s, r.Range)
}

// Preview marks every victim of the chain, or blocks an ally in the way.
func (r *Ricochet) Preview(f entity.Field, s *entity.Session, hover world.Coord) *world.Reticule {
	ret := world.NewReticule()
	chain := r.Chain(f, s, hover)
	if len(chain) == 0 {
		if occ := firstOccupant(f, s.Combatant.Pos, hover, r.Range); occ != nil {
			ret.Add(occ.Pos, world.ModeBlocked)
		}
		return ret
	}
	for _, c := range chain {
		ret.Add(c.Pos, world.ModeValid)
	}
	return ret
}

// Cast hits the chain computed at validation, one victim per beat.
func (r *Ricochet) Cast(f entity.Field, s *entity.Session, target world.Coord) sched.Task {
	var chain []*entity.Combatant
	return cast(s,
		func() (int, bool) {
			chain = r.Chain(f, s, target)
			return s.Def.Cost, len(chain) > 0
		},
		func(sc *sched.Script) {
			sc.Wait(r.Windup)
			for i, victim := range chain {
				if i > 0 {
					sc.Wait(r.Interval)
				}
				amount := r.DamageAt(i)
				sc.Do(func() {
					if victim.IsAlive() {
						f.Damage(s.Combatant, victim, amount)
					}
				})
			}
			sc.Wait(r.Recovery)
		})
}

// Ready is always true.
func (r *Ricochet) Ready(entity.Field, *entity.Session) bool {
	return true
}
