package gamedata

import (
	"errors"
	"time"
)

// =============================================================================
// ABILITY SYSTEM DESIGN
// =============================================================================
//
// Overview:
// ---------
// Abilities are data-driven grid actions owned by combatants. Definitions are
// loaded from JSON at startup and shared by every combatant whose class lists
// them. A definition never changes after loading.
//
// Kinds:
// ------
// The kind picks the archetype that implements targeting and resolution:
//    - melee: hit one adjacent enemy
//    - projectile: fire along a cardinal ray, stopped by the first occupant
//    - beam: fire along a cardinal ray, hitting everything on it
//    - area: direct hit on the hovered tile, splash on the footprint
//    - ricochet: hit along a ray, then bounce to nearby enemies
//    - move: walk a route through free tiles, paying per step
//    - summon: create a new unit next to the caster
//    - recall: pull an ally next to the caster
//    - rally: teleport next to an ally
//    - heal: heal one ally
//    - mass_heal: heal every ally on the field
//
// JSON Schema:
// ------------
// {
//   "id": "crossbow",
//   "name": "Crossbow",
//   "icon": ">",
//   "kind": "projectile",
//   "cost": 2,
//   "damage": 3,
//   "range": 4,
//   "shots": 2,
//   "intervalMs": 150
// }
//
// Timing:
// -------
// windupMs, recoveryMs and intervalMs are elapsed-time beats. They delay the
// moment turn flow is released; they never change the outcome.
//
// Telemetry:
// ----------
// - ability.cast: ability_id, caster, target_x, target_y, accepted

// ErrUnknownAbility is returned when a class references an ability that was not loaded.
var ErrUnknownAbility = errors.New("unknown ability")

// AbilityKind names the archetype an ability uses.
type AbilityKind string

const (
	KindMelee      AbilityKind = "melee"
	KindProjectile AbilityKind = "projectile"
	KindBeam       AbilityKind = "beam"
	KindArea       AbilityKind = "area"
	KindRicochet   AbilityKind = "ricochet"
	KindMove       AbilityKind = "move"
	KindSummon     AbilityKind = "summon"
	KindRecall     AbilityKind = "recall"
	KindRally      AbilityKind = "rally"
	KindHeal       AbilityKind = "heal"
	KindMassHeal   AbilityKind = "mass_heal"
)

// AreaShape is the footprint of an area ability.
type AreaShape string

const (
	ShapeSquare AreaShape = "square"
	ShapeCross  AreaShape = "cross"
)

// AbilityDef defines an ability loaded from JSON.
type AbilityDef struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Icon         string      `json:"icon"`
	Description  string      `json:"description"`
	Kind         AbilityKind `json:"kind"`
	Cost         int         `json:"cost"`                   // Action points per use, or per step for move
	Damage       int         `json:"damage,omitempty"`       // Direct hit
	SplashDamage int         `json:"splashDamage,omitempty"` // Area footprint outside the centre
	Heal         int         `json:"heal,omitempty"`
	Range        int         `json:"range,omitempty"`
	Shots        int         `json:"shots,omitempty"`
	Jumps        int         `json:"jumps,omitempty"`
	JumpRange    int         `json:"jumpRange,omitempty"`
	Falloff      int         `json:"falloff,omitempty"`
	Shape        AreaShape   `json:"shape,omitempty"`
	SummonClass  string      `json:"summonClass,omitempty"`
	WindupMs     int         `json:"windupMs,omitempty"`
	RecoveryMs   int         `json:"recoveryMs,omitempty"`
	IntervalMs   int         `json:"intervalMs,omitempty"`
}

// Windup returns the delay before the first effect.
func (a *AbilityDef) Windup() time.Duration {
	return time.Duration(a.WindupMs) * time.Millisecond
}

// Recovery returns the delay after the last effect.
func (a *AbilityDef) Recovery() time.Duration {
	return time.Duration(a.RecoveryMs) * time.Millisecond
}

// Interval returns the delay between repeated hits or travel steps.
func (a *AbilityDef) Interval() time.Duration {
	return time.Duration(a.IntervalMs) * time.Millisecond
}

// IconRune returns the icon as a rune for rendering.
func (a *AbilityDef) IconRune() rune {
	if len(a.Icon) == 0 {
		return '*'
	}
	return []rune(a.Icon)[0]
}

// IsOffensive returns true if the ability damages enemies.
func (a *AbilityDef) IsOffensive() bool {
	switch a.Kind {
	case KindMelee, KindProjectile, KindBeam, KindArea, KindRicochet:
		return true
	default:
		return false
	}
}

// AbilitiesFile represents the structure of abilities.json.
type AbilitiesFile struct {
	Abilities []AbilityDef `json:"abilities"`
}

// LoadAbilities loads ability definitions from the embedded abilities.json file.
func LoadAbilities() ([]AbilityDef, error) {
	file, err := Load[AbilitiesFile]("abilities.json")
	if err != nil {
		return nil, err
	}
	return file.Abilities, nil
}
