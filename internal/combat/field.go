// Package combat provides the battlefield that abilities act on: the grid,
// the fielded combatants and the damage, healing, spawning and defeat rules.
package combat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/ability"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/world"
)

// ErrNoPlacement is returned when a team has no free tile to deploy onto.
var ErrNoPlacement = errors.New("no free deployment tile")

// Field owns the grid and the index of fielded combatants.
// It implements entity.Field.
type Field struct {
	grid      *world.Grid
	teams     []*entity.Team
	byID      map[uuid.UUID]*entity.Combatant
	abilities *gamedata.AbilityRegistry
	classes   *gamedata.ClassRegistry
	rng       *rand.Rand
	spawned   int

	ctx      context.Context
	logger   *zap.Logger
	tracer   trace.Tracer
	onDefeat []func(*entity.Combatant)

	damageDealt metric.Int64Counter
	healingDone metric.Int64Counter
	defeats     metric.Int64Counter
}

var _ entity.Field = (*Field)(nil)

// NewField creates a field over grid for the given teams.
// Every summon ability must name a loaded class.
func NewField(grid *world.Grid, teams []*entity.Team, abilities *gamedata.AbilityRegistry,
	classes *gamedata.ClassRegistry, rng *rand.Rand, logger *zap.Logger) (*Field, error) {
	if grid == nil {
		return nil, errors.New("combat: nil grid")
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("combat: need at least 2 teams, got %d", len(teams))
	}
	for _, a := range abilities.All() {
		if a.Kind != gamedata.KindSummon {
			continue
		}
		if _, err := classes.Lookup(a.SummonClass); err != nil {
			return nil, fmt.Errorf("combat: ability %q: %w", a.ID, err)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	meter := telemetry.Meter("combat")
	return &Field{
		grid:        grid,
		teams:       teams,
		byID:        make(map[uuid.UUID]*entity.Combatant),
		abilities:   abilities,
		classes:     classes,
		rng:         rng,
		ctx:         context.Background(),
		logger:      telemetry.OrNop(logger).Named("combat"),
		tracer:      telemetry.Tracer("combat"),
		damageDealt: telemetry.Counter(meter, "combat.damage", "Health removed by abilities"),
		healingDone: telemetry.Counter(meter, "combat.healing", "Health restored by abilities"),
		defeats:     telemetry.Counter(meter, "combat.defeats", "Combatants defeated"),
	}, nil
}

// SetContext sets the parent context for spans recorded by the field.
func (f *Field) SetContext(ctx context.Context) {
	f.ctx = ctx
}

// OnDefeat registers fn to run after a defeated combatant leaves the field.
func (f *Field) OnDefeat(fn func(*entity.Combatant)) {
	f.onDefeat = append(f.onDefeat, fn)
}

// Grid returns the battlefield grid.
func (f *Field) Grid() *world.Grid { return f.grid }

// Rand returns the battle's random source.
func (f *Field) Rand() *rand.Rand { return f.rng }

// Teams returns the teams in turn order.
func (f *Field) Teams() []*entity.Team { return f.teams }

// Lookup returns the fielded combatant with the given ID, or nil.
func (f *Field) Lookup(id uuid.UUID) *entity.Combatant {
	if id == uuid.Nil {
		return nil
	}
	return f.byID[id]
}

// At returns the combatant occupying c, or nil.
func (f *Field) At(c world.Coord) *entity.Combatant {
	return f.Lookup(f.grid.OccupantAt(c))
}

// Allies returns the fielded members of c's team, including c.
func (f *Field) Allies(c *entity.Combatant) []*entity.Combatant {
	if c.Team == nil {
		return nil
	}
	return append([]*entity.Combatant(nil), c.Team.Members...)
}

// Enemies returns the fielded members of every other team.
func (f *Field) Enemies(c *entity.Combatant) []*entity.Combatant {
	var out []*entity.Combatant
	for _, t := range f.teams {
		if t == c.Team {
			continue
		}
		out = append(out, t.Members...)
	}
	return out
}

// Combatants returns every fielded combatant in team then roster order.
func (f *Field) Combatants() []*entity.Combatant {
	var out []*entity.Combatant
	for _, t := range f.teams {
		out = append(out, t.Members...)
	}
	return out
}

// Deploy places c for team, at the given tile or by the team's deployment
// rule when at is nil, then binds its ability sessions.
func (f *Field) Deploy(team *entity.Team, c *entity.Combatant, at *world.Coord) error {
	if _, dup := f.byID[c.ID]; dup {
		panic(fmt.Sprintf("combat: combatant %s registered twice", c.ID))
	}

	pos, ok := world.Coord{}, false
	if at != nil {
		pos, ok = *at, true
	} else {
		pos, ok = team.DeploymentPosition(f.grid)
	}
	if !ok {
		return fmt.Errorf("deploy %s for %s: %w", c.Name, team.Name, ErrNoPlacement)
	}
	if err := c.PlaceOn(f.grid, pos); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	defs, err := f.abilities.Resolve(c.Class.Abilities)
	if err != nil {
		c.Lift(f.grid)
		return fmt.Errorf("deploy %s: %w", c.Name, err)
	}
	if err := ability.Equip(c, defs); err != nil {
		c.Lift(f.grid)
		return fmt.Errorf("deploy: %w", err)
	}

	team.Add(c)
	f.byID[c.ID] = c

	f.logger.Debug("combatant deployed",
		zap.String("combatant", c.Name),
		zap.String("team", team.Name),
		zap.Stringer("pos", pos),
	)
	return nil
}

// Spawn creates a combatant of the named class on team at the given tile.
// It arrives with full health and no action points.
func (f *Field) Spawn(class string, team *entity.Team, at world.Coord) (*entity.Combatant, error) {
	def, err := f.classes.Lookup(class)
	if err != nil {
		return nil, err
	}
	f.spawned++
	c := entity.NewCombatant(fmt.Sprintf("%s %d", def.Name, f.spawned), def)
	c.ActionPoints = 0
	if err := f.Deploy(team, c, &at); err != nil {
		return nil, err
	}
	f.logger.Info("combatant summoned",
		zap.String("combatant", c.Name),
		zap.String("team", team.Name),
		zap.Stringer("pos", at),
	)
	return c, nil
}

// Damage removes up to amount health from target and handles its defeat.
// Returns the damage dealt.
func (f *Field) Damage(source, target *entity.Combatant, amount int) int {
	if target == nil || !target.IsAlive() {
		return 0
	}
	dealt := target.TakeDamage(amount)
	f.damageDealt.Add(f.ctx, int64(dealt), metric.WithAttributes(
		attribute.String("team", teamName(source)),
	))
	f.logger.Info("damage",
		zap.String("source", nameOf(source)),
		zap.String("target", target.Name),
		zap.Int("damage", dealt),
		zap.Int("health", target.Health),
	)
	if !target.IsAlive() {
		f.defeat(source, target)
	}
	return dealt
}

// Heal restores up to amount health to target. Returns the amount restored.
func (f *Field) Heal(source, target *entity.Combatant, amount int) int {
	if target == nil {
		return 0
	}
	healed := target.Heal(amount)
	f.healingDone.Add(f.ctx, int64(healed), metric.WithAttributes(
		attribute.String("team", teamName(source)),
	))
	f.logger.Info("heal",
		zap.String("source", nameOf(source)),
		zap.String("target", target.Name),
		zap.Int("healed", healed),
		zap.Int("health", target.Health),
	)
	return healed
}

// defeat removes target from its roster and vacates its tile.
func (f *Field) defeat(source, target *entity.Combatant) {
	_, span := f.tracer.Start(f.ctx, "combat.defeat")
	defer span.End()
	span.SetAttributes(
		attribute.String("combatant", target.Name),
		attribute.String("team", teamName(target)),
		attribute.String("defeated_by", nameOf(source)),
		attribute.Int("pos_x", target.Pos.X),
		attribute.Int("pos_y", target.Pos.Y),
	)

	if target.Team != nil {
		target.Team.Remove(target)
	}
	target.Lift(f.grid)
	delete(f.byID, target.ID)

	f.defeats.Add(f.ctx, 1, metric.WithAttributes(attribute.String("team", teamName(target))))
	f.logger.Info("combatant defeated",
		zap.String("combatant", target.Name),
		zap.String("by", nameOf(source)),
	)

	for _, fn := range f.onDefeat {
		fn(target)
	}
}

// Outcome reports whether the battle is decided.
type Outcome struct {
	Decided bool
	Winner  *entity.Team // nil on a draw
}

// Outcome returns the battle outcome: decided once any team's roster is empty.
func (f *Field) Outcome() Outcome {
	var standing []*entity.Team
	for _, t := range f.teams {
		if t.Len() > 0 {
			standing = append(standing, t)
		}
	}
	switch len(standing) {
	case 0:
		return Outcome{Decided: true}
	case 1:
		return Outcome{Decided: true, Winner: standing[0]}
	default:
		return Outcome{}
	}
}

func teamName(c *entity.Combatant) string {
	if c == nil || c.Team == nil {
		return ""
	}
	return c.Team.Name
}

func nameOf(c *entity.Combatant) string {
	if c == nil {
		return ""
	}
	return c.Name
}
