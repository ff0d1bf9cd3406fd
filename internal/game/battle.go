package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/combat"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/sched"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/world"
)

// castDrainLimit bounds the steps used to finish a cast when the turn ends.
const castDrainLimit = 1000

// Default team colours by side, used when a scenario leaves them out.
var sideColors = map[entity.Side]string{
	entity.SideWest: "#4A90D9",
	entity.SideEast: "#D9534A",
}

// Battle is the turn and selection state machine for one scenario.
// It is advanced by Step once per tick and is not safe for concurrent use.
type Battle struct {
	name  string
	field *combat.Field
	teams []*entity.Team

	phase    Phase
	active   int
	turn     int
	selected *entity.Combatant
	session  *entity.Session // Captured ability
	slot     int             // Index of session on the selected unit
	task     sched.Task      // In-flight cast
	message  string
	winner   *entity.Team

	ctx      context.Context
	turnCtx  context.Context
	turnSpan trace.Span
	castSpan trace.Span

	logger   *zap.Logger
	tracer   trace.Tracer
	casts    metric.Int64Counter
	rejected metric.Int64Counter
}

// NewBattle builds the field for sc and deploys every roster entry.
// Units without an explicit position follow their team's deployment rule.
func NewBattle(ctx context.Context, sc *gamedata.Scenario, abilities *gamedata.AbilityRegistry,
	classes *gamedata.ClassRegistry, cfg Config, logger *zap.Logger) (*Battle, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger = telemetry.OrNop(logger).Named("battle")

	teams := make([]*entity.Team, 0, len(sc.Teams))
	for _, td := range sc.Teams {
		side, err := entity.ParseSide(td.Side)
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", td.Name, err)
		}
		hex := td.Color
		if hex == "" {
			hex = sideColors[side]
		}
		color, err := gamedata.ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", td.Name, err)
		}
		teams = append(teams, entity.NewTeam(td.Name, side, color))
	}

	rng := rand.New(rand.NewSource(cfg.resolveSeed()))
	field, err := combat.NewField(world.NewGrid(sc.Width, sc.Height), teams, abilities, classes, rng, logger)
	if err != nil {
		return nil, err
	}

	for i, td := range sc.Teams {
		for _, u := range td.Roster {
			class, err := classes.Lookup(u.Class)
			if err != nil {
				return nil, fmt.Errorf("team %q unit %q: %w", td.Name, u.Name, err)
			}
			var at *world.Coord
			if u.At != nil {
				at = &world.Coord{X: u.At.X, Y: u.At.Y}
			}
			if err := field.Deploy(teams[i], entity.NewCombatant(u.Name, class), at); err != nil {
				return nil, err
			}
		}
	}

	meter := telemetry.Meter("battle")
	b := &Battle{
		name:     sc.Name,
		field:    field,
		teams:    teams,
		phase:    PhaseNoTeamTurn,
		slot:     NoAbility,
		ctx:      ctx,
		turnCtx:  ctx,
		logger:   logger,
		tracer:   telemetry.Tracer("battle"),
		casts:    telemetry.Counter(meter, "battle.casts", "Casts committed"),
		rejected: telemetry.Counter(meter, "battle.casts.rejected", "Casts rejected on validation"),
	}
	field.SetContext(ctx)
	field.OnDefeat(b.onDefeat)

	logger.Info("battle ready",
		zap.String("scenario", sc.Name),
		zap.Int("width", sc.Width),
		zap.Int("height", sc.Height),
		zap.Int("units", sc.UnitCount()),
	)
	return b, nil
}

// Field returns the battlefield.
func (b *Battle) Field() *combat.Field { return b.field }

// Phase returns the current state.
func (b *Battle) Phase() Phase { return b.phase }

// Turn returns the number of team turns started so far.
func (b *Battle) Turn() int { return b.turn }

// ActiveTeam returns the team whose turn it is.
func (b *Battle) ActiveTeam() *entity.Team { return b.teams[b.active] }

// Selected returns the selected combatant, or nil.
func (b *Battle) Selected() *entity.Combatant { return b.selected }

// Capturing returns the session holding grid input, or nil.
func (b *Battle) Capturing() *entity.Session { return b.session }

// Winner returns the winning team once the battle is over, or nil.
func (b *Battle) Winner() *entity.Team { return b.winner }

// Message returns the latest status line.
func (b *Battle) Message() string { return b.message }

// View returns the exposed panel. An open ability view hides the unit view.
func (b *Battle) View() View {
	switch {
	case b.session != nil:
		return ViewAbility
	case b.selected != nil:
		return ViewUnit
	default:
		return ViewNone
	}
}

// Step advances the battle by dt and applies in. End turn is honoured in
// every phase; the remaining intents are dispatched on the current phase.
func (b *Battle) Step(dt time.Duration, in Input) Frame {
	if b.phase == PhaseOver {
		return b.frame(in)
	}
	if b.phase == PhaseNoTeamTurn {
		b.beginTurn()
	}

	if in.Intent == IntentEndTurn {
		b.endTurn()
		if !b.checkOutcome() {
			b.beginTurn()
		}
		return b.frame(in)
	}

	switch b.phase {
	case PhaseUnitNotSelected:
		b.stepUnitNotSelected(in)
	case PhaseUnitSelected:
		b.stepUnitSelected(in)
	case PhaseCapturingInput:
		b.stepCapturing(in)
	case PhaseExecuting:
		b.stepExecuting(dt)
	}

	b.checkOutcome()
	return b.frame(in)
}

func (b *Battle) stepUnitNotSelected(in Input) {
	team := b.ActiveTeam()
	switch in.Intent {
	case IntentCycleForward:
		b.selectIndex(team.Next(-1))
	case IntentCycleBackward:
		b.selectIndex(team.Prev(-1))
	case IntentConfirmTile:
		b.selectAt(in.Tile)
	}
}

func (b *Battle) stepUnitSelected(in Input) {
	team := b.ActiveTeam()
	switch in.Intent {
	case IntentCycleForward:
		b.selectIndex(team.Next(team.IndexOf(b.selected)))
	case IntentCycleBackward:
		b.selectIndex(team.Prev(team.IndexOf(b.selected)))
	case IntentActivateAbility:
		b.activate(in.Ability)
	case IntentConfirmTile:
		b.selectAt(in.Tile)
	case IntentCancel:
		b.deselect()
	}
}

func (b *Battle) stepCapturing(in Input) {
	s := b.session
	if in.Hovering {
		s.Hover(in.Hover)
	} else {
		s.ClearHover()
	}

	switch in.Intent {
	case IntentCancel:
		b.releaseCapture()
		b.phase = PhaseUnitSelected
	case IntentActivateAbility:
		if in.Ability == b.slot {
			return
		}
		b.releaseCapture()
		b.phase = PhaseUnitSelected
		b.activate(in.Ability)
	case IntentConfirmTile:
		b.confirm(in.Tile)
	}
}

func (b *Battle) stepExecuting(dt time.Duration) {
	if b.task.Step(dt) {
		b.finishCast()
	}
}

func (b *Battle) selectIndex(i int) {
	team := b.ActiveTeam()
	if i < 0 || i >= team.Len() {
		return
	}
	b.selectUnit(team.Members[i])
}

// selectAt selects the active team's unit on tile, if there is one.
func (b *Battle) selectAt(tile world.Coord) {
	if c := b.field.At(tile); c != nil && c.Team == b.ActiveTeam() {
		b.selectUnit(c)
	}
}

func (b *Battle) selectUnit(c *entity.Combatant) {
	b.selected = c
	b.phase = PhaseUnitSelected
	b.logger.Debug("unit selected",
		zap.String("combatant", c.Name),
		zap.Int("ap", c.ActionPoints),
	)
}

// deselect clears the selection. It is the single path for both an
// explicit cancel and the selected unit's defeat.
func (b *Battle) deselect() {
	b.selected = nil
	if b.task != nil {
		return
	}
	b.releaseCapture()
	b.phase = PhaseUnitNotSelected
}

func (b *Battle) activate(i int) {
	s := b.selected.Session(i)
	if s == nil {
		return
	}
	if !s.CanActivate(b.field) {
		b.message = fmt.Sprintf("%s cannot use %s now", b.selected.Name, s.Def.Name)
		b.logger.Debug("activation refused",
			zap.String("combatant", b.selected.Name),
			zap.String("ability", s.Def.ID),
			zap.Int("ap", b.selected.ActionPoints),
			zap.Int("cost", s.Def.Cost),
		)
		return
	}
	s.Capture()
	b.session = s
	b.slot = i
	b.phase = PhaseCapturingInput
	b.message = fmt.Sprintf("%s: choose a target for %s", b.selected.Name, s.Def.Name)
	b.logger.Debug("ability captured",
		zap.String("combatant", b.selected.Name),
		zap.String("ability", s.Def.ID),
	)
}

func (b *Battle) releaseCapture() {
	if b.session != nil && !b.session.CapturingFlow {
		b.session.Release()
	}
	b.session = nil
	b.slot = NoAbility
}

// confirm starts the captured ability against target. The first step runs
// at once so a rejected target never reaches the executing phase.
func (b *Battle) confirm(target world.Coord) {
	s := b.session
	caster := s.Combatant
	ctx, span := b.tracer.Start(b.turnCtx, "ability.cast")
	span.SetAttributes(
		attribute.String("ability", s.Def.ID),
		attribute.String("caster", caster.Name),
		attribute.Int("target_x", target.X),
		attribute.Int("target_y", target.Y),
	)

	b.field.SetContext(ctx)
	task := s.Cast(b.field, target)
	done := task.Step(0)

	if !s.Committed() {
		span.SetAttributes(attribute.Bool("accepted", false))
		span.End()
		b.field.SetContext(b.turnCtx)
		b.rejected.Add(b.turnCtx, 1, metric.WithAttributes(attribute.String("ability", s.Def.ID)))
		b.session = nil
		b.slot = NoAbility
		b.phase = PhaseUnitSelected
		b.message = fmt.Sprintf("%s: invalid target %s", s.Def.Name, target)
		b.logger.Debug("cast rejected",
			zap.String("combatant", caster.Name),
			zap.String("ability", s.Def.ID),
			zap.Stringer("target", target),
		)
		return
	}

	span.SetAttributes(attribute.Bool("accepted", true))
	b.castSpan = span
	b.task = task
	b.casts.Add(b.turnCtx, 1, metric.WithAttributes(attribute.String("ability", s.Def.ID)))
	b.message = fmt.Sprintf("%s uses %s", caster.Name, s.Def.Name)
	b.logger.Info("cast started",
		zap.String("combatant", caster.Name),
		zap.String("ability", s.Def.ID),
		zap.Stringer("target", target),
		zap.Int("ap", caster.ActionPoints),
	)

	if done || !s.CapturingFlow {
		b.finishCast()
		return
	}
	b.phase = PhaseExecuting
}

func (b *Battle) finishCast() {
	if b.castSpan != nil {
		b.castSpan.End()
		b.castSpan = nil
	}
	b.field.SetContext(b.turnCtx)
	if b.session != nil {
		b.logger.Debug("cast finished",
			zap.String("combatant", b.session.Combatant.Name),
			zap.String("ability", b.session.Def.ID),
		)
	}
	b.task = nil
	b.session = nil
	b.slot = NoAbility
	if b.selected != nil {
		b.phase = PhaseUnitSelected
	} else {
		b.phase = PhaseUnitNotSelected
	}
}

func (b *Battle) onDefeat(c *entity.Combatant) {
	b.message = fmt.Sprintf("%s is defeated", c.Name)
	if c == b.selected {
		b.deselect()
	}
}

func (b *Battle) beginTurn() {
	b.turn++
	team := b.ActiveTeam()
	team.ReplenishAll()

	b.turnCtx, b.turnSpan = b.tracer.Start(b.ctx, "battle.turn")
	b.turnSpan.SetAttributes(
		attribute.String("team", team.Name),
		attribute.Int("turn", b.turn),
		attribute.Int("roster", team.Len()),
	)
	b.field.SetContext(b.turnCtx)

	b.phase = PhaseUnitNotSelected
	b.message = fmt.Sprintf("Turn %d: %s", b.turn, team.Name)
	b.logger.Info("turn started",
		zap.String("team", team.Name),
		zap.Int("turn", b.turn),
		zap.Int("roster", team.Len()),
	)
}

// endTurn finishes any in-flight cast, clears capture and selection and
// hands the turn to the next team.
func (b *Battle) endTurn() {
	if b.task != nil {
		if err := sched.Drain(b.task, castDrainLimit); err != nil {
			b.logger.Error("cast did not finish", zap.Error(err))
		}
		b.finishCast()
	}
	b.releaseCapture()
	b.selected = nil

	b.logger.Info("turn ended",
		zap.String("team", b.ActiveTeam().Name),
		zap.Int("turn", b.turn),
	)
	if b.turnSpan != nil {
		b.turnSpan.End()
		b.turnSpan = nil
	}
	b.active = (b.active + 1) % len(b.teams)
	b.phase = PhaseNoTeamTurn
}

// checkOutcome ends the battle once a roster is empty and no cast is in flight.
func (b *Battle) checkOutcome() bool {
	if b.task != nil {
		return false
	}
	out := b.field.Outcome()
	if !out.Decided {
		return false
	}

	b.releaseCapture()
	b.selected = nil
	b.winner = out.Winner
	b.phase = PhaseOver

	winner := "draw"
	if out.Winner != nil {
		winner = out.Winner.Name
		b.message = fmt.Sprintf("%s wins!", winner)
	} else {
		b.message = "Draw!"
	}

	_, span := b.tracer.Start(b.ctx, "battle.end")
	span.SetAttributes(
		attribute.String("scenario", b.name),
		attribute.String("winner", winner),
		attribute.Int("turns", b.turn),
	)
	span.End()
	if b.turnSpan != nil {
		b.turnSpan.End()
		b.turnSpan = nil
	}

	b.logger.Info("battle over",
		zap.String("winner", winner),
		zap.Int("turns", b.turn),
	)
	return true
}

// frame builds the presentation state and applies its reticule to the grid.
func (b *Battle) frame(in Input) Frame {
	r := world.NewReticule()
	switch b.phase {
	case PhaseCapturingInput:
		r = b.session.Preview(b.field)
	case PhaseUnitSelected:
		if s := b.selected.Session(in.HoveredAbility); s != nil {
			r = s.Domain(b.field)
		}
	}
	grid := b.field.Grid()
	grid.ApplyReticule(r)

	team := b.ActiveTeam()
	f := Frame{
		Phase:       b.phase,
		View:        b.View(),
		Turn:        b.turn,
		ActiveTeam:  team.Name,
		ActiveColor: team.Color,
		Grid:        grid,
		Reticule:    r,
		Ability:     b.slot,
		Message:     b.message,
		Hover:       in.Hover,
		Hovering:    in.Hovering,
	}
	if b.winner != nil {
		f.Winner = b.winner.Name
	}

	for _, t := range b.teams {
		f.Teams = append(f.Teams, TeamView{Name: t.Name, Color: t.Color, Units: t.Len(), Active: t == team})
	}
	for _, c := range b.field.Combatants() {
		f.Units = append(f.Units, unitView(c, b.selected))
	}
	if b.selected != nil {
		v := unitView(b.selected, b.selected)
		f.Selected = &v
		for _, s := range b.selected.Sessions {
			f.Abilities = append(f.Abilities, AbilityView{
				Name:        s.Def.Name,
				Icon:        s.Def.IconRune(),
				Description: s.Def.Description,
				Cost:        s.Def.Cost,
				Usable:      b.phase == PhaseUnitSelected && s.CanActivate(b.field),
			})
		}
	}
	if p, ok := b.task.(interface{ Progress() float64 }); ok {
		f.Progress = p.Progress()
	}
	return f
}
