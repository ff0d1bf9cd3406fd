package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/telemetry"
)

// Terminal is the event source the game loop reads from.
type Terminal interface {
	PollEvent() tcell.Event
	Sync()
	Close()
}

// Presenter draws frames and turns terminal events into input.
type Presenter interface {
	Render(f Frame)
	// Translate maps ev onto the pending input. It returns quit when the
	// player asked to leave.
	Translate(ev tcell.Event, in *Input) (quit bool)
}

// Game holds the entire game state.
type Game struct {
	terminal  Terminal
	presenter Presenter
	battle    *Battle
	cfg       Config
	logger    *zap.Logger
	running   bool

	hover   Input   // Latest pointer state
	pending []Input // Intents not yet stepped, oldest first
}

// New creates a new game instance.
func New(terminal Terminal, presenter Presenter, battle *Battle, cfg Config, logger *zap.Logger) *Game {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	return &Game{
		terminal:  terminal,
		presenter: presenter,
		battle:    battle,
		cfg:       cfg,
		logger:    telemetry.OrNop(logger).Named("game"),
		running:   true,
		hover:     Idle(),
	}
}

// Run executes the main game loop until the player quits or ctx is done.
// The ticker is the only clock the battle sees.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.run")
	span.SetAttributes(attribute.Int64("tick_ms", g.cfg.TickRate.Milliseconds()))
	defer span.End()

	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := g.terminal.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(g.cfg.TickRate)
	defer ticker.Stop()
	last := time.Now()

	g.presenter.Render(g.battle.Step(0, g.next()))
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				continue
			}
			g.handleEvent(ev)
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			g.presenter.Render(g.battle.Step(dt, g.next()))
		}
	}

	span.SetAttributes(
		attribute.Int("turns", g.battle.Turn()),
		attribute.String("phase", g.battle.Phase().String()),
	)
	g.logger.Info("game loop stopped",
		zap.Int("turns", g.battle.Turn()),
		zap.Stringer("phase", g.battle.Phase()),
	)
	g.terminal.Close()
	return nil
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ev tcell.Event) {
	if _, ok := ev.(*tcell.EventResize); ok {
		g.terminal.Sync()
		return
	}

	in := g.hover
	in.Intent = IntentNone
	if quit := g.presenter.Translate(ev, &in); quit {
		g.running = false
		return
	}
	g.hover = in
	g.hover.Intent = IntentNone
	if in.Intent != IntentNone {
		g.pending = append(g.pending, in)
	}
}

// next returns the input for the coming step: the oldest queued intent
// with the current pointer state, or the pointer state alone.
func (g *Game) next() Input {
	in := g.hover
	if len(g.pending) > 0 {
		in.Intent = g.pending[0].Intent
		in.Ability = g.pending[0].Ability
		in.Tile = g.pending[0].Tile
		g.pending = g.pending[1:]
	}
	return in
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.terminal != nil {
		g.terminal.Close()
	}
}
