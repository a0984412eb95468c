package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/supply-core/geom"
	"github.com/nstehr/vimy/supply-core/ipc"
	"github.com/nstehr/vimy/supply-core/journal"
	"github.com/nstehr/vimy/supply-core/model"
	"github.com/nstehr/vimy/supply-core/placement"
	"github.com/nstehr/vimy/supply-core/supply"
)

// ErrNoSession is returned for game state that arrives before a hello.
var ErrNoSession = errors.New("game state before hello")

// Options are shared by every agent the process creates.
type Options struct {
	Tuning supply.Tuning
	// State returns the state store for a game. Nil keeps state in memory.
	State func(gameID string) supply.StateStore
	// Recorders receive every decision of every game.
	Recorders []supply.Recorder
	// JournalDir enables a per-game decision journal when non-empty.
	JournalDir string
}

// Agent owns the supply decisions for a single game session.
type Agent struct {
	Conn   *ipc.Connection
	Player string
	Race   string
	GameID string

	opts       Options
	topology   *model.Topology
	townHalls  []string
	oracle     *placement.Oracle
	controller *supply.Controller
	journal    *journal.Writer
}

func New(conn *ipc.Connection, opts Options) *Agent {
	return &Agent{Conn: conn, opts: opts, oracle: placement.NewOracle()}
}

// HandleHello validates the session, resolves the race's supply structure
// and builds the controller. Failures are reported back in the ack.
func (a *Agent) HandleHello(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	if err := a.start(env.Data); err != nil {
		slog.Error("hello rejected", "error", err)
		return ack(err)
	}
	slog.Info("player identified",
		"player", a.Player,
		"race", a.Race,
		"game", a.GameID,
		"structure", a.controller.Structure(),
		"expansions", len(a.topology.Expansions),
	)
	return ack(nil)
}

func (a *Agent) start(raw json.RawMessage) error {
	hello, err := ipc.DecodeHello(raw)
	if err != nil {
		return err
	}
	structure, err := model.SupplyStructureFor(hello.Race)
	if err != nil {
		return err
	}
	townHalls, err := model.TownHallsFor(hello.Race)
	if err != nil {
		return err
	}

	var state supply.StateStore = supply.NewMemoryStore()
	if a.opts.State != nil {
		state = a.opts.State(hello.GameID)
	}
	recorders := append([]supply.Recorder{}, a.opts.Recorders...)
	if a.opts.JournalDir != "" {
		if a.journal != nil {
			_ = a.journal.Close()
		}
		jw, err := journal.Create(a.opts.JournalDir, hello.GameID)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		a.journal = jw
		recorders = append(recorders, jw)
	}

	ctl, err := supply.NewController(structure, a.opts.Tuning, a.oracle, a,
		supply.WithStateStore(state), supply.WithRecorders(recorders...))
	if err != nil {
		return err
	}

	a.Player, a.Race, a.GameID = hello.Player, hello.Race, hello.GameID
	a.Conn.Player = hello.Player
	a.topology = hello.Topology
	a.townHalls = townHalls
	a.controller = ctl
	return nil
}

// HandleGameState runs one controller tick. A tick that fails is logged and
// acknowledged; the next game state retries from unchanged state.
func (a *Agent) HandleGameState(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	if a.controller == nil {
		return nil, ErrNoSession
	}
	var gs model.GameState
	if err := json.Unmarshal(env.Data, &gs); err != nil {
		return nil, fmt.Errorf("unmarshal GameState: %w", err)
	}

	a.oracle.SetGrid(gs.Placement)
	facts := a.facts(gs)

	slog.Debug("game state received",
		"player", a.Player,
		"tick", gs.Tick,
		"supply", fmt.Sprintf("%d/%d", gs.Player.SupplyUsed, gs.Player.SupplyCap),
		"bases", facts.Bases,
		"supplyStructures", len(facts.Structures),
		"pending", facts.Economy.PendingOrders,
		"placeable", gs.Placement.Placeable(),
	)

	d, err := a.controller.Tick(ctx, facts)
	if err != nil {
		slog.Error("supply tick failed", "tick", gs.Tick, "error", err)
		return ack(err)
	}
	if !d.Placed {
		slog.Debug("supply decision", "tick", d.Tick, "verdict", d.Verdict, "rule", d.Rule, "strategy", d.Strategy)
	}
	return ack(nil)
}

// Build implements supply.Builder by sending a build command to the host.
func (a *Agent) Build(_ context.Context, structureType string, p geom.Point) error {
	return a.Conn.Send(ipc.TypeBuild, ipc.BuildCommand{Structure: structureType, X: p.X, Y: p.Y})
}

// Close releases the game's journal.
func (a *Agent) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// facts turns the host's snapshot into the controller's view of the tick.
func (a *Agent) facts(gs model.GameState) supply.Facts {
	structure := a.controller.Structure()
	supplyStructures := gs.OwnOfType(structure)
	positions := make([]geom.Point, len(supplyStructures))
	inProgress := 0
	for i, s := range supplyStructures {
		positions[i] = s.Pos()
		if s.InProgress() {
			inProgress++
		}
	}

	halls := gs.OwnOfType(a.townHalls...)
	hallPositions := make([]geom.Point, len(halls))
	for i, h := range halls {
		hallPositions[i] = h.Pos()
	}

	return supply.Facts{
		Tick: gs.Tick,
		Economy: supply.Economy{
			SupplyUsed:    gs.Player.SupplyUsed,
			SupplyCap:     gs.Player.SupplyCap,
			InProgress:    inProgress,
			PendingOrders: gs.WithOrder(model.BuildOrder(structure)),
			CanAfford:     gs.CanAfford(structure),
		},
		Bases:      len(halls),
		Topology:   a.topology,
		Occupied:   a.topology.Occupied(hallPositions),
		Structures: positions,
	}
}

func ack(err error) (*ipc.Envelope, error) {
	msg := ipc.AckMessage{Status: "ok"}
	if err != nil {
		msg = ipc.AckMessage{Status: "error", Error: err.Error()}
	}
	env, e := ipc.NewEnvelope(ipc.TypeAck, msg)
	if e != nil {
		return nil, e
	}
	return &env, nil
}
