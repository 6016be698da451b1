package rules

import (
	"fmt"
	"sync"

	"laskan/record"
	"laskan/types"
)

// Reason tags a turn-change event with what caused it.
type Reason int

const (
	ReasonNewGame Reason = iota
	ReasonMove
	ReasonUndo
	ReasonRedo
	ReasonJump
	ReasonGameOver
)

func (r Reason) String() string {
	switch r {
	case ReasonNewGame:
		return "newGame"
	case ReasonMove:
		return "move"
	case ReasonUndo:
		return "undo"
	case ReasonRedo:
		return "redo"
	case ReasonJump:
		return "jump"
	case ReasonGameOver:
		return "gameOver"
	}
	return "unknown"
}

// Event is published on the game's event channel after every state change.
type Event struct {
	Reason Reason
}

// Game wraps a position with move history, undo/redo navigation and a
// single-consumer event channel. All mutating methods may be called from
// any goroutine; events are delivered in mutation order.
type Game struct {
	mu      sync.Mutex
	cur     *State
	history []types.Move
	redo    []types.Move
	tree    *record.Tree
	events  chan Event
}

// NewGame creates a game at the starting position.
func NewGame() *Game {
	return &Game{
		cur:    Initial(),
		tree:   record.NewTree(),
		events: make(chan Event, 32),
	}
}

// Events returns the event channel. There must be exactly one consumer;
// when the buffer is full events are dropped (consumers re-poll state).
func (g *Game) Events() <-chan Event {
	return g.events
}

func (g *Game) emit(r Reason) {
	select {
	case g.events <- Event{Reason: r}:
	default:
	}
}

// Reset starts a fresh game.
func (g *Game) Reset() {
	g.mu.Lock()
	g.cur = Initial()
	g.history = nil
	g.redo = nil
	g.tree = record.NewTree()
	g.mu.Unlock()
	g.emit(ReasonNewGame)
}

// State returns a snapshot of the current position.
func (g *Game) State() *State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur.Clone()
}

// SideToMove returns whose turn it is.
func (g *Game) SideToMove() types.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur.Side
}

// LegalMoves returns the legal moves for the side to move.
func (g *Game) LegalMoves() []types.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return LegalMoves(g.cur)
}

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur.Over
}

// Winner returns the winning side (NoColor for a draw) and whether the
// game is over at all.
func (g *Game) Winner() (types.Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur.Winner, g.cur.Over
}

// PlyCount returns the number of plies played.
func (g *Game) PlyCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history)
}

// Moves returns the wire-encoded move history.
func (g *Game) Moves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	moves := make([]string, len(g.history))
	for i, m := range g.history {
		moves[i] = m.Encode()
	}
	return moves
}

// Play applies a move for the side to move. The move is matched against
// the legal move list by its squares, so a move parsed off the wire is
// accepted as long as it is legal.
func (g *Game) Play(m types.Move) error {
	g.mu.Lock()
	var legal *types.Move
	for _, cand := range LegalMoves(g.cur) {
		if types.SameSquares(cand, m) {
			c := cand
			legal = &c
			break
		}
	}
	if legal == nil {
		g.mu.Unlock()
		return fmt.Errorf("illegal move %s", m.Encode())
	}
	if err := Apply(g.cur, *legal); err != nil {
		g.mu.Unlock()
		return err
	}
	g.history = append(g.history, *legal)
	g.redo = nil
	g.tree.AddMove(legal.Encode())
	over := g.cur.Over
	g.mu.Unlock()

	if over {
		g.emit(ReasonGameOver)
	} else {
		g.emit(ReasonMove)
	}
	return nil
}

// LastMove returns the most recently played move.
func (g *Game) LastMove() (types.Move, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.history) == 0 {
		return types.Move{}, false
	}
	return g.history[len(g.history)-1], true
}

// CanUndo reports whether any move can be taken back.
func (g *Game) CanUndo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history) > 0
}

// Undo takes back the last ply.
func (g *Game) Undo() error {
	g.mu.Lock()
	if len(g.history) == 0 {
		g.mu.Unlock()
		return fmt.Errorf("nothing to undo")
	}
	g.undoLocked()
	g.mu.Unlock()
	g.emit(ReasonUndo)
	return nil
}

// Redo replays the last undone ply.
func (g *Game) Redo() error {
	g.mu.Lock()
	if len(g.redo) == 0 {
		g.mu.Unlock()
		return fmt.Errorf("nothing to redo")
	}
	g.redoLocked()
	g.mu.Unlock()
	g.emit(ReasonRedo)
	return nil
}

// JumpTo navigates to the position after the given ply count, undoing or
// redoing as needed, and emits a single jump event.
func (g *Game) JumpTo(ply int) error {
	g.mu.Lock()
	if ply < 0 || ply > len(g.history)+len(g.redo) {
		g.mu.Unlock()
		return fmt.Errorf("no position at ply %d", ply)
	}
	for len(g.history) > ply {
		g.undoLocked()
	}
	for len(g.history) < ply {
		g.redoLocked()
	}
	g.mu.Unlock()
	g.emit(ReasonJump)
	return nil
}

// undoLocked rebuilds the position by replaying all but the last move.
// The board is small, so replay beats frame bookkeeping.
func (g *Game) undoLocked() {
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.redo = append(g.redo, last)
	g.tree.Back()

	s := Initial()
	for _, m := range g.history {
		Apply(s, m)
	}
	g.cur = s
}

func (g *Game) redoLocked() {
	next := g.redo[len(g.redo)-1]
	g.redo = g.redo[:len(g.redo)-1]
	Apply(g.cur, next)
	g.history = append(g.history, next)
	if !g.tree.Forward(next.Encode()) {
		g.tree.AddMove(next.Encode())
	}
}

// Tree exposes the variation tree for display and archiving.
func (g *Game) Tree() *record.Tree {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tree
}
