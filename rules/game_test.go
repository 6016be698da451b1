package rules

import (
	"testing"

	"laskan/types"
)

func mustPlay(t *testing.T, g *Game, encoded string) {
	t.Helper()
	m, err := types.ParseMove(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Play(m); err != nil {
		t.Fatalf("play %s: %v", encoded, err)
	}
}

func drainEvents(g *Game) []Reason {
	var reasons []Reason
	for {
		select {
		case ev := <-g.Events():
			reasons = append(reasons, ev.Reason)
		default:
			return reasons
		}
	}
}

func TestPlayLegalMove(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	if g.PlyCount() != 1 {
		t.Fatalf("expected 1 ply, got %d", g.PlyCount())
	}
	if g.SideToMove() != types.Black {
		t.Fatal("Black to move after White's move")
	}
	reasons := drainEvents(g)
	if len(reasons) != 1 || reasons[0] != ReasonMove {
		t.Fatalf("expected one move event, got %v", reasons)
	}
}

func TestPlayIllegalMove(t *testing.T) {
	g := NewGame()
	m, _ := types.ParseMove("a1a2")
	if err := g.Play(m); err == nil {
		t.Fatal("illegal move should be rejected")
	}
	if g.PlyCount() != 0 {
		t.Fatal("illegal move must not change state")
	}
	if reasons := drainEvents(g); len(reasons) != 0 {
		t.Fatalf("illegal move must not emit events, got %v", reasons)
	}
}

func TestPlayMatchesWireMove(t *testing.T) {
	// A parsed wire move carries no Capture/Over details; Play must fill
	// them in from the legal list.
	g := NewGame()
	mustPlay(t, g, "a3b4")
	drainEvents(g)

	mustPlay(t, g, "c5a3") // black must jump the advanced column
	state := g.State()
	if len(state.At(types.Square{File: 0, Rank: 2})) != 2 {
		t.Fatal("wire-parsed capture should take the prisoner")
	}
}

func TestUndoRedo(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	mustPlay(t, g, "c5a3")
	drainEvents(g)

	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	if g.PlyCount() != 1 {
		t.Fatalf("expected 1 ply after undo, got %d", g.PlyCount())
	}
	if g.SideToMove() != types.Black {
		t.Fatal("Black to move after undoing its reply")
	}

	if err := g.Redo(); err != nil {
		t.Fatal(err)
	}
	if g.PlyCount() != 2 {
		t.Fatalf("expected 2 plies after redo, got %d", g.PlyCount())
	}

	reasons := drainEvents(g)
	if len(reasons) != 2 || reasons[0] != ReasonUndo || reasons[1] != ReasonRedo {
		t.Fatalf("expected undo then redo events, got %v", reasons)
	}
}

func TestUndoNothing(t *testing.T) {
	g := NewGame()
	if err := g.Undo(); err == nil {
		t.Fatal("undo with no history should fail")
	}
	if err := g.Redo(); err == nil {
		t.Fatal("redo with no future should fail")
	}
}

func TestPlayClearsRedo(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	mustPlay(t, g, "c3b4")
	if err := g.Redo(); err == nil {
		t.Fatal("a new move should clear the redo stack")
	}
}

func TestJumpTo(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	mustPlay(t, g, "c5a3") // mandatory capture
	mustPlay(t, g, "e3d4")
	drainEvents(g)

	if err := g.JumpTo(1); err != nil {
		t.Fatal(err)
	}
	if g.PlyCount() != 1 {
		t.Fatalf("expected ply 1, got %d", g.PlyCount())
	}
	if err := g.JumpTo(3); err != nil {
		t.Fatal(err)
	}
	if g.PlyCount() != 3 {
		t.Fatalf("expected ply 3, got %d", g.PlyCount())
	}
	if err := g.JumpTo(4); err == nil {
		t.Fatal("jump past the end should fail")
	}
	reasons := drainEvents(g)
	if len(reasons) != 2 || reasons[0] != ReasonJump || reasons[1] != ReasonJump {
		t.Fatalf("expected two jump events, got %v", reasons)
	}
}

func TestVariationBranching(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	mustPlay(t, g, "c3b4")

	tree := g.Tree()
	if tree.NumVariations() != 2 {
		t.Fatalf("expected 2 variations, got %d", tree.NumVariations())
	}
	if tree.VariationIndex() != 1 {
		t.Fatalf("expected the second variation, got %d", tree.VariationIndex())
	}
}

func TestResetEmitsNewGame(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	drainEvents(g)

	g.Reset()
	if g.PlyCount() != 0 {
		t.Fatal("reset should clear the history")
	}
	reasons := drainEvents(g)
	if len(reasons) != 1 || reasons[0] != ReasonNewGame {
		t.Fatalf("expected a new-game event, got %v", reasons)
	}
}

func TestMovesEncoding(t *testing.T) {
	g := NewGame()
	mustPlay(t, g, "a3b4")
	mustPlay(t, g, "c5a3")
	moves := g.Moves()
	if len(moves) != 2 || moves[0] != "a3b4" || moves[1] != "c5a3" {
		t.Fatalf("unexpected move encoding: %v", moves)
	}
}

func TestLastMove(t *testing.T) {
	g := NewGame()
	if _, ok := g.LastMove(); ok {
		t.Fatal("a fresh game has no last move")
	}
	mustPlay(t, g, "a3b4")
	mustPlay(t, g, "c5a3")
	last, ok := g.LastMove()
	if !ok || last.Encode() != "c5a3" {
		t.Fatalf("got %v %v", last, ok)
	}
}
