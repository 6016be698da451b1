package rules

import (
	"testing"

	"laskan/types"
)

func sq(file, rank int) types.Square {
	return types.Square{File: file, Rank: rank}
}

func soldier(c types.Color) types.Piece {
	return types.Piece{Color: c, Kind: types.Soldier}
}

func officer(c types.Color) types.Piece {
	return types.Piece{Color: c, Kind: types.Officer}
}

// emptyState returns a board with no pieces and White to move.
func emptyState() *State {
	return &State{Side: types.White}
}

func put(s *State, square types.Square, pieces ...types.Piece) {
	s.Board[square.Rank][square.File] = Column(pieces)
}

func TestInitialSetup(t *testing.T) {
	s := Initial()
	white, black := s.CountColumns()
	if white != 11 || black != 11 {
		t.Fatalf("expected 11 columns each, got white=%d black=%d", white, black)
	}
	if s.Side != types.White {
		t.Fatal("White moves first")
	}
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			col := s.At(sq(file, rank))
			if len(col) > 0 && !Playable(sq(file, rank)) {
				t.Fatalf("piece on unplayable square %s", sq(file, rank))
			}
		}
	}
}

func TestOpeningMoves(t *testing.T) {
	s := Initial()
	moves := LegalMoves(s)
	if len(moves) != 6 {
		t.Fatalf("expected 6 opening moves, got %d", len(moves))
	}
	for _, m := range moves {
		if m.Capture != nil {
			t.Fatalf("opening move %s should not capture", m.Encode())
		}
		if m.To.Rank != 3 {
			t.Fatalf("opening move %s should land on rank 4", m.Encode())
		}
	}
}

func TestSoldierMovesForwardOnly(t *testing.T) {
	s := emptyState()
	put(s, sq(2, 2), soldier(types.White))
	for _, m := range LegalMoves(s) {
		if m.To.Rank <= m.From.Rank {
			t.Fatalf("white soldier moved backward: %s", m.Encode())
		}
	}

	s = emptyState()
	s.Side = types.Black
	put(s, sq(2, 4), soldier(types.Black))
	for _, m := range LegalMoves(s) {
		if m.To.Rank >= m.From.Rank {
			t.Fatalf("black soldier moved backward: %s", m.Encode())
		}
	}
}

func TestOfficerMovesAllDiagonals(t *testing.T) {
	s := emptyState()
	put(s, sq(2, 2), officer(types.White))
	moves := LegalMoves(s)
	if len(moves) != 4 {
		t.Fatalf("expected 4 officer moves, got %d", len(moves))
	}
}

func TestCapturesAreMandatory(t *testing.T) {
	s := emptyState()
	put(s, sq(0, 0), soldier(types.White))
	put(s, sq(4, 2), soldier(types.White)) // has quiet moves
	put(s, sq(1, 1), soldier(types.Black)) // a1 must jump it

	moves := LegalMoves(s)
	if len(moves) != 1 {
		t.Fatalf("expected exactly the capture, got %d moves", len(moves))
	}
	m := moves[0]
	if m.Capture == nil || m.From != sq(0, 0) || m.To != sq(2, 2) {
		t.Fatalf("unexpected move %s", m.Encode())
	}
}

func TestCaptureMovesVictimToBottom(t *testing.T) {
	s := emptyState()
	put(s, sq(0, 0), soldier(types.White))
	put(s, sq(1, 1), soldier(types.Black), soldier(types.White))

	moves := LegalMoves(s)
	if len(moves) != 1 {
		t.Fatalf("expected 1 capture, got %d", len(moves))
	}
	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}

	jumper := s.At(sq(2, 2))
	if len(jumper) != 2 {
		t.Fatalf("jumper column should have 2 pieces, got %d", len(jumper))
	}
	if jumper[0] != soldier(types.White) {
		t.Fatal("commander should stay on top")
	}
	if jumper[1] != soldier(types.Black) {
		t.Fatal("captured piece should sit at the bottom")
	}

	// The jumped column keeps its remaining pieces.
	rest := s.At(sq(1, 1))
	if len(rest) != 1 || rest[0] != soldier(types.White) {
		t.Fatalf("jumped column should release only its top, got %v", rest)
	}
}

func TestMultiJumpChain(t *testing.T) {
	s := emptyState()
	put(s, sq(0, 0), soldier(types.White))
	put(s, sq(1, 1), soldier(types.Black))
	put(s, sq(3, 3), soldier(types.Black))

	moves := LegalMoves(s)
	if len(moves) != 1 {
		t.Fatalf("expected 1 capture, got %d", len(moves))
	}
	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}

	// Same side stays to move, restricted to the chained column.
	if s.Side != types.White {
		t.Fatal("side should not flip during a chain")
	}
	if s.Chain == nil || *s.Chain != sq(2, 2) {
		t.Fatalf("chain should continue from c3, got %v", s.Chain)
	}
	moves = LegalMoves(s)
	if len(moves) != 1 || moves[0].From != sq(2, 2) || moves[0].Capture == nil {
		t.Fatalf("chain should offer only the second jump, got %v", moves)
	}

	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}
	if s.Side != types.Black {
		t.Fatal("side should flip when the chain ends")
	}
	if s.Chain != nil || s.Jumped != nil {
		t.Fatal("chain bookkeeping should be cleared")
	}
	if len(s.At(sq(4, 4))) != 3 {
		t.Fatalf("jumper should carry both prisoners, got %d pieces", len(s.At(sq(4, 4))))
	}
}

func TestChainCannotRejumpSameColumn(t *testing.T) {
	s := emptyState()
	chain := sq(2, 2)
	s.Chain = &chain
	s.Jumped = []types.Square{sq(1, 1)}
	put(s, chain, officer(types.White))
	put(s, sq(1, 1), soldier(types.Black))

	if moves := captureMovesFrom(s, chain); len(moves) != 0 {
		t.Fatalf("already-jumped column must not be jumped again, got %v", moves)
	}
}

func TestPromotionOnBackRank(t *testing.T) {
	s := emptyState()
	put(s, sq(1, 5), soldier(types.White))

	moves := LegalMoves(s)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	for _, m := range moves {
		if !m.Promotes {
			t.Fatalf("move %s to the back rank should promote", m.Encode())
		}
	}

	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}
	if s.At(moves[0].To).Top().Kind != types.Officer {
		t.Fatal("promoted commander should be an officer")
	}
	if s.Quiet != 0 {
		t.Fatal("promotion should reset the quiet counter")
	}
}

func TestPromotionEndsChain(t *testing.T) {
	s := emptyState()
	put(s, sq(2, 4), soldier(types.White))
	put(s, sq(3, 5), soldier(types.Black))
	put(s, sq(5, 5), soldier(types.Black)) // reachable only if the chain went on

	moves := LegalMoves(s)
	if len(moves) != 1 || !moves[0].Promotes {
		t.Fatalf("expected the promoting capture, got %v", moves)
	}
	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}
	if s.Side != types.Black {
		t.Fatal("promotion must end the capture chain")
	}
	if s.Chain != nil {
		t.Fatal("chain should be cleared after promotion")
	}
}

func TestQuietMoveDraw(t *testing.T) {
	s := emptyState()
	put(s, sq(2, 2), officer(types.White))
	put(s, sq(6, 6), officer(types.Black))
	s.Quiet = 29

	moves := LegalMoves(s)
	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}
	if !s.Over {
		t.Fatal("30 quiet plies should end the game")
	}
	if s.Winner != types.NoColor {
		t.Fatalf("expected a draw, got winner %s", s.Winner)
	}
}

func TestNoMovesLoses(t *testing.T) {
	s := emptyState()
	put(s, sq(4, 2), officer(types.White))
	put(s, sq(0, 0), soldier(types.Black)) // black soldier stuck on its back rank

	moves := LegalMoves(s)
	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}
	if !s.Over {
		t.Fatal("blocked side should lose immediately")
	}
	if s.Winner != types.White {
		t.Fatalf("expected White to win, got %s", s.Winner)
	}
}

func TestCaptureResetsQuietCounter(t *testing.T) {
	s := emptyState()
	put(s, sq(0, 0), soldier(types.White))
	put(s, sq(1, 1), soldier(types.Black))
	put(s, sq(5, 5), soldier(types.Black))
	s.Quiet = 12

	moves := LegalMoves(s)
	if err := Apply(s, moves[0]); err != nil {
		t.Fatal(err)
	}
	if s.Quiet != 0 {
		t.Fatalf("capture should reset the quiet counter, got %d", s.Quiet)
	}
}
