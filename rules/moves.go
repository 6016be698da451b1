package rules

import (
	"fmt"

	"laskan/types"
)

// backRank returns the promotion rank for a color.
func backRank(c types.Color) int {
	if c == types.White {
		return Size - 1
	}
	return 0
}

// soldierDirs returns the forward diagonal rank step for a color.
func soldierDirs(c types.Color) int {
	if c == types.White {
		return 1
	}
	return -1
}

var diagonals = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

// LegalMoves generates the legal moves for the side to move. Captures are
// mandatory: when any capture exists only captures are returned, and during
// a multi-jump chain only further captures by the chained column.
func LegalMoves(s *State) []types.Move {
	if s.Over {
		return nil
	}
	if s.Chain != nil {
		return captureMovesFrom(s, *s.Chain)
	}

	var captures, quiets []types.Move
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			from := types.Square{File: file, Rank: rank}
			col := s.At(from)
			if len(col) == 0 || col.Top().Color != s.Side || !Playable(from) {
				continue
			}
			captures = append(captures, captureMovesFrom(s, from)...)
			if len(captures) == 0 {
				quiets = append(quiets, quietMovesFrom(s, from)...)
			}
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return quiets
}

// quietMovesFrom generates non-capturing moves for the column on from.
func quietMovesFrom(s *State, from types.Square) []types.Move {
	col := s.At(from)
	top := col.Top()
	var moves []types.Move
	for _, d := range diagonals {
		if top.Kind == types.Soldier && d[1] != soldierDirs(top.Color) {
			continue
		}
		to := types.Square{File: from.File + d[0], Rank: from.Rank + d[1]}
		if !Playable(to) || len(s.At(to)) != 0 {
			continue
		}
		m := types.Move{From: from, To: to}
		if top.Kind == types.Soldier && to.Rank == backRank(top.Color) {
			m.Promotes = true
		}
		moves = append(moves, m)
	}
	return moves
}

// captureMovesFrom generates jump captures for the column on from,
// excluding columns already jumped in the current chain.
func captureMovesFrom(s *State, from types.Square) []types.Move {
	col := s.At(from)
	if len(col) == 0 {
		return nil
	}
	top := col.Top()
	var moves []types.Move
	for _, d := range diagonals {
		if top.Kind == types.Soldier && d[1] != soldierDirs(top.Color) {
			continue
		}
		over := types.Square{File: from.File + d[0], Rank: from.Rank + d[1]}
		to := types.Square{File: from.File + 2*d[0], Rank: from.Rank + 2*d[1]}
		if !Playable(over) || !Playable(to) {
			continue
		}
		victim := s.At(over)
		if len(victim) == 0 || victim.Top().Color != top.Color.Opponent() {
			continue
		}
		if len(s.At(to)) != 0 {
			continue
		}
		if jumpedAlready(s, over) {
			continue
		}
		captured := victim.Top()
		m := types.Move{From: from, To: to, Capture: &captured, Over: over}
		if top.Kind == types.Soldier && to.Rank == backRank(top.Color) {
			m.Promotes = true
		}
		moves = append(moves, m)
	}
	return moves
}

func jumpedAlready(s *State, sq types.Square) bool {
	for _, j := range s.Jumped {
		if j == sq {
			return true
		}
	}
	return false
}

// Apply plays a legal move on the state. The move must come from
// LegalMoves; Apply validates only enough to fail loudly on a foreign move.
func Apply(s *State, m types.Move) error {
	col := s.At(m.From)
	if len(col) == 0 || col.Top().Color != s.Side {
		return fmt.Errorf("no %s column on %s", s.Side, m.From)
	}
	if len(s.At(m.To)) != 0 {
		return fmt.Errorf("destination %s occupied", m.To)
	}

	moved := append(Column(nil), col...)
	s.Board[m.From.Rank][m.From.File] = nil

	if m.Capture != nil {
		victim := s.Board[m.Over.Rank][m.Over.File]
		// The top of the jumped column goes to the bottom of the jumper.
		moved = append(moved, victim.Top())
		if rest := victim[1:]; len(rest) > 0 {
			s.Board[m.Over.Rank][m.Over.File] = rest
		} else {
			s.Board[m.Over.Rank][m.Over.File] = nil
		}
	}
	if m.Promotes {
		moved[0].Kind = types.Officer
	}
	s.Board[m.To.Rank][m.To.File] = moved
	s.Ply++

	if m.Capture != nil || m.Promotes {
		s.Quiet = 0
	} else {
		s.Quiet++
	}

	// A capture chain continues while the same column can jump again and
	// the move did not promote.
	if m.Capture != nil && !m.Promotes {
		s.Jumped = append(s.Jumped, m.Over)
		to := m.To
		s.Chain = &to
		if len(captureMovesFrom(s, to)) > 0 {
			return nil // same side stays to move
		}
	}
	s.Chain = nil
	s.Jumped = nil
	s.Side = s.Side.Opponent()

	updateOutcome(s)
	return nil
}

// updateOutcome marks the game over when the side to move has no moves
// (the opponent wins) or the quiet-move counter reaches the draw bound.
func updateOutcome(s *State) {
	if s.Quiet >= 30 {
		s.Over = true
		s.Winner = types.NoColor
		return
	}
	if len(LegalMoves(s)) == 0 {
		s.Over = true
		s.Winner = s.Side.Opponent()
	}
}
