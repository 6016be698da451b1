// Package rules implements the Lasca rules engine: board state, legal move
// generation, and the game object the rest of the application plays through.
package rules

import "laskan/types"

// Size is the board edge length. Lasca is played on the 25 dark squares of
// a 7x7 board.
const Size = 7

// Column is a stack of pieces on one square. Index 0 is the top piece; it
// commands the column and determines ownership and movement.
type Column []types.Piece

// Top returns the commanding piece of the column.
func (c Column) Top() types.Piece {
	return c[0]
}

// State is a full Lasca position. Board is indexed [rank][file] with rank 0
// at White's home edge.
type State struct {
	Board  [Size][Size]Column
	Side   types.Color
	Ply    int
	Quiet  int // plies since the last capture or promotion
	Over   bool
	Winner types.Color // NoColor means draw when Over

	// Chain is non-nil while a multi-jump is in progress: only further
	// captures by the column on that square are legal, and Jumped lists the
	// squares already jumped in the chain.
	Chain  *types.Square
	Jumped []types.Square
}

// Playable reports whether a square is one of the dark squares in use.
func Playable(sq types.Square) bool {
	if sq.File < 0 || sq.File >= Size || sq.Rank < 0 || sq.Rank >= Size {
		return false
	}
	return (sq.File+sq.Rank)%2 == 0
}

// At returns the column on the given square, nil when empty.
func (s *State) At(sq types.Square) Column {
	return s.Board[sq.Rank][sq.File]
}

// Initial returns the Lasca starting position: eleven White soldiers on
// ranks 1-3, eleven Black soldiers on ranks 5-7, White to move.
func Initial() *State {
	s := &State{Side: types.White}
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			sq := types.Square{File: file, Rank: rank}
			if !Playable(sq) {
				continue
			}
			switch {
			case rank <= 2:
				s.Board[rank][file] = Column{{Color: types.White, Kind: types.Soldier}}
			case rank >= 4:
				s.Board[rank][file] = Column{{Color: types.Black, Kind: types.Soldier}}
			}
		}
	}
	return s
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			if col := s.Board[rank][file]; col != nil {
				c.Board[rank][file] = append(Column(nil), col...)
			}
		}
	}
	if s.Chain != nil {
		chain := *s.Chain
		c.Chain = &chain
	}
	c.Jumped = append([]types.Square(nil), s.Jumped...)
	return &c
}

// CountColumns returns the number of columns commanded by each side.
func (s *State) CountColumns() (white, black int) {
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			col := s.Board[rank][file]
			if len(col) == 0 {
				continue
			}
			if col.Top().Color == types.White {
				white++
			} else {
				black++
			}
		}
	}
	return white, black
}
