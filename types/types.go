// Package types contains shared data structures for laskan.
package types

import (
	"fmt"
	"strings"
)

// Color identifies a side. White moves up the board (toward rank 7).
type Color int

const (
	NoColor Color = iota
	White
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Kind identifies a piece kind. Soldier and Officer are the Lasca pieces;
// the chess kinds share the same vocabulary so move values and promotion
// letters work for either variant.
type Kind int

const (
	NoKind Kind = iota
	Soldier
	Officer
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Letter returns the lowercase notation letter for the kind.
func (k Kind) Letter() byte {
	switch k {
	case Soldier, Pawn:
		return 'p'
	case Officer:
		return 'o'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	}
	return '?'
}

// KindFromLetter is the inverse of Letter for the Lasca pieces plus the
// chess promotion letters. Returns NoKind for anything unrecognized.
func KindFromLetter(b byte) Kind {
	switch b {
	case 'p':
		return Soldier
	case 'o':
		return Officer
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	}
	return NoKind
}

// Piece is a colored piece of some kind.
type Piece struct {
	Color Color
	Kind  Kind
}

// Square is a board coordinate. File and Rank are 0-based; the printable
// form is file letter + rank number, a1 at bottom left.
type Square struct {
	File int
	Rank int
}

func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+rune(s.File), s.Rank+1)
}

// ParseSquare parses a square like "c3". Only files a-h and ranks 1-9 are
// accepted; board bounds are the caller's concern.
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", text)
	}
	file := int(text[0] - 'a')
	rank := int(text[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 8 {
		return Square{}, fmt.Errorf("invalid square %q", text)
	}
	return Square{File: file, Rank: rank}, nil
}

// Move is a single move by the side to move. Capture is nil for a quiet
// move; for jumps it is the piece lifted off the top of the jumped column.
type Move struct {
	From     Square
	To       Square
	Capture  *Piece
	Over     Square // square of the jumped column, meaningful when Capture != nil
	Promotes bool
}

// Encode renders the move in engine wire form: from square, to square,
// and the promotion piece letter when the move promotes.
func (m Move) Encode() string {
	var b strings.Builder
	b.WriteString(m.From.String())
	b.WriteString(m.To.String())
	if m.Promotes {
		b.WriteByte(Officer.Letter())
	}
	return b.String()
}

// ParseMove parses the engine wire form produced by Encode. Capture and
// Over are not recoverable from the wire form and are left zero; callers
// match the parsed move against the legal move list.
func ParseMove(text string) (Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q", text)
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q", text)
	}
	m := Move{From: from, To: to}
	if len(text) == 5 {
		if KindFromLetter(text[4]) == NoKind {
			return Move{}, fmt.Errorf("invalid promotion in move %q", text)
		}
		m.Promotes = true
	}
	return m, nil
}

// SameSquares reports whether two moves describe the same from/to pair.
// Used to match an engine reply against the legal move list.
func SameSquares(a, b Move) bool {
	return a.From == b.From && a.To == b.To
}
